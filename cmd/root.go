// cmd/root.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginger51011/mhue/internal/audio"
	"github.com/ginger51011/mhue/internal/config"
	"github.com/ginger51011/mhue/internal/hue"
	"github.com/ginger51011/mhue/internal/morse"
	"github.com/ginger51011/mhue/internal/player"
)

const bridgeTimeout = 10 * time.Second

var (
	flagSetup      string
	flagOutput     string
	flagConfig     string
	flagText       string
	flagID         int
	flagList       bool
	flagRepeat     int
	flagWPM        int
	flagBrightness int
	flagHue        int
	flagSaturation int
	flagCT         int
	flagXY         string
	flagAudio      bool
	flagFrequency  float64
	flagDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "mhue",
	Short: "Sends Morse code messages using your Philips Hue lamps",
	Long: `mhue translates text into Morse code and blinks it on a Philips Hue
lamp, restoring whatever state the lamp was in afterwards. It can also
render the message as an audio sidetone instead of light.`,
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagSetup, "setup", "s", "", "pair with the Hue Bridge at the given IP and save a configuration (see --output)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "where to save the configuration file when used with --setup")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&flagText, "text", "t", "", "text to display")
	rootCmd.PersistentFlags().IntVarP(&flagID, "id", "d", -1, "lamp ID to display --text on")
	rootCmd.PersistentFlags().BoolVarP(&flagList, "list", "l", false, "list lamp IDs")
	rootCmd.PersistentFlags().IntVarP(&flagRepeat, "repeat", "r", 1, "repeat the message N times")
	rootCmd.PersistentFlags().IntVarP(&flagWPM, "wpm", "w", 20, "Morse speed in words per minute")
	rootCmd.PersistentFlags().IntVarP(&flagBrightness, "brightness", "b", -1, "brightness during playback (0-254)")
	rootCmd.PersistentFlags().IntVar(&flagHue, "hue", -1, "hue during playback (0-65535, color lamps only)")
	rootCmd.PersistentFlags().IntVar(&flagSaturation, "saturation", -1, "saturation during playback (0-254, color lamps only)")
	rootCmd.PersistentFlags().IntVar(&flagCT, "ct", -1, "color temperature during playback in mireds (154-500)")
	rootCmd.PersistentFlags().StringVar(&flagXY, "xy", "", "xy chromaticity during playback, e.g. 0.4,0.4")
	rootCmd.PersistentFlags().BoolVarP(&flagAudio, "audio", "a", false, "play the message as a sidetone instead of blinking a lamp")
	rootCmd.PersistentFlags().Float64VarP(&flagFrequency, "frequency", "f", 600, "sidetone frequency in Hz")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "D", false, "enable debug output")

	// Bind flags to viper
	viper.BindPFlag("wpm", rootCmd.PersistentFlags().Lookup("wpm"))
	viper.BindPFlag("frequency", rootCmd.PersistentFlags().Lookup("frequency"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func run(cmd *cobra.Command, _ []string) error {
	setupLogging(flagDebug)
	ctx := context.Background()

	if flagSetup != "" {
		return runSetup(ctx, flagSetup, flagOutput)
	}

	// Parameter validation happens before any remote call is made.
	speed, err := morse.NewSpeed(flagWPM)
	if err != nil {
		return err
	}
	if flagRepeat < 1 {
		return player.ErrInvalidRepeat
	}

	if flagAudio {
		if flagText == "" {
			return errors.New("--audio requires --text")
		}
		return runAudio(ctx, flagText, speed)
	}

	if err := config.Init(flagConfig); err != nil {
		return err
	}
	settings, err := config.Get()
	if err != nil {
		return err
	}
	client := hue.NewClient(settings.IPAddress, settings.Username, bridgeTimeout)

	if flagList {
		return runList(ctx, client, cmd.OutOrStdout())
	}

	if flagText == "" || flagID < 0 {
		return errors.New("nothing to do: provide --text and --id, or use --list / --setup")
	}
	return runPlay(ctx, client, flagText, speed)
}

// runSetup pairs with the bridge and writes the config file.
func runSetup(ctx context.Context, ip, output string) error {
	fmt.Print("Press the button on your Hue Bridge, then press Enter to continue... ")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	username, err := hue.Handshake(ctx, ip, bridgeTimeout)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if output == "" {
		output = config.DefaultPath()
	}
	settings := &config.Settings{IPAddress: ip, Username: username}
	if err := settings.Save(output); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	log.Info().Str("path", output).Msg("Configuration saved")
	return nil
}

func runList(ctx context.Context, client *hue.Client, out io.Writer) error {
	lamps, err := client.Lamps(ctx)
	if err != nil {
		return err
	}
	for _, lamp := range lamps {
		fmt.Fprintf(out, "%d: %s\n", lamp.ID, lamp.Name)
	}
	return nil
}

// runAudio renders the message through the default playback device.
// No bridge or config file is involved.
func runAudio(ctx context.Context, text string, speed morse.Speed) error {
	cfg := audio.DefaultConfig()
	cfg.Frequency = flagFrequency

	tone := audio.New(cfg)
	if err := tone.Init(); err != nil {
		return err
	}
	defer tone.Close()
	if err := tone.Start(); err != nil {
		return err
	}

	return player.New().Play(ctx, morse.Translate(text), speed, tone, flagRepeat)
}

// runPlay blinks the message on the configured lamp. The session is
// closed via defer so the lamp's prior state is restored on every exit
// path, including playback errors.
func runPlay(ctx context.Context, client *hue.Client, text string, speed morse.Speed) (err error) {
	session, err := hue.OpenSession(ctx, client, flagID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	override, hasOverride, err := overrideState(session.Baseline())
	if err != nil {
		return err
	}
	if hasOverride {
		if err := session.SetState(ctx, override); err != nil {
			return err
		}
	}

	return player.New().Play(ctx, morse.Translate(text), speed, session, flagRepeat)
}

// overrideState merges the visual override flags over the baseline.
// The result keeps the lamp off between pulses; clamping follows the
// same rules as any other state construction.
func overrideState(baseline hue.State) (hue.State, bool, error) {
	st := baseline.WithOn(false)
	set := false

	if flagBrightness >= 0 {
		st.Bri = flagBrightness
		set = true
	}
	if flagCT >= 0 {
		st.CT = flagCT
		set = true
	}
	if flagHue >= 0 {
		st = st.WithHue(flagHue)
		set = true
	}
	if flagSaturation >= 0 {
		st = st.WithSaturation(flagSaturation)
		set = true
	}
	if flagXY != "" {
		x, y, err := parseXY(flagXY)
		if err != nil {
			return hue.State{}, false, err
		}
		st = st.WithXY(x, y)
		set = true
	}

	return st.Clamped(), set, nil
}

// parseXY parses an "x,y" chromaticity pair.
func parseXY(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid --xy value %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --xy value %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --xy value %q: %w", s, err)
	}
	return x, y, nil
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
