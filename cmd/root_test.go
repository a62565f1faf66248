package cmd

import (
	"bytes"
	"testing"

	"github.com/ginger51011/mhue/internal/hue"
)

func TestRootCmd_HasExpectedFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"setup", "s"},
		{"output", "o"},
		{"config", "c"},
		{"text", "t"},
		{"id", "d"},
		{"list", "l"},
		{"repeat", "r"},
		{"wpm", "w"},
		{"brightness", "b"},
		{"audio", "a"},
		{"frequency", "f"},
		{"debug", "D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			if flag == nil {
				t.Errorf("flag %q not found", tt.name)
				return
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
			}
		})
	}
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name         string
		defaultValue string
	}{
		{"id", "-1"},
		{"repeat", "1"},
		{"wpm", "20"},
		{"brightness", "-1"},
		{"hue", "-1"},
		{"saturation", "-1"},
		{"ct", "-1"},
		{"frequency", "600"},
		{"debug", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.name)
			}
			if flag.DefValue != tt.defaultValue {
				t.Errorf("flag %q default = %q, want %q", tt.name, flag.DefValue, tt.defaultValue)
			}
		})
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() with --help error = %v", err)
	}

	output := buf.String()
	if !bytes.Contains([]byte(output), []byte("mhue")) {
		t.Errorf("help output should contain 'mhue'")
	}
	if !bytes.Contains([]byte(output), []byte("--text")) {
		t.Errorf("help output should contain '--text'")
	}
}

func TestParseXY(t *testing.T) {
	tests := []struct {
		in      string
		x, y    float64
		wantErr bool
	}{
		{"0.4,0.4", 0.4, 0.4, false},
		{"0.1, 0.9", 0.1, 0.9, false},
		{"0.4", 0, 0, true},
		{"a,b", 0, 0, true},
		{"0.1,0.2,0.3", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parseXY(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseXY(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && (x != tt.x || y != tt.y) {
				t.Errorf("parseXY(%q) = %v,%v, want %v,%v", tt.in, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestOverrideState(t *testing.T) {
	baseline := hue.NewState(true, 100, 300)

	t.Run("no flags set", func(t *testing.T) {
		resetOverrideFlags()
		_, set, err := overrideState(baseline)
		if err != nil {
			t.Fatalf("overrideState() error = %v", err)
		}
		if set {
			t.Error("no override expected when no flags are set")
		}
	})

	t.Run("brightness and hue", func(t *testing.T) {
		resetOverrideFlags()
		flagBrightness = 999 // clamped
		flagHue = 5000

		st, set, err := overrideState(baseline)
		if err != nil {
			t.Fatalf("overrideState() error = %v", err)
		}
		if !set {
			t.Fatal("override expected")
		}
		if st.On {
			t.Error("override state must start with the lamp off")
		}
		if st.Bri != 254 {
			t.Errorf("Bri = %d, want 254 (clamped)", st.Bri)
		}
		if st.Hue == nil || *st.Hue != 5000 {
			t.Errorf("Hue = %v, want 5000", st.Hue)
		}
		if st.CT != baseline.CT {
			t.Errorf("CT = %d, should keep the baseline value %d", st.CT, baseline.CT)
		}
	})

	t.Run("xy", func(t *testing.T) {
		resetOverrideFlags()
		flagXY = "0.3,0.6"

		st, set, err := overrideState(baseline)
		if err != nil {
			t.Fatalf("overrideState() error = %v", err)
		}
		if !set || st.XY == nil || *st.XY != [2]float64{0.3, 0.6} {
			t.Errorf("XY = %v, want [0.3 0.6]", st.XY)
		}
	})

	t.Run("bad xy", func(t *testing.T) {
		resetOverrideFlags()
		flagXY = "oops"

		if _, _, err := overrideState(baseline); err == nil {
			t.Error("overrideState() should reject a malformed --xy")
		}
	})
}

func resetOverrideFlags() {
	flagBrightness = -1
	flagHue = -1
	flagSaturation = -1
	flagCT = -1
	flagXY = ""
}
