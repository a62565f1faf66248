// internal/config/config.go
// Package config loads and saves the mhue bridge credentials.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName    = "mhue"
	ConfigType = "json"
)

// ErrNoConfig indicates the config file was not found; running --setup
// creates one.
var ErrNoConfig = errors.New("no configuration file found, run --setup first")

// Settings holds the bridge connection credentials. The on-disk form
// is the JSON file mhue has always used:
//
//	{"ip_address": "192.168.1.2", "username": "..."}
type Settings struct {
	IPAddress string `mapstructure:"ip_address" json:"ip_address"`
	Username  string `mapstructure:"username" json:"username"`
}

// DefaultPath returns where the config file lives by default:
// $XDG_CONFIG_HOME/mhue.json, falling back to ~/.mhue.json, falling
// back to ./.mhue.json.
func DefaultPath() string {
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		return filepath.Join(c, AppName+".json")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, "."+AppName+".json")
	}
	return "." + AppName + ".json"
}

// Init points viper at the config file. An empty path means the
// default location.
func Init(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	viper.SetConfigType(ConfigType)
	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w (looked at %s)", ErrNoConfig, path)
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w (looked at %s)", ErrNoConfig, path)
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Get returns the loaded settings.
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that the settings are usable
func (s *Settings) Validate() error {
	var errs []error

	if s.IPAddress == "" {
		errs = append(errs, fmt.Errorf("ip_address must not be empty"))
	}
	if s.Username == "" {
		errs = append(errs, fmt.Errorf("username must not be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Save writes the settings as indented JSON to path, creating parent
// directories as needed. Used by setup after a successful handshake.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	buf, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
