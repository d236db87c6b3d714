// Package config loads application settings from defaults, an optional YAML
// file, KNOLDECK_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "KNOLDECK_"

// Config holds all application configuration.
type Config struct {
	DBPath       string  `koanf:"db" validate:"required"`
	Addr         string  `koanf:"addr" validate:"required,hostname_port"`
	LogLevel     string  `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string  `koanf:"log_format" validate:"oneof=text json"`
	ReposDir     string  `koanf:"repos_dir" validate:"required"`
	MaxEase      float64 `koanf:"max_ease" validate:"gte=1.3,lte=3"`
	Shuffle      bool    `koanf:"shuffle"`
	SessionLimit int     `koanf:"session_limit" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:       "knoldeck.db",
		Addr:         "127.0.0.1:8080",
		LogLevel:     "info",
		LogFormat:    "text",
		ReposDir:     "repos",
		MaxEase:      3.0,
		Shuffle:      false,
		SessionLimit: 0,
	}
}

// RegisterFlags adds the configuration flags to fs, with the defaults as
// their default values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Path to a YAML configuration file")
	fs.String("db", d.DBPath, "Path to the SQLite database file")
	fs.String("addr", d.Addr, "Address the HTTP server listens on")
	fs.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "Log format: text or json")
	fs.String("repos-dir", d.ReposDir, "Directory git deck sources are cloned into")
	fs.Float64("max-ease", d.MaxEase, "Upper bound of the easiness factor (2.5 or 3.0)")
	fs.Bool("shuffle", d.Shuffle, "Interleave cards from several decks randomly")
	fs.Int("session-limit", d.SessionLimit, "Maximum cards per study session, 0 for no limit")
}

// Load builds the configuration. fs may be nil, in which case flags are not
// consulted and the config file is not read.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if fs != nil {
		path, err := fs.GetString("config")
		if err == nil && path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if fs != nil {
		// Unchanged flags only fill keys no other source has set.
		if err := k.Load(posflag.ProviderWithValue(fs, ".", k, func(key, value string) (string, interface{}) {
			return strings.ReplaceAll(key, "-", "_"), value
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnsureDataDirs creates the directories the configuration points at.
func (c *Config) EnsureDataDirs() error {
	if err := os.MkdirAll(c.ReposDir, 0o755); err != nil {
		return fmt.Errorf("failed to create repos directory %s: %w", c.ReposDir, err)
	}
	return nil
}
