// Package config loads flashdeck settings from a YAML file, FLASHDECK_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables before they are mapped
// to keys: FLASHDECK_LOG_LEVEL sets "log-level".
const EnvPrefix = "FLASHDECK_"

// Config holds all settings. Keys double as flag names.
type Config struct {
	DB        string `koanf:"db" validate:"required"`
	Repos     string `koanf:"repos" validate:"required"`
	Deck      string `koanf:"deck" validate:"omitempty,file"`
	Squares   []int  `koanf:"squares"`
	Tag       string `koanf:"tag"`
	Addr      string `koanf:"addr" validate:"required,hostname_port"`
	LogLevel  string `koanf:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log-format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DB:        "flashdeck.db",
		Repos:     "repos",
		Addr:      "localhost:8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load layers, lowest precedence first: Default(), the YAML file at path
// (skipped when path is empty), the environment, then flags. Flags left at
// their default only fill keys nothing else has set.
func Load(flags *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
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

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// envKey maps FLASHDECK_LOG_LEVEL=debug to log-level=debug. List values
// are comma-separated.
func envKey(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "squares" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}
