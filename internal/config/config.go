package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/intentlang/internal/language"
	"github.com/ziadkadry99/intentlang/internal/logging"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "INTENTLANG_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INTENTLANG_*). A double underscore
// separates nested keys: INTENTLANG_SERVER__PORT sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps INTENTLANG_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Agent == "" {
		return fmt.Errorf("agent is required")
	}
	if c.LanguageDir == "" {
		return fmt.Errorf("language_dir is required")
	}
	for _, l := range c.Languages {
		if _, err := language.ParseCode(l); err != nil {
			return fmt.Errorf("invalid languages entry: %w", err)
		}
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LanguageCodes returns the configured language restriction. Validate must
// have succeeded.
func (c *Config) LanguageCodes() []language.Code {
	codes := make([]language.Code, 0, len(c.Languages))
	for _, l := range c.Languages {
		codes = append(codes, language.Code(l))
	}
	return codes
}
