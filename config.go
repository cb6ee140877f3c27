package rotolog

import (
	"fmt"
	"math"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config defines the logger configuration parameters.
type Config struct {
	Level       string `koanf:"level" json:"level"`             // spam, debug, verbose, info, warning, error
	Colors      bool   `koanf:"colors" json:"colors"`           // ANSI colors on the console, honored only on a terminal
	Timestamps  bool   `koanf:"timestamps" json:"timestamps"`   // Timestamp prefix on console lines
	Console     bool   `koanf:"console" json:"console"`         // Enable the console sink
	Filename    string `koanf:"filename" json:"filename"`       // Log file path; empty disables file output
	MaxFileSize int64  `koanf:"maxFileSize" json:"maxFileSize"` // Rotation threshold in bytes; 0 disables rotation
	MaxFiles    int64  `koanf:"maxFiles" json:"maxFiles"`       // Archives retained after pruning
}

// DefaultConfig returns the configuration used for options left unset.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Colors:      false,
		Timestamps:  true,
		Console:     true,
		Filename:    "",
		MaxFileSize: 10 * 1024 * 1024,
		MaxFiles:    5,
	}
}

// Validate checks the configuration and returns the parsed level threshold.
func (c Config) Validate() (Level, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return 0, err
	}
	if c.MaxFileSize < 0 {
		return 0, fmt.Errorf("%w: maxFileSize must not be negative, got %d", ErrInvalidConfiguration, c.MaxFileSize)
	}
	if c.MaxFiles < 0 {
		return 0, fmt.Errorf("%w: maxFiles must not be negative, got %d", ErrInvalidConfiguration, c.MaxFiles)
	}
	return level, nil
}

// ParseConfig builds a Config from serialized option data, overlaying the
// recognized options onto DefaultConfig. Supported formats are "json" and
// "yaml". Unknown level names and malformed values fail fast with
// ErrInvalidConfiguration.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch format {
	case "json":
		parser = kjson.Parser()
	case "yaml", "yml":
		parser = kyaml.Parser()
	default:
		return cfg, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfiguration, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if err := configString(k, "level", &cfg.Level); err != nil {
		return cfg, err
	}
	if err := configBool(k, "colors", &cfg.Colors); err != nil {
		return cfg, err
	}
	if err := configBool(k, "timestamps", &cfg.Timestamps); err != nil {
		return cfg, err
	}
	if err := configBool(k, "console", &cfg.Console); err != nil {
		return cfg, err
	}
	if err := configString(k, "filename", &cfg.Filename); err != nil {
		return cfg, err
	}
	if err := configInt64(k, "maxFileSize", &cfg.MaxFileSize); err != nil {
		return cfg, err
	}
	if err := configInt64(k, "maxFiles", &cfg.MaxFiles); err != nil {
		return cfg, err
	}

	if _, err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configString copies a string option into dst if the key is present.
func configString(k *koanf.Koanf, key string, dst *string) error {
	if !k.Exists(key) {
		return nil
	}
	v, ok := k.Get(key).(string)
	if !ok {
		return fmt.Errorf("%w: option %q must be a string", ErrInvalidConfiguration, key)
	}
	*dst = v
	return nil
}

// configBool copies a boolean option into dst if the key is present.
func configBool(k *koanf.Koanf, key string, dst *bool) error {
	if !k.Exists(key) {
		return nil
	}
	v, ok := k.Get(key).(bool)
	if !ok {
		return fmt.Errorf("%w: option %q must be a boolean", ErrInvalidConfiguration, key)
	}
	*dst = v
	return nil
}

// configInt64 copies an integer option into dst if the key is present.
// JSON decodes numbers as float64, so integral floats are accepted.
func configInt64(k *koanf.Koanf, key string, dst *int64) error {
	if !k.Exists(key) {
		return nil
	}
	switch v := k.Get(key).(type) {
	case int:
		*dst = int64(v)
	case int64:
		*dst = v
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: option %q must be an integer", ErrInvalidConfiguration, key)
		}
		*dst = int64(v)
	default:
		return fmt.Errorf("%w: option %q must be an integer", ErrInvalidConfiguration, key)
	}
	return nil
}
