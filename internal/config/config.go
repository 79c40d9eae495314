// Package config loads runtime settings for the image intake server.
//
// Settings come from environment variables prefixed with IMAGE_INTAKE_, for
// example IMAGE_INTAKE_LOG_LEVEL=debug. Every key has a default, so an empty
// environment yields a usable configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended (with an underscore) to every environment key.
const EnvPrefix = "IMAGE_INTAKE"

// Default display bounds for a selected image, in display pixels.
const (
	DefaultDisplayMaxWidth  = 400
	DefaultDisplayMaxHeight = 500
)

// Config holds all configuration for the server.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// MaxFileSize caps how many bytes the content loader reads. Zero means no cap.
	MaxFileSize int64 `mapstructure:"MAX_FILE_SIZE"`

	// LoadTimeout and DecodeTimeout bound each asynchronous stage.
	// Zero means wait indefinitely.
	LoadTimeout   time.Duration `mapstructure:"LOAD_TIMEOUT"`
	DecodeTimeout time.Duration `mapstructure:"DECODE_TIMEOUT"`

	Display DisplayConfig `mapstructure:",squash"`
}

// DisplayConfig bounds the rendition returned for a selected image.
type DisplayConfig struct {
	MaxWidth  int `mapstructure:"DISPLAY_MAX_WIDTH"`
	MaxHeight int `mapstructure:"DISPLAY_MAX_HEIGHT"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_FILE_SIZE", 0)
	v.SetDefault("LOAD_TIMEOUT", "0s")
	v.SetDefault("DECODE_TIMEOUT", "0s")
	v.SetDefault("DISPLAY_MAX_WIDTH", DefaultDisplayMaxWidth)
	v.SetDefault("DISPLAY_MAX_HEIGHT", DefaultDisplayMaxHeight)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Display: DisplayConfig{
			MaxWidth:  DefaultDisplayMaxWidth,
			MaxHeight: DefaultDisplayMaxHeight,
		},
	}
}

// Validate rejects settings the pipeline cannot honor.
func (c *Config) Validate() error {
	if c.MaxFileSize < 0 {
		return fmt.Errorf("invalid MAX_FILE_SIZE %d: must be >= 0", c.MaxFileSize)
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("invalid LOAD_TIMEOUT %s: must be >= 0", c.LoadTimeout)
	}
	if c.DecodeTimeout < 0 {
		return fmt.Errorf("invalid DECODE_TIMEOUT %s: must be >= 0", c.DecodeTimeout)
	}
	if c.Display.MaxWidth <= 0 || c.Display.MaxHeight <= 0 {
		return fmt.Errorf("invalid display bounds %dx%d: must be positive",
			c.Display.MaxWidth, c.Display.MaxHeight)
	}
	return nil
}
