// Package config provides configuration management for the istring CLI
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration covers how attribute documents are rendered, the live
// preview server, the file watcher and logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/istring/internal/errors"
	"github.com/conneroisu/istring/pkg/attr"
	"github.com/spf13/viper"
)

type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Preview PreviewConfig `mapstructure:"preview"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Log     LogConfig     `mapstructure:"log"`
}

type RenderConfig struct {
	Element string `mapstructure:"element"`
	Format  string `mapstructure:"format"`
}

type PreviewConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnvPrefix is the prefix of environment variable overrides, e.g. ISTRING_RENDER_ELEMENT.
const EnvPrefix = "ISTRING"

// ConfigureEnv enables ISTRING_<SECTION>_<OPTION> environment overrides on v.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("render.element", "div")
	v.SetDefault("render.format", "html")
	v.SetDefault("preview.host", "localhost")
	v.SetDefault("preview.port", 7777)
	v.SetDefault("watch.debounce", 100*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.ErrCodeConfigInvalid, "cannot decode configuration")
	}

	// The log-level flag is bound at the top level.
	if v.IsSet("log-level") {
		config.Log.Level = v.GetString("log-level")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if !attr.ValidName(c.Render.Element) {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("render.element %q is not a valid element name", c.Render.Element))
	}

	switch c.Render.Format {
	case "html", "json":
	default:
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("render.format %q is not supported (supported: html, json)", c.Render.Format))
	}

	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("port %d is not in valid range 0-65535", c.Preview.Port))
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
	for _, char := range dangerousChars {
		if strings.Contains(c.Preview.Host, char) {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("host contains dangerous character: %q", char))
		}
	}

	if c.Watch.Debounce < 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, "watch.debounce must not be negative")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("log.format %q is not supported (supported: text, json)", c.Log.Format))
	}

	return nil
}

// PreviewAddr returns the listen address of the preview server.
func (c *Config) PreviewAddr() string {
	return fmt.Sprintf("%s:%d", c.Preview.Host, c.Preview.Port)
}
