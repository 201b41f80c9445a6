package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conneroisu/istring/internal/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "div", cfg.Render.Element)
	assert.Equal(t, "html", cfg.Render.Format)
	assert.Equal(t, "localhost:7777", cfg.PreviewAddr())
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadGlobal(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("render.element", "span")
	viper.Set("log-level", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "span", cfg.Render.Element)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".istring.yml")
	content := `render:
  element: button
  format: json
preview:
  host: 127.0.0.1
  port: 9000
watch:
  debounce: 250ms
log:
  level: warn
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "button", cfg.Render.Element)
	assert.Equal(t, "json", cfg.Render.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.PreviewAddr())
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, LogConfig{Level: "warn", Format: "json"}, cfg.Log)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ISTRING_RENDER_ELEMENT", "section")

	v := viper.New()
	ConfigureEnv(v)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "section", cfg.Render.Element)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid element", func(c *Config) { c.Render.Element = "not valid" }},
		{"unknown format", func(c *Config) { c.Render.Format = "xml" }},
		{"port out of range", func(c *Config) { c.Preview.Port = 70000 }},
		{"dangerous host", func(c *Config) { c.Preview.Host = "localhost;rm" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(viper.New())
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := viper.New()
	v.Set("preview.port", "not-a-port")

	_, err := LoadFrom(v)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
