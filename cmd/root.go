// Package cmd provides the command-line interface for istring.
//
// Configuration is read from, highest priority first:
//
//  1. Command-line flags (--config, --log-level, command flags)
//  2. ISTRING_<SECTION>_<OPTION> environment variables, e.g. ISTRING_RENDER_ELEMENT
//  3. The file named by --config or ISTRING_CONFIG_FILE
//  4. .istring.yml in the current directory
package cmd

import (
	"fmt"
	"os"

	"github.com/conneroisu/istring/internal/config"
	"github.com/conneroisu/istring/internal/logging"
	"github.com/conneroisu/istring/pkg/rc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "istring",
	Short: "Render attribute documents built from immutable shared strings",
	Long: `istring renders YAML attribute documents into HTML elements. Static
attributes are interned for the life of the process and shared attributes
are reference counted, so re-rendering an unchanged document copies no text.

Quick Start:
  istring render button.yml              Render a document as HTML
  istring render button.yml --format json  Render a document as JSON
  istring watch button.yml --serve       Re-render on save with a live preview
  istring version                        Show build information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .istring.yml, can also use ISTRING_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".istring")
	}

	config.ConfigureEnv(viper.GetViper())

	// A missing or unreadable file leaves the defaults in place.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the configuration, builds the logger writing to the command's
// error stream and installs a fresh rc.Default so buffer stats cover one run.
func setup(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}).WithComponent("cli")

	rc.Default = rc.NewPool()
	return cfg, logger, nil
}
