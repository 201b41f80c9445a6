package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// renderFlags are shared by the commands that render documents. Each flag
// overrides one configuration key when it is set on the command line.
type renderFlags struct {
	Element string
	Format  string
	Stats   bool
}

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"element":  "render.element",
	"format":   "render.format",
	"host":     "preview.host",
	"port":     "preview.port",
	"debounce": "watch.debounce",
}

func addRenderFlags(fs *pflag.FlagSet, flags *renderFlags) {
	fs.StringVarP(&flags.Element, "element", "e", "div", "Element used when the document names none")
	fs.StringVarP(&flags.Format, "format", "f", "html", "Output format (html, json)")
	fs.BoolVar(&flags.Stats, "stats", false, "Print shared buffer statistics to stderr")
}

// bindFlags binds the command's flags that are in flagKeys to viper. It runs
// before each command so that commands sharing a flag name do not steal each
// other's binding.
func bindFlags(cmd *cobra.Command, _ []string) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := viper.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}
