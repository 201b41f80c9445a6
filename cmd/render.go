package cmd

import (
	"fmt"
	"io"

	"github.com/conneroisu/istring/internal/config"
	"github.com/conneroisu/istring/internal/logging"
	"github.com/conneroisu/istring/internal/props"
	"github.com/conneroisu/istring/pkg/rc"
	"github.com/spf13/cobra"
)

var renderOpts renderFlags

var renderCmd = &cobra.Command{
	Use:     "render <document>",
	Aliases: []string{"r"},
	Short:   "Render an attribute document",
	Long: `Render a YAML attribute document and print the result.

The document names an element and an ordered list of attributes:

  element: button
  attributes:
    - name: class
      value: btn primary
      static: true
    - name: title
      value: Save

Examples:
  istring render button.yml                 # Print <button ...></button>
  istring render button.yml --format json   # Print the attributes as JSON
  istring render card.yml --element section # Element for documents without one`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFlags,
	RunE:    runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addRenderFlags(renderCmd.Flags(), &renderOpts)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	pipeline := props.NewPipeline(pipelineOptions(cfg, logger))
	defer pipeline.Close(cmd.Context())

	doc, err := props.Load(args[0])
	if err != nil {
		return err
	}
	defer doc.Release()

	res, err := pipeline.Update(cmd.Context(), doc)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Output)
	if renderOpts.Stats {
		printStats(cmd.ErrOrStderr(), res.Stats)
	}
	return nil
}

func pipelineOptions(cfg *config.Config, logger logging.Logger) props.Options {
	return props.Options{
		Element: cfg.Render.Element,
		Format:  cfg.Render.Format,
		Pool:    rc.Default,
		Logger:  logger,
	}
}

func printStats(w io.Writer, s rc.Stats) {
	fmt.Fprintf(w, "buffers: allocated=%d freed=%d live=%d\n", s.Allocated, s.Freed, s.Live)
}
