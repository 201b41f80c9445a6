package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/istring/internal/errors"
	"github.com/conneroisu/istring/internal/preview"
	"github.com/conneroisu/istring/internal/props"
	"github.com/conneroisu/istring/internal/watcher"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	watchOpts     renderFlags
	watchServe    bool
	watchHost     string
	watchPort     int
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:     "watch <document>",
	Aliases: []string{"w"},
	Short:   "Re-render a document every time it changes",
	Long: `Watch an attribute document and re-render it on every save. Each render
reports the attributes that changed since the previous one; attributes whose
value did not change keep sharing the previous buffers.

Examples:
  istring watch button.yml                  # Print every render
  istring watch button.yml --serve          # Also serve a live preview
  istring watch button.yml --serve -p 8080  # Preview on another port`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFlags,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addRenderFlags(watchCmd.Flags(), &watchOpts)
	watchCmd.Flags().BoolVarP(&watchServe, "serve", "s", false, "Serve a live preview of the latest render")
	watchCmd.Flags().StringVar(&watchHost, "host", "localhost", "Preview host to bind to")
	watchCmd.Flags().IntVarP(&watchPort, "port", "p", 7777, "Preview port to serve on")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "Quiet period before re-rendering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := props.NewPipeline(pipelineOptions(cfg, logger))
	defer pipeline.Close(context.Background())

	g, ctx := errgroup.WithContext(ctx)

	var server *preview.Server
	if watchServe {
		server = preview.NewServer(logger)
		httpServer := &http.Server{
			Addr:              cfg.PreviewAddr(),
			Handler:           server,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, errors.ErrorTypeIO, errors.ErrCodeWatchFailed, "preview server failed").
					WithContext("addr", httpServer.Addr)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			server.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving preview at http://%s\n", cfg.PreviewAddr())
	}

	handler := errors.NewErrorHandler(logger)
	rerender := func() error {
		doc, err := props.Load(path)
		if err != nil {
			return err
		}
		defer doc.Release()

		res, err := pipeline.Update(ctx, doc)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		logger.Info(ctx, "Rendered document", "path", path, "changed", res.Changed)
		if watchOpts.Stats {
			printStats(cmd.ErrOrStderr(), res.Stats)
		}
		if server != nil {
			server.Publish(res.Output)
		}
		return nil
	}

	// A broken first version of the document is reported and then waited out.
	handler.Handle(ctx, rerender())

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, errors.ErrCodeWatchFailed, "cannot create file watcher")
	}
	// Deferred after pipeline.Close so the handler goroutine is joined first.
	defer fileWatcher.Stop()

	if err := fileWatcher.WatchFile(path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, errors.ErrCodeWatchFailed, "cannot watch document").
			WithLocation(path, 0)
	}
	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		if deletedOnly(events) {
			logger.Warn(ctx, nil, "Document removed, waiting for it to return", "path", path)
			return nil
		}
		handler.Handle(ctx, rerender())
		return nil
	})

	if err := fileWatcher.Start(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, errors.ErrCodeWatchFailed, "cannot start file watcher")
	}
	logger.Info(ctx, "Watching for changes", "path", path, "debounce", cfg.Watch.Debounce.String())

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})
	err = g.Wait()
	logger.Debug(context.Background(), "Stopping watcher", "renders", pipeline.Renders())
	return err
}

func deletedOnly(events []watcher.ChangeEvent) bool {
	for _, e := range events {
		if e.Type != watcher.EventTypeDeleted && e.Type != watcher.EventTypeRenamed {
			return false
		}
	}
	return len(events) > 0
}
