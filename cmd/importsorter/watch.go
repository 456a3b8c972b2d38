package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/importsorter/pkg/metrics"
	"github.com/gnana997/importsorter/pkg/runner"
	"github.com/gnana997/importsorter/pkg/workspace"
)

type watchOptions struct {
	debounce    time.Duration
	include     []string
	exclude     []string
	metricsAddr string
}

func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Sort imports whenever a file is saved",
		Long: `Watch a directory tree and rewrite the imports of every matching file after
it is written. Rewrites done by the watcher itself are recognized and do not
trigger another pass.

Press Ctrl+C to stop watching.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("invalid path %s: %w", root, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("path must be a directory: %s", root)
			}
			return runWatch(cmd, a, opts, root)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "Quiet period before a changed file is sorted")
	cmd.Flags().StringSliceVar(&opts.include, "include", workspace.DefaultInclude, "Glob patterns of files to sort")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", workspace.DefaultExclude, "Glob patterns of files and directories to skip")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func runWatch(cmd *cobra.Command, a *app, opts watchOptions, root string) error {
	cfg, err := a.loadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.GeneralConfiguration.SortOnBeforeSave {
		return errors.New("sorting on save is disabled by sortOnBeforeSave")
	}

	r, pm, err := a.buildRunner(cfg)
	if err != nil {
		return err
	}
	defer pm.Close()

	ctx := cmd.Context()
	if opts.metricsAddr != "" {
		srv := metrics.NewServer(opts.metricsAddr, a.logger)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop(context.WithoutCancel(ctx))
	}

	w, err := workspace.NewWatcher(r, workspace.WatchOptions{
		Include:  opts.include,
		Exclude:  opts.exclude,
		Debounce: opts.debounce,
		OnSorted: func(out *runner.Outcome) {
			if out.Changed {
				fmt.Fprintf(a.stdout, "[%s] sorted %s\n", time.Now().Format("15:04:05"), out.Path)
			}
		},
	}, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(root); err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "importsorter: watching %s\n", root)

	<-ctx.Done()
	return w.Stop()
}
