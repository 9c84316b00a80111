// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/noderesolve/noderesolve/internal/issue"
	"github.com/noderesolve/noderesolve/internal/watch"
)

type watchFlagValues struct {
	resolveFlagValues
	patterns []string
	clear    bool
}

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &watchFlagValues{}

	cmd := &cobra.Command{
		Use:   "watch [flags] REQUEST...",
		Short: "Re-resolve requests whenever files under --dir change",
		Long: `Resolve each REQUEST once, then watch --dir and resolve again after
every batch of changes. Cached stat results and manifests for the changed
paths are dropped before each run. Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			verbose := effectiveVerbose(rootFlags, cfg)
			logger := newLogger(app.stderr, verbose)

			r, err := buildResolver(cmd, cfg, &flags.resolveFlagValues, logger)
			if err != nil {
				return err
			}
			debounce, err := cfg.Watch.DebounceDuration()
			if err != nil {
				return err
			}

			run := func(changed []string) {
				r.Cache().Purge(changed...)
				outcomes := resolveAll(r, flags.dir, args)
				fmt.Fprintln(app.stdout, SubtitleStyle.Render(time.Now().Format(time.TimeOnly)))
				if err := writeOutcomes(app.stdout, outputText, outcomes, false, cfg.UI.ColorScheme); err != nil {
					logger.Error("write results", "err", err)
				}
			}

			w, err := watch.New(watch.Config{
				BaseDir:     flags.dir,
				Patterns:    flags.patterns,
				Ignore:      cfg.Watch.Ignore,
				Debounce:    debounce,
				ClearScreen: flags.clear,
				Stdout:      app.stdout,
				Logger:      logger,
				OnChange: func(_ context.Context, changed []string) error {
					logger.Debug("files changed", "count", len(changed))
					run(changed)
					return nil
				},
			})
			if err != nil {
				return watchError(flags.dir, err)
			}

			// New has registered every directory; later changes are queued.
			run(nil)
			if err := w.Run(cmd.Context()); err != nil {
				return watchError(w.BaseDir(), err)
			}
			return nil
		},
	}

	addResolveFlags(cmd, &flags.resolveFlagValues)
	cmd.Flags().StringSliceVar(&flags.patterns, "pattern", nil, `globs selecting which changes trigger a run (default: all files)`)
	cmd.Flags().BoolVar(&flags.clear, "clear", false, "clear the screen before each run")
	return cmd
}

func watchError(dir string, err error) error {
	if abs, absErr := filepath.Abs(dir); absErr == nil {
		dir = abs
	}
	return issue.NewErrorContext().
		WithOperation("watch for changes").
		WithResource(dir).
		WithIssue(issue.WatchFailedId).
		WithSuggestions(
			"Check that the directory exists and is readable",
			"On Linux, raise fs.inotify.max_user_watches for large trees",
			"Add large directories to watch.ignore in the config file",
		).
		Wrap(err).
		BuildError()
}
