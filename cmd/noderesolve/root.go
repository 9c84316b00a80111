// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/noderesolve/noderesolve/internal/config"
	"github.com/noderesolve/noderesolve/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	root := &cobra.Command{
		Use:   "noderesolve",
		Short: "Resolve JavaScript module requests the way Node.js does",
		Long: TitleStyle.Render("noderesolve") + SubtitleStyle.Render(" - resolve module requests against node_modules") + `

noderesolve finds the file a require() or import specifier refers to.
It follows package.json "exports", "imports", "main" and "browser"
fields, searches node_modules directories up to the filesystem root, and
honors configured extensions, conditions and aliases.

` + SubtitleStyle.Render("Examples:") + `
  noderesolve resolve lodash/fp             Resolve from the current directory
  noderesolve resolve --dir src ./util      Resolve a relative request
  noderesolve resolve -c import pkg         Resolve with the "import" condition
  noderesolve exports node_modules/pkg ./x  Show exports candidates for a subpath
  noderesolve watch react                   Re-resolve whenever files change
  noderesolve config show --format toml     Show the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "trace every resolution step")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/noderesolve/config.cue)")

	root.AddCommand(
		newResolveCommand(app, flags),
		newExportsCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	root := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError(root)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints actionable errors in their own format and leaves
// everything else to fang. Silent exit errors were reported by the command.
func handleError(root *cobra.Command) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(verbose))
			if verbose {
				writeExplanation(w, err, config.ColorSchemeAuto)
			}
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}

// newLogger returns a debug logger on w when verbose, otherwise a logger
// that discards everything.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  log.DebugLevel,
	})
}

// effectiveVerbose combines --verbose with ui.verbose from the config.
func effectiveVerbose(flags *rootFlagValues, cfg *config.Config) bool {
	return flags.verbose || (cfg != nil && cfg.UI.Verbose)
}
