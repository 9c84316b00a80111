// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noderesolve/noderesolve/internal/config"
	"github.com/noderesolve/noderesolve/internal/issue"
	"github.com/noderesolve/noderesolve/pkg/resolver"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type (
	// resolveFlagValues holds the resolver overrides shared by resolve and watch.
	resolveFlagValues struct {
		dir              string
		extensions       []string
		conditions       []string
		modules          []string
		mainFields       []string
		mainFiles        []string
		enforceExtension string
		aliases          []string
		browser          bool
		toContext        bool
		preserveSymlinks bool
		output           string
		explain          bool
	}

	// resolveOutcome is one line (or document entry) of resolve output.
	resolveOutcome struct {
		Request  string `json:"request" yaml:"request"`
		Path     string `json:"path,omitempty" yaml:"path,omitempty"`
		Query    string `json:"query,omitempty" yaml:"query,omitempty"`
		Fragment string `json:"fragment,omitempty" yaml:"fragment,omitempty"`
		Ignored  bool   `json:"ignored,omitempty" yaml:"ignored,omitempty"`
		Package  string `json:"package,omitempty" yaml:"package,omitempty"`
		Error    string `json:"error,omitempty" yaml:"error,omitempty"`

		err error
	}
)

func newResolveCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &resolveFlagValues{}

	cmd := &cobra.Command{
		Use:   "resolve [flags] REQUEST...",
		Short: "Resolve module requests to files",
		Long: `Resolve each REQUEST from --dir and print the resulting path.

Requests may be relative ("./util"), absolute, package-internal ("#dep")
or bare module names ("lodash/fp"). Query strings and fragments are kept
and printed after the path. The exit code is 1 when any request fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			verbose := effectiveVerbose(rootFlags, cfg)

			r, err := buildResolver(cmd, cfg, flags, newLogger(app.stderr, verbose))
			if err != nil {
				return err
			}

			outcomes := resolveAll(r, flags.dir, args)
			if err := writeOutcomes(app.stdout, flags.output, outcomes, flags.explain, cfg.UI.ColorScheme); err != nil {
				return err
			}
			if anyFailed(outcomes) {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	addResolveFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&flags.explain, "explain", false, "print a help page for each failure")
	return cmd
}

// addResolveFlags registers the flags that override the resolve config section.
func addResolveFlags(cmd *cobra.Command, flags *resolveFlagValues) {
	f := cmd.Flags()
	f.StringVarP(&flags.dir, "dir", "d", ".", "directory to resolve from")
	f.StringSliceVarP(&flags.extensions, "extension", "e", nil, "extensions to probe, in order (replaces the configured list)")
	f.StringSliceVarP(&flags.conditions, "condition", "c", nil, "active exports/imports conditions (replaces the configured list)")
	f.StringSliceVarP(&flags.modules, "module", "m", nil, "module directory names or absolute paths")
	f.StringSliceVar(&flags.mainFields, "main-field", nil, "package.json fields naming the entry point")
	f.StringSliceVar(&flags.mainFiles, "main-file", nil, "file names probed inside directories")
	f.StringVar(&flags.enforceExtension, "enforce-extension", "", "auto, enabled or disabled")
	f.StringArrayVar(&flags.aliases, "alias", nil, `alias as NAME=TARGET[,TARGET...]; "NAME=" ignores the module`)
	f.BoolVar(&flags.browser, "browser", false, `honor the package.json "browser" field`)
	f.BoolVar(&flags.toContext, "context", false, "resolve to directories instead of files")
	f.BoolVar(&flags.preserveSymlinks, "preserve-symlinks", false, "report paths without resolving symlinks")
}

// buildResolver layers explicitly set flags over the configured options.
func buildResolver(cmd *cobra.Command, cfg *config.Config, flags *resolveFlagValues, logger *log.Logger) (*resolver.Resolver, error) {
	opts, err := cfg.ResolverOptions(nil)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build resolver options").
			WithSuggestion("Check $VAR references in resolve.modules and resolve.alias").
			Wrap(err).
			BuildError()
	}

	changed := cmd.Flags().Changed
	if changed("extension") {
		opts.Extensions = flags.extensions
	}
	if changed("condition") {
		opts.ConditionNames = flags.conditions
	}
	if changed("module") {
		opts.Modules = flags.modules
	}
	if changed("main-field") {
		opts.MainFields = flags.mainFields
	}
	if changed("main-file") {
		opts.MainFiles = flags.mainFiles
	}
	if changed("enforce-extension") {
		mode, err := resolver.ParseEnforceExtension(flags.enforceExtension)
		if err != nil {
			return nil, err
		}
		opts.EnforceExtension = mode
	}
	if changed("alias") {
		aliases, err := parseAliasFlags(flags.aliases)
		if err != nil {
			return nil, err
		}
		// flag aliases take precedence over configured ones
		opts.Alias = append(aliases, opts.Alias...)
	}
	if changed("browser") {
		opts.BrowserField = flags.browser
	}
	if changed("context") {
		opts.ResolveToContext = flags.toContext
	}
	if changed("preserve-symlinks") {
		opts.PreserveSymlinks = flags.preserveSymlinks
	}
	opts.Logger = logger

	return resolver.New(opts), nil
}

// parseAliasFlags parses NAME=TARGET[,TARGET...] values.
func parseAliasFlags(values []string) ([]resolver.Alias, error) {
	aliases := make([]resolver.Alias, 0, len(values))
	for _, v := range values {
		name, targets, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --alias %q: want NAME=TARGET[,TARGET...]", v)
		}
		alias := resolver.Alias{Name: name}
		if targets != "" {
			alias.Targets = strings.Split(targets, ",")
		}
		aliases = append(aliases, alias)
	}
	return aliases, nil
}

func resolveAll(r *resolver.Resolver, dir string, requests []string) []resolveOutcome {
	outcomes := make([]resolveOutcome, 0, len(requests))
	for _, spec := range requests {
		outcomes = append(outcomes, resolveOne(r, dir, spec))
	}
	return outcomes
}

func resolveOne(r *resolver.Resolver, dir, spec string) resolveOutcome {
	res, err := r.Resolve(dir, spec)
	if err != nil {
		return resolveOutcome{Request: spec, Error: err.Error(), err: err}
	}
	return resolveOutcome{
		Request:  spec,
		Path:     res.Path,
		Query:    res.Query,
		Fragment: res.Fragment,
		Ignored:  res.Ignored,
		Package:  res.Package,
	}
}

func writeOutcomes(w io.Writer, format string, outcomes []resolveOutcome, explain bool, scheme config.ColorScheme) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	case outputYAML:
		out, err := yaml.Marshal(outcomes)
		if err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	case outputText, "":
		for _, o := range outcomes {
			fmt.Fprintln(w, formatOutcome(o))
			if explain && o.err != nil {
				writeExplanation(w, o.err, scheme)
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid --output %q (valid: text, json, yaml)", format)
	}
}

func formatOutcome(o resolveOutcome) string {
	req := RequestStyle.Render(o.Request)
	switch {
	case o.err != nil:
		return ErrorStyle.Render("✗ ") + req + ": " + o.Error
	case o.Ignored:
		return req + " → " + WarningStyle.Render("(ignored)")
	default:
		line := req + " → " + SuccessStyle.Render(o.Path+o.Query+o.Fragment)
		if o.Package != "" {
			line += " " + SubtitleStyle.Render("("+o.Package+")")
		}
		return line
	}
}

// writeExplanation renders the help page matching err, if any.
func writeExplanation(w io.Writer, err error, scheme config.ColorScheme) {
	page, ok := issue.ForError(err)
	if !ok {
		return
	}
	rendered, renderErr := page.Render(glamourStyle(scheme))
	if renderErr != nil {
		fmt.Fprintln(w, WarningStyle.Render("could not render help page: ")+renderErr.Error())
		return
	}
	fmt.Fprint(w, rendered)
}

func glamourStyle(scheme config.ColorScheme) string {
	if scheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

func anyFailed(outcomes []resolveOutcome) bool {
	for _, o := range outcomes {
		if o.err != nil {
			return true
		}
	}
	return false
}
