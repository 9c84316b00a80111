// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/noderesolve/noderesolve/internal/issue"
	"github.com/noderesolve/noderesolve/pkg/manifest"
)

type exportsFlagValues struct {
	conditions []string
	imports    bool
}

func newExportsCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &exportsFlagValues{}

	cmd := &cobra.Command{
		Use:   "exports [flags] PACKAGE_DIR [KEY]",
		Short: "Show the exports or imports targets a package maps a key to",
		Long: `Print the candidate targets the package.json in PACKAGE_DIR maps KEY to.

KEY defaults to "." for exports. With --imports, KEY is a "#name" request
and is required. Targets are printed in manifest order, relative to the
package directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}

			conditions := cfg.Resolve.ConditionNames
			if cmd.Flags().Changed("condition") {
				conditions = flags.conditions
			}

			key := "."
			if len(args) == 2 {
				key = args[1]
			} else if flags.imports {
				return fmt.Errorf("--imports needs a #name KEY")
			}

			targets, err := fieldTargets(afero.NewOsFs(), args[0], cfg.Resolve.DescriptionFile, key, conditions, flags.imports)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(app.stderr, WarningStyle.Render(fmt.Sprintf("%s is not mapped for conditions [%s]", key, strings.Join(conditions, ", "))))
				return &ExitError{Code: 1}
			}
			for _, t := range targets {
				fmt.Fprintln(app.stdout, t)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.conditions, "condition", "c", nil, "active conditions (replaces the configured list)")
	cmd.Flags().BoolVar(&flags.imports, "imports", false, `look KEY up in the "imports" field`)
	return cmd
}

// fieldTargets loads the manifest in dir and maps key through its exports
// or imports field.
func fieldTargets(fsys afero.Fs, dir, descriptionFile, key string, conditions []string, imports bool) ([]string, error) {
	info, err := manifest.Load(fsys, dir, descriptionFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read package manifest").
			WithResource(dir).
			WithSuggestion("Check that " + descriptionFile + " is valid JSON").
			Wrap(err).
			BuildError()
	}
	if info == nil {
		return nil, issue.NewErrorContext().
			WithOperation("read package manifest").
			WithResource(dir).
			WithSuggestion("Pass the directory that contains " + descriptionFile).
			Wrap(fmt.Errorf("no %s in %s", descriptionFile, dir)).
			BuildError()
	}

	field, tree := "exports", info.Exports()
	if imports {
		field, tree = "imports", info.Imports()
	}
	if tree == nil {
		return nil, fmt.Errorf("%s has no %q field", info.Path(), field)
	}

	targets, err := tree.Process(key, conditions)
	if err != nil {
		return nil, fmt.Errorf("%s field of %s: %w", field, info.Path(), err)
	}
	return targets, nil
}
