// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noderesolve/noderesolve/internal/config"
)

func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
		Long: `Inspect and create the noderesolve configuration.

Configuration is read from --config, then config.cue in the platform
config directory, then config.cue in the working directory. Any key can
be overridden with an environment variable, for example
NODERESOLVE_RESOLVE_CONDITION_NAMES=import,node.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(app, rootFlags),
		newConfigPathCommand(app, rootFlags),
		newConfigInitCommand(app, rootFlags),
	)
	return cmd
}

func newConfigShowCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			out, err := config.Render(cfg, f)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatCUE), "output format: cue, toml or yaml")
	return cmd
}

func newConfigPathCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts := app.loadOptions(rootFlags)
			path, err := config.FilePath(opts)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(app.stdout, path)
				return nil
			}

			def, err := config.DefaultFilePath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, def)
			fmt.Fprintln(app.stderr, WarningStyle.Render("(not created yet; defaults apply. Run 'noderesolve config init')"))
			return nil
		},
	}
}

func newConfigInitCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.Init(app.loadOptions(rootFlags))
			if errors.Is(err, config.ErrConfigExists) {
				fmt.Fprintln(app.stderr, WarningStyle.Render("Config already exists: ")+path)
				return &ExitError{Code: 1}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ Created ")+path)
			return nil
		},
	}
}
