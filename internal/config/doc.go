// SPDX-License-Identifier: MPL-2.0

// Package config loads noderesolve settings using Viper with CUE as the file format.
//
// Configuration is read from ~/.config/noderesolve/config.cue (or the XDG,
// macOS or Windows equivalent), from config.cue in the working directory, or
// from an explicit --config path. Values are validated against the embedded
// #Config schema (config_schema.cue) and may be overridden through
// NODERESOLVE_* environment variables, e.g. NODERESOLVE_RESOLVE_EXTENSIONS=".ts,.js".
//
// ResolverOptions turns a Config into resolver.Options, expanding $VAR
// references in module directories and alias targets.
package config
