// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE renders the config.cue syntax.
	FormatCUE Format = "cue"
	// FormatTOML renders TOML.
	FormatTOML Format = "toml"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is returned for an unknown output format.
var ErrInvalidFormat = errors.New("invalid format")

// Format selects how Render prints a Config.
type Format string

// ParseFormat accepts "cue", "toml" or "yaml" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCUE, FormatTOML, FormatYAML:
		return f, nil
	case "":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w %q (valid: cue, toml, yaml)", ErrInvalidFormat, s)
	}
}

// Render prints cfg in the given format.
func Render(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to render TOML: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to render YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidFormat, format)
	}
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// noderesolve configuration\n\n")

	r := cfg.Resolve
	sb.WriteString("resolve: {\n")
	fmt.Fprintf(&sb, "\textensions: %s\n", cueList(r.Extensions))
	fmt.Fprintf(&sb, "\tenforce_extension: %q\n", r.EnforceExtension)
	fmt.Fprintf(&sb, "\tmodules: %s\n", cueList(r.Modules))
	fmt.Fprintf(&sb, "\tcondition_names: %s\n", cueList(r.ConditionNames))
	fmt.Fprintf(&sb, "\tmain_fields: %s\n", cueList(r.MainFields))
	fmt.Fprintf(&sb, "\tmain_files: %s\n", cueList(r.MainFiles))
	fmt.Fprintf(&sb, "\tdescription_file: %q\n", r.DescriptionFile)
	fmt.Fprintf(&sb, "\tbrowser_field: %v\n", r.BrowserField)
	fmt.Fprintf(&sb, "\tresolve_to_context: %v\n", r.ResolveToContext)
	fmt.Fprintf(&sb, "\tpreserve_symlinks: %v\n", r.PreserveSymlinks)
	if len(r.Alias) > 0 {
		sb.WriteString("\talias: [\n")
		for _, a := range r.Alias {
			fmt.Fprintf(&sb, "\t\t{name: %q, targets: %s},\n", a.Name, cueList(a.Targets))
		}
		sb.WriteString("\t]\n")
	}
	if r.MaxDepth > 0 {
		fmt.Fprintf(&sb, "\tmax_depth: %d\n", r.MaxDepth)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	if cfg.Watch.Debounce != "" {
		fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce)
	}
	fmt.Fprintf(&sb, "\tignore: %s\n", cueList(cfg.Watch.Ignore))
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
