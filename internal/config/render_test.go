// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"":     FormatCUE,
		"cue":  FormatCUE,
		"TOML": FormatTOML,
		"yaml": FormatYAML,
	}
	for input, want := range tests {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseFormat("ini"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(ini) err = %v, want ErrInvalidFormat", err)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Resolve.Alias = []AliasEntry{{Name: "react", Targets: []string{"preact/compat"}}}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatCUE, []string{"resolve: {", `description_file: "package.json"`, `{name: "react", targets: ["preact/compat"]}`}},
		{FormatTOML, []string{"[resolve]", "description_file = 'package.json'", "[[resolve.alias]]"}},
		{FormatYAML, []string{"resolve:", "description_file: package.json", "name: react"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			out, err := Render(cfg, tt.format)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestGeneratedCUEMatchesSchema(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Resolve.Alias = []AliasEntry{{Name: "fs", Targets: []string{}}}
	if _, err := decodeCUE([]byte(GenerateCUE(cfg)), "generated.cue"); err != nil {
		t.Fatalf("generated CUE failed validation: %v", err)
	}
}
