// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"
	"testing"

	"github.com/noderesolve/noderesolve/pkg/resolver"
)

func TestResolverOptions(t *testing.T) {
	t.Parallel()

	env := map[string]string{"VENDOR": "/opt/vendor", "SHIMS": "/srv/shims"}
	cfg := DefaultConfig()
	cfg.Resolve.Modules = []string{"node_modules", "$VENDOR/modules"}
	cfg.Resolve.EnforceExtension = EnforceDisabled
	cfg.Resolve.BrowserField = true
	cfg.Resolve.Alias = []AliasEntry{
		{Name: "react", Targets: []string{"${SHIMS}/react", "preact/compat"}},
		{Name: "fs"},
	}

	opts, err := cfg.ResolverOptions(func(name string) string { return env[name] })
	if err != nil {
		t.Fatalf("ResolverOptions: %v", err)
	}

	if !slices.Equal(opts.Modules, []string{"node_modules", "/opt/vendor/modules"}) {
		t.Errorf("Modules = %v", opts.Modules)
	}
	if opts.EnforceExtension != resolver.EnforceDisabled {
		t.Errorf("EnforceExtension = %s, want disabled", opts.EnforceExtension)
	}
	if !opts.BrowserField {
		t.Error("BrowserField not carried over")
	}
	if len(opts.Alias) != 2 {
		t.Fatalf("Alias = %+v", opts.Alias)
	}
	if !slices.Equal(opts.Alias[0].Targets, []string{"/srv/shims/react", "preact/compat"}) {
		t.Errorf("Alias[0].Targets = %v", opts.Alias[0].Targets)
	}
	if opts.Alias[1].Name != "fs" || len(opts.Alias[1].Targets) != 0 {
		t.Errorf("Alias[1] = %+v, want ignored module", opts.Alias[1])
	}
	if opts.MaxDepth != 256 || opts.DescriptionFile != "package.json" {
		t.Errorf("MaxDepth = %d, DescriptionFile = %q", opts.MaxDepth, opts.DescriptionFile)
	}
}

func TestResolverOptionsRejectsBadExpansion(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Resolve.Modules = []string{"${UNTERMINATED"}
	if _, err := cfg.ResolverOptions(func(string) string { return "" }); err == nil {
		t.Fatal("expected an expansion error")
	}
}
