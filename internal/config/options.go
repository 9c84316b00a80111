// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"

	"mvdan.cc/sh/v3/shell"

	"github.com/noderesolve/noderesolve/pkg/resolver"
)

// ResolverOptions converts the resolve section into resolver options.
// Module directories and alias targets have $VAR and ${VAR} references
// expanded from env; a nil env reads the process environment.
func (c *Config) ResolverOptions(env func(string) string) (resolver.Options, error) {
	if env == nil {
		env = os.Getenv
	}
	r := c.Resolve

	enforce, err := resolver.ParseEnforceExtension(r.EnforceExtension.String())
	if err != nil {
		return resolver.Options{}, err
	}

	modules, err := expandAll(r.Modules, env)
	if err != nil {
		return resolver.Options{}, fmt.Errorf("resolve.modules: %w", err)
	}

	aliases := make([]resolver.Alias, 0, len(r.Alias))
	for _, a := range r.Alias {
		targets, err := expandAll(a.Targets, env)
		if err != nil {
			return resolver.Options{}, fmt.Errorf("resolve.alias %q: %w", a.Name, err)
		}
		aliases = append(aliases, resolver.Alias{Name: a.Name, Targets: targets})
	}

	return resolver.Options{
		Extensions:       r.Extensions,
		EnforceExtension: enforce,
		Modules:          modules,
		ConditionNames:   r.ConditionNames,
		MainFields:       r.MainFields,
		MainFiles:        r.MainFiles,
		DescriptionFile:  r.DescriptionFile,
		BrowserField:     r.BrowserField,
		ResolveToContext: r.ResolveToContext,
		PreserveSymlinks: r.PreserveSymlinks,
		Alias:            aliases,
		MaxDepth:         r.MaxDepth,
	}, nil
}

func expandAll(values []string, env func(string) string) ([]string, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		expanded, err := shell.Expand(v, env)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", v, err)
		}
		out = append(out, expanded)
	}
	return out, nil
}
