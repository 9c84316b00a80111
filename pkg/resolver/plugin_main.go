// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"
	"strings"

	"github.com/noderesolve/noderesolve/pkg/manifest"
)

// MainFieldPlugin resolves a package directory through the entry point
// named by its manifest main fields, tried in Options.MainFields order.
// It only applies when the info points at the package directory itself.
type MainFieldPlugin struct {
	pkg *manifest.PkgInfo
}

// NewMainFieldPlugin returns the main field rule for pkg.
func NewMainFieldPlugin(pkg *manifest.PkgInfo) *MainFieldPlugin {
	return &MainFieldPlugin{pkg: pkg}
}

// Apply implements Plugin.
func (p *MainFieldPlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	if info.ResolvedPath() != p.pkg.Dir() {
		return Resolving(info)
	}

	for _, field := range r.opts.MainFields {
		value, ok := p.pkg.StringField(field)
		if !ok {
			continue
		}
		target := mainTarget(value)
		if target == "" {
			continue
		}

		r.logger.Debug("main field points to entry",
			"manifest", p.pkg.Path(), "field", field, "target", target, "depth", ctx.Depth())

		state := r.resolve(NewInfo(p.pkg.Dir(), info.Request().WithTarget(target)), ctx)
		if state.IsFinished() {
			return state
		}
	}
	return Resolving(info)
}

// mainTarget turns a main field value into a package-relative request.
// Values pointing at the package directory itself yield "".
func mainTarget(value string) string {
	switch value {
	case "", ".", "./":
		return ""
	}
	if strings.HasPrefix(value, "./") || strings.HasPrefix(value, "../") || filepath.IsAbs(value) {
		return value
	}
	return "./" + value
}

// MainFilePlugin probes the Options.MainFiles names inside a directory.
type MainFilePlugin struct{}

// Apply implements Plugin.
func (MainFilePlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	dir := info.ResolvedPath()
	for _, name := range r.opts.MainFiles {
		r.logger.Debug("probing main file", "dir", dir, "name", name, "depth", ctx.Depth())
		state := r.resolveAsFile(info.WithPath(filepath.Join(dir, name)).WithTarget("."))
		if state.IsFinished() {
			return state
		}
	}
	return Resolving(info)
}
