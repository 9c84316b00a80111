// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"strings"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
	"github.com/noderesolve/noderesolve/pkg/manifest"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// ImportsFieldPlugin maps internal "#name" requests through the package's
// "imports" field. Targets are either package-relative paths or bare
// module requests resolved from the package directory.
type ImportsFieldPlugin struct {
	pkg *manifest.PkgInfo
}

// NewImportsFieldPlugin returns the imports rule for pkg.
func NewImportsFieldPlugin(pkg *manifest.PkgInfo) *ImportsFieldPlugin {
	return &ImportsFieldPlugin{pkg: pkg}
}

// Apply implements Plugin.
func (p *ImportsFieldPlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	req := info.Request()
	tree := p.pkg.Imports()
	if tree == nil || !strings.HasPrefix(req.Target(), "#") {
		return Resolving(info)
	}

	list, err := tree.Process(req.Target()+req.Query()+req.Fragment(), r.opts.ConditionNames)
	if err != nil {
		return Errored(&ResolveError{Kind: fieldKind(err, ErrNotImported), Manifest: p.pkg.Path(), Target: req.Target(), Err: err})
	}

	for _, item := range list {
		r.logger.Debug("imports field mapped request",
			"manifest", p.pkg.Path(), "key", req.Target(), "target", item, "depth", ctx.Depth())

		mapped := request.Parse(item)
		if mapped.Kind() == request.KindRelative {
			if err := fieldmap.CheckTarget(mapped.Target()); err != nil {
				return Errored(&ResolveError{Kind: ErrInvalidExportTarget, Manifest: p.pkg.Path(), Target: item, Err: err})
			}
		}
		state := r.resolve(NewInfo(p.pkg.Dir(), mapped), ctx)
		if state.IsFinished() {
			return state
		}
	}

	return Errored(&ResolveError{Kind: ErrNotImported, Manifest: p.pkg.Path(), Target: req.Target()})
}
