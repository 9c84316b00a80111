// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
	"github.com/noderesolve/noderesolve/pkg/manifest"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// ExportsFieldPlugin routes a package request through the package's
// "exports" map. Once a package declares exports, a subpath it does not
// expose is an error rather than a plain file lookup.
type ExportsFieldPlugin struct {
	pkg *manifest.PkgInfo
}

// NewExportsFieldPlugin returns the exports rule for pkg.
func NewExportsFieldPlugin(pkg *manifest.PkgInfo) *ExportsFieldPlugin {
	return &ExportsFieldPlugin{pkg: pkg}
}

// Apply implements Plugin.
func (p *ExportsFieldPlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	tree := p.pkg.Exports()
	if tree == nil {
		return Resolving(info)
	}

	req := info.Request()
	target := req.Target()
	key := "."
	if subpath, ok := request.PathFromRequest(target); ok {
		key = "." + subpath
	} else if !r.entry(filepath.Join(info.Path(), filepath.FromSlash(target))).Exists() && target != p.pkg.Name() {
		return Resolving(info)
	}

	lookup := key
	if req.Query() != "" || req.Fragment() != "" {
		if lookup == "." {
			lookup = "./"
		}
		lookup += req.Query() + req.Fragment()
	}

	list, err := tree.Process(lookup, r.opts.ConditionNames)
	if err != nil {
		return Errored(&ResolveError{Kind: fieldKind(err, ErrNotExported), Manifest: p.pkg.Path(), Target: key, Err: err})
	}

	for _, item := range list {
		r.logger.Debug("exports field mapped request",
			"manifest", p.pkg.Path(), "key", key, "target", item, "depth", ctx.Depth())

		mapped := request.Parse(item)
		if err := fieldmap.CheckTarget(mapped.Target()); err != nil {
			return Errored(&ResolveError{Kind: ErrInvalidExportTarget, Manifest: p.pkg.Path(), Target: item, Err: err})
		}
		state := r.resolve(NewInfo(p.pkg.Dir(), mapped), ctx)
		if state.IsFinished() {
			return state
		}
	}

	return Errored(&ResolveError{Kind: ErrNotExported, Manifest: p.pkg.Path(), Target: key})
}
