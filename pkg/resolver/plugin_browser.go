// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"
	"strings"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
	"github.com/noderesolve/noderesolve/pkg/manifest"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// BrowserFieldPlugin applies the object form of the manifest "browser"
// field. Keys are module names or package-relative paths; a string value
// replaces the request, false ignores it.
type BrowserFieldPlugin struct {
	pkg *manifest.PkgInfo
}

// NewBrowserFieldPlugin returns the browser field rule for pkg.
func NewBrowserFieldPlugin(pkg *manifest.PkgInfo) *BrowserFieldPlugin {
	return &BrowserFieldPlugin{pkg: pkg}
}

// Apply implements Plugin.
func (p *BrowserFieldPlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	if !r.opts.BrowserField {
		return Resolving(info)
	}
	browser, ok := p.pkg.BrowserMap()
	if !ok {
		return Resolving(info)
	}

	keys := p.keys(r, info)
	for _, key := range keys {
		value, ok := lookupBrowser(browser, key)
		if !ok {
			continue
		}
		switch {
		case value.Kind == fieldmap.KindBool && !value.Bool:
			r.logger.Debug("browser field ignores request",
				"manifest", p.pkg.Path(), "key", key, "depth", ctx.Depth())
			return Success(Result{Ignored: true})
		case value.Kind == fieldmap.KindString:
			if containsKey(keys, value.String) {
				return Resolving(info)
			}
			r.logger.Debug("browser field mapped request",
				"manifest", p.pkg.Path(), "key", key, "target", value.String, "depth", ctx.Depth())
			state := r.resolve(NewInfo(p.pkg.Dir(), info.Request().WithTarget(value.String)), ctx)
			if state.Kind() == StateResolving {
				return Failed(info)
			}
			return state
		}
	}
	return Resolving(info)
}

// keys lists the browser map keys that may describe info: the module name
// for bare requests, the package-relative path (with and without each
// extension) otherwise.
func (p *BrowserFieldPlugin) keys(r *Resolver, info Info) []string {
	target := info.Request().Target()
	if info.Request().Kind() == request.KindNormal {
		return []string{target}
	}

	rel, err := filepath.Rel(p.pkg.Dir(), info.ResolvedPath())
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	rel = "./" + filepath.ToSlash(rel)
	keys := []string{rel}
	for _, ext := range r.opts.Extensions {
		if ext != "" {
			keys = append(keys, rel+ext)
		}
	}
	return keys
}

// lookupBrowser finds key with or without its leading "./".
func lookupBrowser(browser *fieldmap.Node, key string) (*fieldmap.Node, bool) {
	if v, ok := browser.Get(key); ok {
		return v, true
	}
	if trimmed, ok := strings.CutPrefix(key, "./"); ok {
		return browser.Get(trimmed)
	}
	return nil, false
}

func containsKey(keys []string, value string) bool {
	for _, k := range keys {
		if k == value || strings.TrimPrefix(k, "./") == strings.TrimPrefix(value, "./") {
			return true
		}
	}
	return false
}
