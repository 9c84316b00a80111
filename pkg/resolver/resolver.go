// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/noderesolve/noderesolve/pkg/manifest"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// Resolver resolves module requests. Its configuration is immutable, so a
// Resolver may be used from any number of goroutines.
type Resolver struct {
	opts     Options
	fs       afero.Fs
	logger   *log.Logger
	cache    *Cache
	enforced bool
}

// New returns a Resolver for opts.
func New(opts Options) *Resolver {
	opts = opts.withDefaults()
	return &Resolver{
		opts:     opts,
		fs:       opts.FS,
		logger:   opts.Logger,
		cache:    opts.Cache,
		enforced: opts.enforced(),
	}
}

// Options returns the effective options, defaults included.
func (r *Resolver) Options() Options { return r.opts }

// Cache returns the resolver cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve resolves spec from the directory dir.
//
// A request that matches nothing yields a *ResolveError of kind
// ErrNotFound. Malformed manifests and exports or imports violations abort
// the search and are reported with the offending manifest.
func (r *Resolver) Resolve(dir, spec string) (Result, error) {
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Result{}, fmt.Errorf("resolve base directory: %w", err)
		}
		dir = abs
	}

	req := request.Parse(spec)
	ctx := newContext(r.opts.MaxDepth)
	state := r.resolve(NewInfo(dir, req), ctx)

	switch state.Kind() {
	case StateSuccess:
		return r.finish(state.Result())
	case StateError:
		if rerr, ok := state.Err().(*ResolveError); ok && rerr.Request == "" {
			rerr.Request, rerr.Dir = spec, dir
		}
		return Result{}, state.Err()
	default:
		return Result{}, &ResolveError{Kind: ErrNotFound, Request: spec, Dir: dir}
	}
}

// Entry returns the cached filesystem entry for path.
func (r *Resolver) Entry(path string) *Entry {
	return r.entry(path)
}

// resolve is the recursive dispatcher every rule re-enters.
func (r *Resolver) resolve(info Info, ctx *Context) State {
	defer ctx.leave()
	if !ctx.enter() {
		return Errored(&ResolveError{Kind: ErrRecursionLimit, Target: info.Request().String(), Dir: info.Path()})
	}
	r.logger.Debug("resolving", "request", info.Request().String(), "dir", info.Path(), "depth", ctx.Depth())

	return AliasPlugin{}.Apply(r, info, ctx).Then(func(info Info) State {
		switch info.Request().Kind() {
		case request.KindRelative, request.KindAbsolute:
			return r.resolvePath(info, ctx)
		case request.KindInternal:
			return r.resolveInternal(info, ctx)
		default:
			return r.resolveModule(info, ctx)
		}
	})
}

func (r *Resolver) resolvePath(info Info, ctx *Context) State {
	state := Resolving(info)
	if r.opts.BrowserField {
		pkg, err := r.pkgInfo(info.ResolvedPath())
		if err != nil {
			return Errored(err)
		}
		if pkg != nil {
			state = NewBrowserFieldPlugin(pkg).Apply(r, info, ctx)
		}
	}
	return state.
		Then(r.resolveAsContext).
		Then(r.resolveAsFile).
		Then(func(info Info) State {
			return r.resolveAsDir(info, ctx)
		})
}

func (r *Resolver) resolveInternal(info Info, ctx *Context) State {
	pkg, err := r.pkgInfo(info.Path())
	if err != nil {
		return Errored(err)
	}
	if pkg == nil || pkg.Imports() == nil {
		return Failed(info)
	}
	return NewImportsFieldPlugin(pkg).Apply(r, info, ctx)
}

func (r *Resolver) resolveModule(info Info, ctx *Context) State {
	state := Resolving(info)
	if r.opts.BrowserField {
		pkg, err := r.pkgInfo(info.Path())
		if err != nil {
			return Errored(err)
		}
		if pkg != nil {
			state = NewBrowserFieldPlugin(pkg).Apply(r, info, ctx)
		}
	}
	return state.Then(func(info Info) State {
		return r.resolveAsModules(info, ctx)
	})
}

func (r *Resolver) entry(path string) *Entry {
	return r.cache.entry(r.fs, path)
}

// pkgInfo returns the manifest nearest to path: the one in path itself
// when path is a directory holding one, else the closest ancestor's.
func (r *Resolver) pkgInfo(path string) (*manifest.PkgInfo, error) {
	dir := filepath.Clean(path)
	for {
		if r.entry(dir).IsDir() {
			pkg, err := r.cache.manifest(r.fs, dir, r.opts.DescriptionFile)
			if err != nil || pkg != nil {
				return pkg, err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// finish reports real paths and fills the owning package name.
func (r *Resolver) finish(result Result) (Result, error) {
	if result.Ignored || result.Path == "" {
		return result, nil
	}
	if !r.opts.PreserveSymlinks {
		if _, ok := r.fs.(*afero.OsFs); ok {
			realPath, err := filepath.EvalSymlinks(result.Path)
			if err != nil {
				return Result{}, fmt.Errorf("resolve real path of %s: %w", result.Path, err)
			}
			result.Path = realPath
		}
	}
	// Package is informational; an unreadable manifest leaves it empty.
	pkg, err := r.pkgInfo(filepath.Dir(result.Path))
	if err != nil {
		r.logger.Debug("owning package unavailable", "path", result.Path, "err", err)
		return result, nil
	}
	if pkg != nil {
		result.Package = pkg.Name()
	}
	return result, nil
}
