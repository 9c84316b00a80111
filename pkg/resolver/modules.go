// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"

	"github.com/noderesolve/noderesolve/pkg/manifest"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// resolveAsModules searches the module-storage directories for a bare
// request. Relative directory names are retried from each ancestor of the
// base directory; absolute ones are searched once.
func (r *Resolver) resolveAsModules(info Info, ctx *Context) State {
	originalDir := info.Path()
	for _, module := range r.opts.Modules {
		modulesPath := module
		findUp := !filepath.IsAbs(module)
		if findUp {
			modulesPath = filepath.Join(originalDir, module)
		}

		state := r.resolveInModules(info, originalDir, modulesPath, ctx).Then(func(info Info) State {
			parent := filepath.Dir(originalDir)
			if !findUp || parent == originalDir {
				return Resolving(info)
			}
			return r.resolve(info.WithPath(parent), ctx)
		})
		if state.IsFinished() {
			return state
		}
	}
	return Failed(info)
}

// resolveInModules handles one candidate module-storage directory: descend
// into it when it exists, and fall back to a self-reference through the
// nearest manifest.
func (r *Resolver) resolveInModules(info Info, originalDir, modulesPath string, ctx *Context) State {
	pkg, err := r.pkgInfo(modulesPath)
	if err != nil {
		return Errored(err)
	}

	if r.entry(modulesPath).IsDir() {
		return r.resolveNodeModules(info, modulesPath, ctx).Then(func(info Info) State {
			if pkg != nil && isResolveSelf(pkg, info.Request().Target()) {
				return NewExportsFieldPlugin(pkg).Apply(r, info, ctx)
			}
			return Resolving(info)
		})
	}
	if pkg != nil && pkg.Dir() == originalDir && isResolveSelf(pkg, info.Request().Target()) {
		return NewExportsFieldPlugin(pkg).Apply(r, info, ctx)
	}
	return Resolving(info)
}

// resolveNodeModules resolves the request inside one existing
// module-storage directory. An unfinished outcome hands the original info
// back so the caller moves on to the next directory.
func (r *Resolver) resolveNodeModules(info Info, modulesPath string, ctx *Context) State {
	originalDir := info.Path()
	moduleName := request.ModuleName(info.Request().Target())
	modulePath := filepath.Join(modulesPath, filepath.FromSlash(moduleName))
	moduleInfo := NewInfo(modulesPath, info.Request())

	if !r.entry(modulePath).IsDir() {
		state := r.resolveAsFile(moduleInfo)
		if state.IsFinished() {
			return state
		}
		return Resolving(info)
	}

	pkg, err := r.pkgInfo(modulePath)
	if err != nil {
		return Errored(err)
	}
	r.logger.Debug("found module directory", "path", modulePath, "depth", ctx.Depth())

	var state State
	if pkg != nil && pkg.Dir() == modulePath {
		outside := pkg.Dir() != originalDir
		if outside || isResolveSelf(pkg, info.Request().Target()) {
			state = NewExportsFieldPlugin(pkg).Apply(r, moduleInfo, ctx)
		} else {
			state = Resolving(moduleInfo)
		}
		state = state.
			Then(func(info Info) State {
				return NewImportsFieldPlugin(pkg).Apply(r, info, ctx)
			}).
			Then(func(info Info) State {
				info = info.WithPath(info.ResolvedPath()).WithTarget(".")
				return NewMainFieldPlugin(pkg).Apply(r, info, ctx)
			}).
			Then(func(info Info) State {
				return NewBrowserFieldPlugin(pkg).Apply(r, info, ctx)
			})
	} else {
		state = Resolving(moduleInfo)
	}

	state = state.
		Then(r.resolveAsContext).
		Then(r.resolveAsFile).
		Then(func(info Info) State {
			return r.resolveAsDir(info, ctx)
		})
	if !state.IsFinished() {
		return Resolving(info)
	}
	return state
}

// isResolveSelf reports whether target names the package pkg itself.
func isResolveSelf(pkg *manifest.PkgInfo, target string) bool {
	return pkg.Name() != "" && pkg.Name() == request.ModuleName(target)
}
