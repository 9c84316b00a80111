// SPDX-License-Identifier: MPL-2.0

package resolver

func (r *Resolver) resolveFileWithExt(path string, info Info) State {
	for _, ext := range r.opts.Extensions {
		candidate := path + ext
		if r.entry(candidate).IsFile() {
			return Success(info.result(candidate))
		}
	}
	r.logger.Debug("not a file", "path", path, "extensions", r.opts.Extensions)
	return Resolving(info)
}

// resolveAsContext accepts an existing directory when ResolveToContext is set.
func (r *Resolver) resolveAsContext(info Info) State {
	if !r.opts.ResolveToContext {
		return Resolving(info)
	}
	path := info.ResolvedPath()
	r.logger.Debug("attempting context", "path", path)
	if r.entry(path).IsDir() {
		return Success(Result{Path: path})
	}
	return Failed(info)
}

// resolveAsFile tries the literal path (unless extensions are enforced)
// and then each extension in order.
func (r *Resolver) resolveAsFile(info Info) State {
	if info.Request().IsDirectory() {
		return Resolving(info)
	}
	path := info.ResolvedPath()
	r.logger.Debug("attempting file", "path", path)
	if r.enforced {
		return r.resolveFileWithExt(path, info)
	}
	if r.entry(path).IsFile() {
		return Success(info.result(path))
	}
	return r.resolveFileWithExt(path, info)
}

// resolveAsDir resolves a directory through its manifest main fields and
// then its main files.
func (r *Resolver) resolveAsDir(info Info, ctx *Context) State {
	dir := info.ResolvedPath()
	if !r.entry(dir).IsDir() {
		return Failed(info)
	}
	pkg, err := r.pkgInfo(dir)
	if err != nil {
		return Errored(err)
	}
	r.logger.Debug("attempting directory", "path", dir, "depth", ctx.Depth())

	info = info.WithPath(dir).WithTarget(".")
	state := Resolving(info)
	if pkg != nil {
		state = NewMainFieldPlugin(pkg).Apply(r, info, ctx)
	}
	return state.Then(func(info Info) State {
		return MainFilePlugin{}.Apply(r, info, ctx)
	})
}
