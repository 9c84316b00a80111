// SPDX-License-Identifier: MPL-2.0

package resolver

import "strings"

// AliasPlugin applies Options.Alias. When every target of a matching alias
// fails, the original request continues unchanged.
type AliasPlugin struct{}

// Apply implements Plugin.
func (AliasPlugin) Apply(r *Resolver, info Info, ctx *Context) State {
	target := info.Request().Target()
	for _, alias := range r.opts.Alias {
		name, exact := strings.CutSuffix(alias.Name, "$")
		var rest string
		switch {
		case target == name:
		case !exact && strings.HasPrefix(target, name+"/"):
			rest = target[len(name):]
		default:
			continue
		}

		if len(alias.Targets) == 0 {
			r.logger.Debug("alias ignores request", "name", alias.Name, "depth", ctx.Depth())
			return Success(Result{Ignored: true})
		}
		for _, to := range alias.Targets {
			if target == to || strings.HasPrefix(target, to+"/") {
				continue
			}
			r.logger.Debug("alias mapped request",
				"name", alias.Name, "target", to+rest, "depth", ctx.Depth())
			state := r.resolve(info.WithTarget(to+rest), ctx)
			if state.IsFinished() {
				return state
			}
		}
	}
	return Resolving(info)
}
