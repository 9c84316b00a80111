// SPDX-License-Identifier: MPL-2.0

package resolver

// Plugin is one resolution rule. Apply returns Resolving to defer to the
// next rule, Success or Error to finish, and Failed when its branch is
// exhausted.
type Plugin interface {
	Apply(r *Resolver, info Info, ctx *Context) State
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(r *Resolver, info Info, ctx *Context) State

// Apply calls f.
func (f PluginFunc) Apply(r *Resolver, info Info, ctx *Context) State {
	return f(r, info, ctx)
}
