// SPDX-License-Identifier: MPL-2.0

package resolver

// Context tracks one top-level Resolve call. It is threaded through every
// recursive step of that call and never shared between calls.
type Context struct {
	depth    int
	maxDepth int
}

func newContext(maxDepth int) *Context {
	return &Context{maxDepth: maxDepth}
}

// Depth returns the current recursion depth.
func (c *Context) Depth() int { return c.depth }

func (c *Context) enter() bool {
	c.depth++
	return c.depth <= c.maxDepth
}

func (c *Context) leave() { c.depth-- }
