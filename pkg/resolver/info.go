// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"

	"github.com/noderesolve/noderesolve/pkg/request"
)

type (
	// Info is the in-flight resolution unit: a base directory and the
	// request being resolved against it. Info is a value; the With methods
	// return modified copies.
	Info struct {
		path    string
		request request.Request
	}

	// Result is a terminal resolution.
	Result struct {
		// Path is the resolved file (or directory in context mode). It is
		// empty for an ignored module.
		Path     string
		Query    string
		Fragment string
		// Ignored is set when a browser or alias mapping maps the request
		// to false.
		Ignored bool
		// Package is the name declared by the manifest that owns Path. It is
		// left empty when that manifest cannot be read.
		Package string
	}
)

// NewInfo returns an Info for req relative to the directory path.
func NewInfo(path string, req request.Request) Info {
	return Info{path: filepath.Clean(path), request: req}
}

// Path returns the base directory.
func (i Info) Path() string { return i.path }

// Request returns the current request.
func (i Info) Request() request.Request { return i.request }

// WithPath returns a copy based at path.
func (i Info) WithPath(path string) Info {
	i.path = filepath.Clean(path)
	return i
}

// WithTarget returns a copy whose request target is replaced; query and
// fragment are kept.
func (i Info) WithTarget(target string) Info {
	i.request = i.request.WithTarget(target)
	return i
}

// WithRequest returns a copy holding req.
func (i Info) WithRequest(req request.Request) Info {
	i.request = req
	return i
}

// ResolvedPath joins the request target onto the base directory. An
// absolute target stands on its own.
func (i Info) ResolvedPath() string {
	target := i.request.Target()
	if i.request.Kind() == request.KindAbsolute {
		return filepath.Clean(filepath.FromSlash(target))
	}
	return filepath.Join(i.path, filepath.FromSlash(target))
}

func (i Info) result(path string) Result {
	return Result{Path: path, Query: i.request.Query(), Fragment: i.request.Fragment()}
}
