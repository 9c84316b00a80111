// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
	"github.com/noderesolve/noderesolve/pkg/manifest"
)

var (
	// ErrNotFound is returned when every alternative was exhausted.
	ErrNotFound = errors.New("module not found")
	// ErrNotExported is returned when a package exports map does not expose a subpath.
	ErrNotExported = errors.New("package path is not exported")
	// ErrInvalidExportTarget is returned when an exports or imports target breaks the target rules.
	ErrInvalidExportTarget = errors.New("invalid package target")
	// ErrNotImported is returned when an internal "#" request matches no imports entry.
	ErrNotImported = errors.New("package import is not defined")
	// ErrInvalidManifest is returned when a manifest cannot be parsed.
	ErrInvalidManifest = manifest.ErrInvalidManifest
	// ErrRecursionLimit is returned when a resolve call recurses past Options.MaxDepth.
	ErrRecursionLimit = errors.New("resolve recursion limit exceeded")
)

// ResolveError describes why a request could not be resolved.
type ResolveError struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Manifest is the offending description file, if any.
	Manifest string
	// Target is the offending lookup key or mapped target, if any.
	Target string
	// Request and Dir identify the request being resolved.
	Request string
	Dir     string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Target != "" {
		fmt.Fprintf(&b, " %q", e.Target)
	}
	if e.Manifest != "" {
		fmt.Fprintf(&b, " in %s", e.Manifest)
	}
	if e.Request != "" {
		fmt.Fprintf(&b, " (request %q from %s)", e.Request, e.Dir)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ResolveError) Unwrap() error { return e.Err }

// Is matches the error kind.
func (e *ResolveError) Is(target error) bool { return target == e.Kind }

// fieldKind maps a field evaluation error to the resolver error kind.
func fieldKind(err, fallback error) error {
	switch {
	case errors.Is(err, fieldmap.ErrInvalidTarget):
		return ErrInvalidExportTarget
	case errors.Is(err, fieldmap.ErrInvalidField):
		return ErrInvalidManifest
	default:
		return fallback
	}
}
