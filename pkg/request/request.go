// SPDX-License-Identifier: MPL-2.0

package request

import (
	"runtime"
	"strings"
)

const (
	// KindRelative is a request starting with "./", "../", "." or "..", or an empty request.
	KindRelative Kind = iota
	// KindAbsolute is a request holding an absolute filesystem path.
	KindAbsolute
	// KindInternal is a package-internal import starting with "#".
	KindInternal
	// KindNormal is a bare module request such as "lodash/fp".
	KindNormal
)

type (
	// Kind classifies how a request target is located.
	Kind int

	// Request is an immutable parsed request.
	Request struct {
		target   string
		query    string
		fragment string
	}
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	case KindInternal:
		return "internal"
	case KindNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// New builds a request from already separated parts.
func New(target, query, fragment string) Request {
	return Request{target: target, query: query, fragment: fragment}
}

// Parse splits s into target, query and fragment.
//
// The query starts at the first '?', the fragment at the first '#'. A '#'
// at position 0 belongs to the target (internal imports), and "\0#" is an
// escaped literal '#'.
func Parse(s string) Request {
	var target strings.Builder
	queryStart, fragmentStart := -1, -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0 && i+1 < len(s) && s[i+1] == '#':
			// escaped literal '#'
			if queryStart < 0 && fragmentStart < 0 {
				target.WriteByte('#')
			}
			i++
			continue
		case c == '?' && queryStart < 0 && fragmentStart < 0:
			queryStart = i
		case c == '#' && i > 0 && fragmentStart < 0:
			fragmentStart = i
		}
		if queryStart < 0 && fragmentStart < 0 {
			target.WriteByte(c)
		}
	}

	req := Request{target: target.String()}
	switch {
	case queryStart >= 0 && fragmentStart >= 0:
		req.query = unescape(s[queryStart:fragmentStart])
		req.fragment = unescape(s[fragmentStart:])
	case queryStart >= 0:
		req.query = unescape(s[queryStart:])
	case fragmentStart >= 0:
		req.fragment = unescape(s[fragmentStart:])
	}
	return req
}

func unescape(s string) string {
	return strings.ReplaceAll(s, "\x00#", "#")
}

// Target returns the path-like part of the request.
func (r Request) Target() string { return r.target }

// Query returns the query string including its leading '?', or "".
func (r Request) Query() string { return r.query }

// Fragment returns the fragment including its leading '#', or "".
func (r Request) Fragment() string { return r.fragment }

// WithTarget returns a copy of r with a different target.
func (r Request) WithTarget(target string) Request {
	r.target = target
	return r
}

// String re-joins the request parts.
func (r Request) String() string {
	return r.target + r.query + r.fragment
}

// IsDirectory reports whether the target names a directory: it is empty
// or ends with a separator.
func (r Request) IsDirectory() bool {
	return r.target == "" || strings.HasSuffix(r.target, "/")
}

// Kind classifies the target.
func (r Request) Kind() Kind {
	return KindOf(r.target)
}

// KindOf classifies a raw target string.
func KindOf(target string) Kind {
	switch {
	case target == "", target == ".", target == "..":
		return KindRelative
	case strings.HasPrefix(target, "./"), strings.HasPrefix(target, "../"):
		return KindRelative
	case strings.HasPrefix(target, "/"):
		return KindAbsolute
	case isWindowsAbsolute(target):
		return KindAbsolute
	case strings.HasPrefix(target, "#"):
		return KindInternal
	default:
		return KindNormal
	}
}

// isWindowsAbsolute matches "C:\" and "C:/" style prefixes. Elsewhere such
// a target is a module name, as it is for Node.
func isWindowsAbsolute(target string) bool {
	if runtime.GOOS != "windows" || len(target) < 3 || target[1] != ':' {
		return false
	}
	c := target[0]
	isLetter := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	return isLetter && (target[2] == '\\' || target[2] == '/')
}
