// SPDX-License-Identifier: MPL-2.0

// Package request parses module request strings into a target, a query
// and a fragment, and splits bare module requests into a package name and
// the subpath that follows it.
//
// A scoped package name spans two segments ("@scope/name"), an unscoped
// one spans a single segment ("name"):
//
//	ModuleName("@a/b/c")      == "@a/b"
//	PathFromRequest("@a/b/c") == "/c"
//	ModuleName("a/b")         == "a"
//	PathFromRequest("a")      == ("", false)
package request
