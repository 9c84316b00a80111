// SPDX-License-Identifier: MPL-2.0

package request

import "strings"

// SplitSlash returns the index of the separator between the module name
// and its subpath: the second '/' for scoped targets, the first '/'
// otherwise. ok is false when the target has no subpath.
func SplitSlash(target string) (index int, ok bool) {
	first := strings.IndexByte(target, '/')
	if first < 0 {
		return 0, false
	}
	if !strings.HasPrefix(target, "@") {
		return first, true
	}
	second := strings.IndexByte(target[first+1:], '/')
	if second < 0 {
		return 0, false
	}
	return first + 1 + second, true
}

// ModuleName returns the package name a bare target refers to.
func ModuleName(target string) string {
	if index, ok := SplitSlash(target); ok {
		return target[:index]
	}
	return target
}

// PathFromRequest returns the subpath after the module name, including its
// leading '/'. ok is false when the target is only a module name.
func PathFromRequest(target string) (path string, ok bool) {
	index, ok := SplitSlash(target)
	if !ok {
		return "", false
	}
	return target[index:], true
}
