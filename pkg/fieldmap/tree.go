// SPDX-License-Identifier: MPL-2.0

package fieldmap

import (
	"strings"
)

const (
	exportsField fieldKind = iota
	importsField
)

type (
	fieldKind int

	// Tree is a normalized exports or imports field ready for lookups.
	// A malformed field still yields a Tree; the problem is reported by
	// every call to Process so that packages whose field is never consulted
	// keep resolving.
	Tree struct {
		kind fieldKind
		root *Node
		err  error
	}

	// match is the field entry selected for a request key.
	match struct {
		mapping          *Node
		subpath          string
		isSubpathMapping bool
		isPattern        bool
	}
)

// NewExportsTree normalizes an "exports" field value.
//
// A string or array is shorthand for {".": value}. An object whose keys do
// not start with "." is a conditional shorthand for {".": value}.
func NewExportsTree(field *Node) *Tree {
	root, err := normalizeExports(field)
	return &Tree{kind: exportsField, root: root, err: err}
}

// NewImportsTree validates an "imports" field value.
func NewImportsTree(field *Node) *Tree {
	return &Tree{kind: importsField, root: field, err: validateImports(field)}
}

// Err returns the normalization error of a malformed field, if any.
func (t *Tree) Err() error { return t.err }

// Root returns the normalized subpath mapping.
func (t *Tree) Root() *Node { return t.root }

func normalizeExports(field *Node) (*Node, error) {
	if field == nil {
		return ObjectNode(), nil
	}
	switch field.Kind {
	case KindString, KindArray:
		return ObjectNode(Field{Key: ".", Value: field}), nil
	case KindObject:
	default:
		return nil, fieldError("exports", "must be a string, an array or an object, got "+field.Kind.String())
	}

	for i, f := range field.Fields {
		key := f.Key
		if !strings.HasPrefix(key, ".") {
			if i != 0 {
				return nil, fieldError(key, `exports field key should be relative path and start with "."`)
			}
			for _, rest := range field.Fields {
				if strings.HasPrefix(rest.Key, ".") || strings.HasPrefix(rest.Key, "/") {
					return nil, fieldError(rest.Key, `exports field mixes subpath keys and condition names`)
				}
			}
			return ObjectNode(Field{Key: ".", Value: field}), nil
		}
		if len(key) > 1 && key[1] != '/' {
			return nil, fieldError(key, `exports field key should be relative path and start with "./"`)
		}
	}
	return field, nil
}

func validateImports(field *Node) error {
	if field == nil {
		return nil
	}
	if field.Kind != KindObject {
		return fieldError("imports", "must be an object, got "+field.Kind.String())
	}
	for _, f := range field.Fields {
		switch {
		case !strings.HasPrefix(f.Key, "#"):
			return fieldError(f.Key, `imports field key should start with "#"`)
		case len(f.Key) == 1:
			return fieldError(f.Key, "imports field key should have at least 2 characters")
		case f.Key[1] == '/':
			return fieldError(f.Key, `imports field key should not start with "#/"`)
		}
	}
	return nil
}

// Process maps a request key to its candidate targets under the given
// condition names, in manifest order.
//
// The key is "." or "./subpath" for exports and "#name" for imports. A
// query or fragment on the key is ignored for matching and appended to
// every produced target. An empty result means the key is not mapped.
func (t *Tree) Process(key string, conditionNames []string) ([]string, error) {
	if t.err != nil {
		return nil, t.err
	}

	key, suffix := t.splitSuffix(key)
	if err := t.assertRequest(key); err != nil {
		return nil, err
	}

	m, ok := findMatch(key, t.root)
	if !ok {
		return nil, nil
	}

	conditions := make(map[string]struct{}, len(conditionNames))
	for _, c := range conditionNames {
		conditions[c] = struct{}{}
	}

	direct := m.mapping
	if direct.IsObject() {
		var found bool
		direct, found = conditionalMapping(direct, conditions)
		if !found {
			return nil, nil
		}
	}

	targets, err := t.directMapping(m, direct, conditions)
	if err != nil {
		return nil, err
	}
	if suffix != "" {
		for i := range targets {
			targets[i] += suffix
		}
	}
	return targets, nil
}

// splitSuffix separates a trailing query or fragment from the lookup key.
func (t *Tree) splitSuffix(key string) (string, string) {
	start := 0
	if t.kind == importsField {
		start = 1
	}
	if start > len(key) {
		return key, ""
	}
	i := strings.IndexAny(key[start:], "?#")
	if i < 0 {
		return key, ""
	}
	base, suffix := key[:start+i], key[start+i:]
	if t.kind == exportsField && base == "./" {
		base = "."
	}
	return base, suffix
}

func (t *Tree) assertRequest(key string) error {
	if t.kind == importsField {
		switch {
		case !strings.HasPrefix(key, "#"):
			return requestError(key, `request should start with "#"`)
		case len(key) == 1:
			return requestError(key, "request should have at least 2 characters")
		case strings.HasSuffix(key, "/"):
			return requestError(key, "only requesting file allowed")
		}
		return nil
	}

	switch {
	case !strings.HasPrefix(key, "."):
		return requestError(key, `request should be relative path and start with "."`)
	case len(key) == 1:
		return nil
	case key[1] != '/':
		return requestError(key, `request should be relative path and start with "./"`)
	case strings.HasSuffix(key, "/"):
		return requestError(key, "only requesting file allowed")
	}
	return nil
}

func (t *Tree) assertTarget(target string, expectFolder bool) error {
	if t.kind == exportsField {
		if !strings.HasPrefix(target, "./") {
			return targetError(target, `exports targets must start with "./"`)
		}
	} else if strings.HasPrefix(target, "/") || (strings.HasPrefix(target, ".") && !strings.HasPrefix(target, "./")) {
		return targetError(target, `imports targets must start with "./" or be a module request`)
	}

	isFolder := strings.HasSuffix(target, "/")
	if isFolder != expectFolder {
		if expectFolder {
			return targetError(target, `expecting folder to folder mapping, target should end with "/"`)
		}
		return targetError(target, `expecting file to file mapping, target should not end with "/"`)
	}
	return nil
}

// findMatch selects the field entry for key: an exact non-pattern key
// first, then the most specific pattern or legacy folder key.
func findMatch(key string, field *Node) (match, bool) {
	if !strings.Contains(key, "*") && !strings.HasSuffix(key, "/") {
		if mapping, ok := field.Get(key); ok {
			return match{mapping: mapping}, true
		}
	}

	best := ""
	var bestMapping *Node
	var bestSubpath string
	for _, f := range field.Fields {
		k := f.Key
		patternIndex := strings.IndexByte(k, '*')
		if patternIndex >= 0 && strings.HasPrefix(key, k[:patternIndex]) {
			trailer := k[patternIndex+1:]
			if len(key) >= len(k) &&
				strings.HasSuffix(key, trailer) &&
				patternKeyCompare(best, k) == 1 &&
				strings.LastIndexByte(k, '*') == patternIndex {
				best = k
				bestMapping = f.Value
				bestSubpath = key[patternIndex : len(key)-len(trailer)]
			}
		} else if patternIndex < 0 && strings.HasSuffix(k, "/") && strings.HasPrefix(key, k) && patternKeyCompare(best, k) == 1 {
			best = k
			bestMapping = f.Value
			bestSubpath = key[len(k):]
		}
	}
	if best == "" {
		return match{}, false
	}
	return match{
		mapping:          bestMapping,
		subpath:          bestSubpath,
		isSubpathMapping: strings.HasSuffix(best, "/"),
		isPattern:        strings.Contains(best, "*"),
	}, true
}

// patternKeyCompare orders keys by specificity. It returns 1 when b is
// more specific than a.
func patternKeyCompare(a, b string) int {
	aPattern := strings.IndexByte(a, '*')
	bPattern := strings.IndexByte(b, '*')
	baseA := len(a)
	if aPattern >= 0 {
		baseA = aPattern + 1
	}
	baseB := len(b)
	if bPattern >= 0 {
		baseB = bPattern + 1
	}
	switch {
	case baseA > baseB:
		return -1
	case baseB > baseA:
		return 1
	case aPattern < 0:
		return 1
	case bPattern < 0:
		return -1
	case len(a) > len(b):
		return -1
	case len(b) > len(a):
		return 1
	}
	return 0
}

// conditionalMapping walks a conditional object in key order and returns
// the first value whose condition is active. Nested conditional objects
// that yield nothing fall through to the next sibling key.
func conditionalMapping(mapping *Node, conditions map[string]struct{}) (*Node, bool) {
	for _, f := range mapping.Fields {
		if _, active := conditions[f.Key]; !active && f.Key != "default" {
			continue
		}
		if f.Value.IsObject() {
			if inner, ok := conditionalMapping(f.Value, conditions); ok {
				return inner, true
			}
			continue
		}
		return f.Value, true
	}
	return nil, false
}

func (t *Tree) directMapping(m match, target *Node, conditions map[string]struct{}) ([]string, error) {
	if target == nil {
		return nil, nil
	}
	switch target.Kind {
	case KindNull:
		return nil, nil
	case KindString:
		mapped, err := t.targetMapping(m, target.String)
		if err != nil {
			return nil, err
		}
		return []string{mapped}, nil
	case KindArray:
		var targets []string
		for _, item := range target.Items {
			inner := item
			if item.IsObject() {
				var ok bool
				inner, ok = conditionalMapping(item, conditions)
				if !ok {
					continue
				}
			}
			mapped, err := t.directMapping(m, inner, conditions)
			if err != nil {
				return nil, err
			}
			targets = append(targets, mapped...)
		}
		return targets, nil
	case KindObject:
		inner, ok := conditionalMapping(target, conditions)
		if !ok {
			return nil, nil
		}
		return t.directMapping(m, inner, conditions)
	default:
		return nil, fieldError(target.Kind.String(), "target must be a string, an array, an object or null")
	}
}

func (t *Tree) targetMapping(m match, target string) (string, error) {
	if m.isSubpathMapping {
		if err := t.assertTarget(target, true); err != nil {
			return "", err
		}
		return target + m.subpath, nil
	}
	if err := t.assertTarget(target, false); err != nil {
		return "", err
	}
	if m.isPattern {
		return strings.ReplaceAll(target, "*", m.subpath), nil
	}
	return target, nil
}
