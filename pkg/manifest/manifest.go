// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
)

// DefaultFileName is the conventional description file name.
const DefaultFileName = "package.json"

// ErrInvalidManifest is returned when a description file cannot be decoded.
var ErrInvalidManifest = errors.New("invalid package manifest")

type (
	// PkgInfo is a decoded description file.
	PkgInfo struct {
		dir     string
		path    string
		name    string
		root    *fieldmap.Node
		exports *fieldmap.Tree
		imports *fieldmap.Tree
	}

	// ParseError reports a description file that is not a JSON object.
	ParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidManifest, e.Path, e.Err)
}

// Unwrap returns the decoding error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrInvalidManifest.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidManifest }

// Parse decodes the description file at path from data.
func Parse(path string, data []byte) (*PkgInfo, error) {
	root, err := decode(path, data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if !root.IsObject() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("top-level value is %s, want object", root.Kind)}
	}

	info := &PkgInfo{
		dir:  filepath.Dir(path),
		path: path,
		root: root,
	}
	if name, ok := root.Get("name"); ok && name.Kind == fieldmap.KindString {
		info.name = name.String
	}
	if exports, ok := root.Get("exports"); ok && exports.Kind != fieldmap.KindNull {
		info.exports = fieldmap.NewExportsTree(exports)
	}
	if imports, ok := root.Get("imports"); ok && imports.Kind != fieldmap.KindNull {
		info.imports = fieldmap.NewImportsTree(imports)
	}
	return info, nil
}

// Dir returns the directory holding the description file.
func (p *PkgInfo) Dir() string { return p.dir }

// Path returns the description file path.
func (p *PkgInfo) Path() string { return p.path }

// Name returns the package name, or "" when the manifest has none.
func (p *PkgInfo) Name() string { return p.name }

// Root returns the whole document.
func (p *PkgInfo) Root() *fieldmap.Node { return p.root }

// Exports returns the exports tree, or nil when the field is absent.
func (p *PkgInfo) Exports() *fieldmap.Tree { return p.exports }

// Imports returns the imports tree, or nil when the field is absent.
func (p *PkgInfo) Imports() *fieldmap.Tree { return p.imports }

// Field returns a top-level field.
func (p *PkgInfo) Field(name string) (*fieldmap.Node, bool) {
	return p.root.Get(name)
}

// StringField returns a top-level field when it holds a string.
func (p *PkgInfo) StringField(name string) (string, bool) {
	n, ok := p.root.Get(name)
	if !ok || n.Kind != fieldmap.KindString {
		return "", false
	}
	return n.String, true
}

// BrowserMap returns the object form of the browser field.
func (p *PkgInfo) BrowserMap() (*fieldmap.Node, bool) {
	n, ok := p.root.Get("browser")
	if !ok || !n.IsObject() {
		return nil, false
	}
	return n, true
}
