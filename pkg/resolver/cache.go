// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/noderesolve/noderesolve/pkg/manifest"
)

const (
	entryMissing entryKind = iota
	entryFile
	entryDir
)

type (
	entryKind int

	// Cache memoizes filesystem entries and parsed manifests. It is safe for
	// concurrent use; concurrent loads of the same manifest are collapsed
	// into one read.
	Cache struct {
		entries   sync.Map // path -> *Entry
		manifests sync.Map // manifest path -> manifestResult
		loads     singleflight.Group
	}

	// Entry is the cached metadata of one path. The path is stat'ed once,
	// on first use.
	Entry struct {
		path string
		once sync.Once
		kind entryKind
	}

	manifestResult struct {
		info *manifest.PkgInfo
		err  error
	}
)

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Path returns the entry path.
func (e *Entry) Path() string { return e.path }

// IsFile reports whether the path is a regular file.
func (e *Entry) IsFile() bool { return e.kind == entryFile }

// IsDir reports whether the path is a directory.
func (e *Entry) IsDir() bool { return e.kind == entryDir }

// Exists reports whether anything exists at the path.
func (e *Entry) Exists() bool { return e.kind != entryMissing }

func (e *Entry) load(fsys afero.Fs) {
	e.once.Do(func() {
		st, err := fsys.Stat(e.path)
		switch {
		case err != nil:
			e.kind = entryMissing
		case st.IsDir():
			e.kind = entryDir
		default:
			e.kind = entryFile
		}
	})
}

func (c *Cache) entry(fsys afero.Fs, path string) *Entry {
	v, ok := c.entries.Load(path)
	if !ok {
		v, _ = c.entries.LoadOrStore(path, &Entry{path: path})
	}
	e := v.(*Entry)
	e.load(fsys)
	return e
}

// manifest returns the parsed manifest in dir, or nil when there is none.
func (c *Cache) manifest(fsys afero.Fs, dir, fileName string) (*manifest.PkgInfo, error) {
	key := filepath.Join(dir, fileName)
	if v, ok := c.manifests.Load(key); ok {
		r := v.(manifestResult)
		return r.info, r.err
	}

	v, err, _ := c.loads.Do(key, func() (any, error) {
		info, err := manifest.Load(fsys, dir, fileName)
		c.manifests.Store(key, manifestResult{info: info, err: err})
		return info, err
	})
	info, _ := v.(*manifest.PkgInfo)
	return info, err
}

// Purge drops the cached state of the given paths and everything below
// them, and of the directories holding them.
func (c *Cache) Purge(paths ...string) {
	for _, p := range paths {
		p = filepath.Clean(p)
		parent := filepath.Dir(p)
		prefix := p + string(filepath.Separator)

		c.entries.Range(func(k, _ any) bool {
			key := k.(string)
			if key == p || key == parent || strings.HasPrefix(key, prefix) {
				c.entries.Delete(key)
			}
			return true
		})
		c.manifests.Range(func(k, _ any) bool {
			key := k.(string)
			if key == p || filepath.Dir(key) == p || filepath.Dir(key) == parent || strings.HasPrefix(key, prefix) {
				c.manifests.Delete(key)
			}
			return true
		})
	}
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.entries.Clear()
	c.manifests.Clear()
}
