// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Tree maps slash-separated relative paths to file contents.
type Tree map[string]string

// MustWriteTree writes tree below root on fsys.
func MustWriteTree(t testing.TB, fsys afero.Fs, root string, tree Tree) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := fsys.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", path, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// MemTree returns an in-memory filesystem holding tree below root.
func MemTree(t testing.TB, root string, tree Tree) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	MustWriteTree(t, fsys, root, tree)
	return fsys
}

// DiskTree writes tree into a fresh temporary directory and returns it.
// The directory is reported with symlinks evaluated so it compares equal
// to resolved real paths.
func DiskTree(t testing.TB, tree Tree) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to evaluate temp dir: %v", err)
	}
	MustWriteTree(t, afero.NewOsFs(), root, tree)
	return root
}
