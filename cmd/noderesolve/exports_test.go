// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noderesolve/noderesolve/internal/issue"
	"github.com/noderesolve/noderesolve/internal/testutil"
	"github.com/noderesolve/noderesolve/pkg/manifest"
)

func TestExportsCommand(t *testing.T) {
	t.Parallel()

	root := testutil.DiskTree(t, projectTree())
	pkgDir := filepath.Join(root, "node_modules", "pkg")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"root default conditions", []string{pkgDir}, "./cjs.js\n"},
		{"root import condition", []string{pkgDir, "-c", "import"}, "./esm.js\n"},
		{"subpath", []string{pkgDir, "./feature"}, "./feature.js\n"},
		{"imports field", []string{root, "#db", "--imports"}, "./src/db.js\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stdout, _, err := runCLI(t, "", append([]string{"exports"}, tt.args...)...)
			if err != nil {
				t.Fatalf("exports failed: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestExportsCommandUnmapped(t *testing.T) {
	t.Parallel()

	root := testutil.DiskTree(t, projectTree())
	_, stderr, err := runCLI(t, "", "exports", filepath.Join(root, "node_modules", "pkg"), "./hidden.js")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("err = %v, want ExitError code 1", err)
	}
	if !strings.Contains(stderr, "not mapped") {
		t.Errorf("stderr = %q, want a not-mapped notice", stderr)
	}
}

func TestExportsCommandImportsNeedsKey(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "", "exports", t.TempDir(), "--imports")
	if err == nil || !strings.Contains(err.Error(), "#name") {
		t.Errorf("err = %v, want missing KEY error", err)
	}
}

func TestFieldTargets(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/repo", testutil.Tree{
		"plain/package.json":  `{"name":"plain","main":"./index.js"}`,
		"broken/package.json": `{"name":`,
		"bad/package.json":    `{"exports":{"./x":"../escape.js"}}`,
	})

	t.Run("no manifest", func(t *testing.T) {
		t.Parallel()
		_, err := fieldTargets(fsys, "/repo/empty", "package.json", ".", nil, false)
		var ae *issue.ActionableError
		if !errors.As(err, &ae) || !strings.Contains(ae.Error(), "no package.json") {
			t.Errorf("err = %v, want actionable missing-manifest error", err)
		}
	})

	t.Run("invalid manifest", func(t *testing.T) {
		t.Parallel()
		_, err := fieldTargets(fsys, "/repo/broken", "package.json", ".", nil, false)
		if !errors.Is(err, manifest.ErrInvalidManifest) {
			t.Errorf("err = %v, want invalid manifest", err)
		}
	})

	t.Run("no exports field", func(t *testing.T) {
		t.Parallel()
		_, err := fieldTargets(fsys, "/repo/plain", "package.json", ".", nil, false)
		if err == nil || !strings.Contains(err.Error(), `no "exports" field`) {
			t.Errorf("err = %v, want missing exports field", err)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()
		_, err := fieldTargets(fsys, "/repo/bad", "package.json", "./x", nil, false)
		if err == nil {
			t.Error("expected an invalid target error")
		}
	})
}
