// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/noderesolve/noderesolve/internal/testutil"
	"github.com/noderesolve/noderesolve/pkg/request"
)

// projectTree is a small workspace exercising most resolution rules.
var projectTree = testutil.Tree{
	"package.json": `{
		"name": "app",
		"imports": {
			"#dep": {"node": "./src/dep-node.js", "default": "./src/dep.js"},
			"#ext": "ext"
		},
		"exports": {"./util": "./lib/util.js"}
	}`,
	"foo.js":           "",
	"foo.json":         "",
	"bare":             "",
	"lib/index.js":     "",
	"lib/util.js":      "",
	"src/a.js":         "",
	"src/dep.js":       "",
	"src/dep-node.js":  "",
	"src/deep/nested/": "",
	"data.json":        "",
	"node_modules/dep/package.json": `{
		"name": "dep",
		"exports": {
			".": {"import": "./esm.mjs", "require": "./index.js"},
			"./feature/*": "./src/feature/*.js",
			"./escape": "./../outside.js"
		}
	}`,
	"node_modules/dep/index.js":            "",
	"node_modules/dep/esm.mjs":             "",
	"node_modules/dep/missing.js":          "",
	"node_modules/dep/src/feature/a.js":    "",
	"node_modules/@scope/pkg/package.json": `{"name": "@scope/pkg", "main": "lib/main.js"}`,
	"node_modules/@scope/pkg/lib/main.js":  "",
	"node_modules/@scope/pkg/lib/other.js": "",
	"node_modules/plain/index.js":          "",
	"node_modules/plain/sub/file.js":       "",
	"node_modules/ext/index.js":            "",
	"node_modules/single.js":               "",
	"node_modules/broken/package.json":     `{"name": `,
	"node_modules/broken/index.js":         "",
	"node_modules/dup/package.json":        `{"name": "dup", "main": "./a.js", "main": "./b.js"}`,
	"node_modules/dup/b.js":                "",
}

func newTestResolver(t *testing.T, opts Options) *Resolver {
	t.Helper()
	if opts.FS == nil {
		opts.FS = testutil.MemTree(t, "/p", projectTree)
	}
	return New(opts)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})

	tests := []struct {
		name    string
		dir     string
		request string
		want    string
	}{
		{name: "extension order", dir: "/p", request: "./foo", want: "/p/foo.js"},
		{name: "literal file", dir: "/p", request: "./bare", want: "/p/bare"},
		{name: "explicit extension", dir: "/p", request: "./foo.json", want: "/p/foo.json"},
		{name: "directory index", dir: "/p", request: "./lib", want: "/p/lib/index.js"},
		{name: "parent relative", dir: "/p/src", request: "../lib/util", want: "/p/lib/util.js"},
		{name: "absolute", dir: "/p/src", request: "/p/data", want: "/p/data.json"},
		{name: "exports require condition", dir: "/p/src", request: "dep", want: "/p/node_modules/dep/index.js"},
		{name: "exports pattern", dir: "/p/src", request: "dep/feature/a", want: "/p/node_modules/dep/src/feature/a.js"},
		{name: "scoped main field", dir: "/p/src", request: "@scope/pkg", want: "/p/node_modules/@scope/pkg/lib/main.js"},
		{name: "scoped subpath", dir: "/p", request: "@scope/pkg/lib/other", want: "/p/node_modules/@scope/pkg/lib/other.js"},
		{name: "package without manifest", dir: "/p", request: "plain", want: "/p/node_modules/plain/index.js"},
		{name: "package subpath without manifest", dir: "/p", request: "plain/sub/file", want: "/p/node_modules/plain/sub/file.js"},
		{name: "file in module directory", dir: "/p", request: "single", want: "/p/node_modules/single.js"},
		{name: "self reference", dir: "/p/src/deep/nested", request: "app/util", want: "/p/lib/util.js"},
		{name: "imports condition", dir: "/p/src", request: "#dep", want: "/p/src/dep-node.js"},
		{name: "imports bare target", dir: "/p/src", request: "#ext", want: "/p/node_modules/ext/index.js"},
		{name: "repeated manifest key", dir: "/p", request: "dup", want: "/p/node_modules/dup/b.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(tt.dir, tt.request)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error: %v", tt.dir, tt.request, err)
			}
			if got.Path != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.dir, tt.request, got.Path, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})

	tests := []struct {
		name    string
		dir     string
		request string
		want    error
	}{
		{name: "missing file", dir: "/p", request: "./nope", want: ErrNotFound},
		{name: "missing module", dir: "/p", request: "nope", want: ErrNotFound},
		{name: "exports closed world", dir: "/p", request: "dep/missing", want: ErrNotExported},
		{name: "exports escape", dir: "/p", request: "dep/escape", want: ErrInvalidExportTarget},
		{name: "broken manifest", dir: "/p", request: "broken", want: ErrInvalidManifest},
		{name: "unknown import", dir: "/p/src", request: "#nope", want: ErrNotImported},
		{name: "self reference not exported", dir: "/p/src", request: "app/hidden", want: ErrNotExported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Resolve(tt.dir, tt.request)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve(%q, %q) error = %v, want %v", tt.dir, tt.request, err, tt.want)
			}
		})
	}
}

func TestResolveDriveLetterOutsideWindows(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("drive letters are absolute on Windows")
	}

	fs := testutil.MemTree(t, "/w", testutil.Tree{
		"node_modules/c:/x.js": "",
	})
	r := New(Options{FS: fs})
	got, err := r.Resolve("/w", "c:/x")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Path != "/w/node_modules/c:/x.js" {
		t.Errorf("Resolve() = %q, want the module directory lookup", got.Path)
	}
}

func TestResolveErrorCarriesContext(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})

	_, err := r.Resolve("/p", "dep/missing")
	var rerr *ResolveError
	if !errors.As(err, &rerr) {
		t.Fatalf("error %v is not a *ResolveError", err)
	}
	if rerr.Manifest != "/p/node_modules/dep/package.json" || rerr.Target != "./missing" {
		t.Errorf("ResolveError = %+v", rerr)
	}
	if rerr.Request != "dep/missing" || rerr.Dir != "/p" {
		t.Errorf("ResolveError request context = %q from %q", rerr.Request, rerr.Dir)
	}

	_, err = r.Resolve("/p", "./nope")
	if !errors.As(err, &rerr) || rerr.Request != "./nope" {
		t.Errorf("not found error = %v", err)
	}
}

func TestResolveQueryAndFragment(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})

	got, err := r.Resolve("/p", "./foo?x=1#top")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "/p/foo.js" || got.Query != "?x=1" || got.Fragment != "#top" {
		t.Errorf("Resolve = %+v", got)
	}

	got, err = r.Resolve("/p", "dep?raw")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "/p/node_modules/dep/index.js" || got.Query != "?raw" {
		t.Errorf("exports with query = %+v", got)
	}

	got, err = r.Resolve("/p", "dep/feature/a#frag")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "/p/node_modules/dep/src/feature/a.js" || got.Fragment != "#frag" {
		t.Errorf("exports subpath with fragment = %+v", got)
	}
}

func TestResolvePackageName(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})
	got, err := r.Resolve("/p", "@scope/pkg")
	if err != nil {
		t.Fatal(err)
	}
	if got.Package != "@scope/pkg" {
		t.Errorf("Package = %q, want @scope/pkg", got.Package)
	}
}

func TestResolvePackageNameUnreadableManifest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	r := newTestResolver(t, Options{Logger: logger})
	got, err := r.Resolve("/p", "/p/node_modules/broken/index.js")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Path != "/p/node_modules/broken/index.js" || got.Package != "" {
		t.Errorf("Resolve() = %+v, want path without package", got)
	}
	if !strings.Contains(buf.String(), "owning package unavailable") {
		t.Errorf("manifest error not logged:\n%s", buf.String())
	}
}

func TestResolveConditionNames(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{ConditionNames: []string{"import"}})
	got, err := r.Resolve("/p", "dep")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "/p/node_modules/dep/esm.mjs" {
		t.Errorf("Resolve(dep) with import condition = %q", got.Path)
	}

	got, err = r.Resolve("/p/src", "#dep")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path != "/p/src/dep.js" {
		t.Errorf("Resolve(#dep) without node condition = %q", got.Path)
	}
}

func TestResolveEnforceExtension(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/e", testutil.Tree{"foo": "", "bar.js": ""})

	enforced := New(Options{FS: fsys, Extensions: []string{".js"}, EnforceExtension: EnforceEnabled})
	if _, err := enforced.Resolve("/e", "./foo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("enforced literal file error = %v, want ErrNotFound", err)
	}
	if got, err := enforced.Resolve("/e", "./bar"); err != nil || got.Path != "/e/bar.js" {
		t.Errorf("enforced probe = %+v, %v", got, err)
	}

	probing := New(Options{FS: fsys, Extensions: []string{".js"}})
	if got, err := probing.Resolve("/e", "./foo"); err != nil || got.Path != "/e/foo" {
		t.Errorf("literal file = %+v, %v", got, err)
	}
}

func TestResolveFindUp(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/d", testutil.Tree{
		"X/mod/index.js":    "",
		"X/shared/index.js": "",
		"a/X/shared.js":     "",
		"a/b/":              "",
	})
	r := New(Options{FS: fsys, Modules: []string{"X"}})

	got, err := r.Resolve("/d/a/b", "mod")
	if err != nil || got.Path != "/d/X/mod/index.js" {
		t.Errorf("find-up = %+v, %v", got, err)
	}

	got, err = r.Resolve("/d/a/b", "shared")
	if err != nil || got.Path != "/d/a/X/shared.js" {
		t.Errorf("nearest module directory should win: %+v, %v", got, err)
	}
}

func TestResolveAbsoluteModulesDirectory(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/", testutil.Tree{
		"vendor/lib/index.js":            "",
		"work/a/b/":                      "",
		"work/node_modules/lib/index.js": "",
	})
	r := New(Options{FS: fsys, Modules: []string{"/vendor"}})

	got, err := r.Resolve("/work/a/b", "lib")
	if err != nil || got.Path != "/vendor/lib/index.js" {
		t.Errorf("absolute modules directory = %+v, %v", got, err)
	}
}

func TestResolveSelfReferenceAtPackageRoot(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/pkg", testutil.Tree{
		"package.json": `{"name": "pkg", "exports": {".": "./main.js", "./util": "./lib/util.js"}}`,
		"main.js":      "",
		"lib/util.js":  "",
		"src/index.js": "",
	})
	r := New(Options{FS: fsys})

	for request, want := range map[string]string{
		"pkg":      "/pkg/main.js",
		"pkg/util": "/pkg/lib/util.js",
	} {
		got, err := r.Resolve("/pkg/src", request)
		if err != nil || got.Path != want {
			t.Errorf("Resolve(%q) = %+v, %v, want %s", request, got, err, want)
		}
	}
}

func TestResolveBrowserField(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/b", testutil.Tree{
		"package.json": `{
			"name": "web",
			"browser": {"fs": false, "./lib/node.js": "./lib/browser.js", "lodash": "lodash-es"}
		}`,
		"lib/node.js":                     "",
		"lib/browser.js":                  "",
		"node_modules/lodash-es/index.js": "",
		"node_modules/lodash/index.js":    "",
		"node_modules/shim/package.json":  `{"name": "shim", "main": "./node.js", "browser": "./browser.js"}`,
		"node_modules/shim/node.js":       "",
		"node_modules/shim/browser.js":    "",
	})

	r := New(Options{FS: fsys, BrowserField: true})

	got, err := r.Resolve("/b", "fs")
	if err != nil || !got.Ignored || got.Path != "" {
		t.Errorf("ignored module = %+v, %v", got, err)
	}

	for request, want := range map[string]string{
		"./lib/node":    "/b/lib/browser.js",
		"./lib/node.js": "/b/lib/browser.js",
		"lodash":        "/b/node_modules/lodash-es/index.js",
		"shim":          "/b/node_modules/shim/browser.js",
	} {
		got, err := r.Resolve("/b", request)
		if err != nil || got.Path != want {
			t.Errorf("Resolve(%q) = %+v, %v, want %s", request, got, err, want)
		}
	}

	plain := New(Options{FS: fsys})
	if got, err := plain.Resolve("/b", "shim"); err != nil || got.Path != "/b/node_modules/shim/node.js" {
		t.Errorf("browser field disabled = %+v, %v", got, err)
	}
}

func TestResolveAlias(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemTree(t, "/w", testutil.Tree{
		"src/utils/x.js":             "",
		"node_modules/real/index.js": "",
	})
	r := New(Options{FS: fsys, Alias: []Alias{
		{Name: "@utils", Targets: []string{"/w/missing", "/w/src/utils"}},
		{Name: "fake$", Targets: []string{"real"}},
		{Name: "ignored"},
	}})

	got, err := r.Resolve("/w", "@utils/x")
	if err != nil || got.Path != "/w/src/utils/x.js" {
		t.Errorf("alias fallback = %+v, %v", got, err)
	}
	got, err = r.Resolve("/w", "fake")
	if err != nil || got.Path != "/w/node_modules/real/index.js" {
		t.Errorf("exact alias = %+v, %v", got, err)
	}
	if _, err = r.Resolve("/w", "fake/sub"); !errors.Is(err, ErrNotFound) {
		t.Errorf("exact alias should not match subpaths: %v", err)
	}
	got, err = r.Resolve("/w", "ignored")
	if err != nil || !got.Ignored {
		t.Errorf("ignored alias = %+v, %v", got, err)
	}
}

func TestResolveRecursionLimit(t *testing.T) {
	t.Parallel()

	r := New(Options{
		FS:       testutil.MemTree(t, "/r", testutil.Tree{"x/": ""}),
		MaxDepth: 16,
		Alias: []Alias{
			{Name: "a", Targets: []string{"b"}},
			{Name: "b", Targets: []string{"a"}},
		},
	})
	if _, err := r.Resolve("/r", "a"); !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("alias loop error = %v, want ErrRecursionLimit", err)
	}
}

func TestResolveToContext(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{ResolveToContext: true})

	got, err := r.Resolve("/p", "./lib")
	if err != nil || got.Path != "/p/lib" {
		t.Errorf("context = %+v, %v", got, err)
	}
	if _, err := r.Resolve("/p", "./foo.js"); !errors.Is(err, ErrNotFound) {
		t.Errorf("context mode should not resolve files: %v", err)
	}
}

func TestExportsFieldPluginSkipsUnknownBareTarget(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})
	pkg, err := r.pkgInfo("/p/node_modules/dep")
	if err != nil || pkg == nil {
		t.Fatalf("pkgInfo = %v, %v", pkg, err)
	}

	info := NewInfo("/p", request.Parse("other"))
	state := NewExportsFieldPlugin(pkg).Apply(r, info, newContext(8))
	if state.Kind() != StateResolving {
		t.Errorf("state = %s, want resolving", state.Kind())
	}
}

func TestResolveConcurrent(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, Options{})
	requests := map[string]string{
		"dep":            "/p/node_modules/dep/index.js",
		"@scope/pkg":     "/p/node_modules/@scope/pkg/lib/main.js",
		"./foo":          "/p/foo.js",
		"plain/sub/file": "/p/node_modules/plain/sub/file.js",
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		for request, want := range requests {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := r.Resolve("/p", request)
				if err != nil {
					errs <- err
					return
				}
				if got.Path != want {
					errs <- errors.New(request + " resolved to " + got.Path)
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestResolveSymlinksOnDisk(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	t.Parallel()

	root := testutil.DiskTree(t, testutil.Tree{
		"packages/dep/package.json": `{"name": "dep", "main": "main.js"}`,
		"packages/dep/main.js":      "",
		"app/node_modules/":         "",
	})
	link := filepath.Join(root, "app", "node_modules", "dep")
	if err := os.Symlink(filepath.Join(root, "packages", "dep"), link); err != nil {
		t.Fatal(err)
	}

	got, err := New(Options{}).Resolve(filepath.Join(root, "app"), "dep")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "packages", "dep", "main.js"); got.Path != want {
		t.Errorf("real path = %q, want %q", got.Path, want)
	}

	got, err = New(Options{PreserveSymlinks: true}).Resolve(filepath.Join(root, "app"), "dep")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(link, "main.js"); got.Path != want {
		t.Errorf("preserved path = %q, want %q", got.Path, want)
	}
}
