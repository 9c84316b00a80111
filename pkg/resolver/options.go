// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"

	"github.com/noderesolve/noderesolve/pkg/manifest"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

const (
	// EnforceAuto enables enforcement when Extensions contains "".
	EnforceAuto EnforceExtension = iota
	// EnforceEnabled only accepts paths carrying one of the extensions.
	EnforceEnabled
	// EnforceDisabled tries the literal path before probing extensions.
	EnforceDisabled
)

var (
	defaultExtensions     = []string{".js", ".json", ".node"}
	defaultModules        = []string{"node_modules"}
	defaultConditionNames = []string{"node", "require"}
	defaultMainFields     = []string{"main"}
	defaultMainFiles      = []string{"index"}
)

type (
	// EnforceExtension selects how bare paths are treated.
	EnforceExtension int

	// Alias redirects requests for Name (or Name/subpath) to Targets, tried
	// in order. A Name ending in "$" matches the exact request only. An
	// empty Targets list makes the module ignored.
	Alias struct {
		Name    string
		Targets []string
	}

	// Options configures a Resolver. Zero values select the defaults.
	Options struct {
		// FS is the filesystem to resolve against. nil means the OS filesystem.
		FS afero.Fs

		// Logger receives debug traces of every resolution step. nil discards them.
		Logger *log.Logger

		// Extensions are appended to bare paths, in order.
		Extensions []string

		EnforceExtension EnforceExtension

		// Modules are the module-storage directory names searched for bare
		// requests. Relative names are searched in every ancestor directory,
		// absolute ones only where they are.
		Modules []string

		// ConditionNames are the active exports/imports conditions. "default"
		// is always active.
		ConditionNames []string

		// MainFields are the manifest fields naming a package entry point.
		MainFields []string

		// MainFiles are the file names probed inside a directory.
		MainFiles []string

		// DescriptionFile is the manifest file name.
		DescriptionFile string

		// BrowserField enables the manifest "browser" field. A string
		// browser field then takes precedence over MainFields.
		BrowserField bool

		// ResolveToContext resolves requests to directories instead of files.
		ResolveToContext bool

		// PreserveSymlinks keeps symbolic links in resolved paths. Otherwise
		// results on the OS filesystem are reported as real paths.
		PreserveSymlinks bool

		Alias []Alias

		// MaxDepth bounds the recursion of a single Resolve call.
		MaxDepth int

		// Cache holds filesystem entries and parsed manifests. nil gives the
		// resolver a private cache. A Cache must only be shared between
		// resolvers using the same FS and DescriptionFile.
		Cache *Cache
	}
)

// String returns the mode name.
func (e EnforceExtension) String() string {
	switch e {
	case EnforceAuto:
		return "auto"
	case EnforceEnabled:
		return "enabled"
	case EnforceDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ParseEnforceExtension parses "auto", "enabled" or "disabled".
func ParseEnforceExtension(s string) (EnforceExtension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EnforceAuto, nil
	case "enabled", "true", "on":
		return EnforceEnabled, nil
	case "disabled", "false", "off":
		return EnforceDisabled, nil
	default:
		return EnforceAuto, fmt.Errorf("invalid enforce-extension mode %q (want auto, enabled or disabled)", s)
	}
}

// withDefaults fills unset options and clones caller-owned slices.
func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.Extensions = cloneOr(o.Extensions, defaultExtensions)
	o.Modules = cloneOr(o.Modules, defaultModules)
	o.ConditionNames = cloneOr(o.ConditionNames, defaultConditionNames)
	o.MainFields = cloneOr(o.MainFields, defaultMainFields)
	o.MainFiles = cloneOr(o.MainFiles, defaultMainFiles)
	if o.BrowserField && !slices.Contains(o.MainFields, "browser") {
		o.MainFields = slices.Insert(o.MainFields, 0, "browser")
	}
	if o.DescriptionFile == "" {
		o.DescriptionFile = manifest.DefaultFileName
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Cache == nil {
		o.Cache = NewCache()
	}
	o.Alias = slices.Clone(o.Alias)
	return o
}

// enforced reports whether literal paths without extension are rejected.
func (o Options) enforced() bool {
	switch o.EnforceExtension {
	case EnforceEnabled:
		return true
	case EnforceDisabled:
		return false
	default:
		return slices.Contains(o.Extensions, "")
	}
}

func cloneOr(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}
