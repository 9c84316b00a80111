// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/noderesolve/noderesolve/pkg/resolver"
)

const (
	ModuleNotFoundId Id = iota + 1
	PathNotExportedId
	InvalidPackageTargetId
	ImportNotDefinedId
	InvalidManifestId
	RecursionLimitId
	ConfigLoadFailedId
	WatchFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a Markdown help page for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page for the terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

Every candidate location was tried and none of them holds the request.

## Search order
1. Aliases from your configuration
2. Relative and absolute paths, with each configured extension
3. Directory entry points: manifest main fields, then index files
4. Module directories (node_modules) in the base directory and every ancestor

## Things you can try
- Check the request for typos, including the package scope
- Install the package with your package manager
- Inspect the extension list:
~~~
$ noderesolve config show
~~~
- Trace every attempted path:
~~~
$ noderesolve --verbose resolve <request>
~~~`,
		docLinks: []HttpLink{"https://nodejs.org/api/modules.html#all-together"},
	}

	pathNotExportedIssue = &Issue{
		id: PathNotExportedId,
		mdMsg: `
# Package path not exported!

The package declares an "exports" field and the requested subpath is not
listed in it. Once a package has exports, files outside of them cannot be
required, even if they exist on disk.

## Things you can try
- List what the package exposes under your conditions:
~~~
$ noderesolve exports node_modules/<package> ./<subpath>
~~~
- Import one of the exported entry points instead
- Check the active condition names (import, require, browser, ...)`,
		docLinks: []HttpLink{"https://nodejs.org/api/packages.html#exports"},
	}

	invalidPackageTargetIssue = &Issue{
		id: InvalidPackageTargetId,
		mdMsg: `
# Invalid package target!

An "exports" or "imports" entry maps to a target that breaks the target
rules: exports targets must start with "./", must stay inside the package
directory and must not reach into node_modules.

## Things you can try
- Report the problem to the package maintainers
- Pin a version of the package with a valid manifest`,
		docLinks: []HttpLink{"https://nodejs.org/api/packages.html#subpath-exports"},
	}

	importNotDefinedIssue = &Issue{
		id: ImportNotDefinedId,
		mdMsg: `
# Package import not defined!

Requests starting with "#" are resolved through the "imports" field of
the nearest package manifest, and no entry matched.

## Things you can try
- Add the specifier to the "imports" field:
~~~json
{
  "imports": {
    "#utils/*": "./src/utils/*.js"
  }
}
~~~
- Check which manifest is nearest to the importing file`,
		docLinks: []HttpLink{"https://nodejs.org/api/packages.html#subpath-imports"},
	}

	invalidManifestIssue = &Issue{
		id: InvalidManifestId,
		mdMsg: `
# Invalid package manifest!

A package.json could not be decoded, or its "exports"/"imports" field has
an invalid shape (for example subpath keys mixed with condition names).

## Things you can try
- Validate the file with a JSON linter
- Reinstall the package if the manifest belongs to a dependency`,
		docLinks: []HttpLink{"https://docs.npmjs.com/cli/configuring-npm/package-json"},
	}

	recursionLimitIssue = &Issue{
		id: RecursionLimitId,
		mdMsg: `
# Resolution loop detected!

Resolving the request re-entered the resolver more often than allowed.
This is usually caused by aliases or browser mappings that point at each
other.

## Things you can try
- Review the alias section of your configuration
- Raise the limit if the dependency graph is legitimately deep:
~~~cue
resolve: max_depth: 512
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try
- Show where the configuration is read from:
~~~
$ noderesolve config path
~~~
- Write a fresh default file:
~~~
$ noderesolve config init
~~~`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Failed to watch for changes!

The file watcher could not be started or stopped unexpectedly.

## Things you can try
- Raise the inotify watch limit on Linux:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~
- Watch a smaller directory with --dir`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify"},
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():       moduleNotFoundIssue,
		pathNotExportedIssue.Id():      pathNotExportedIssue,
		invalidPackageTargetIssue.Id(): invalidPackageTargetIssue,
		importNotDefinedIssue.Id():     importNotDefinedIssue,
		invalidManifestIssue.Id():      invalidManifestIssue,
		recursionLimitIssue.Id():       recursionLimitIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		watchFailedIssue.Id():          watchFailedIssue,
	}

	resolveErrorIssues = []struct {
		kind error
		id   Id
	}{
		{resolver.ErrNotExported, PathNotExportedId},
		{resolver.ErrInvalidExportTarget, InvalidPackageTargetId},
		{resolver.ErrNotImported, ImportNotDefinedId},
		{resolver.ErrInvalidManifest, InvalidManifestId},
		{resolver.ErrRecursionLimit, RecursionLimitId},
		{resolver.ErrNotFound, ModuleNotFoundId},
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	values := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		values = append(values, issues[id])
	}
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the issue page describing err: a resolution error kind,
// or the page an ActionableError in the chain links to.
func ForError(err error) (*Issue, bool) {
	for _, m := range resolveErrorIssues {
		if errors.Is(err, m.kind) {
			return issues[m.id], true
		}
	}
	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		if page, ok := issues[ae.Issue]; ok {
			return page, true
		}
	}
	return nil, false
}
