// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	NoEnvironmentsFoundId
	SearchRootMissingId
	SearchRootUnreadableId
	SearchPatternInvalidId
	CondaNotFoundId
	DocumentInvalidId
	InaccurateEnvironmentId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	var extraMd strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			extraMd.WriteString("- [" + string(link) + "](" + string(link) + ")\n")
		}
		for _, link := range i.extLinks {
			extraMd.WriteString("- [" + string(link) + "](" + string(link) + ")\n")
		}
	}
	return render(string(i.mdMsg)+extraMd.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your pylocate configuration file could not be loaded.

## Things you can try:
- Check the file for CUE syntax errors
- Validate it against the schema:
~~~
$ pylocate config check
~~~
- Print a fresh default configuration:
~~~
$ pylocate config dump
~~~
- Check the PYLOCATE_* environment variables for malformed values`,
	}

	noEnvironmentsFoundIssue = &Issue{
		id: NoEnvironmentsFoundId,
		mdMsg: `
# No Python environments found!

Discovery finished without reporting any environment.

## Places pylocate looks:
1. The working directory and the search paths you pass
2. Every directory on PATH (unless --workspace-only is set)
3. Conda installations and their envs directories
4. Directories listed in .condarc envs_dirs and environments.txt

## Things you can try:
- Pass the project directory explicitly:
~~~
$ pylocate find ./my-project
~~~
- Point pylocate at your conda binary:
~~~
$ pylocate find --conda-executable ~/miniforge3/bin/conda
~~~
- Run with --verbose to see which candidates were skipped`,
	}

	searchRootMissingIssue = &Issue{
		id: SearchRootMissingId,
		mdMsg: `
# Search path not found!

A search path does not exist or matched no directories.

## Things you can try:
- Check the path for typos
- Quote glob patterns so your shell does not expand them:
~~~
$ pylocate find '~/work/*/.venv'
~~~
- Remove stale entries from search_paths in your config file`,
	}

	searchRootUnreadableIssue = &Issue{
		id: SearchRootUnreadableId,
		mdMsg: `
# Search path could not be read!

pylocate found the directory but could not list its contents.

## Things you can try:
- Check directory permissions:
~~~
$ ls -ld <directory>
~~~
- Run pylocate as a user that can read the directory`,
	}

	searchPatternInvalidIssue = &Issue{
		id: SearchPatternInvalidId,
		mdMsg: `
# Invalid search pattern!

A search path contains glob syntax that cannot be parsed.

## Things you can try:
- Close every bracket and brace in the pattern
- Supported syntax: *, **, ?, [abc], {a,b}`,
		extLinks: []HttpLink{"https://github.com/bmatcuk/doublestar#patterns"},
	}

	condaNotFoundIssue = &Issue{
		id: CondaNotFoundId,
		mdMsg: `
# Conda executable not found!

The configured conda executable does not exist, so conda environments are
reported without a manager.

## Things you can try:
- Check conda_executable in your config file
- Check the PYLOCATE_CONDA_EXECUTABLE environment variable
- Let pylocate search PATH by removing the setting`,
	}

	documentInvalidIssue = &Issue{
		id: DocumentInvalidId,
		mdMsg: `
# Invalid environment document!

The file passed to 'pylocate validate' is not a valid environment listing.

## Things you can try:
- Produce the discovered side with:
~~~
$ pylocate find --json > discovered.json
~~~
- Every environment needs an executable or a prefix
- arch must be "x86" or "x64"`,
	}

	inaccurateEnvironmentIssue = &Issue{
		id: InaccurateEnvironmentId,
		mdMsg: `
# Discovered environments are inaccurate!

At least one discovered environment disagrees with what the interpreter
reports about itself.

## What the flags mean:
- **invalidExecutable**: the executable paths differ
- **executableNotInSymlinks**: the resolved executable is not a known alias
- **invalidPrefix**: the prefixes differ
- **invalidVersion**: the version is not a prefix of the resolved version
- **invalidArch**: the architectures differ`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

pylocate could not read a file or directory it needed.

## Things you can try:
- Check file permissions
- Avoid running pylocate on directories owned by other users`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		noEnvironmentsFoundIssue.Id():   noEnvironmentsFoundIssue,
		searchRootMissingIssue.Id():     searchRootMissingIssue,
		searchRootUnreadableIssue.Id():  searchRootUnreadableIssue,
		searchPatternInvalidIssue.Id():  searchPatternInvalidIssue,
		condaNotFoundIssue.Id():         condaNotFoundIssue,
		documentInvalidIssue.Id():       documentInvalidIssue,
		inaccurateEnvironmentIssue.Id(): inaccurateEnvironmentIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
