package setuptools

import (
	"testing"

	burnt "github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgtools/initoml/internal/core/translate"
)

func convert(t *testing.T, source string) string {
	t.Helper()
	translator := translate.New(Activate)
	out, err := translator.Translate(source, ProfileName, nil)
	require.NoError(t, err)
	return out
}

// decode re-parses the rendered output so assertions can look at
// structure instead of text.
func decode(t *testing.T, rendered string) map[string]any {
	t.Helper()
	var doc map[string]any
	_, err := burnt.Decode(rendered, &doc)
	require.NoError(t, err, "output is not valid TOML:\n%s", rendered)
	return doc
}

func table(t *testing.T, doc map[string]any, path ...string) map[string]any {
	t.Helper()
	current := doc
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		require.True(t, ok, "missing table %q in %v", key, current)
		current = next
	}
	return current
}

const fullExample = `
[metadata]
name = mypkg
version = attr: mypkg.__version__
author = Jane Doe
author_email = jane@example.com
summary = A sample package
long_description = file: README.rst
long_description_content_type = text/x-rst; charset=UTF-8
url = https://github.com/example/mypkg
classifiers =
	Programming Language :: Python :: 3
	License :: OSI Approved :: MIT License

[options]
zip_safe = False
python_requires = >=3.8
install_requires =
	requests
	importlib-metadata; python_version<"3.8"
packages = find:

[options.packages.find]
exclude =
	tests*

[options.extras_require]
testing =
	pytest
	pytest-cov

[options.entry_points]
console_scripts =
	mycmd = mypkg.cli:main
`

func TestFullExample(t *testing.T) {
	doc := decode(t, convert(t, fullExample))

	buildSystem := table(t, doc, "build-system")
	assert.Equal(t, []any{"setuptools", "wheel"}, buildSystem["requires"])
	assert.Equal(t, "setuptools.build_meta", buildSystem["build-backend"])

	project := table(t, doc, "project")
	assert.Equal(t, "mypkg", project["name"])
	assert.Equal(t, "A sample package", project["description"])
	assert.Equal(t, ">=3.8", project["requires-python"])
	assert.Equal(t, []any{
		"Programming Language :: Python :: 3",
		"License :: OSI Approved :: MIT License",
	}, project["classifiers"])

	// Environment markers contain semicolons and must stay intact.
	assert.Equal(t, []any{
		"requests",
		`importlib-metadata; python_version<"3.8"`,
	}, project["dependencies"])

	assert.Equal(t, []any{
		map[string]any{"name": "Jane Doe", "email": "jane@example.com"},
	}, project["authors"])
	assert.Equal(t, map[string]any{
		"file":         "README.rst",
		"content-type": "text/x-rst; charset=UTF-8",
	}, project["readme"])

	assert.Equal(t, "https://github.com/example/mypkg", table(t, doc, "project", "urls")["Homepage"])
	assert.Equal(t, map[string]any{"testing": []any{"pytest", "pytest-cov"}},
		table(t, doc, "project", "optional-dependencies"))
	assert.Equal(t, map[string]any{"mycmd": "mypkg.cli:main"}, table(t, doc, "project", "scripts"))

	// The directive-valued version becomes dynamic.
	assert.Equal(t, []any{"version"}, project["dynamic"])
	assert.Equal(t, map[string]any{"attr": "mypkg.__version__"},
		table(t, doc, "tool", "setuptools", "dynamic")["version"])

	setuptools := table(t, doc, "tool", "setuptools")
	assert.Equal(t, false, setuptools["zip-safe"])
	assert.Equal(t, []any{"tests*"},
		table(t, doc, "tool", "setuptools", "packages", "find")["exclude"])
}

func TestMetadataAliases(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg
summary = short text
home_page = https://example.com
classifier = Development Status :: 4 - Beta
`))
	project := table(t, doc, "project")
	assert.Equal(t, "short text", project["description"])
	assert.Equal(t, []any{"Development Status :: 4 - Beta"}, project["classifiers"])
	assert.Equal(t, "https://example.com", table(t, doc, "project", "urls")["Homepage"])
}

func TestMultipleAuthors(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg
author = Jane Doe, John Smith
author_email = jane@example.com, john@example.com
maintainer = Maintainer Only
`))
	project := table(t, doc, "project")
	assert.Equal(t, []any{
		map[string]any{"name": "Jane Doe", "email": "jane@example.com"},
		map[string]any{"name": "John Smith", "email": "john@example.com"},
	}, project["authors"])
	assert.Equal(t, []any{map[string]any{"name": "Maintainer Only"}}, project["maintainers"])
}

func TestReadmeFileOnly(t *testing.T) {
	doc := decode(t, convert(t, "[metadata]\nname = pkg\nlong_description = file: README.md\n"))
	assert.Equal(t, "README.md", table(t, doc, "project")["readme"])
}

func TestReadmeInlineText(t *testing.T) {
	doc := decode(t, convert(t, "[metadata]\nname = pkg\nlong_description = just some text\n"))
	readme, ok := table(t, doc, "project")["readme"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "just some text", readme["text"])
}

func TestLicense(t *testing.T) {
	doc := decode(t, convert(t, "[metadata]\nname = pkg\nlicense = MIT\n"))
	assert.Equal(t, map[string]any{"text": "MIT"}, table(t, doc, "project")["license"])

	// A license file wins over the text form.
	doc = decode(t, convert(t, "[metadata]\nname = pkg\nlicense = MIT\nlicense_files = LICENSE\n"))
	assert.Equal(t, map[string]any{"file": "LICENSE"}, table(t, doc, "project")["license"])
}

func TestProjectURLs(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg
url = https://example.com
project_urls =
	Documentation = https://docs.example.com
	Changelog = https://example.com/changelog#latest
`))
	urls := table(t, doc, "project", "urls")
	assert.Equal(t, "https://docs.example.com", urls["Documentation"])
	// '#' inside a URL is not a comment.
	assert.Equal(t, "https://example.com/changelog#latest", urls["Changelog"])
	assert.Equal(t, "https://example.com", urls["Homepage"])
}

func TestEntryPointGroups(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg

[options.entry_points]
console_scripts =
	cmd = pkg.cli:main
gui_scripts =
	gcmd = pkg.gui:run
pkg.plugins =
	default = pkg.plug:obj
`))
	project := table(t, doc, "project")
	assert.Equal(t, map[string]any{"cmd": "pkg.cli:main"}, project["scripts"])
	assert.Equal(t, map[string]any{"gcmd": "pkg.gui:run"}, project["gui-scripts"])

	// Groups without a PEP 621 shortcut stay under entry-points.
	entryPoints := table(t, doc, "project", "entry-points")
	assert.Equal(t, map[string]any{"default": "pkg.plug:obj"}, entryPoints["pkg.plugins"])
}

func TestSetupRequiresFoldedIntoBuildSystem(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg

[options]
setup_requires =
	setuptools_scm
	Setuptools>=40
`))
	requires, ok := table(t, doc, "build-system")["requires"].([]any)
	require.True(t, ok)
	// The versioned spelling replaces the default "setuptools" entry.
	assert.Equal(t, []any{"setuptools_scm", "Setuptools>=40", "wheel"}, requires)
}

func TestFindNamespaceDirective(t *testing.T) {
	doc := decode(t, convert(t, `
[metadata]
name = pkg

[options]
packages = find_namespace:

[options.packages.find]
include = pkg*
`))
	find := table(t, doc, "tool", "setuptools", "packages", "find-namespace")
	assert.Equal(t, []any{"pkg*"}, find["include"])
}

func TestStraySectionsMoveUnderTool(t *testing.T) {
	doc := decode(t, convert(t, "[metadata]\nname = pkg\n\n[tool:other]\nkey = value\n"))
	assert.Equal(t, "value", table(t, doc, "tool", "other")["key"])
}

func TestCommandSectionsMoveUnderSetuptools(t *testing.T) {
	doc := decode(t, convert(t, "[metadata]\nname = pkg\n\n[sdist]\nformats = gztar\n"))
	assert.Equal(t, "gztar", table(t, doc, "tool", "setuptools", "sdist")["formats"])
}

func TestEmptyTablesCleanedUp(t *testing.T) {
	out := convert(t, "[options]\nzip_safe = True\n")
	assert.NotContains(t, out, "[project]")
	assert.Contains(t, out, "[tool.setuptools]")
	assert.Contains(t, out, "zip-safe = true")
}

func TestRequirementName(t *testing.T) {
	assert.Equal(t, "setuptools", RequirementName("Setuptools>=40"))
	assert.Equal(t, "setuptools-scm", RequirementName("setuptools_scm[toml]>=3.4"))
	assert.Equal(t, "my-pkg", RequirementName("My.Pkg"))
}
