package mypy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgtools/initoml/internal/core/translate"
)

func TestConvertsMainSection(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate(`
[mypy]
python_version = 3.8
warn_unused_configs = True
files = src, tests
`, "mypy.ini", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "[tool.mypy]")
	assert.NotContains(t, out, "[mypy]")

	// python_version must not become a float.
	assert.Contains(t, out, `python_version = "3.8"`)
	assert.Contains(t, out, "warn_unused_configs = true")
	assert.Contains(t, out, `files = ["src", "tests"]`)
}

func TestOverridesSections(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate(`
[mypy]
strict = True

[mypy-tests.*,docs.*]
ignore_errors = True

[mypy-vendored]
follow_imports = skip
`, "mypy.ini", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "[[tool.mypy.overrides]]")
	assert.Contains(t, out, `module = ["tests.*", "docs.*"]`)
	assert.Contains(t, out, `module = ["vendored"]`)
	assert.Contains(t, out, "ignore_errors = true")
	assert.Contains(t, out, `follow_imports = "skip"`)
}

func TestOverridesWithoutMainSection(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate("[mypy-pkg.legacy]\nignore_errors = True\n", "mypy.ini", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "[[tool.mypy.overrides]]")
	assert.Contains(t, out, `module = ["pkg.legacy"]`)
}

func TestWorksOnSetupCfg(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate("[mypy]\nstrict = True\n", "setup.cfg", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "[tool.mypy]")
	assert.Contains(t, out, "strict = true")
}
