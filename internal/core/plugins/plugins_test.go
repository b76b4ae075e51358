package plugins

import (
	"testing"

	burnt "github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgtools/initoml/internal/core/translate"
)

func TestBuiltinProfiles(t *testing.T) {
	translator := NewTranslator()
	for _, name := range []string{
		"setup.cfg", "tox.ini", "pytest.ini", "mypy.ini", ".mypy.ini",
		".coveragerc", ".isort.cfg", "best_effort",
	} {
		assert.True(t, translator.HasProfile(name), "missing profile %q", name)
	}
}

func TestSetupCfgCombinesAllTools(t *testing.T) {
	translator := NewTranslator()
	out, err := translator.Translate(`
[metadata]
name = pkg
version = 1.0

[tool:pytest]
addopts = -v

[mypy]
strict = True

[coverage:run]
branch = True

[isort]
profile = black
`, "setup.cfg", nil)
	require.NoError(t, err)

	var doc map[string]any
	_, err = burnt.Decode(out, &doc)
	require.NoError(t, err, "output is not valid TOML:\n%s", out)

	project := doc["project"].(map[string]any)
	assert.Equal(t, "pkg", project["name"])
	assert.Equal(t, "1.0", project["version"])

	tool := doc["tool"].(map[string]any)
	pytest := tool["pytest"].(map[string]any)
	assert.Equal(t, "-v", pytest["ini_options"].(map[string]any)["addopts"])
	assert.Equal(t, true, tool["mypy"].(map[string]any)["strict"])
	assert.Equal(t, true, tool["coverage"].(map[string]any)["run"].(map[string]any)["branch"])
	assert.Equal(t, "black", tool["isort"].(map[string]any)["profile"])
}

func TestExtraPluginsAreActivated(t *testing.T) {
	translator := NewTranslator(func(tr *translate.Translator) {
		tr.Profile("custom.ini")
	})
	assert.True(t, translator.HasProfile("custom.ini"))
	// Built-ins come first.
	assert.Equal(t, "setup.cfg", translator.ProfileNames()[0])
}
