package isort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgtools/initoml/internal/core/translate"
)

func TestIsortSectionInSetupCfg(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate(`
[isort]
profile = black
line_length = 88
known_first_party = mypkg, mypkg_tools
skip_glob = docs/*
`, "setup.cfg", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "[tool.isort]")
	assert.Contains(t, out, `profile = "black"`)
	assert.Contains(t, out, "line_length = 88")

	// known_* and *_glob families are lists.
	assert.Contains(t, out, `known_first_party = ["mypkg", "mypkg_tools"]`)
	assert.Contains(t, out, `skip_glob = ["docs/*"]`)
}

func TestSettingsSectionInIsortCfg(t *testing.T) {
	translator := translate.New(Activate)
	out, err := translator.Translate("[settings]\nforce_to_top = a, b\n", ".isort.cfg", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "[tool.isort]")
	assert.Contains(t, out, `force_to_top = ["a", "b"]`)
	assert.NotContains(t, out, "[settings]")
}
