package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Commands:       []*cli.Command{Command},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validDoc = `
[project]
name = "pkg"
version = "1.0"
`

func TestCheckValidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pyproject.toml", validDoc)
	assert.NoError(t, newApp().Run([]string{"initoml", "check", path}))
}

func TestCheckInvalidMetadata(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pyproject.toml", "[project]\ndescription = \"no name\"\n")
	err := newApp().Run([]string{"initoml", "check", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestCheckBrokenTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pyproject.toml", "not toml = = =")
	err := newApp().Run([]string{"initoml", "check", path})
	assert.Error(t, err)
}

func TestCheckMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.toml", validDoc)
	bad := writeFile(t, dir, "bad.toml", "[project]\n")

	err := newApp().Run([]string{"initoml", "check", good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed")
}

func TestCheckRequiresArguments(t *testing.T) {
	err := newApp().Run([]string{"initoml", "check"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}
