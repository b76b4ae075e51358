package ini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SectionsAndOptions(t *testing.T) {
	doc, err := Parse(`
[metadata]
name = mypkg
version = 1.0

[options]
zip_safe = False
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"metadata", "options"}, doc.Keys())

	metadata := doc.GetTable("metadata")
	require.NotNil(t, metadata)
	assert.Equal(t, "mypkg", metadata.GetString("name"))
	assert.Equal(t, "1.0", metadata.GetString("version"))

	assert.Equal(t, "False", doc.GetTable("options").GetString("zip_safe"))
}

func TestParse_ColonDelimiter(t *testing.T) {
	doc, err := Parse("[section]\nkey: value\n")
	require.NoError(t, err)
	assert.Equal(t, "value", doc.GetTable("section").GetString("key"))
}

func TestParse_MultilineValue(t *testing.T) {
	doc, err := Parse(`
[options]
install_requires =
	requests
	click
`)
	require.NoError(t, err)
	value := doc.GetTable("options").GetString("install_requires")
	assert.Contains(t, value, "requests")
	assert.Contains(t, value, "click")
}

func TestParse_InlineCommentKeptInValue(t *testing.T) {
	// Inline comments are split off later by the value transformations,
	// so the parser must keep them in the raw value.
	doc, err := Parse("[section]\nkey = value # remark\n")
	require.NoError(t, err)
	assert.Equal(t, "value # remark", doc.GetTable("section").GetString("key"))
}

func TestParse_CommentsAttached(t *testing.T) {
	doc, err := Parse(`# about the section
[section]
; about the key
key = value
`)
	require.NoError(t, err)

	section := doc.GetTable("section")
	require.NotNil(t, section)
	entries := section.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "about the section", entries[0].Value)
	assert.Equal(t, "about the key", entries[1].Value)
	assert.Equal(t, "key", entries[2].Key)
}

func TestParse_OptionsBeforeAnySection(t *testing.T) {
	doc, err := Parse("top = level\n[section]\nkey = value\n")
	require.NoError(t, err)
	assert.Equal(t, "level", doc.GetString("top"))
	assert.Equal(t, []string{"top", "section"}, doc.Keys())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("[unterminated\nkey = value")
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, doc.Keys())
}
