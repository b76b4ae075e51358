package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SetKeepsPosition(t *testing.T) {
	table := NewTable()
	table.Set("a", "1")
	table.Set("b", "2")
	table.Set("c", "3")

	table.Set("b", "changed")

	assert.Equal(t, []string{"a", "b", "c"}, table.Keys())
	v, ok := table.Get("b")
	require.True(t, ok)
	assert.Equal(t, "changed", v)
}

func TestTable_SetFirst(t *testing.T) {
	table := NewTable()
	table.Set("a", "1")
	table.SetFirst("module", "m")

	assert.Equal(t, []string{"module", "a"}, table.Keys())
}

func TestTable_PopAndRename(t *testing.T) {
	table := NewTable()
	table.Set("old", "value")
	table.Set("other", "x")

	require.True(t, table.Rename("old", "new"))
	assert.Equal(t, []string{"new", "other"}, table.Keys())

	v, ok := table.Pop("new")
	require.True(t, ok)
	assert.Equal(t, "value", v)
	assert.False(t, table.Has("new"))

	_, ok = table.Pop("missing")
	assert.False(t, ok)
	assert.False(t, table.Rename("missing", "anything"))
}

func TestTable_CommentsAndBlanksKeepOrder(t *testing.T) {
	table := NewTable()
	table.AddComment("header")
	table.Set("key", "value")
	table.AddBlank()

	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, CommentLine, entries[0].Kind)
	assert.Equal(t, "header", entries[0].Value)
	assert.Equal(t, KeyValue, entries[1].Kind)
	assert.Equal(t, BlankLine, entries[2].Kind)

	// Comments are invisible to the key API.
	assert.Equal(t, []string{"key"}, table.Keys())
}

func TestNestedHelpers(t *testing.T) {
	doc := NewTable()
	SetNested(doc, "deep", "a", "b", "c")

	v, ok := GetNested(doc, "a", "b", "c")
	require.True(t, ok)
	assert.Equal(t, "deep", v)

	assert.NotNil(t, GetNestedTable(doc, "a", "b"))
	assert.Nil(t, GetNestedTable(doc, "a", "b", "c"))
	assert.Nil(t, GetNestedTable(doc, "missing"))

	popped, ok := PopNested(doc, "a", "b", "c")
	require.True(t, ok)
	assert.Equal(t, "deep", popped)
	_, ok = GetNested(doc, "a", "b", "c")
	assert.False(t, ok)

	_, ok = PopNested(doc, "nothing", "here")
	assert.False(t, ok)
}

func TestSetDefaultTable(t *testing.T) {
	doc := NewTable()
	first := SetDefaultTable(doc, "tool", "mypy")
	first.Set("strict", true)

	// Asking again returns the same table.
	again := SetDefaultTable(doc, "tool", "mypy")
	v, ok := again.Get("strict")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestMergeDeepCopies(t *testing.T) {
	src := NewTable()
	section := NewTable()
	section.Set("key", "value")
	src.Set("section", section)

	dst := NewTable()
	dst.Merge(src)

	// Mutating the copy must not leak back into the source.
	dst.GetTable("section").Set("key", "changed")
	assert.Equal(t, "value", src.GetTable("section").GetString("key"))
}

func TestMergeIntoExistingTable(t *testing.T) {
	dst := NewTable()
	existing := NewTable()
	existing.Set("a", "1")
	dst.Set("section", existing)

	src := NewTable()
	section := NewTable()
	section.Set("b", "2")
	src.Set("section", section)

	dst.Merge(src)
	merged := dst.GetTable("section")
	assert.Equal(t, []string{"a", "b"}, merged.Keys())
}

func TestClone_ArrayOfTables(t *testing.T) {
	doc := NewTable()
	item := NewTable()
	item.Set("module", "pkg")
	doc.Set("overrides", []*Table{item})

	clone := doc.Clone()
	cloned, _ := clone.Get("overrides")
	cloned.([]*Table)[0].Set("module", "changed")

	assert.Equal(t, "pkg", item.GetString("module"))
}
