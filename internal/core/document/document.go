// Package document defines the intermediate representation shared by the
// INI parser, the transformation plugins and the TOML renderer. A Table is
// an ordered sequence of entries, so the conversion can keep sections,
// options and comments in the order they appeared in the source file.
package document

// EntryKind discriminates the three things a table can hold in sequence.
type EntryKind int

const (
	// KeyValue is a regular key/value entry.
	KeyValue EntryKind = iota
	// CommentLine is a standalone comment (stored without its prefix).
	CommentLine
	// BlankLine is an empty line kept for layout.
	BlankLine
)

// Entry is a single positional element of a Table.
type Entry struct {
	Kind  EntryKind
	Key   string // empty for comments and blank lines
	Value any    // comment text for CommentLine, nil for BlankLine
}

// Table is an ordered key/value container. Values can be raw strings (as
// parsed from INI), coerced scalars, []any arrays, nested *Table values,
// []*Table arrays-of-tables, or the comment-carrying types from the
// transform package.
type Table struct {
	entries []Entry

	// Inline marks tables that should be rendered as `{k = v, ...}`
	// instead of a `[section]` header.
	Inline bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Len reports the number of entries, comments and blank lines included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the underlying entry slice. Callers must not reorder it.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Keys returns the keys of all key/value entries, in order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Kind == KeyValue {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Has reports whether a key/value entry exists for key.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (any, bool) {
	for _, e := range t.entries {
		if e.Kind == KeyValue && e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetTable returns the nested table stored under key, or nil if the key is
// absent or holds a non-table value.
func (t *Table) GetTable(key string) *Table {
	v, ok := t.Get(key)
	if !ok {
		return nil
	}
	sub, _ := v.(*Table)
	return sub
}

// GetString returns the string stored under key, or "" for anything else.
func (t *Table) GetString(key string) string {
	v, _ := t.Get(key)
	s, _ := v.(string)
	return s
}

// Set stores value under key. An existing entry keeps its position, a new
// one is appended.
func (t *Table) Set(key string, value any) {
	for i, e := range t.entries {
		if e.Kind == KeyValue && e.Key == key {
			t.entries[i].Value = value
			return
		}
	}
	t.entries = append(t.entries, Entry{Kind: KeyValue, Key: key, Value: value})
}

// SetFirst stores value under key, inserting new keys at the front of the
// table instead of appending them.
func (t *Table) SetFirst(key string, value any) {
	if t.Has(key) {
		t.Set(key, value)
		return
	}
	entry := Entry{Kind: KeyValue, Key: key, Value: value}
	t.entries = append([]Entry{entry}, t.entries...)
}

// Pop removes the entry stored under key and returns its value.
func (t *Table) Pop(key string) (any, bool) {
	for i, e := range t.entries {
		if e.Kind == KeyValue && e.Key == key {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return e.Value, true
		}
	}
	return nil, false
}

// Rename changes the key of an existing entry, preserving its position.
// It reports whether the entry was found.
func (t *Table) Rename(oldKey, newKey string) bool {
	for i, e := range t.entries {
		if e.Kind == KeyValue && e.Key == oldKey {
			t.entries[i].Key = newKey
			return true
		}
	}
	return false
}

// AddComment appends a standalone comment line. The text should not carry
// a comment prefix.
func (t *Table) AddComment(text string) {
	t.entries = append(t.entries, Entry{Kind: CommentLine, Value: text})
}

// AddBlank appends an empty line.
func (t *Table) AddBlank() {
	t.entries = append(t.entries, Entry{Kind: BlankLine})
}

// Clone returns a deep copy of the table. Values the document package does
// not know how to copy (scalars, transform reprs) are shared, which is safe
// because they are treated as immutable by the pipeline.
func (t *Table) Clone() *Table {
	out := &Table{Inline: t.Inline, entries: make([]Entry, len(t.entries))}
	for i, e := range t.entries {
		if sub, ok := e.Value.(*Table); ok {
			e.Value = sub.Clone()
		} else if subs, ok := e.Value.([]*Table); ok {
			cp := make([]*Table, len(subs))
			for j, s := range subs {
				cp[j] = s.Clone()
			}
			e.Value = cp
		}
		out.entries[i] = e
	}
	return out
}

// Merge deep-copies every entry of src into t. Nested tables are merged
// recursively, scalar values are overwritten.
func (t *Table) Merge(src *Table) {
	for _, e := range src.entries {
		switch e.Kind {
		case CommentLine:
			t.AddComment(e.Value.(string))
		case BlankLine:
			t.AddBlank()
		case KeyValue:
			if sub, ok := e.Value.(*Table); ok {
				if existing := t.GetTable(e.Key); existing != nil {
					existing.Merge(sub)
					continue
				}
				t.Set(e.Key, sub.Clone())
				continue
			}
			t.Set(e.Key, e.Value)
		}
	}
}

// GetNested walks keys through nested tables and returns the final value.
func GetNested(t *Table, keys ...string) (any, bool) {
	if len(keys) == 0 {
		return t, true
	}
	current := t
	for _, k := range keys[:len(keys)-1] {
		current = current.GetTable(k)
		if current == nil {
			return nil, false
		}
	}
	return current.Get(keys[len(keys)-1])
}

// GetNestedTable is GetNested restricted to table values.
func GetNestedTable(t *Table, keys ...string) *Table {
	v, ok := GetNested(t, keys...)
	if !ok {
		return nil
	}
	sub, _ := v.(*Table)
	return sub
}

// SetNested stores value under the given key path, creating intermediate
// tables as needed.
func SetNested(t *Table, value any, keys ...string) {
	parent := SetDefaultTable(t, keys[:len(keys)-1]...)
	parent.Set(keys[len(keys)-1], value)
}

// PopNested removes the value under the given key path.
func PopNested(t *Table, keys ...string) (any, bool) {
	parent := GetNestedTable(t, keys[:len(keys)-1]...)
	if parent == nil {
		return nil, false
	}
	return parent.Pop(keys[len(keys)-1])
}

// SetDefaultTable walks the key path, creating empty tables along the way,
// and returns the table at the end of it.
func SetDefaultTable(t *Table, keys ...string) *Table {
	current := t
	for _, k := range keys {
		next := current.GetTable(k)
		if next == nil {
			next = NewTable()
			current.Set(k, next)
		}
		current = next
	}
	return current
}
