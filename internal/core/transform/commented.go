package transform

// Commented is a value bundled with the inline comment that followed it in
// the source file. A Commented with Missing set represents a comment-only
// line inside a dangling value.
type Commented struct {
	Value   any
	Missing bool
	Comment string
}

// ValueOr returns the value, or fallback for comment-only entries.
func (c Commented) ValueOr(fallback any) any {
	if c.Missing {
		return fallback
	}
	return c.Value
}

// CommentOnly reports whether the entry carries no value at all.
func (c Commented) CommentOnly() bool {
	return c.Missing
}

// HasComment reports whether an inline comment is attached.
func (c Commented) HasComment() bool {
	return c.Comment != ""
}

// CommentedList is a list value parsed from a dangling INI option. Each
// line keeps its own items and inline comment.
type CommentedList struct {
	Lines []Commented // each value is a []any of items
}

// AsList flattens the list, dropping comments.
func (l CommentedList) AsList() []any {
	var out []any
	for _, line := range l.Lines {
		items, _ := line.ValueOr([]any(nil)).([]any)
		out = append(out, items...)
	}
	return out
}

// Len counts the items across all lines.
func (l CommentedList) Len() int {
	return len(l.AsList())
}

// KV is a single key/value pair parsed out of an INI option.
type KV struct {
	Key   string
	Value any
}

// CommentedKV is a mapping value parsed from a dangling INI option holding
// `key = value` pairs, one or more per line.
type CommentedKV struct {
	Lines []Commented // each value is a []KV of pairs
}

// Pairs flattens the mapping, dropping comments.
func (m CommentedKV) Pairs() []KV {
	var out []KV
	for _, line := range m.Lines {
		pairs, _ := line.ValueOr([]KV(nil)).([]KV)
		out = append(out, pairs...)
	}
	return out
}

// Find returns the value stored under key.
func (m CommentedKV) Find(key string) (any, bool) {
	for _, pair := range m.Pairs() {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return nil, false
}
