// Package toml renders the document representation as TOML text and loads
// TOML templates back into it. Rendering is hand-written because the
// output must keep the source ordering and the comments carried through
// the pipeline; template parsing and verification lean on BurntSushi/toml.
package toml

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
)

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Render writes the document as TOML. Sub-tables are emitted after the
// scalar entries of their parent, in the order they were registered.
func Render(doc *document.Table) string {
	var w writer
	w.table(doc, nil)
	return strings.TrimLeft(w.b.String(), "\n")
}

type writer struct {
	b strings.Builder
	// blankEnd tracks whether the output currently ends with an empty
	// line, so headers can decide to add one without re-reading the
	// buffer.
	blankEnd bool
}

func (w *writer) table(t *document.Table, path []string) {
	type deferred struct {
		key   string
		value any
	}
	var subTables []deferred

	for _, e := range t.Entries() {
		switch e.Kind {
		case document.BlankLine:
			w.b.WriteString("\n")
			w.blankEnd = true
		case document.CommentLine:
			w.comment(e.Value.(string))
		default:
			if isSubTable(e.Value) {
				subTables = append(subTables, deferred{e.Key, e.Value})
				continue
			}
			w.keyValue(e.Key, e.Value)
		}
	}

	for _, sub := range subTables {
		subPath := append(append([]string(nil), path...), sub.key)
		switch v := sub.value.(type) {
		case *document.Table:
			w.header(subPath, false)
			w.table(v, subPath)
		case []*document.Table:
			for _, item := range v {
				w.header(subPath, true)
				w.table(item, subPath)
			}
		case transform.CommentedKV:
			w.header(subPath, false)
			w.kvLines(v)
		}
	}
}

// isSubTable reports whether a value needs its own [section] header.
func isSubTable(v any) bool {
	switch value := v.(type) {
	case *document.Table:
		return !value.Inline
	case []*document.Table:
		return true
	case transform.CommentedKV:
		return len(value.Lines) > 1
	}
	return false
}

func (w *writer) header(path []string, arrayOfTables bool) {
	if w.b.Len() > 0 && !w.blankEnd {
		w.b.WriteString("\n")
	}
	keys := make([]string, len(path))
	for i, k := range path {
		keys[i] = encodeKey(k)
	}
	if arrayOfTables {
		fmt.Fprintf(&w.b, "[[%s]]\n", strings.Join(keys, "."))
	} else {
		fmt.Fprintf(&w.b, "[%s]\n", strings.Join(keys, "."))
	}
	w.blankEnd = false
}

func (w *writer) comment(text string) {
	w.blankEnd = false
	if text == "" {
		w.b.WriteString("#\n")
		return
	}
	fmt.Fprintf(&w.b, "# %s\n", text)
}

func (w *writer) keyValue(key string, value any) {
	switch v := value.(type) {
	case transform.Commented:
		if v.CommentOnly() {
			w.comment(v.Comment)
			return
		}
		w.line(key, encodeValue(v.Value), v.Comment)
	case transform.CommentedList:
		w.list(key, v)
	case transform.CommentedKV:
		// Multi-line mappings were deferred as sub-tables.
		w.inlineKV(key, v)
	default:
		w.line(key, encodeValue(value), "")
	}
}

func (w *writer) line(key, value, comment string) {
	fmt.Fprintf(&w.b, "%s = %s", encodeKey(key), value)
	if comment != "" {
		fmt.Fprintf(&w.b, "  # %s", comment)
	}
	w.b.WriteString("\n")
	w.blankEnd = false
}

// list renders a CommentedList: single-line values become inline arrays,
// dangling values become multiline arrays with their per-line comments.
func (w *writer) list(key string, value transform.CommentedList) {
	if len(value.Lines) <= 1 {
		var comment string
		items := []any{}
		if len(value.Lines) == 1 {
			line := value.Lines[0]
			comment = line.Comment
			items, _ = line.ValueOr([]any(nil)).([]any)
		}
		w.line(key, encodeArray(items), comment)
		return
	}

	fmt.Fprintf(&w.b, "%s = [\n", encodeKey(key))
	for _, line := range value.Lines {
		items, _ := line.ValueOr([]any(nil)).([]any)
		for i, item := range items {
			fmt.Fprintf(&w.b, "    %s,", encodeValue(item))
			if i == len(items)-1 && line.HasComment() {
				fmt.Fprintf(&w.b, "  # %s", line.Comment)
			}
			w.b.WriteString("\n")
		}
		if len(items) == 0 && line.HasComment() {
			fmt.Fprintf(&w.b, "    # %s\n", line.Comment)
		}
	}
	w.b.WriteString("]\n")
	w.blankEnd = false
}

func (w *writer) inlineKV(key string, value transform.CommentedKV) {
	var comment string
	if len(value.Lines) == 1 {
		comment = value.Lines[0].Comment
	}
	w.line(key, encodeInlineTable(value.Pairs()), comment)
}

// kvLines renders a multi-line CommentedKV under an already written
// section header, one pair per line.
func (w *writer) kvLines(value transform.CommentedKV) {
	for _, line := range value.Lines {
		pairs, _ := line.ValueOr([]transform.KV(nil)).([]transform.KV)
		for i, pair := range pairs {
			comment := ""
			if i == len(pairs)-1 {
				comment = line.Comment
			}
			w.line(pair.Key, encodeValue(pair.Value), comment)
		}
		if len(pairs) == 0 && line.HasComment() {
			w.comment(line.Comment)
		}
	}
}

// ---- Value encoding ----

func encodeKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}
	return encodeString(key)
}

func encodeValue(v any) string {
	switch value := v.(type) {
	case string:
		return encodeString(value)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return encodeFloat(value)
	case []any:
		return encodeArray(value)
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return encodeArray(items)
	case *document.Table:
		return encodeTableInline(value)
	case transform.Commented:
		return encodeValue(value.ValueOr(""))
	case transform.CommentedList:
		return encodeArray(value.AsList())
	case transform.CommentedKV:
		return encodeInlineTable(value.Pairs())
	default:
		return encodeString(fmt.Sprint(v))
	}
}

func encodeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func encodeFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func encodeArray(items []any) string {
	encoded := make([]string, len(items))
	for i, item := range items {
		encoded[i] = encodeValue(item)
	}
	return "[" + strings.Join(encoded, ", ") + "]"
}

func encodeInlineTable(pairs []transform.KV) string {
	encoded := make([]string, len(pairs))
	for i, pair := range pairs {
		encoded[i] = fmt.Sprintf("%s = %s", encodeKey(pair.Key), encodeValue(pair.Value))
	}
	return "{" + strings.Join(encoded, ", ") + "}"
}

func encodeTableInline(t *document.Table) string {
	var pairs []transform.KV
	for _, e := range t.Entries() {
		if e.Kind == document.KeyValue {
			pairs = append(pairs, transform.KV{Key: e.Key, Value: e.Value})
		}
	}
	return encodeInlineTable(pairs)
}
