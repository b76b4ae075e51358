package toml

import (
	"fmt"

	burnt "github.com/BurntSushi/toml"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
)

// ParseTemplate loads a TOML template string into the document
// representation, preserving the order the keys appear in the template.
func ParseTemplate(text string) (*document.Table, error) {
	var raw map[string]any
	meta, err := burnt.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing toml template: %w", err)
	}

	doc := document.NewTable()
	for _, key := range meta.Keys() {
		path := []string(key)
		value, ok := lookup(raw, path)
		if !ok {
			continue
		}
		if _, isTable := value.(map[string]any); isTable {
			// Table headers appear as keys of their own; materialise
			// them so empty tables like `[project]` survive.
			document.SetDefaultTable(doc, path...)
			continue
		}
		document.SetNested(doc, convertValue(value), path...)
	}
	return doc, nil
}

func lookup(raw map[string]any, path []string) (any, bool) {
	var current any = raw
	for _, key := range path {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = table[key]; !ok {
			return nil, false
		}
	}
	return current, true
}

func convertValue(v any) any {
	switch value := v.(type) {
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = convertValue(item)
		}
		return out
	default:
		return v
	}
}

// Collapse reduces a document value to plain data (maps, slices and
// scalars), dropping comments and blank lines. It mirrors what an
// ordinary TOML decoder would produce for the rendered output.
func Collapse(v any) any {
	switch value := v.(type) {
	case *document.Table:
		out := map[string]any{}
		for _, e := range value.Entries() {
			if e.Kind == document.KeyValue {
				out[e.Key] = Collapse(e.Value)
			}
		}
		return out
	case []*document.Table:
		out := make([]any, len(value))
		for i, t := range value {
			out[i] = Collapse(t)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = Collapse(item)
		}
		return out
	case transform.Commented:
		return Collapse(value.ValueOr(nil))
	case transform.CommentedList:
		return Collapse(value.AsList())
	case transform.CommentedKV:
		out := map[string]any{}
		for _, pair := range value.Pairs() {
			out[pair.Key] = Collapse(pair.Value)
		}
		return out
	default:
		return v
	}
}
