// Package transform holds the reusable value processing operations plugins
// apply to option values: splitting inline comments, dangling lists and
// key/value pair lists, and coercing strings into TOML scalars.
package transform

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
)

// CommentPrefixes are the characters that start an inline comment in
// .ini/.cfg files.
const CommentPrefixes = "#;"

// CoerceFn converts a raw string into its final value.
type CoerceFn func(string) any

// Transformation rewrites an option value. Implementations receive the raw
// value (usually a string) and return the processed representation.
type Transformation func(value any) (any, error)

// Apply runs fn over the value stored under field and stores the result
// back. A failing transformation leaves the table untouched and logs the
// problem, so a single odd value never aborts a whole conversion.
func Apply(table *document.Table, field string, fn Transformation) {
	value, ok := table.Get(field)
	if !ok {
		return
	}
	processed, err := fn(value)
	if err != nil {
		log.Printf("[WARNING] impossible to transform %q: %v", field, err)
		return
	}
	table.Set(field, processed)
}

// ApplyNested is Apply for a value reached through a key path.
func ApplyNested(table *document.Table, path []string, fn Transformation) {
	if len(path) == 0 {
		return
	}
	parent := table
	if len(path) > 1 {
		parent = document.GetNestedTable(table, path[:len(path)-1]...)
	}
	if parent == nil {
		return
	}
	last := path[len(path)-1]
	if parent.Has(last) {
		Apply(parent, last, fn)
	}
}

// ---- Scalar coercion ----

// IsTrue reports whether value spells a truthy INI boolean.
func IsTrue(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// IsFalse reports whether value spells a falsy INI boolean.
func IsFalse(value string) bool {
	switch strings.ToLower(value) {
	case "false", "0", "no", "off", "none", "null", "nil":
		return true
	}
	return false
}

func isDecimal(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFloat(value string) bool {
	cleaned := strings.ToLower(value)
	cleaned = strings.TrimLeft(cleaned, "+-")
	if cleaned == "inf" || cleaned == "nan" {
		return true
	}
	cleaned = strings.ReplaceAll(cleaned, "_", "")
	return strings.Count(cleaned, ".") == 1 &&
		isDecimal(strings.ReplaceAll(cleaned, ".", ""))
}

// CoerceBool converts an INI boolean string into a bool.
func CoerceBool(value string) (bool, error) {
	if IsTrue(value) {
		return true, nil
	}
	if IsFalse(value) {
		return false, nil
	}
	return false, fmt.Errorf("%q cannot be converted to boolean", value)
}

// CoerceScalar guesses the most specific TOML scalar for a string:
// int, float, bool, and finally the string itself.
func CoerceScalar(value string) any {
	value = strings.TrimSpace(value)
	if isDecimal(value) {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	if isFloat(value) {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(value, "_", ""), 64); err == nil {
			return f
		}
	}
	if IsTrue(value) {
		return true
	}
	if IsFalse(value) {
		return false
	}
	return value
}

// KebabCase lowers a field name and replaces underscores with dashes,
// the convention used by pyproject.toml.
func KebabCase(field string) string {
	return strings.ReplaceAll(strings.ToLower(field), "_", "-")
}

// ---- Comment splitting ----

// CommentOptions controls SplitComment.
type CommentOptions struct {
	Coerce   CoerceFn
	Prefixes string // defaults to CommentPrefixes; NoComments disables
	// NoComments keeps comment characters as part of the value (useful
	// for values like URLs that legitimately contain '#').
	NoComments bool
}

func (o CommentOptions) prefixes() string {
	if o.NoComments {
		return ""
	}
	if o.Prefixes == "" {
		return CommentPrefixes
	}
	return o.Prefixes
}

func (o CommentOptions) coerce(value string) any {
	if o.Coerce == nil {
		return value
	}
	return o.Coerce(value)
}

// SplitComment separates a single-line value from its trailing inline
// comment. Multi-line values are passed through untouched.
func SplitComment(value string) Commented {
	return SplitCommentOpts(value, CommentOptions{})
}

// SplitScalar splits the inline comment and coerces the value to a scalar.
func SplitScalar(value string) Commented {
	return SplitCommentOpts(value, CommentOptions{Coerce: CoerceScalar})
}

// SplitCommentOpts is SplitComment with explicit options.
func SplitCommentOpts(value string, opts CommentOptions) Commented {
	value = strings.TrimSpace(value)
	prefixes := opts.prefixes()

	// Only single line options carry inline comments.
	if !strings.ContainsAny(value, prefixes) || len(splitLines(value)) > 1 {
		return Commented{Value: opts.coerce(value)}
	}
	if value != "" && strings.ContainsRune(prefixes, rune(value[0])) {
		return Commented{Missing: true, Comment: stripComment(value, prefixes)}
	}

	idx := strings.IndexAny(value, prefixes)
	head, tail := value[:idx], value[idx:]
	return Commented{
		Value:   opts.coerce(strings.TrimSpace(head)),
		Comment: stripComment(tail, prefixes),
	}
}

// ---- List splitting ----

// ListOptions controls SplitList.
type ListOptions struct {
	Sep    string // item separator, "," when empty
	Coerce CoerceFn
	// NoSubsplit treats every line of a dangling list as a single item
	// instead of splitting it again on Sep.
	NoSubsplit bool
	Prefixes   string
}

// SplitList parses a (potentially dangling) comma-separated list.
func SplitList(value string) CommentedList {
	return SplitListOpts(value, ListOptions{})
}

// SplitListOpts parses a dangling list value: the value is split into
// lines, each line optionally split on the separator, and every item run
// through the coercion function. Inline comments survive per line.
func SplitListOpts(value string, opts ListOptions) CommentedList {
	sep := opts.Sep
	if sep == "" {
		sep = ","
	}
	prefixes := opts.Prefixes
	if prefixes == "" {
		prefixes = CommentPrefixes
	}
	prefixes = strings.ReplaceAll(prefixes, sep, "")

	lines := splitLines(strings.TrimSpace(value))
	subsplit := !opts.NoSubsplit
	coerceLine := func(line string) any {
		var items []any
		parts := []string{line}
		if subsplit || len(lines) == 1 {
			parts = strings.Split(line, sep)
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if opts.Coerce != nil {
				items = append(items, opts.Coerce(p))
			} else {
				items = append(items, p)
			}
		}
		return items
	}

	out := CommentedList{}
	for _, line := range lines {
		out.Lines = append(out.Lines,
			SplitCommentOpts(line, CommentOptions{Coerce: coerceLine, Prefixes: prefixes}))
	}
	return out
}

// ---- Key/value pair splitting ----

// KVOptions controls SplitKVPairs.
type KVOptions struct {
	KeySep     string // "=" when empty
	PairSep    string // "," when empty
	Coerce     CoerceFn
	NoSubsplit bool
	NoComments bool
}

// SplitKVPairs parses a (potentially dangling) list of `key = value`
// pairs, such as setuptools' `project_urls` or `package_dir` options.
func SplitKVPairs(value string) CommentedKV {
	return SplitKVOpts(value, KVOptions{})
}

// SplitKVOpts is SplitKVPairs with explicit options.
func SplitKVOpts(value string, opts KVOptions) CommentedKV {
	keySep := opts.KeySep
	if keySep == "" {
		keySep = "="
	}
	pairSep := opts.PairSep
	if pairSep == "" {
		pairSep = ","
	}
	prefixes := CommentPrefixes
	prefixes = strings.ReplaceAll(prefixes, keySep, "")
	prefixes = strings.ReplaceAll(prefixes, pairSep, "")

	lines := splitLines(strings.TrimSpace(value))
	subsplit := !opts.NoSubsplit
	coerceLine := func(line string) any {
		var pairs []KV
		parts := []string{line}
		if subsplit || len(lines) == 1 {
			parts = strings.Split(line, pairSep)
		}
		for _, p := range parts {
			if !strings.Contains(p, keySep) {
				continue
			}
			k, v, _ := strings.Cut(p, keySep)
			pair := KV{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)}
			if opts.Coerce != nil {
				pair.Value = opts.Coerce(strings.TrimSpace(v))
			}
			pairs = append(pairs, pair)
		}
		return pairs
	}

	out := CommentedKV{}
	commentOpts := CommentOptions{Coerce: coerceLine, Prefixes: prefixes, NoComments: opts.NoComments}
	for _, line := range lines {
		out.Lines = append(out.Lines, SplitCommentOpts(line, commentOpts))
	}
	return out
}

// ---- Transformation constructors ----

// SplitCommentFn wraps SplitCommentOpts as a Transformation.
func SplitCommentFn(opts CommentOptions) Transformation {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		return SplitCommentOpts(s, opts), nil
	}
}

// SplitScalarFn splits the inline comment and coerces to a scalar.
func SplitScalarFn() Transformation {
	return SplitCommentFn(CommentOptions{Coerce: CoerceScalar})
}

// SplitBoolFn splits the inline comment and coerces to a boolean.
func SplitBoolFn() Transformation {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		var coerceErr error
		out := SplitCommentOpts(s, CommentOptions{Coerce: func(v string) any {
			b, err := CoerceBool(v)
			if err != nil {
				coerceErr = err
			}
			return b
		}})
		return out, coerceErr
	}
}

// SplitListFn wraps SplitListOpts as a Transformation.
func SplitListFn(opts ListOptions) Transformation {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		return SplitListOpts(s, opts), nil
	}
}

// SplitKVFn wraps SplitKVOpts as a Transformation.
func SplitKVFn(opts KVOptions) Transformation {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		return SplitKVOpts(s, opts), nil
	}
}

// ---- Helpers ----

func splitLines(value string) []string {
	if value == "" {
		return []string{""}
	}
	return strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
}

func stripComment(msg, prefixes string) string {
	msg = strings.TrimSpace(msg)
	msg = strings.TrimLeft(msg, prefixes)
	return strings.TrimSpace(msg)
}
