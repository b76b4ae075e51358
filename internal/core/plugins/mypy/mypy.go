// Package mypy converts [mypy] and [mypy-*] override sections into the
// [tool.mypy] table of pyproject.toml.
//
// https://mypy.readthedocs.io/en/stable/config_file.html
package mypy

import (
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

// listValues are mypy options holding comma-separated lists.
var listValues = map[string]bool{
	"files":              true,
	"always_false":       true,
	"disable_error_code": true,
	"plugins":            true,
}

// dontTouch are options whose value must stay a string.
var dontTouch = map[string]bool{"python_version": true}

// Activate attaches the conversion to every file mypy reads settings
// from.
func Activate(t *translate.Translator) {
	for _, file := range []string{"setup.cfg", "mypy.ini", ".mypy.ini"} {
		profile := t.Profile(file)
		profile.TOMLProcessors = append(profile.TOMLProcessors, processValues)
	}
	t.Profile("mypy.ini").HelpText = "convert settings to 'pyproject.toml' equivalent"
}

func processValues(_, doc *document.Table) *document.Table {
	names := doc.Keys()
	if tool := doc.GetTable("tool"); tool != nil {
		names = append(names, tool.Keys()...)
	}
	for _, section := range names {
		switch {
		case strings.HasPrefix(section, "mypy-"):
			processOverridesSection(doc, section)
		case section == "mypy":
			processSection(doc, section)
		}
	}
	return doc
}

func processSection(doc *document.Table, name string) {
	sec := popSection(doc, name)
	if sec == nil || sec.Len() == 0 {
		return
	}
	processOptions(sec)
	document.SetNested(doc, sec, "tool", "mypy")
}

// processOverridesSection turns a `[mypy-mod.a,mod.b]` section into one
// entry of the `[[tool.mypy.overrides]]` array of tables.
func processOverridesSection(doc *document.Table, name string) {
	var modules []string
	for _, part := range strings.Split(name, ",") {
		modules = append(modules, strings.TrimPrefix(part, "mypy-"))
	}
	sec := popSection(doc, name)
	if sec == nil {
		return
	}
	processOptions(sec)
	sec.SetFirst("module", modules)

	mypy := document.SetDefaultTable(doc, "tool", "mypy")
	overrides, _ := mypy.Get("overrides")
	existing, _ := overrides.([]*document.Table)
	mypy.Set("overrides", append(existing, sec))
}

func processOptions(sec *document.Table) {
	for _, field := range sec.Keys() {
		switch {
		case dontTouch[field]:
		case listValues[field]:
			transform.Apply(sec, field, transform.SplitListFn(transform.ListOptions{}))
		default:
			transform.Apply(sec, field, transform.SplitScalarFn())
		}
	}
}

func popSection(doc *document.Table, name string) *document.Table {
	if v, ok := doc.Pop(name); ok {
		sec, _ := v.(*document.Table)
		return sec
	}
	if tool := doc.GetTable("tool"); tool != nil {
		if v, ok := tool.Pop(name); ok {
			sec, _ := v.(*document.Table)
			return sec
		}
	}
	return nil
}
