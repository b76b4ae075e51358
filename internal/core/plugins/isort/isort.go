// Package isort converts [isort] sections (or .isort.cfg [settings]) into
// the [tool.isort] table of pyproject.toml.
package isort

import (
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

var staticListFields = []string{
	"force_to_top",
	"treat_comments_as_code",
	"no_lines_before",
	"forced_separate",
	"sections",
	"length_sort_sections",
	"sources",
	"constants",
	"classes",
	"variables",
	"namespace_packages",
	"add_imports",
	"remove_imports",
}

var (
	listFieldSuffixes = []string{"skip", "glob", "paths", "exclusions", "extensions"}
	listFieldPrefixes = []string{"known", "extra"}
)

// Activate attaches the conversion to every file isort reads settings
// from.
func Activate(t *translate.Translator) {
	profile := t.Profile(".isort.cfg")
	profile.HelpText = "convert settings to 'pyproject.toml' equivalent"
	profile.TOMLProcessors = append(profile.TOMLProcessors, processorFor("settings"))
	for _, file := range []string{"setup.cfg", "tox.ini"} {
		p := t.Profile(file)
		p.TOMLProcessors = append(p.TOMLProcessors, processorFor("isort"))
	}
}

func processorFor(sectionName string) translate.TOMLProcessor {
	return func(_, doc *document.Table) *document.Table {
		return processValues(sectionName, doc)
	}
}

// listOptions collects the option names holding comma-separated lists:
// a fixed set plus the dynamically named families (known_*, *_glob, ...).
func listOptions(sec *document.Table) map[string]bool {
	out := map[string]bool{}
	add := func(field string) {
		out[field] = true
		out[transform.KebabCase(field)] = true
	}
	for _, field := range staticListFields {
		add(field)
	}
	for _, field := range sec.Keys() {
		for _, prefix := range listFieldPrefixes {
			if strings.HasPrefix(field, prefix) {
				add(field)
			}
		}
		for _, suffix := range listFieldSuffixes {
			if strings.HasSuffix(field, suffix) {
				add(field)
			}
		}
	}
	return out
}

func processValues(sectionName string, doc *document.Table) *document.Table {
	sec := popSection(doc, sectionName)
	if sec == nil {
		return doc
	}
	lists := listOptions(sec)
	for _, field := range sec.Keys() {
		if lists[field] {
			transform.Apply(sec, field, transform.SplitListFn(transform.ListOptions{}))
			continue
		}
		transform.Apply(sec, field, transform.SplitScalarFn())
	}
	document.SetNested(doc, sec, "tool", "isort")
	return doc
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
