// Package pytest converts [pytest] / [tool:pytest] sections into the
// [tool.pytest.ini_options] table of pyproject.toml.
//
// https://docs.pytest.org/en/latest/reference/customize.html#config-file-formats
package pytest

import (
	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

// listValues are pytest options holding whitespace-separated lists.
var listValues = map[string]bool{
	"filterwarnings":   true,
	"norecursedirs":    true,
	"python_classes":   true,
	"python_files":     true,
	"python_functions": true,
	"required_plugins": true,
	"testpaths":        true,
	"usefixtures":      true,
}

// dontTouch are options whose value must stay a string.
var dontTouch = map[string]bool{"minversion": true}

var (
	listWithSpace = transform.SplitListFn(transform.ListOptions{Sep: " "})
	// Markers can carry a help text after a colon, so they only split
	// on line breaks.
	splitMarkers = transform.SplitListFn(transform.ListOptions{Sep: "\n"})
)

// Activate attaches the conversion to every file pytest reads settings
// from.
func Activate(t *translate.Translator) {
	for _, file := range []string{"setup.cfg", "tox.ini", "pytest.ini"} {
		profile := t.Profile(file)
		profile.TOMLProcessors = append(profile.TOMLProcessors, processValues)
	}
	t.Profile("pytest.ini").HelpText = "convert settings to 'pyproject.toml' ('ini_options' table)"
}

func processValues(_, doc *document.Table) *document.Table {
	sec := popSection(doc)
	if sec == nil {
		return doc
	}
	for _, field := range sec.Keys() {
		switch {
		case dontTouch[field]:
		case field == "markers":
			transform.Apply(sec, field, splitMarkers)
		case listValues[field]:
			transform.Apply(sec, field, listWithSpace)
		default:
			transform.Apply(sec, field, transform.SplitScalarFn())
		}
	}
	if sec.Len() > 0 {
		document.SetNested(doc, sec, "tool", "pytest", "ini_options")
	}
	return doc
}

func popSection(doc *document.Table) *document.Table {
	for _, name := range []string{"pytest", "tool:pytest"} {
		if v, ok := doc.Pop(name); ok {
			sec, _ := v.(*document.Table)
			return sec
		}
	}
	if tool := doc.GetTable("tool"); tool != nil {
		if v, ok := tool.Pop("pytest"); ok {
			sec, _ := v.(*document.Table)
			return sec
		}
	}
	return nil
}
