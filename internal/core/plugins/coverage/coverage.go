// Package coverage converts coverage.py sections ([coverage:run] in
// setup.cfg/tox.ini, or [run] in .coveragerc) into [tool.coverage.*].
//
// https://coverage.readthedocs.io/en/latest/config.html
package coverage

import (
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

const prefix = "coverage:"

var affectedSections = []string{"run", "paths", "report", "html", "xml", "json"}

var listValues = map[string]bool{
	"exclude_lines":    true,
	"concurrency":      true,
	"disable_warnings": true,
	"debug":            true,
	"include":          true,
	"omit":             true,
	"plugins":          true,
	"source":           true,
	"source_pkgs":      true,
	"partial_branches": true,
}

// Activate attaches the conversion to .coveragerc (bare section names)
// and to setup.cfg/tox.ini (sections prefixed with "coverage:").
func Activate(t *translate.Translator) {
	profile := t.Profile(".coveragerc")
	profile.HelpText = "convert settings to 'pyproject.toml' equivalent"
	profile.TOMLProcessors = append(profile.TOMLProcessors, processorFor(affectedSections))

	prefixed := make([]string, len(affectedSections))
	for i, s := range affectedSections {
		prefixed[i] = prefix + s
	}
	for _, file := range []string{"setup.cfg", "tox.ini"} {
		p := t.Profile(file)
		p.TOMLProcessors = append(p.TOMLProcessors, processorFor(prefixed))
	}
}

func processorFor(sections []string) translate.TOMLProcessor {
	return func(_, doc *document.Table) *document.Table {
		return processValues(sections, doc)
	}
}

func processValues(sections []string, doc *document.Table) *document.Table {
	for _, section := range sections {
		sec := popSection(doc, section)
		if sec == nil || sec.Len() == 0 {
			continue
		}
		for _, field := range sec.Keys() {
			if listValues[field] {
				transform.Apply(sec, field, transform.SplitListFn(transform.ListOptions{}))
				continue
			}
			transform.Apply(sec, field, transform.SplitScalarFn())
		}
		name := strings.TrimPrefix(section, prefix)
		document.SetNested(doc, sec, "tool", "coverage", name)
	}
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
