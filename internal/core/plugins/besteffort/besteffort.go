// Package besteffort implements the fallback conversion profile: option
// values are converted based on their shape alone, with no knowledge of
// the tool that will consume them.
package besteffort

import (
	"regexp"
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

// ProfileName is the profile the plugin registers.
const ProfileName = "best_effort"

const keySep = "="

var sectionSplitter = regexp.MustCompile(`\.|:|\\`)

// Activate registers the best_effort profile.
func Activate(t *translate.Translator) {
	profile := t.Profile(ProfileName)
	profile.HelpText = "guess option value conversion based on the string format"
	profile.TOMLProcessors = append(profile.TOMLProcessors, processValues)
}

func processValues(_, doc *document.Table) *document.Table {
	for _, name := range doc.Keys() {
		section := doc.GetTable(name)
		if section == nil {
			continue
		}
		for _, field := range section.Keys() {
			value := section.GetString(field)
			applyBestEffort(section, field, value)
		}

		// Dotted section names emulate nesting; make it real.
		if sectionSplitter.MatchString(name) {
			doc.Pop(name)
			document.SetNested(doc, section, sectionSplitter.Split(name, -1)...)
		}
	}
	return doc
}

func applyBestEffort(section *document.Table, field, value string) {
	if len(strings.Split(value, "\n")) > 1 {
		if strings.Contains(value, keySep) {
			transform.Apply(section, field, transform.SplitKVFn(transform.KVOptions{KeySep: keySep}))
			return
		}
		transform.Apply(section, field, transform.SplitListFn(transform.ListOptions{}))
		return
	}
	transform.Apply(section, field, transform.SplitScalarFn())
}
