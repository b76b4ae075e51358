// Package ini parses .ini/.cfg sources into the document representation.
// Parsing itself is delegated to gopkg.in/ini.v1, configured for the
// Python configparser dialect the input files use (indented multi-line
// values, '#' and ';' comments, ':' as an alternative delimiter). The
// wrapper converts the parsed file into an ordered document.Table and
// keeps comments attached to the sections and options they precede.
package ini

import (
	"fmt"
	"strings"

	goini "gopkg.in/ini.v1"

	"github.com/cfgtools/initoml/internal/core/document"
)

// CommentPrefixes are the characters that can start a comment line.
const CommentPrefixes = "#;"

var loadOptions = goini.LoadOptions{
	AllowPythonMultilineValues: true,
	// Inline comments stay inside the raw value. The transform package
	// splits them off later, so they can be carried into the TOML output.
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	KeyValueDelimiters:      "=:",
}

// Parse converts INI/CFG text into a document table: one nested table per
// section, one string entry per option, comment lines re-attached in
// front of the block they annotated.
func Parse(text string) (*document.Table, error) {
	file, err := goini.LoadSources(loadOptions, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("parsing ini source: %w", err)
	}

	doc := document.NewTable()
	for _, section := range file.Sections() {
		if section.Name() == goini.DefaultSection {
			// Options declared before any section header.
			appendKeys(doc, section)
			continue
		}
		sec := document.NewTable()
		addComments(sec, section.Comment)
		appendKeys(sec, section)
		doc.Set(section.Name(), sec)
	}
	return doc, nil
}

func appendKeys(table *document.Table, section *goini.Section) {
	for _, key := range section.Keys() {
		addComments(table, key.Comment)
		table.Set(key.Name(), key.Value())
	}
}

// addComments splits a raw comment block into lines, strips the comment
// prefixes and stores each line as a standalone comment entry.
func addComments(table *document.Table, comment string) {
	if strings.TrimSpace(comment) == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, CommentPrefixes)
		table.AddComment(strings.TrimSpace(line))
	}
}
