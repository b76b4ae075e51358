// Package pyproject models the pyproject.toml documents the converter
// emits: the [build-system] table (PEP 518) and the [project] metadata
// table (PEP 621), plus the structural validation the `check` command
// runs over them.
package pyproject

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// FileName is the canonical name of the document.
const FileName = "pyproject.toml"

// Document is a parsed pyproject.toml.
type Document struct {
	BuildSystem *BuildSystem   `toml:"build-system"`
	Project     *Project       `toml:"project"`
	Tool        map[string]any `toml:"tool"`
}

// BuildSystem declares the build backend used to turn the sources into a
// distributable artifact.
type BuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
	BackendPath  []string `toml:"backend-path"`
}

// Project is the PEP 621 metadata table.
type Project struct {
	Name           string                       `toml:"name"`
	Version        string                       `toml:"version"`
	Description    string                       `toml:"description"`
	Readme         any                          `toml:"readme"`  // string or {file|text, content-type}
	License        any                          `toml:"license"` // string or {file|text}
	RequiresPython string                       `toml:"requires-python"`
	Authors        []Person                     `toml:"authors"`
	Maintainers    []Person                     `toml:"maintainers"`
	Keywords       []string                     `toml:"keywords"`
	Classifiers    []string                     `toml:"classifiers"`
	Dynamic        []string                     `toml:"dynamic"`
	Dependencies   []string                     `toml:"dependencies"`
	URLs           map[string]string            `toml:"urls"`
	Scripts        map[string]string            `toml:"scripts"`
	GUIScripts     map[string]string            `toml:"gui-scripts"`
	EntryPoints    map[string]map[string]string `toml:"entry-points"`
	OptionalDeps   map[string][]string          `toml:"optional-dependencies"`
}

// Person is one author or maintainer entry.
type Person struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Parse decodes a pyproject.toml document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &doc, nil
}

// Load reads and decodes a pyproject.toml file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

var projectNamePattern = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)
var requirementPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?`)

// Validate checks the structural properties an emitted document has to
// hold: a well-formed project name, a version (explicit or dynamic) and
// well-formed requirement lists.
func (d *Document) Validate() error {
	var problems []error

	if d.Project == nil {
		problems = append(problems, errors.New("missing [project] table"))
	} else {
		problems = append(problems, d.Project.validate()...)
	}

	if d.BuildSystem != nil {
		for _, req := range d.BuildSystem.Requires {
			if !requirementPattern.MatchString(req) {
				problems = append(problems, fmt.Errorf("build-system.requires: invalid requirement %q", req))
			}
		}
		if len(d.BuildSystem.Requires) == 0 && d.BuildSystem.BuildBackend != "" {
			problems = append(problems, errors.New("build-system: build-backend declared without requires"))
		}
	}

	return errors.Join(problems...)
}

func (p *Project) validate() []error {
	var problems []error

	if p.Name == "" {
		problems = append(problems, errors.New("project.name is required"))
	} else if !projectNamePattern.MatchString(p.Name) {
		problems = append(problems, fmt.Errorf("project.name: invalid name %q", p.Name))
	}

	if p.Version == "" && !contains(p.Dynamic, "version") {
		problems = append(problems, errors.New("project.version is required unless listed in project.dynamic"))
	}

	for _, dep := range p.Dependencies {
		if !requirementPattern.MatchString(dep) {
			problems = append(problems, fmt.Errorf("project.dependencies: invalid requirement %q", dep))
		}
	}
	for extra, deps := range p.OptionalDeps {
		for _, dep := range deps {
			if !requirementPattern.MatchString(dep) {
				problems = append(problems,
					fmt.Errorf("project.optional-dependencies.%s: invalid requirement %q", extra, dep))
			}
		}
	}
	for _, field := range p.Dynamic {
		if field == "name" {
			problems = append(problems, errors.New("project.dynamic must not list 'name'"))
		}
	}
	return problems
}

func contains(items []string, wanted string) bool {
	for _, item := range items {
		if item == wanted {
			return true
		}
	}
	return false
}
