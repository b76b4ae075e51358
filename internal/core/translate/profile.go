package translate

import "github.com/cfgtools/initoml/internal/core/document"

// TextProcessor rewrites the raw text before parsing or after rendering.
type TextProcessor func(text string) string

// INIProcessor rewrites the parsed source document before translation.
type INIProcessor func(doc *document.Table) *document.Table

// TOMLProcessor rewrites the output document. It also receives the parsed
// source, for rules that need to look at the original values.
type TOMLProcessor func(orig, doc *document.Table) *document.Table

// Profile bundles the processing pipeline for one kind of input file
// (e.g. setup.cfg). Plugins attach their processors to the profiles they
// know how to handle.
type Profile struct {
	Name     string
	HelpText string

	PreProcessors  []TextProcessor
	INIProcessors  []INIProcessor
	TOMLProcessors []TOMLProcessor
	PostProcessors []TextProcessor

	// TOMLTemplate seeds the output document, e.g. with a default
	// [build-system] table.
	TOMLTemplate string
}

// clone returns a copy of the profile with independent processor slices,
// so per-call augmentations never leak into the registry.
func (p *Profile) clone() *Profile {
	out := *p
	out.PreProcessors = append([]TextProcessor(nil), p.PreProcessors...)
	out.INIProcessors = append([]INIProcessor(nil), p.INIProcessors...)
	out.TOMLProcessors = append([]TOMLProcessor(nil), p.TOMLProcessors...)
	out.PostProcessors = append([]TextProcessor(nil), p.PostProcessors...)
	return &out
}

// InsertINIProcessor adds fn in front of the already registered INI
// processors.
func (p *Profile) InsertINIProcessor(fn INIProcessor) {
	p.INIProcessors = append([]INIProcessor{fn}, p.INIProcessors...)
}

// InsertTOMLProcessor adds fn in front of the already registered TOML
// processors.
func (p *Profile) InsertTOMLProcessor(fn TOMLProcessor) {
	p.TOMLProcessors = append([]TOMLProcessor{fn}, p.TOMLProcessors...)
}

// AugmentationFn tweaks a profile right before a translation runs.
type AugmentationFn func(profile *Profile)

// Augmentation is an optional, named profile modification the user can
// switch on or off from the command line.
type Augmentation struct {
	Fn              AugmentationFn
	Name            string
	HelpText        string
	ActiveByDefault bool
}

// IsActive decides whether the augmentation applies, given an explicit
// user choice (nil when the user did not say anything).
func (a Augmentation) IsActive(explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	return a.ActiveByDefault
}
