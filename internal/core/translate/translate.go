// Package translate implements the conversion pipeline: a registry of
// per-file-type profiles, plugins that populate them, and the Translator
// that runs a source file through pre-processing, INI parsing, document
// transformation and TOML rendering.
package translate

import (
	"strings"

	"github.com/cfgtools/initoml/internal/core/ini"
	"github.com/cfgtools/initoml/internal/core/toml"
)

// Plugin hooks conversions into a translator, usually by attaching
// processors to one or more profiles.
type Plugin func(t *Translator)

// Translator holds the registered profiles and augmentations and runs
// translations against them.
type Translator struct {
	profiles      map[string]*Profile
	profileOrder  []string
	augmentations map[string]*Augmentation
	augOrder      []string
}

// New builds a translator and activates the given plugins in order.
func New(plugins ...Plugin) *Translator {
	t := &Translator{
		profiles:      map[string]*Profile{},
		augmentations: map[string]*Augmentation{},
	}
	for _, activate := range plugins {
		activate(t)
	}
	return t
}

// Profile returns the profile registered under name, creating an empty
// one on first access so plugins can attach to shared profiles in any
// order.
func (t *Translator) Profile(name string) *Profile {
	if p, ok := t.profiles[name]; ok {
		return p
	}
	p := &Profile{Name: name}
	t.profiles[name] = p
	t.profileOrder = append(t.profileOrder, name)
	return p
}

// HasProfile reports whether a profile is registered under name.
func (t *Translator) HasProfile(name string) bool {
	_, ok := t.profiles[name]
	return ok
}

// Profiles lists the registered profiles in registration order.
func (t *Translator) Profiles() []*Profile {
	out := make([]*Profile, 0, len(t.profileOrder))
	for _, name := range t.profileOrder {
		out = append(out, t.profiles[name])
	}
	return out
}

// ProfileNames lists the registered profile names in registration order.
func (t *Translator) ProfileNames() []string {
	return append([]string(nil), t.profileOrder...)
}

// AugmentProfiles registers a named augmentation.
func (t *Translator) AugmentProfiles(fn AugmentationFn, activeByDefault bool, name, helpText string) error {
	name = strings.TrimSpace(name)
	if !validAugmentationName(name) {
		return &InvalidAugmentationNameError{Name: name}
	}
	if _, ok := t.augmentations[name]; ok {
		return &DuplicateAugmentationError{Name: name}
	}
	t.augmentations[name] = &Augmentation{
		Fn:              fn,
		Name:            name,
		HelpText:        helpText,
		ActiveByDefault: activeByDefault,
	}
	t.augOrder = append(t.augOrder, name)
	return nil
}

// Augmentations lists the registered augmentations in registration order.
func (t *Translator) Augmentations() []*Augmentation {
	out := make([]*Augmentation, 0, len(t.augOrder))
	for _, name := range t.augOrder {
		out = append(out, t.augmentations[name])
	}
	return out
}

// Translate converts INI/CFG text into TOML using the named profile.
// activeAugmentations carries explicit user choices by augmentation name;
// augmentations missing from the map fall back to their default.
func (t *Translator) Translate(source, profileName string, activeAugmentations map[string]bool) (string, error) {
	registered, ok := t.profiles[profileName]
	if !ok {
		return "", &UndefinedProfileError{Name: profileName, Available: t.ProfileNames()}
	}

	profile := registered.clone()
	for _, name := range t.augOrder {
		aug := t.augmentations[name]
		var explicit *bool
		if choice, ok := activeAugmentations[name]; ok {
			explicit = &choice
		}
		if aug.IsActive(explicit) {
			aug.Fn(profile)
		}
	}

	for _, fn := range profile.PreProcessors {
		source = fn(source)
	}

	orig, err := ini.Parse(source)
	if err != nil {
		return "", err
	}
	for _, fn := range profile.INIProcessors {
		orig = fn(orig)
	}

	doc, err := toml.ParseTemplate(profile.TOMLTemplate)
	if err != nil {
		return "", err
	}
	doc.Merge(orig)
	for _, fn := range profile.TOMLProcessors {
		doc = fn(orig, doc)
	}

	out := strings.TrimSpace(toml.Render(doc))
	for _, fn := range profile.PostProcessors {
		out = fn(out)
	}
	return strings.TrimSpace(out), nil
}
