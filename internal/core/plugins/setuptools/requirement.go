package setuptools

import (
	"regexp"
	"strings"
)

var requirementNamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?`)
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// RequirementName extracts the canonical project name out of a PEP 508
// requirement string, so "SetupTools >= 40.8" and "setuptools" compare
// equal when deduplicating build requirements.
func RequirementName(requirement string) string {
	name := requirementNamePattern.FindString(strings.TrimSpace(requirement))
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}
