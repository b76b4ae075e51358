package translate

import (
	"fmt"
	"strings"
)

// UndefinedProfileError is returned when a translation asks for a profile
// no plugin has registered.
type UndefinedProfileError struct {
	Name      string
	Available []string
}

func (e *UndefinedProfileError) Error() string {
	return fmt.Sprintf("profile %q is not registered, are the right plugins loaded? (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// DuplicateAugmentationError is returned when two plugins register an
// augmentation under the same name.
type DuplicateAugmentationError struct {
	Name string
}

func (e *DuplicateAugmentationError) Error() string {
	return fmt.Sprintf("profile augmentation %q is already registered", e.Name)
}

// InvalidAugmentationNameError is returned for augmentation names that
// cannot be turned into CLI flags. Names must be identifier-like and must
// not start with "no_", which is reserved for the disabling flag.
type InvalidAugmentationNameError struct {
	Name string
}

func (e *InvalidAugmentationNameError) Error() string {
	return fmt.Sprintf("invalid profile augmentation name %q", e.Name)
}

func validAugmentationName(name string) bool {
	if name == "" || strings.HasPrefix(name, "no_") {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
