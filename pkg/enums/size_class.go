package enums

import "fmt"

// SizeClass names a preview scale tier. It is distinct from TumblerSize: a
// SizeClass picks how large the rendered preview is, not which product the
// customer buys.
type SizeClass string

const (
	SizeClassSmall  SizeClass = "small"
	SizeClassMedium SizeClass = "medium"
	SizeClassLarge  SizeClass = "large"
)

var validSizeClasses = []SizeClass{
	SizeClassSmall,
	SizeClassMedium,
	SizeClassLarge,
}

// IsValid reports whether the value matches the canonical size class enum.
func (s SizeClass) IsValid() bool {
	for _, candidate := range validSizeClasses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSizeClass converts the raw string to SizeClass.
func ParseSizeClass(value string) (SizeClass, error) {
	for _, candidate := range validSizeClasses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size class %q", value)
}
