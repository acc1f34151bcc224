package enums

import "fmt"

// TextOrientation describes how the customization text is laid out on the tumbler.
type TextOrientation string

const (
	TextOrientationHorizontal      TextOrientation = "horizontal"
	TextOrientationVerticalUpright TextOrientation = "vertical-upright"
	TextOrientationVerticalRotated TextOrientation = "vertical-rotated"
)

var validTextOrientations = []TextOrientation{
	TextOrientationHorizontal,
	TextOrientationVerticalUpright,
	TextOrientationVerticalRotated,
}

// IsValid reports whether the value matches the canonical text orientation enum.
func (o TextOrientation) IsValid() bool {
	for _, candidate := range validTextOrientations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseTextOrientation converts the raw string to TextOrientation.
func ParseTextOrientation(value string) (TextOrientation, error) {
	for _, candidate := range validTextOrientations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid text orientation %q", value)
}
