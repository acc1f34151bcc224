package enums

import "fmt"

// TumblerSize is the product size tier in milliliters. Each size is bound to a
// fixed price; the binding lives in the design package's price table.
type TumblerSize string

const (
	TumblerSize350 TumblerSize = "350"
	TumblerSize500 TumblerSize = "500"
	TumblerSize750 TumblerSize = "750"
)

var validTumblerSizes = []TumblerSize{
	TumblerSize350,
	TumblerSize500,
	TumblerSize750,
}

// IsValid reports whether the value matches the canonical tumbler size enum.
func (s TumblerSize) IsValid() bool {
	for _, candidate := range validTumblerSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTumblerSize converts the raw string to TumblerSize.
func ParseTumblerSize(value string) (TumblerSize, error) {
	for _, candidate := range validTumblerSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tumbler size %q", value)
}

// TumblerSizes returns the canonical ordering of size tiers.
func TumblerSizes() []TumblerSize {
	out := make([]TumblerSize, len(validTumblerSizes))
	copy(out, validTumblerSizes)
	return out
}
