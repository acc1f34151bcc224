package design

import (
	"fmt"
	"regexp"

	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

const (
	DefaultFont      = "Arial"
	DefaultFontSize  = 24
	DefaultTextColor = "#000000"
	DefaultImageSize = 48
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var allowedFonts = []string{
	"Arial",
	"Georgia",
	"Verdana",
	"Courier New",
	"Times New Roman",
	"Brush Script MT",
}

// finishes pairs each selectable tumbler color with its product photo.
var finishes = map[string]string{
	"#1f2937": "tumblera-black.png",
	"#ffffff": "tumblera-white.png",
	"#f472b6": "tumblera-pink.png",
	"#60a5fa": "tumblera-blue.png",
	"#34d399": "tumblera-green.png",
}

const (
	defaultTumblerColor = "#ffffff"
	defaultTumblerImage = "tumblera-white.png"
)

// sizePrices is the canonical size to price table, in whole pesos.
var sizePrices = map[enums.TumblerSize]int{
	enums.TumblerSize350: 499,
	enums.TumblerSize500: 649,
	enums.TumblerSize750: 799,
}

// Design is one tumbler customization configuration. It is a plain value;
// reducers return updated copies so snapshots never alias live state.
type Design struct {
	Text            string                `json:"text"`
	Font            string                `json:"font"`
	FontSize        int                   `json:"fontSize"`
	TextColor       string                `json:"textColor"`
	TumblerColor    string                `json:"tumblerColor"`
	TumblerImage    string                `json:"tumblerImage"`
	TextOrientation enums.TextOrientation `json:"textOrientation"`
	Image           *string               `json:"image"`
	ImageData       *string               `json:"imageData"`
	ImageSize       int                   `json:"imageSize"`
	Size            enums.TumblerSize     `json:"size"`
	Price           int                   `json:"price"`
}

// Default returns the canonical empty design: no text, no image, the default
// font and colors, and the smallest size with its derived price.
func Default() Design {
	return Design{
		Text:            "",
		Font:            DefaultFont,
		FontSize:        DefaultFontSize,
		TextColor:       DefaultTextColor,
		TumblerColor:    defaultTumblerColor,
		TumblerImage:    defaultTumblerImage,
		TextOrientation: enums.TextOrientationHorizontal,
		Image:           nil,
		ImageData:       nil,
		ImageSize:       DefaultImageSize,
		Size:            enums.TumblerSize350,
		Price:           sizePrices[enums.TumblerSize350],
	}
}

// PriceFor is the pure size to price lookup.
func PriceFor(size enums.TumblerSize) (int, error) {
	price, ok := sizePrices[size]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown tumbler size %q", size))
	}
	return price, nil
}

// Fonts returns the allowed font names.
func Fonts() []string {
	out := make([]string, len(allowedFonts))
	copy(out, allowedFonts)
	return out
}

// Finishes returns the selectable tumbler color to image pairs.
func Finishes() map[string]string {
	out := make(map[string]string, len(finishes))
	for color, image := range finishes {
		out[color] = image
	}
	return out
}

// IsCustomized reports whether the design carries text or an image. A blank
// design must not enter the cart.
func (d Design) IsCustomized() bool {
	if d.Text != "" {
		return true
	}
	return d.ImageData != nil && *d.ImageData != ""
}

// HasImage reports whether inline image data is present.
func (d Design) HasImage() bool {
	return d.ImageData != nil && *d.ImageData != ""
}

// Clone returns a deep copy, detaching the optional image pointers.
func (d Design) Clone() Design {
	out := d
	if d.Image != nil {
		v := *d.Image
		out.Image = &v
	}
	if d.ImageData != nil {
		v := *d.ImageData
		out.ImageData = &v
	}
	return out
}

// Validate checks the cross-field invariants of a fully populated design.
func (d Design) Validate() error {
	if !isAllowedFont(d.Font) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown font %q", d.Font))
	}
	if d.FontSize <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "font size must be positive")
	}
	if !hexColorRe.MatchString(d.TextColor) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed text color %q", d.TextColor))
	}
	if !hexColorRe.MatchString(d.TumblerColor) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed tumbler color %q", d.TumblerColor))
	}
	if !d.TextOrientation.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown text orientation %q", d.TextOrientation))
	}
	if !d.Size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown tumbler size %q", d.Size))
	}
	if price := sizePrices[d.Size]; d.Price != price {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price %d does not match size %s", d.Price, d.Size))
	}
	hasData := d.ImageData != nil && *d.ImageData != ""
	hasName := d.Image != nil && *d.Image != ""
	if hasName != hasData {
		return pkgerrors.New(pkgerrors.CodeValidation, "image name and image data must be set together")
	}
	if hasData && d.ImageSize <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "image size must be positive")
	}
	return nil
}

func isAllowedFont(font string) bool {
	for _, f := range allowedFonts {
		if f == font {
			return true
		}
	}
	return false
}
