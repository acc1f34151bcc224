package design

import (
	"fmt"
	"strings"

	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

// Reducers apply one validated mutation each and return the updated design.
// On a constraint violation the original design is returned unchanged along
// with the validation error.

// WithText sets the printed text. Empty text is allowed; the cart gate is
// IsCustomized, not this setter.
func (d Design) WithText(text string) Design {
	out := d.Clone()
	out.Text = text
	return out
}

// WithFont switches to one of the allowed fonts.
func (d Design) WithFont(font string) (Design, error) {
	if !isAllowedFont(font) {
		return d, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown font %q", font))
	}
	out := d.Clone()
	out.Font = font
	return out, nil
}

// WithFontSize sets the text size in pixels.
func (d Design) WithFontSize(size int) (Design, error) {
	if size <= 0 {
		return d, pkgerrors.New(pkgerrors.CodeValidation, "font size must be positive")
	}
	out := d.Clone()
	out.FontSize = size
	return out, nil
}

// WithTextColor sets the text color from a #RRGGBB string.
func (d Design) WithTextColor(color string) (Design, error) {
	if !hexColorRe.MatchString(color) {
		return d, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed text color %q", color))
	}
	out := d.Clone()
	out.TextColor = color
	return out, nil
}

// WithTumblerColor selects a product finish. The paired product photo is
// derived from the color, never set independently.
func (d Design) WithTumblerColor(color string) (Design, error) {
	image, ok := finishes[strings.ToLower(color)]
	if !ok {
		return d, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unavailable tumbler color %q", color))
	}
	out := d.Clone()
	out.TumblerColor = strings.ToLower(color)
	out.TumblerImage = image
	return out, nil
}

// WithOrientation sets how the text flows on the tumbler.
func (d Design) WithOrientation(orientation enums.TextOrientation) (Design, error) {
	if !orientation.IsValid() {
		return d, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown text orientation %q", orientation))
	}
	out := d.Clone()
	out.TextOrientation = orientation
	return out, nil
}

// WithImage attaches an uploaded image by name and inline data.
func (d Design) WithImage(name, data string) (Design, error) {
	if strings.TrimSpace(name) == "" {
		return d, pkgerrors.New(pkgerrors.CodeValidation, "image name is required")
	}
	if data == "" {
		return d, pkgerrors.New(pkgerrors.CodeValidation, "image data is required")
	}
	out := d.Clone()
	out.Image = &name
	out.ImageData = &data
	return out, nil
}

// WithoutImage removes the uploaded image and resets the image size.
func (d Design) WithoutImage() Design {
	out := d.Clone()
	out.Image = nil
	out.ImageData = nil
	out.ImageSize = DefaultImageSize
	return out
}

// WithImageSize sets the rendered image dimensions in pixels.
func (d Design) WithImageSize(size int) (Design, error) {
	if size <= 0 {
		return d, pkgerrors.New(pkgerrors.CodeValidation, "image size must be positive")
	}
	out := d.Clone()
	out.ImageSize = size
	return out, nil
}

// WithSize selects the product size and re-derives the price. The two fields
// always move together.
func (d Design) WithSize(size enums.TumblerSize) (Design, error) {
	price, err := PriceFor(size)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Size = size
	out.Price = price
	return out, nil
}
