// Package preview maps a design to a layout description. Every surface that
// draws a tumbler (editor, cart summary, order review) calls Render with the
// same inputs and therefore shows the same geometry.
package preview

import (
	"math"

	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/pkg/enums"
)

// The customization area sits at a fixed fraction of the product photo,
// independent of the preview scale.
const (
	boxTopPercent    = 35
	boxLeftPercent   = 35
	boxWidthPercent  = 36
	boxHeightPercent = 25
)

// imageTextSpacingPx separates the image from the text below it.
const imageTextSpacingPx = 4

type sizeConfig struct {
	containerWidth  int
	containerHeight int
	scale           float64
}

var sizeConfigs = map[enums.SizeClass]sizeConfig{
	enums.SizeClassSmall:  {containerWidth: 160, containerHeight: 200, scale: 0.4},
	enums.SizeClassMedium: {containerWidth: 240, containerHeight: 300, scale: 0.6},
	enums.SizeClassLarge:  {containerWidth: 400, containerHeight: 500, scale: 1},
}

// Box is the customization-area bounding box as percentages of the container.
type Box struct {
	TopPercent    float64 `json:"top_percent"`
	LeftPercent   float64 `json:"left_percent"`
	WidthPercent  float64 `json:"width_percent"`
	HeightPercent float64 `json:"height_percent"`
}

// TextAnchor says where the text block sits inside the box.
type TextAnchor string

const (
	// TextAnchorCentered centers the text vertically when no image is shown.
	TextAnchorCentered TextAnchor = "centered"
	// TextAnchorBelowImage stacks the text under the image.
	TextAnchorBelowImage TextAnchor = "below-image"
)

// TextBlock describes the rendered text.
type TextBlock struct {
	Content     string                `json:"content"`
	Font        string                `json:"font"`
	FontSizePx  int                   `json:"font_size_px"`
	Color       string                `json:"color"`
	Orientation enums.TextOrientation `json:"orientation"`
	// Glyphs stacked top to bottom with upright glyphs, auto width.
	StackedGlyphs bool `json:"stacked_glyphs"`
	// Whole block rotated a quarter turn, no wrapping.
	RotationDeg int  `json:"rotation_deg"`
	FullWidth   bool `json:"full_width"`
	Wrap        bool `json:"wrap"`
}

// ImageBlock describes the rendered custom image.
type ImageBlock struct {
	Data           string `json:"data"`
	SizePx         int    `json:"size_px"`
	BottomMarginPx int    `json:"bottom_margin_px"`
}

// Layout is the full visual description for one design at one preview scale.
type Layout struct {
	Background      string      `json:"background"`
	ContainerWidth  int         `json:"container_width"`
	ContainerHeight int         `json:"container_height"`
	Scale           float64     `json:"scale"`
	Box             Box         `json:"box"`
	Image           *ImageBlock `json:"image,omitempty"`
	Text            *TextBlock  `json:"text,omitempty"`
	TextAnchor      TextAnchor  `json:"text_anchor"`
}

// Render produces the layout for a design at the given preview size class.
// It is pure: no I/O, no clock, identical inputs yield identical layouts.
// Unknown size classes fall back to medium, matching the UI default.
func Render(d design.Design, sizeClass enums.SizeClass) Layout {
	cfg, ok := sizeConfigs[sizeClass]
	if !ok {
		cfg = sizeConfigs[enums.SizeClassMedium]
	}

	layout := Layout{
		Background:      d.TumblerImage,
		ContainerWidth:  cfg.containerWidth,
		ContainerHeight: cfg.containerHeight,
		Scale:           cfg.scale,
		Box: Box{
			TopPercent:    boxTopPercent,
			LeftPercent:   boxLeftPercent,
			WidthPercent:  boxWidthPercent,
			HeightPercent: boxHeightPercent,
		},
		TextAnchor: TextAnchorCentered,
	}

	hasImage := d.HasImage()
	hasText := d.Text != ""

	if hasImage {
		margin := 0
		if hasText {
			margin = imageTextSpacingPx
		}
		layout.Image = &ImageBlock{
			Data:           *d.ImageData,
			SizePx:         scalePx(d.ImageSize, cfg.scale),
			BottomMarginPx: margin,
		}
		layout.TextAnchor = TextAnchorBelowImage
	}

	if hasText {
		block := &TextBlock{
			Content:    d.Text,
			Font:       d.Font,
			FontSizePx: scalePx(d.FontSize, cfg.scale),
			Color:      d.TextColor,
		}
		block.Orientation = d.TextOrientation
		switch d.TextOrientation {
		case enums.TextOrientationVerticalUpright:
			block.StackedGlyphs = true
			block.Wrap = true
		case enums.TextOrientationVerticalRotated:
			block.RotationDeg = 90
		default:
			block.FullWidth = true
			block.Wrap = true
		}
		layout.Text = block
	}

	return layout
}

func scalePx(px int, scale float64) int {
	return int(math.Round(float64(px) * scale))
}
