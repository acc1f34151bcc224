package preview

import (
	"reflect"
	"testing"

	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/pkg/enums"
)

func textDesign(t *testing.T) design.Design {
	t.Helper()
	d := design.Default().WithText("Hello")
	d, err := d.WithFontSize(24)
	if err != nil {
		t.Fatalf("with font size: %v", err)
	}
	return d
}

func imageDesign(t *testing.T) design.Design {
	t.Helper()
	d, err := design.Default().WithImage("logo.png", "data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("with image: %v", err)
	}
	return d
}

func TestRenderIsDeterministic(t *testing.T) {
	d := textDesign(t)

	first := Render(d, enums.SizeClassMedium)
	for i := 0; i < 5; i++ {
		if got := Render(d, enums.SizeClassMedium); !reflect.DeepEqual(got, first) {
			t.Fatalf("render not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestRenderScalesTextAndImage(t *testing.T) {
	d := imageDesign(t).WithText("Hi")

	cases := []struct {
		class       enums.SizeClass
		width       int
		height      int
		fontPx      int
		imagePx     int
	}{
		{enums.SizeClassSmall, 160, 200, 10, 19},  // 24*0.4=9.6→10, 48*0.4=19.2→19
		{enums.SizeClassMedium, 240, 300, 14, 29}, // 24*0.6=14.4→14, 48*0.6=28.8→29
		{enums.SizeClassLarge, 400, 500, 24, 48},
	}

	for _, tc := range cases {
		layout := Render(d, tc.class)
		if layout.ContainerWidth != tc.width || layout.ContainerHeight != tc.height {
			t.Fatalf("%s: container %dx%d, want %dx%d", tc.class, layout.ContainerWidth, layout.ContainerHeight, tc.width, tc.height)
		}
		if layout.Text == nil || layout.Text.FontSizePx != tc.fontPx {
			t.Fatalf("%s: font px %+v, want %d", tc.class, layout.Text, tc.fontPx)
		}
		if layout.Image == nil || layout.Image.SizePx != tc.imagePx {
			t.Fatalf("%s: image px %+v, want %d", tc.class, layout.Image, tc.imagePx)
		}
	}
}

func TestRenderBoundingBoxIsScaleIndependent(t *testing.T) {
	d := textDesign(t)

	want := Box{TopPercent: 35, LeftPercent: 35, WidthPercent: 36, HeightPercent: 25}
	for _, class := range []enums.SizeClass{enums.SizeClassSmall, enums.SizeClassMedium, enums.SizeClassLarge} {
		if got := Render(d, class).Box; got != want {
			t.Fatalf("%s: box %+v, want %+v", class, got, want)
		}
	}
}

func TestRenderOrientationPolicy(t *testing.T) {
	base := textDesign(t)

	horizontal := Render(base, enums.SizeClassLarge).Text
	if !horizontal.FullWidth || !horizontal.Wrap || horizontal.RotationDeg != 0 || horizontal.StackedGlyphs {
		t.Fatalf("horizontal policy wrong: %+v", horizontal)
	}

	upright, err := base.WithOrientation(enums.TextOrientationVerticalUpright)
	if err != nil {
		t.Fatalf("with orientation: %v", err)
	}
	block := Render(upright, enums.SizeClassLarge).Text
	if !block.StackedGlyphs || block.FullWidth || block.RotationDeg != 0 {
		t.Fatalf("vertical-upright policy wrong: %+v", block)
	}

	rotated, err := base.WithOrientation(enums.TextOrientationVerticalRotated)
	if err != nil {
		t.Fatalf("with orientation: %v", err)
	}
	block = Render(rotated, enums.SizeClassLarge).Text
	if block.RotationDeg != 90 || block.Wrap || block.FullWidth || block.StackedGlyphs {
		t.Fatalf("vertical-rotated policy wrong: %+v", block)
	}
}

func TestRenderTextAnchoring(t *testing.T) {
	textOnly := Render(textDesign(t), enums.SizeClassMedium)
	if textOnly.TextAnchor != TextAnchorCentered {
		t.Fatalf("text-only anchor %s, want centered", textOnly.TextAnchor)
	}
	if textOnly.Image != nil {
		t.Fatal("text-only layout must not carry an image block")
	}

	both := Render(imageDesign(t).WithText("Hi"), enums.SizeClassMedium)
	if both.TextAnchor != TextAnchorBelowImage {
		t.Fatalf("combined anchor %s, want below-image", both.TextAnchor)
	}
	if both.Image.BottomMarginPx == 0 {
		t.Fatal("image above text must reserve spacing")
	}

	imageOnly := Render(imageDesign(t), enums.SizeClassMedium)
	if imageOnly.Text != nil {
		t.Fatal("image-only layout must not carry a text block")
	}
	if imageOnly.Image.BottomMarginPx != 0 {
		t.Fatal("image-only layout needs no text spacing")
	}
}

func TestRenderUnknownSizeClassFallsBackToMedium(t *testing.T) {
	d := textDesign(t)
	if got, want := Render(d, "giant"), Render(d, enums.SizeClassMedium); !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback mismatch: %+v vs %+v", got, want)
	}
}

// Render output for the same design must agree regardless of which surface
// asks for it; the cart and order views request the same layouts the editor
// does.
func TestRenderCrossSurfaceEquality(t *testing.T) {
	d := imageDesign(t).WithText("Tumblera")

	editor := Render(d, enums.SizeClassLarge)
	cart := Render(d.Clone(), enums.SizeClassLarge)
	review := Render(d.Clone(), enums.SizeClassLarge)

	if !reflect.DeepEqual(editor, cart) || !reflect.DeepEqual(cart, review) {
		t.Fatal("surfaces disagree on layout for identical design")
	}
}
