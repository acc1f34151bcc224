package design

import (
	"testing"

	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

func TestDefaultIsBlankAndPriced(t *testing.T) {
	d := Default()

	if d.Text != "" || d.Image != nil || d.ImageData != nil {
		t.Fatalf("default design is not blank: %+v", d)
	}
	if d.Font != "Arial" || d.FontSize != 24 || d.TextColor != "#000000" {
		t.Fatalf("unexpected text defaults: %+v", d)
	}
	if d.TumblerColor != "#ffffff" || d.TumblerImage != "tumblera-white.png" {
		t.Fatalf("unexpected finish defaults: %+v", d)
	}
	if d.Size != enums.TumblerSize350 || d.Price != 499 {
		t.Fatalf("unexpected size defaults: %+v", d)
	}
	if d.IsCustomized() {
		t.Fatal("default design must not count as customized")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("default design should validate: %v", err)
	}
}

func TestPriceForIsDeterministic(t *testing.T) {
	want := map[enums.TumblerSize]int{
		enums.TumblerSize350: 499,
		enums.TumblerSize500: 649,
		enums.TumblerSize750: 799,
	}
	for size, price := range want {
		for i := 0; i < 3; i++ {
			got, err := PriceFor(size)
			if err != nil {
				t.Fatalf("PriceFor(%s): %v", size, err)
			}
			if got != price {
				t.Fatalf("PriceFor(%s) = %d, want %d", size, got, price)
			}
		}
	}
	if _, err := PriceFor("999"); err == nil {
		t.Fatal("expected error for unknown size")
	}
}

func TestWithSizeRederivesPrice(t *testing.T) {
	d := Default()

	d, err := d.WithSize(enums.TumblerSize750)
	if err != nil {
		t.Fatalf("with size: %v", err)
	}
	if d.Size != enums.TumblerSize750 || d.Price != 799 {
		t.Fatalf("price not re-derived: %+v", d)
	}

	// A stale price must be caught by validation.
	d.Price = 499
	if err := d.Validate(); err == nil {
		t.Fatal("expected validation error for mismatched price")
	}
}

func TestReducersRejectInvalidValues(t *testing.T) {
	d := Default()

	cases := []struct {
		name string
		run  func() (Design, error)
	}{
		{"unknown font", func() (Design, error) { return d.WithFont("Comic Sans MS") }},
		{"zero font size", func() (Design, error) { return d.WithFontSize(0) }},
		{"malformed color", func() (Design, error) { return d.WithTextColor("red") }},
		{"short hex", func() (Design, error) { return d.WithTextColor("#fff") }},
		{"unavailable finish", func() (Design, error) { return d.WithTumblerColor("#123456") }},
		{"bad orientation", func() (Design, error) { return d.WithOrientation("diagonal") }},
		{"image without data", func() (Design, error) { return d.WithImage("logo.png", "") }},
		{"bad size", func() (Design, error) { return d.WithSize("1000") }},
	}

	for _, tc := range cases {
		got, err := tc.run()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected VALIDATION error, got %v", tc.name, err)
		}
		if got != d {
			t.Fatalf("%s: design must be unchanged on rejection", tc.name)
		}
	}
}

func TestWithTextColorAcceptsBothCases(t *testing.T) {
	d := Default()
	for _, color := range []string{"#A1B2C3", "#a1b2c3"} {
		updated, err := d.WithTextColor(color)
		if err != nil {
			t.Fatalf("WithTextColor(%s): %v", color, err)
		}
		if updated.TextColor != color {
			t.Fatalf("color not applied: %s", updated.TextColor)
		}
	}
}

func TestWithTumblerColorPairsImage(t *testing.T) {
	d := Default()
	d, err := d.WithTumblerColor("#1f2937")
	if err != nil {
		t.Fatalf("with tumbler color: %v", err)
	}
	if d.TumblerImage != "tumblera-black.png" {
		t.Fatalf("finish image not paired: %s", d.TumblerImage)
	}
}

func TestImageLifecycle(t *testing.T) {
	d := Default()

	d, err := d.WithImage("logo.png", "data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("with image: %v", err)
	}
	if !d.IsCustomized() || !d.HasImage() {
		t.Fatal("design with image must be customized")
	}

	d, err = d.WithImageSize(96)
	if err != nil {
		t.Fatalf("with image size: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("image design should validate: %v", err)
	}

	d = d.WithoutImage()
	if d.HasImage() || d.Image != nil {
		t.Fatal("image not removed")
	}
	if d.ImageSize != DefaultImageSize {
		t.Fatalf("image size not reset, got %d", d.ImageSize)
	}
}

func TestCloneDetachesPointers(t *testing.T) {
	d, err := Default().WithImage("logo.png", "data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("with image: %v", err)
	}

	clone := d.Clone()
	*d.ImageData = "mutated"
	if *clone.ImageData != "data:image/png;base64,aGk=" {
		t.Fatal("clone aliases the original image data")
	}
}

func TestValidateImageInvariant(t *testing.T) {
	d := Default()
	name := "logo.png"
	d.Image = &name // name without data

	if err := d.Validate(); err == nil {
		t.Fatal("expected validation error for image name without data")
	}
}
