package ocr

import (
	"image"
	"image/color"
	"testing"
)

func grayImage(w, h int, fill uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = fill
	}
	return g
}

func TestThreshold(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 1))
	g.SetGray(0, 0, color.Gray{Y: 100})
	g.SetGray(1, 0, color.Gray{Y: 200})
	out := threshold(g, 150)
	if out.GrayAt(0, 0).Y != 0 || out.GrayAt(1, 0).Y != 255 {
		t.Errorf("threshold: got (%d,%d), want (0,255)", out.GrayAt(0, 0).Y, out.GrayAt(1, 0).Y)
	}
}

func TestOtsuLevelBimodal(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range g.Pix {
		if i < 50 {
			g.Pix[i] = 30
		} else {
			g.Pix[i] = 220
		}
	}
	level := otsuLevel(g)
	if level < 30 || level >= 220 {
		t.Errorf("otsu level %d outside the bimodal gap", level)
	}
}

func TestAdaptiveThresholdUniform(t *testing.T) {
	// Uniform images sit above mean-c everywhere, so everything is white.
	out := adaptiveThreshold(grayImage(8, 8, 128), 11, 2)
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("pixel %d = %d, want 255", i, v)
		}
	}
}

func TestVariantOrderIsStable(t *testing.T) {
	vs := preprocessVariants(grayImage(4, 4, 128))
	want := []string{"original", "grayscale", "threshold", "adaptive", "denoised", "equalized", "sharpened"}
	if len(vs) != len(want) {
		t.Fatalf("got %d variants, want %d", len(vs), len(want))
	}
	for i, v := range vs {
		if v.Name != want[i] {
			t.Errorf("variant %d = %s, want %s", i, v.Name, want[i])
		}
	}
}

func TestNormalizeCollapsesNoise(t *testing.T) {
	in := "a\r\nb\t\tc   d\n\n\n\n e  "
	got := Normalize(in)
	want := "a\nb c d\n\n e"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}
