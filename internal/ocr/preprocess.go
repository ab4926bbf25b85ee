package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Variant is one preprocessed rendering of a source image. OCR accuracy on
// scanned proof documents varies wildly with brand styling (code blocks,
// gray text, tiny address-bar fonts), so the engine OCRs several variants
// and unions the output instead of trusting any single one.
type Variant struct {
	Name  string
	Image image.Image
}

// preprocessVariants produces the ordered variant list for full-page OCR.
func preprocessVariants(src image.Image) []Variant {
	gray := toGray(src)
	return []Variant{
		{Name: "original", Image: src},
		{Name: "grayscale", Image: gray},
		{Name: "threshold", Image: threshold(gray, 150)},
		{Name: "adaptive", Image: adaptiveThreshold(gray, 11, 2)},
		{Name: "denoised", Image: imaging.Blur(gray, 0.6)},
		{Name: "equalized", Image: equalize(gray)},
		{Name: "sharpened", Image: imaging.Sharpen(gray, 1.0)},
	}
}

// addressBarVariant isolates and enhances the browser address-bar strip:
// top 150px, 3x upscale, sharpen, Otsu binarize. The authenticating URL
// lives there in a small font and needs dedicated treatment.
func addressBarVariant(src image.Image) image.Image {
	b := src.Bounds()
	h := b.Dy()
	if h > 150 {
		h = 150
	}
	strip := imaging.Crop(src, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+h))
	up := imaging.Resize(strip, strip.Bounds().Dx()*3, 0, imaging.CatmullRom)
	sharp := imaging.Sharpen(imaging.AdjustContrast(up, 20), 2.0)
	g := toGray(sharp)
	return threshold(g, otsuLevel(g))
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return dst
}

// threshold binarizes at a fixed cutoff.
func threshold(g *image.Gray, cutoff uint8) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(b)
	for i, v := range g.Pix {
		if v > cutoff {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
	return dst
}

// adaptiveThreshold binarizes against the mean of a block x block
// neighborhood minus c, via an integral image so it stays O(n).
func adaptiveThreshold(g *image.Gray, block, c int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return g
	}
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}
	half := block / 2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-half), max(0, y-half)
			x1, y1 := min(w, x+half+1), min(h, y+half+1)
			area := int64((x1 - x0) * (y1 - y0))
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] - integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / area
			if int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > mean-int64(c) {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// otsuLevel picks the binarization cutoff that maximizes between-class
// variance over the gray histogram.
func otsuLevel(g *image.Gray) uint8 {
	var hist [256]int64
	for _, v := range g.Pix {
		hist[v]++
	}
	total := int64(len(g.Pix))
	if total == 0 {
		return 128
	}
	var sum int64
	for i, n := range hist {
		sum += int64(i) * n
	}
	var sumB, wB int64
	var maxVar float64
	level := uint8(128)
	for i := 0; i < 256; i++ {
		wB += hist[i]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += int64(i) * hist[i]
		mB := float64(sumB) / float64(wB)
		mF := float64(sum-sumB) / float64(wF)
		v := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if v > maxVar {
			maxVar = v
			level = uint8(i)
		}
	}
	return level
}

// equalize spreads the gray histogram across the full range.
func equalize(g *image.Gray) *image.Gray {
	var hist [256]int64
	for _, v := range g.Pix {
		hist[v]++
	}
	total := int64(len(g.Pix))
	if total == 0 {
		return g
	}
	var lut [256]uint8
	var cum int64
	for i := 0; i < 256; i++ {
		cum += hist[i]
		lut[i] = uint8(cum * 255 / total)
	}
	dst := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		dst.Pix[i] = lut[v]
	}
	return dst
}
