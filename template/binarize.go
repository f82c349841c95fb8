package template

import (
	"image"
	"math"

	"github.com/nfnt/resize"

	"github.com/framesight/vision/pixel"
)

// grayscale converts a frame region to single-channel intensity using
// the usual luma weights.
func grayscale(img image.Image) ([]float64, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
		}
	}
	return out, w, h
}

// gaussianKernel builds a normalized 1D kernel for the given odd block
// size, with the sigma convention used by common vision toolkits.
func gaussianKernel(block int) []float64 {
	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	k := make([]float64, block)
	mid := float64(block-1) / 2
	sum := 0.0
	for i := range k {
		d := float64(i) - mid
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// adaptiveThreshold binarizes intensity values against the
// Gaussian-weighted mean of a block×block neighborhood, offset by
// bias. A pixel is on iff value > localMean - bias, so a negative
// bias keeps both bright active glyphs and dimmer inactive glyphs
// while suppressing background. Borders replicate edge pixels. The
// convolution is separable: one horizontal pass, one vertical.
func adaptiveThreshold(gray []float64, w, h, block int, bias float64) []bool {
	k := gaussianKernel(block)
	half := block / 2

	horiz := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, kv := range k {
				sx := x + i - half
				if sx < 0 {
					sx = 0
				} else if sx >= w {
					sx = w - 1
				}
				acc += kv * row[sx]
			}
			horiz[y*w+x] = acc
		}
	}

	out := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, kv := range k {
				sy := y + i - half
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				acc += kv * horiz[sy*w+x]
			}
			out[y*w+x] = gray[y*w+x] > acc-bias
		}
	}
	return out
}

// BinarizeStrip runs the stage-2 preprocessing for one frame and
// returns the resulting reference-resolution mask. Reference masks are
// built offline from curated frames with exactly this function, so
// test and reference bitmaps always come from the same pipeline.
func BinarizeStrip(img image.Image, cfg Config) Mask {
	cfg.defaults()
	return binarizeRegion(img, cfg.CropWidth, cfg.CropHeight, cfg.Block, cfg.Bias, cfg.RefWidth, cfg.RefHeight)
}

// binarizeRegion crops the top-left navigation strip, binarizes it and
// resizes the result to the reference resolution. Nearest-neighbor
// interpolation preserves pure on/off values; resizing introduces no
// new gray levels.
func binarizeRegion(img image.Image, cropW, cropH float64, block int, bias float64, refW, refH int) Mask {
	region := pixel.Crop(img, 0, 0, cropW, cropH)
	gray, w, h := grayscale(region)
	bits := adaptiveThreshold(gray, w, h, block, bias)

	bin := image.NewGray(image.Rect(0, 0, w, h))
	for i, on := range bits {
		if on {
			bin.Pix[i] = 255
		}
	}

	scaled := resize.Resize(uint(refW), uint(refH), bin, resize.NearestNeighbor)
	m := NewMask(refW, refH)
	for y := 0; y < refH; y++ {
		for x := 0; x < refW; x++ {
			r, _, _, _ := scaled.At(x, y).RGBA()
			m.Set(x, y, r > 0)
		}
	}
	return m
}
