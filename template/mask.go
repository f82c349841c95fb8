// Package template disambiguates screen categories that share
// near-identical coarse coloring and differ only in the fine shape of
// rendered labels in a fixed navigation region. A cheap probe gate
// filters out unrelated frames; qualifying frames are binarized,
// resized to a reference resolution and scored against curated
// reference masks by coverage.
package template

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// Mask is a boolean bitmap at a fixed reference resolution.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-off mask.
func NewMask(w, h int) Mask {
	return Mask{Width: w, Height: h, Bits: make([]bool, w*h)}
}

// At reports the bit at (x, y).
func (m Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Set sets the bit at (x, y).
func (m *Mask) Set(x, y int, on bool) {
	m.Bits[y*m.Width+x] = on
}

// On counts the set bits.
func (m Mask) On() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Coverage is the fraction of the test mask's on pixels that are also
// on in the reference. Normalizing by the test count (not union, not
// reference count) means extra unrelated on pixels in a reference
// never penalize it, while spurious on pixels in the test frame do.
// An empty test mask scores 0 against everything.
func Coverage(test, ref Mask) float64 {
	n := len(test.Bits)
	if len(ref.Bits) < n {
		n = len(ref.Bits)
	}
	testOn, both := 0, 0
	for i := 0; i < n; i++ {
		if test.Bits[i] {
			testOn++
			if ref.Bits[i] {
				both++
			}
		}
	}
	for i := n; i < len(test.Bits); i++ {
		if test.Bits[i] {
			testOn++
		}
	}
	if testOn == 0 {
		return 0
	}
	return float64(both) / float64(testOn)
}

// DecodeMask reads a reference mask from a binary PNG: any pixel with
// a non-zero channel is on.
func DecodeMask(r io.Reader) (Mask, error) {
	img, err := png.Decode(r)
	if err != nil {
		return Mask{}, fmt.Errorf("template: decode mask: %w", err)
	}
	return maskFromImage(img), nil
}

func maskFromImage(img image.Image) Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.Set(x, y, r > 0 || g > 0 || bl > 0)
		}
	}
	return m
}
