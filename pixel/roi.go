package pixel

import (
	"fmt"
	"image"
	"image/draw"
)

// ROI is a rectangular region in relative coordinates, used to crop
// sub-regions of a frame (for OCR or focused matching) independently
// of its resolution.
type ROI struct {
	X1, Y1, X2, Y2 float64
}

// FullROI covers the entire frame.
func FullROI() ROI {
	return ROI{0, 0, 1, 1}
}

// NewROI validates that the region lies in [0,1] and is non-empty.
func NewROI(x1, y1, x2, y2 float64) (ROI, error) {
	if x1 < 0 || y1 < 0 || x2 > 1 || y2 > 1 {
		return ROI{}, fmt.Errorf("pixel: roi (%v,%v,%v,%v) outside [0,1]", x1, y1, x2, y2)
	}
	if x2 <= x1 || y2 <= y1 {
		return ROI{}, fmt.Errorf("pixel: empty roi (%v,%v,%v,%v)", x1, y1, x2, y2)
	}
	return ROI{X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

// Width returns the relative width.
func (r ROI) Width() float64 { return r.X2 - r.X1 }

// Height returns the relative height.
func (r ROI) Height() float64 { return r.Y2 - r.Y1 }

// Center returns the relative center point.
func (r ROI) Center() (float64, float64) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Contains reports whether a relative point lies inside the region.
func (r ROI) Contains(x, y float64) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// Absolute resolves the region to pixel bounds within a frame of the
// given size.
func (r ROI) Absolute(width, height int) image.Rectangle {
	return image.Rect(
		int(r.X1*float64(width)),
		int(r.Y1*float64(height)),
		int(r.X2*float64(width)),
		int(r.Y2*float64(height)),
	)
}

// Crop copies the region out of the frame into a new RGBA image with
// origin (0,0). The source is never aliased, so the crop stays valid
// if the caller reuses the frame buffer.
func (r ROI) Crop(img image.Image) *image.RGBA {
	b := img.Bounds()
	abs := r.Absolute(b.Dx(), b.Dy()).Add(b.Min)
	dst := image.NewRGBA(image.Rect(0, 0, abs.Dx(), abs.Dy()))
	draw.Draw(dst, dst.Bounds(), img, abs.Min, draw.Src)
	return dst
}

// Crop is shorthand for cropping with explicit relative coordinates.
func Crop(img image.Image, x1, y1, x2, y2 float64) *image.RGBA {
	return ROI{X1: x1, Y1: y1, X2: x2, Y2: y2}.Crop(img)
}
