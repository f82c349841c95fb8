package pixel

import (
	"image"
	"log/slog"
)

// At samples the frame color at a relative coordinate. The absolute
// index is floor(x*width), floor(y*height), clamped to the frame so
// x == 1.0 resolves to the last column rather than falling off the
// edge.
func At(img image.Image, x, y float64) Color {
	b := img.Bounds()
	px := b.Min.X + clampIndex(x, b.Dx())
	py := b.Min.Y + clampIndex(y, b.Dy())
	r, g, bl, _ := img.At(px, py).RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
}

func clampIndex(rel float64, size int) int {
	i := int(rel * float64(size))
	if i >= size {
		i = size - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Check samples one point and reports whether it is within tolerance
// of the expected color.
func Check(img image.Image, x, y float64, want Color, tolerance float64) bool {
	return Near(At(img, x, y), want, tolerance)
}

// CheckSignature matches a signature against a frame. An unmatched
// signature is a normal result, never an error. The fast path
// short-circuits as soon as the verdict is decided: first failure for
// ALL, first success for ANY.
func CheckSignature(img image.Image, sig Signature) MatchResult {
	matched := 0
	for _, rule := range sig.Rules {
		if Check(img, rule.X, rule.Y, rule.Color, rule.Tolerance) {
			matched++
			if sig.Strategy == MatchAny {
				return MatchResult{Matched: true, Name: sig.Name, MatchedCount: matched, TotalCount: len(sig.Rules)}
			}
		} else if sig.Strategy == MatchAll {
			return MatchResult{Matched: false, Name: sig.Name, MatchedCount: matched, TotalCount: len(sig.Rules)}
		}
	}
	return aggregate(sig, matched, nil)
}

// CheckSignatureDetailed is CheckSignature with a per-rule Detail for
// every rule. All rules are sampled even once the verdict is decided,
// so it costs more; intended for diagnostics.
func CheckSignatureDetailed(img image.Image, sig Signature) MatchResult {
	details := make([]Detail, 0, len(sig.Rules))
	matched := 0
	for _, rule := range sig.Rules {
		actual := At(img, rule.X, rule.Y)
		dist := Distance(actual, rule.Color)
		ok := dist <= rule.Tolerance
		if ok {
			matched++
		}
		details = append(details, Detail{Rule: rule, Actual: actual, Distance: dist, Matched: ok})
	}
	return aggregate(sig, matched, details)
}

// aggregate applies the strategy. The switch is exhaustive over the
// closed Strategy set; NewSignature rejects anything else.
func aggregate(sig Signature, matchedCount int, details []Detail) MatchResult {
	total := len(sig.Rules)
	var matched bool
	switch sig.Strategy {
	case MatchAll:
		matched = total > 0 && matchedCount == total
	case MatchAny:
		matched = matchedCount > 0
	case MatchCount:
		matched = matchedCount >= sig.Threshold
	}
	return MatchResult{
		Matched:      matched,
		Name:         sig.Name,
		MatchedCount: matchedCount,
		TotalCount:   total,
		Details:      details,
	}
}

// Identify returns the first signature that matches the frame.
func Identify(img image.Image, sigs []Signature) (MatchResult, bool) {
	for _, sig := range sigs {
		if res := CheckSignature(img, sig); res.Matched {
			slog.Debug("signature identified", "name", res.Name, "matched", res.MatchedCount, "total", res.TotalCount)
			return res, true
		}
	}
	slog.Debug("no signature matched", "candidates", len(sigs))
	return MatchResult{}, false
}

// IdentifyAll returns every signature that matches the frame, in
// signature order.
func IdentifyAll(img image.Image, sigs []Signature) []MatchResult {
	var out []MatchResult
	for _, sig := range sigs {
		if res := CheckSignature(img, sig); res.Matched {
			out = append(out, res)
		}
	}
	return out
}

// NamedColor pairs a label with a reference color for ClassifyColor.
// A slice keeps classification order deterministic.
type NamedColor struct {
	Name  string
	Color Color
}

// ClassifyColor assigns the sampled pixel to the nearest named color
// within tolerance. Ties resolve to the first-seen minimum.
func ClassifyColor(img image.Image, x, y float64, colors []NamedColor, tolerance float64) (string, bool) {
	actual := At(img, x, y)
	best := ""
	bestDist := tolerance + 1
	for _, nc := range colors {
		if d := Distance(actual, nc.Color); d < bestDist {
			bestDist = d
			best = nc.Name
		}
	}
	if bestDist > tolerance {
		return "", false
	}
	return best, true
}
