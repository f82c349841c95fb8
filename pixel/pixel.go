// Package pixel implements point-sampled visual state recognition:
// colors with a Euclidean distance metric, per-point rules, and
// multi-rule signatures aggregated by a matching strategy.
package pixel

import (
	"fmt"
	"math"
)

// DefaultTolerance is the maximum color distance a rule allows unless
// it specifies its own.
const DefaultTolerance = 30.0

// Color is an RGB color value. Channel order is always R, G, B.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from R, G, B channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// BGR creates a color from a BGR-ordered triple (OpenCV buffers).
func BGR(b, g, r uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Distance returns the unweighted Euclidean RGB distance between two
// colors. Cheap enough to run for hundreds of probes per frame.
func Distance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Near reports whether two colors are within tolerance of each other.
func Near(a, b Color, tolerance float64) bool {
	return Distance(a, b) <= tolerance
}

// Max returns the largest channel value.
func (c Color) Max() uint8 {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	return m
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Rule checks one pixel: a relative coordinate, an expected color and
// a tolerance. Coordinates are relative to the frame (0 = top/left
// edge, 1 = bottom/right edge) so rules are resolution independent.
type Rule struct {
	X, Y      float64
	Color     Color
	Tolerance float64
}

// R builds a rule with the default tolerance.
func R(x, y float64, c Color) Rule {
	return Rule{X: x, Y: y, Color: c, Tolerance: DefaultTolerance}
}

// validate rejects coordinates outside [0,1] and negative tolerances.
func (r Rule) validate() error {
	if r.X < 0 || r.X > 1 || r.Y < 0 || r.Y > 1 {
		return fmt.Errorf("pixel: rule coordinate (%v,%v) outside [0,1]", r.X, r.Y)
	}
	if r.Tolerance < 0 {
		return fmt.Errorf("pixel: negative tolerance %v", r.Tolerance)
	}
	return nil
}

// Strategy selects how the per-rule outcomes of a signature aggregate
// into a single verdict.
type Strategy int

const (
	// MatchAll requires every rule to match.
	MatchAll Strategy = iota
	// MatchAny requires at least one rule to match.
	MatchAny
	// MatchCount requires at least Signature.Threshold rules to match.
	MatchCount
)

func (s Strategy) String() string {
	switch s {
	case MatchAll:
		return "all"
	case MatchAny:
		return "any"
	case MatchCount:
		return "count"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts the declarative form ("all", "any", "count")
// into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "all", "":
		return MatchAll, nil
	case "any":
		return MatchAny, nil
	case "count":
		return MatchCount, nil
	}
	return 0, fmt.Errorf("pixel: unknown strategy %q", s)
}

// Signature is a named, ordered set of pixel rules plus an aggregation
// strategy, representing one recognizable visual state. The name is
// diagnostic only, not an identity key.
type Signature struct {
	Name      string
	Rules     []Rule
	Strategy  Strategy
	Threshold int
}

// NewSignature builds and validates a signature. A signature with no
// rules is a configuration error (an ALL verdict over zero rules would
// be vacuously true), as are out-of-range rule coordinates, negative
// tolerances and unknown strategies.
func NewSignature(name string, rules []Rule, strategy Strategy, threshold int) (Signature, error) {
	if len(rules) == 0 {
		return Signature{}, fmt.Errorf("pixel: signature %q has no rules", name)
	}
	if strategy < MatchAll || strategy > MatchCount {
		return Signature{}, fmt.Errorf("pixel: signature %q has unknown strategy %d", name, int(strategy))
	}
	if threshold < 0 {
		return Signature{}, fmt.Errorf("pixel: signature %q has negative threshold %d", name, threshold)
	}
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return Signature{}, fmt.Errorf("%w (signature %q rule %d)", err, name, i)
		}
	}
	return Signature{Name: name, Rules: append([]Rule(nil), rules...), Strategy: strategy, Threshold: threshold}, nil
}

// MustSignature is NewSignature for package-level signature tables.
func MustSignature(name string, rules []Rule, strategy Strategy, threshold int) Signature {
	sig, err := NewSignature(name, rules, strategy, threshold)
	if err != nil {
		panic(err)
	}
	return sig
}

// Detail records the outcome of one rule against one frame.
type Detail struct {
	Rule     Rule
	Actual   Color
	Distance float64
	Matched  bool
}

// MatchResult is the outcome of matching one signature against one
// frame. Matched is the canonical truth value.
type MatchResult struct {
	Matched      bool
	Name         string
	MatchedCount int
	TotalCount   int
	Details      []Detail
}

// Ratio returns MatchedCount/TotalCount, 0 for an empty rule set.
func (r MatchResult) Ratio() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.MatchedCount) / float64(r.TotalCount)
}
