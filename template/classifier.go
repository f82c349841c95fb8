package template

import (
	"image"
	"log/slog"

	"github.com/framesight/vision/pixel"
)

// Defaults for the tab-bar layout this classifier was built around:
// five tab slots across the top strip, one rendered in the active
// accent color and the rest dark.
const (
	DefaultActiveTolerance = 35.0
	DefaultDarkCeiling     = 80
	DefaultCropWidth       = 0.63
	DefaultCropHeight      = 0.075
	DefaultRefWidth        = 600
	DefaultRefHeight       = 40
	DefaultBlock           = 21
	DefaultBias            = -5.0
)

// DefaultActiveColor is the accent color of an active tab label.
var DefaultActiveColor = pixel.RGB(15, 132, 228)

// DefaultProbes are the five relative probe points, one per tab slot.
var DefaultProbes = [][2]float64{
	{0.1415, 0.0417},
	{0.2727, 0.0486},
	{0.4031, 0.0486},
	{0.5352, 0.0486},
	{0.6617, 0.0542},
}

// Config tunes the classifier geometry. Zero values take the defaults
// above.
type Config struct {
	// Probes are the gate's sample points in relative coordinates.
	Probes [][2]float64
	// ActiveColor is the reference color of the one active probe.
	ActiveColor pixel.Color
	// ActiveTolerance is the color distance allowed at the active probe.
	ActiveTolerance float64
	// DarkCeiling is the maximum channel value of a "dark" probe.
	DarkCeiling uint8
	// CropWidth/CropHeight are the top-left fraction of the frame
	// holding the navigation strip.
	CropWidth  float64
	CropHeight float64
	// RefWidth/RefHeight is the reference mask resolution.
	RefWidth  int
	RefHeight int
	// Block is the adaptive-threshold neighborhood size (odd).
	Block int
	// Bias offsets the local mean; negative keeps dimmer glyphs.
	Bias float64
}

func (c *Config) defaults() {
	if c.Probes == nil {
		c.Probes = DefaultProbes
	}
	if c.ActiveColor == (pixel.Color{}) {
		c.ActiveColor = DefaultActiveColor
	}
	if c.ActiveTolerance == 0 {
		c.ActiveTolerance = DefaultActiveTolerance
	}
	if c.DarkCeiling == 0 {
		c.DarkCeiling = DefaultDarkCeiling
	}
	if c.CropWidth == 0 {
		c.CropWidth = DefaultCropWidth
	}
	if c.CropHeight == 0 {
		c.CropHeight = DefaultCropHeight
	}
	if c.RefWidth == 0 {
		c.RefWidth = DefaultRefWidth
	}
	if c.RefHeight == 0 {
		c.RefHeight = DefaultRefHeight
	}
	if c.Block == 0 {
		c.Block = DefaultBlock
	}
	if c.Bias == 0 {
		c.Bias = DefaultBias
	}
}

// Classifier runs the two-stage classification: probe gate, then
// coverage scoring against the store's reference masks. Stateless
// across calls; the store's cached masks are the only shared data.
type Classifier struct {
	cfg   Config
	store *Store
}

// New creates a classifier over a mask store.
func New(store *Store, cfg Config) *Classifier {
	cfg.defaults()
	return &Classifier{cfg: cfg, store: store}
}

// Warm eagerly loads the reference masks.
func (c *Classifier) Warm() error {
	return c.store.Warm()
}

// IsTabBar is the stage-1 gate: the frame qualifies iff exactly one
// probe is near the active color and every other probe is dark. It
// keeps the expensive stage-2 path rare.
func (c *Classifier) IsTabBar(img image.Image) bool {
	active, dark := 0, 0
	for _, p := range c.cfg.Probes {
		col := pixel.At(img, p[0], p[1])
		if pixel.Near(col, c.cfg.ActiveColor, c.cfg.ActiveTolerance) {
			active++
		} else if col.Max() < c.cfg.DarkCeiling {
			dark++
		}
	}
	return active == 1 && dark == len(c.cfg.Probes)-1
}

// ActiveTab returns the index of the probe showing the active color.
func (c *Classifier) ActiveTab(img image.Image) (int, bool) {
	for i, p := range c.cfg.Probes {
		if pixel.Near(pixel.At(img, p[0], p[1]), c.cfg.ActiveColor, c.cfg.ActiveTolerance) {
			return i, true
		}
	}
	return 0, false
}

// Classify returns the category whose reference mask best covers the
// frame's binarized navigation strip, or "" when the gate rejects the
// frame or no candidates are registered. A failed mask load surfaces
// as an *AssetError.
func (c *Classifier) Classify(img image.Image) (string, error) {
	if !c.IsTabBar(img) {
		return "", nil
	}
	cands, err := c.store.Candidates()
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", nil
	}

	test := binarizeRegion(img, c.cfg.CropWidth, c.cfg.CropHeight, c.cfg.Block, c.cfg.Bias, c.cfg.RefWidth, c.cfg.RefHeight)

	best := ""
	bestScore := -1.0
	for _, cand := range cands {
		// Strict greater keeps first-seen on ties.
		if score := Coverage(test, cand.Mask); score > bestScore {
			bestScore = score
			best = cand.Name
		}
	}
	slog.Debug("template classified", "category", best, "coverage", bestScore)
	return best, nil
}

// Score computes the coverage of the frame's binarized strip against
// every candidate, in candidate order. Diagnostic companion to
// Classify.
func (c *Classifier) Score(img image.Image) ([]float64, error) {
	cands, err := c.store.Candidates()
	if err != nil {
		return nil, err
	}
	test := binarizeRegion(img, c.cfg.CropWidth, c.cfg.CropHeight, c.cfg.Block, c.cfg.Bias, c.cfg.RefWidth, c.cfg.RefHeight)
	scores := make([]float64, len(cands))
	for i, cand := range cands {
		scores[i] = Coverage(test, cand.Mask)
	}
	return scores, nil
}
