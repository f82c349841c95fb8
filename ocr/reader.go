package ocr

import (
	"image"
	"log/slog"
	"strconv"
	"strings"
)

// DefaultNameThreshold is the edit distance within which recognized
// text is accepted as a vocabulary candidate.
const DefaultNameThreshold = 3

// numberAllowlist restricts numeric recognition to digits, a decimal
// point and the K/M multiplier suffixes.
const numberAllowlist = "0123456789.KMkm"

// Reader layers the derived recognition operations over an Engine.
// Every method is a pure function of one image plus the engine's raw
// results.
type Reader struct {
	engine Engine
	log    *slog.Logger
}

// NewReader wraps an engine.
func NewReader(engine Engine) *Reader {
	return &Reader{engine: engine, log: slog.Default()}
}

// WithLogger returns a reader logging through log.
func (r *Reader) WithLogger(log *slog.Logger) *Reader {
	return &Reader{engine: r.engine, log: log}
}

// Recognize exposes the raw backend results.
func (r *Reader) Recognize(img image.Image, allowlist string) ([]Result, error) {
	return r.engine.Recognize(img, allowlist)
}

// Single returns the maximum-confidence span, or the zero-valued
// sentinel Result when the backend finds nothing.
func (r *Reader) Single(img image.Image, allowlist string) (Result, error) {
	results, err := r.engine.Recognize(img, allowlist)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		r.log.Debug("ocr single: no spans")
		return Result{}, nil
	}
	best := results[0]
	for _, res := range results[1:] {
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	r.log.Debug("ocr single", "text", best.Text, "confidence", best.Confidence)
	return best, nil
}

// Number recognizes a number with an optional trailing K/M multiplier
// suffix (case-insensitive, x1000 / x1000000). The numeric part is
// parsed as a float, multiplied and truncated to an integer. ok is
// false when the region holds no parseable number.
func (r *Reader) Number(img image.Image) (int64, bool, error) {
	res, err := r.Single(img, numberAllowlist)
	if err != nil {
		return 0, false, err
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return 0, false, nil
	}

	multiplier := 1.0
	upper := strings.ToUpper(text)
	switch {
	case strings.HasSuffix(upper, "K"):
		multiplier = 1_000
		text = text[:len(text)-1]
	case strings.HasSuffix(upper, "M"):
		multiplier = 1_000_000
		text = text[:len(text)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		r.log.Debug("ocr number: unparseable", "text", res.Text)
		return 0, false, nil
	}
	n := int64(value * multiplier)
	r.log.Debug("ocr number", "text", res.Text, "value", n)
	return n, true, nil
}

// Name recognizes a single name and fuzzy-matches it against the
// candidate vocabulary. ok is false when nothing was recognized or the
// best candidate is further than threshold away.
func (r *Reader) Name(img image.Image, candidates []string, threshold int) (string, bool, error) {
	res, err := r.Single(img, "")
	if err != nil {
		return "", false, err
	}
	if res.Text == "" {
		return "", false, nil
	}
	matched, ok := fuzzyMatch(res.Text, candidates, threshold)
	r.log.Debug("ocr name", "text", res.Text, "matched", matched)
	return matched, ok, nil
}

// NamesConfig tunes the plural matching path.
type NamesConfig struct {
	// Threshold is the soft ceiling: spans within it are corrected to
	// their nearest candidate (default 3).
	Threshold int
	// MaxThreshold, when positive, is the hard ceiling: a span whose
	// best candidate is further away than this raises *MismatchError
	// instead of being dropped as noise.
	MaxThreshold int
}

func (c *NamesConfig) defaults() {
	if c.Threshold == 0 {
		c.Threshold = DefaultNameThreshold
	}
}

// Names recognizes every span in the image, in original order, and
// fuzzy-matches each against the candidates. Blank spans are skipped,
// repeats keep only their first occurrence, and spans matching no
// candidate within the threshold are dropped as background noise —
// unless MaxThreshold is set and exceeded, which is a hard error.
func (r *Reader) Names(img image.Image, candidates []string, cfg NamesConfig) ([]string, error) {
	cfg.defaults()
	results, err := r.engine.Recognize(img, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var matched []string
	for _, res := range results {
		text := strings.TrimSpace(res.Text)
		if text == "" {
			continue
		}
		if best, ok := fuzzyMatch(text, candidates, cfg.Threshold); ok {
			if !seen[best] {
				seen[best] = true
				matched = append(matched, best)
			}
			continue
		}
		if cfg.MaxThreshold > 0 && len(candidates) > 0 {
			if cand, dist := nearest(text, candidates); dist > cfg.MaxThreshold {
				return nil, &MismatchError{Text: text, Nearest: cand, Distance: dist, Ceiling: cfg.MaxThreshold}
			}
		}
		r.log.Debug("ocr names: dropped span", "text", text, "threshold", cfg.Threshold)
	}
	r.log.Debug("ocr names", "matched", len(matched))
	return matched, nil
}
