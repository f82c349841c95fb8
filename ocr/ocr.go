// Package ocr extracts text from cropped frame regions through a
// swappable recognition backend and corrects small recognition noise
// against a known vocabulary with edit-distance matching.
package ocr

import (
	"fmt"
	"image"
	"time"
)

// Result is one recognized text span.
type Result struct {
	Text       string
	Confidence float64
	Box        *image.Rectangle
}

// Engine is the recognition backend contract: zero or more spans per
// image, each with confidence and bounding box. Spans are processed in
// the order the backend returns them; no ordering guarantee is
// assumed. The allowlist restricts recognition to the given characters
// ("" means unrestricted).
type Engine interface {
	Recognize(img image.Image, allowlist string) ([]Result, error)
}

// Kind identifies a recognition backend. The set is closed: the
// factory maps each kind to its constructor and rejects anything else.
type Kind string

const (
	// KindTesseract runs a local tesseract instance via gosseract.
	KindTesseract Kind = "tesseract"
	// KindRemote sends frames to a recognition service over WebSocket.
	KindRemote Kind = "remote"
)

// Config carries backend construction options. Backends read only the
// fields they need.
type Config struct {
	// Languages for the tesseract backend (default chi_sim+eng).
	Languages []string
	// URL of the remote recognition service (ws:// or wss://).
	URL string
	// DialTimeout bounds the remote connection handshake (default 10s).
	DialTimeout time.Duration
}

func (c *Config) defaults() {
	if len(c.Languages) == 0 {
		c.Languages = []string{"chi_sim", "eng"}
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
}

// New constructs an engine of the given kind. An unknown kind is a
// construction error, reported before anything can be recognized.
func New(kind Kind, cfg Config) (Engine, error) {
	cfg.defaults()
	switch kind {
	case KindTesseract:
		return newTesseract(cfg)
	case KindRemote:
		return newRemote(cfg)
	default:
		return nil, fmt.Errorf("ocr: unknown engine kind %q", kind)
	}
}
