package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tesseractEngine drives a local tesseract instance. The client holds
// per-call state (image, whitelist), so calls are serialized.
type tesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func newTesseract(cfg Config) (*tesseractEngine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set languages %v: %w", cfg.Languages, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set page seg mode: %w", err)
	}
	return &tesseractEngine{client: client}, nil
}

func (e *tesseractEngine) Recognize(img image.Image, allowlist string) ([]Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ocr: encode frame: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetWhitelist(allowlist); err != nil {
		return nil, fmt.Errorf("ocr: set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("ocr: set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("ocr: recognize: %w", err)
	}

	results := make([]Result, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		box := b.Box
		results = append(results, Result{
			Text:       text,
			Confidence: b.Confidence / 100,
			Box:        &box,
		})
	}
	return results, nil
}

// Close releases the tesseract client.
func (e *tesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
