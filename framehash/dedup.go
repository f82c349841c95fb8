// Package framehash lets callers skip re-running recognition on
// frames that are visually identical to the last one they processed.
// The engine itself is stateless per frame; this is the only stateful
// helper and it sits outside the recognition path.
package framehash

import (
	"image"
	"log/slog"

	"github.com/corona10/goimagehash"

	"github.com/framesight/vision/internal/syncx"
)

// DefaultMaxDistance is the Hamming distance at or below which two
// frame hashes count as the same frame.
const DefaultMaxDistance = 8

// Deduper tracks the perceptual hash of the last accepted frame.
// Safe for concurrent use.
type Deduper struct {
	maxDistance int
	last        *syncx.RWGuard[*goimagehash.ImageHash]
}

// NewDeduper creates a deduper. maxDistance <= 0 takes the default.
func NewDeduper(maxDistance int) *Deduper {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &Deduper{
		maxDistance: maxDistance,
		last:        syncx.NewGuard[*goimagehash.ImageHash](nil),
	}
}

// Changed reports whether the frame differs enough from the last
// accepted frame to be worth re-analyzing. The first frame is always a
// change. Hashing failures count as changed so a bad frame never
// suppresses recognition.
func (d *Deduper) Changed(img image.Image) bool {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		slog.Debug("frame hash failed", "error", err)
		return true
	}

	result := d.last.Update(func(last **goimagehash.ImageHash) any {
		if *last == nil {
			*last = hash
			return true
		}
		dist, err := (*last).Distance(hash)
		if err != nil {
			*last = hash
			return true
		}
		if dist <= d.maxDistance {
			return false
		}
		*last = hash
		return true
	})
	return result.(bool)
}

// Reset forgets the last frame, so the next Changed reports true.
func (d *Deduper) Reset() {
	d.last.Set(nil)
}
