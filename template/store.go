package template

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/framesight/vision/internal/syncx"
)

// AssetError reports a reference mask that could not be loaded.
// Missing or corrupt assets fail at first use (or at Warm), never get
// substituted with a fabricated answer.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("template: asset %q: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// Candidate pairs a category name with its reference mask. Candidate
// order is the tie-break order: when two candidates score the same
// coverage, the earlier one wins.
type Candidate struct {
	Name string
	Mask Mask
}

// Entry names one reference asset inside the store's filesystem.
type Entry struct {
	Name string
	Path string
}

// Store loads reference masks from an asset filesystem. The load is
// triggered lazily by first use and cached for process lifetime; there
// is no invalidation, a restart is the only teardown path. Concurrent
// first use shares one load.
type Store struct {
	lazy *syncx.Lazy[[]Candidate]
}

// NewStore creates a store over fsys. Every decoded mask must match
// the reference resolution refW×refH.
func NewStore(fsys fs.FS, entries []Entry, refW, refH int) *Store {
	return &Store{lazy: syncx.NewLazy(func() ([]Candidate, error) {
		out := make([]Candidate, 0, len(entries))
		for _, e := range entries {
			f, err := fsys.Open(e.Path)
			if err != nil {
				return nil, &AssetError{Path: e.Path, Err: err}
			}
			m, err := DecodeMask(f)
			f.Close()
			if err != nil {
				return nil, &AssetError{Path: e.Path, Err: err}
			}
			if m.Width != refW || m.Height != refH {
				return nil, &AssetError{
					Path: e.Path,
					Err:  fmt.Errorf("mask is %dx%d, reference resolution is %dx%d", m.Width, m.Height, refW, refH),
				}
			}
			out = append(out, Candidate{Name: e.Name, Mask: m})
		}
		slog.Debug("reference masks loaded", "count", len(out))
		return out, nil
	})}
}

// StaticStore wraps in-memory candidates, for callers that build masks
// themselves.
func StaticStore(cands []Candidate) *Store {
	return &Store{lazy: syncx.NewLazy(func() ([]Candidate, error) {
		return cands, nil
	})}
}

// Candidates returns the loaded masks, loading them on first call.
func (s *Store) Candidates() ([]Candidate, error) {
	return s.lazy.Get()
}

// Warm loads the masks eagerly so a broken asset surfaces at startup
// instead of during the first classification.
func (s *Store) Warm() error {
	_, err := s.lazy.Get()
	return err
}
