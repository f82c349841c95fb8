package syncx

import "sync"

// Lazy runs a load function exactly once, on first Get, and caches the
// result for the remainder of the process. Concurrent first callers
// share a single load; a load error is cached too, so a broken
// resource fails consistently instead of retrying forever.
type Lazy[T any] struct {
	once sync.Once
	load func() (T, error)
	val  T
	err  error
}

// NewLazy creates a lazy value backed by load.
func NewLazy[T any](load func() (T, error)) *Lazy[T] {
	return &Lazy[T]{load: load}
}

// Get returns the loaded value, triggering the load on first call.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.val, l.err = l.load()
	})
	return l.val, l.err
}
