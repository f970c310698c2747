package source

import (
	"context"
	"time"
)

// Nil is a Source that doesn't produce any data. Instead it signals
// exhaustion after the specified duration. It can be used as a mock
// source for testing how consumers handle empty streams.
type Nil[T any] struct {
	// Duration is how long to wait before signaling exhaustion.
	Duration time.Duration
}

// Read implements the minbatch.Source interface. It produces nothing and
// closes both channels after Duration has elapsed or the context is
// canceled, whichever comes first.
func (s *Nil[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if s.Duration <= 0 {
			return
		}

		select {
		case <-ctx.Done():
			errs <- ctx.Err()
		case <-time.After(s.Duration):
		}
	}()

	return out, errs
}
