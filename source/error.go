package source

import "context"

// defaultErrorBuffer is used when BufferSize is zero to set the capacity of
// the error channel created by Error.Read.
const defaultErrorBuffer = 10

// Error is a Source that only emits errors from a channel and provides no
// data. It is useful for testing error handling in batched streams and for
// representing error-only streams. The Error source will not close the
// Errs channel.
type Error[T any] struct {
	// Errs is the channel from which this source will read errors.
	Errs <-chan error

	// BufferSize controls the capacity of the error channel (default: 10).
	BufferSize int
}

// Read implements the minbatch.Source interface by forwarding errors from
// the Errs channel until it is closed or the context is canceled.
//
// The returned channels are always created (never nil) and always closed
// properly when the source is done. The element channel is always empty,
// as this source produces only errors.
func (s *Error[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)

	bufSize := defaultErrorBuffer
	if s.BufferSize > 0 {
		bufSize = s.BufferSize
	}
	errs := make(chan error, bufSize)

	go func() {
		defer close(out)
		defer close(errs)

		if s.Errs == nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case err, ok := <-s.Errs:
				if !ok {
					return
				}
				// Only forward non-nil errors
				if err != nil {
					select {
					case <-ctx.Done():
						errs <- ctx.Err()
						return
					case errs <- err:
						// error sent successfully
					}
				}
			}
		}
	}()

	return out, errs
}
