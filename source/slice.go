package source

import "context"

// Slice is a Source that replays a fixed slice of elements in order and
// then signals exhaustion. If Err is set, it is reported after the last
// element, which makes Slice a convenient way to exercise failure paths.
type Slice[T any] struct {
	// Items are the elements to produce, in order.
	Items []T

	// Err, if non-nil, is sent on the error channel after all Items
	// have been produced.
	Err error
}

// Read implements the minbatch.Source interface.
func (s *Slice[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		for _, item := range s.Items {
			// Check cancellation first so a canceled context never
			// races the send.
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			default:
			}

			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case out <- item:
				// sent successfully
			}
		}

		if s.Err != nil {
			errs <- s.Err
		}
	}()

	return out, errs
}
