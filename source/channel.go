package source

import "context"

// defaultChannelBuffer is used when BufferSize is zero to set the capacity
// of the element channel created by Channel.Read.
const defaultChannelBuffer = 10

// Channel is a Source that forwards elements from an existing receive
// channel. The Channel source does not close the Input channel; reading
// ends when Input is closed by the producer or the context is canceled.
type Channel[T any] struct {
	// Input is the channel from which this source will read elements.
	Input <-chan T

	// BufferSize controls the capacity of the output channel (default: 10).
	BufferSize int
}

// Read implements the minbatch.Source interface by forwarding elements
// from the Input channel until it is closed or the context is canceled.
// On cancellation the context error is reported on the error channel.
//
// The returned channels are always created (never nil) and are closed
// when the source is done.
func (s *Channel[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	bufSize := defaultChannelBuffer
	if s.BufferSize > 0 {
		bufSize = s.BufferSize
	}
	out := make(chan T, bufSize)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if s.Input == nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case item, ok := <-s.Input:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				case out <- item:
					// sent successfully
				}
			}
		}
	}()

	return out, errs
}
