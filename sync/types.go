package sync

import (
	"context"
	"errors"
)

// ErrClosed is returned by Submit after the Submitter has been closed.
var ErrClosed = errors.New("submitter is closed")

// FlushFunc is a user-provided function that handles one weight-closed
// batch. It receives the batched items in submission order and the weight
// the batch had accumulated when it closed. Returning an error fails every
// Submit call whose item was in the batch.
type FlushFunc[T any] func(ctx context.Context, items []T, weight uint64) error

// submitRequest carries one item through the batching engine together
// with the channel its caller is blocked on.
type submitRequest[T any] struct {
	ctx      context.Context
	item     T
	response chan error
}

func (r *submitRequest[T]) sendError(err error) {
	select {
	case r.response <- err:
	default:
		// Response already delivered or the caller gave up.
	}
}
