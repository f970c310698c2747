package sync

import (
	"context"
	"sync"

	minbatch "github.com/pragmaxim-com/min-batch-go"
	"github.com/pragmaxim-com/min-batch-go/source"
)

// submitBuffer is the capacity of the request channel between callers and
// the batching engine.
const submitBuffer = 100

// Submitter provides synchronous submit operations that are batched by
// weight behind the scenes. Concurrent Submit calls are accumulated into a
// single batch until the configured weight floor (or element cap) is
// reached, at which point the FlushFunc is invoked once for the whole
// batch and every blocked caller observes its result.
type Submitter[T any] struct {
	input   chan *submitRequest[T]
	batcher *minbatch.Batcher[*submitRequest[T]]
	flushed chan struct{}
	closed  bool
	mu      sync.RWMutex
}

// NewSubmitter creates a Submitter with the specified configuration,
// weight function and flush function. The flushFunc is called once per
// weight-closed batch with the batched items in submission order.
func NewSubmitter[T any](config minbatch.Config, weightFn minbatch.WeightFunc[T], flushFunc FlushFunc[T]) *Submitter[T] {
	input := make(chan *submitRequest[T], submitBuffer)
	src := &source.Channel[*submitRequest[T]]{Input: input}

	b := minbatch.New(config, func(r *submitRequest[T]) uint64 {
		return weightFn(r.item)
	})
	batches, errs := b.Go(context.Background(), src)
	minbatch.IgnoreErrors(errs)

	s := &Submitter[T]{
		input:   input,
		batcher: b,
		flushed: make(chan struct{}),
	}
	go s.doFlush(batches, flushFunc)

	return s
}

// Submit hands over one item for batching. It blocks until the batch
// containing the item has been flushed or the context is canceled, and
// returns the error the FlushFunc returned for that batch. Submitting
// after Close returns ErrClosed.
func (s *Submitter[T]) Submit(ctx context.Context, item T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req := &submitRequest[T]{
		ctx:      ctx,
		item:     item,
		response: make(chan error, 1),
	}

	// The read lock is held across the enqueue so Close cannot close the
	// input channel underneath a blocked send.
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	select {
	case s.input <- req:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-req.response:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close gracefully shuts down the Submitter: no further Submit calls are
// accepted, the pending partial batch is flushed, and Close returns once
// every blocked caller has been answered. Close can be called multiple
// times.
func (s *Submitter[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.input)
	<-s.batcher.Done()
	<-s.flushed
}

// doFlush drains the batch stream, invoking the flush function once per
// batch and fanning its result out to the blocked callers.
func (s *Submitter[T]) doFlush(batches <-chan minbatch.Batch[*submitRequest[T]], flushFunc FlushFunc[T]) {
	defer close(s.flushed)

	for batch := range batches {
		// Drop requests whose callers already gave up; their weight
		// still counted toward closing the batch.
		active := make([]*submitRequest[T], 0, len(batch.Items))
		items := make([]T, 0, len(batch.Items))
		for _, req := range batch.Items {
			select {
			case <-req.ctx.Done():
				req.sendError(req.ctx.Err())
			default:
				active = append(active, req)
				items = append(items, req.item)
			}
		}

		if len(active) == 0 {
			continue
		}

		err := flushFunc(context.Background(), items, batch.Weight)
		for _, req := range active {
			req.sendError(err)
		}
	}
}
