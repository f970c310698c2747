package minbatch

import (
	"context"
	"errors"
	"sync"
)

// closedDone is a pre-closed channel returned by Done when Go has not been
// called yet. This prevents callers from blocking on a nil channel.
var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Source produces the elements to be batched. It is the inner sequence of
// the adapter: elements arrive one at a time, exhaustion is signaled by
// closing the channels, and suspension is a blocked channel receive.
type Source[T any] interface {
	// Read returns two channels: one for elements, and one for errors.
	//
	// Read must create both channels (never return nil channels), and
	// must close them when reading is finished or when the context is
	// canceled.
	//
	// Example:
	//
	//	func (s *MySource) Read(ctx context.Context) (<-chan Block, <-chan error) {
	//		out := make(chan Block)
	//		errs := make(chan error)
	//
	//		go func() {
	//			defer close(out)
	//			defer close(errs)
	//
	//			for _, block := range s.blocks {
	//				select {
	//				case <-ctx.Done():
	//					errs <- ctx.Err()
	//					return
	//				case out <- block:
	//					// sent successfully
	//				}
	//			}
	//		}()
	//
	//		return out, errs
	//	}
	Read(ctx context.Context) (<-chan T, <-chan error)
}

// Batcher is the full batching adapter. It reads elements from a Source,
// accumulates them into batches according to its Config, and emits each
// closed batch together with its weight. Compared to the MinBatch
// combinator it adds the element-count cap (OptimalBatchSize), dynamic
// configuration, error propagation, cancellation, and optional logging
// and statistics.
//
// To create a new Batcher, call New. A Batcher runs one stream at a time:
// Go may be called again only after the previous stream finished.
//
// A simple way to consume a stream while handling errors:
//
//	b := minbatch.New[Block](config, weightOf)
//	batches, errs := b.Go(ctx, src)
//	go func() {
//		for err := range errs {
//			log.Print(err.Error())
//		}
//	}()
//	for batch := range batches {
//		process(batch.Items, batch.Weight)
//	}
type Batcher[T any] struct {
	config   Config
	weightFn WeightFunc[T]
	logger   Logger
	stats    StatsCollector
	done     chan struct{}

	mu      sync.Mutex
	running bool
}

// New creates a new Batcher using the provided config and weight
// function. If config is nil, a zero-value constant configuration is used
// (every element closes its own batch).
//
// To avoid race conditions, the config cannot be swapped after the
// Batcher is created. Use DynamicConfig to change threshold values at
// runtime.
func New[T any](config Config, weightFn WeightFunc[T]) *Batcher[T] {
	return &Batcher[T]{
		config:   config,
		weightFn: weightFn,
	}
}

// WithLogger sets a custom logger for the Batcher. If not set, no logging
// occurs.
//
// Panics if called while a stream is running to prevent data races.
func (b *Batcher[T]) WithLogger(logger Logger) *Batcher[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		panic("minbatch: WithLogger cannot be called while a stream is running")
	}

	b.logger = logger
	return b
}

// WithStats sets a custom stats collector for the Batcher. If not set, no
// statistics are collected.
//
// Panics if called while a stream is running to prevent data races.
func (b *Batcher[T]) WithStats(stats StatsCollector) *Batcher[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		panic("minbatch: WithStats cannot be called while a stream is running")
	}

	b.stats = stats
	return b
}

// Go starts the stream and returns the batch and error channels. It reads
// elements from src, groups them per the Config (re-read at the start of
// each batch, so DynamicConfig updates apply on batch boundaries), and
// sends each closed batch on the batch channel. The batch channel is
// unbuffered: a receive is the pull, and the adapter suspends on the send
// until the consumer is ready.
//
// When the source is exhausted, the final, possibly under-threshold batch
// is emitted, then both channels are closed. An empty source closes the
// channels without emitting anything.
//
// If the source reports an error, it is wrapped in a SourceError, sent on
// the error channel, and the stream ends immediately: the pending batch
// is discarded, since its elements were never confirmed complete, and the
// source is not resumed again.
//
// Go must not be called while a previous stream is still running; doing
// so panics.
func (b *Batcher[T]) Go(ctx context.Context, src Source[T]) (<-chan Batch[T], <-chan error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		panic("minbatch: concurrent calls to Batcher.Go are not allowed")
	}

	if b.config == nil {
		b.config = NewConstantConfig(nil)
	}
	if b.logger == nil {
		b.logger = &NoOpLogger{}
	}
	if b.stats == nil {
		b.stats = &NoOpStatsCollector{}
	}

	out := make(chan Batch[T])
	errs := make(chan error, 1)
	b.done = make(chan struct{})

	if src == nil || b.weightFn == nil {
		if src == nil {
			errs <- errors.New("source cannot be nil")
		} else {
			errs <- errors.New("weight function cannot be nil")
		}
		close(out)
		close(errs)
		close(b.done)
		return out, errs
	}

	b.running = true
	go b.doStream(ctx, src, out, errs)

	return out, errs
}

// Done returns a channel that is closed when the stream is complete. It
// can be used to wait for completion without consuming the batch channel
// directly:
//
//	batches, errs := b.Go(ctx, src)
//	minbatch.IgnoreErrors(errs)
//	go consume(batches)
//	<-b.Done()
func (b *Batcher[T]) Done() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done == nil {
		return closedDone
	}
	return b.done
}

// doStream runs as a background goroutine driving the accumulation state
// machine: Collecting on each accepted element, Emitting when the closing
// predicate fires, Exhausted when the source ends.
func (b *Batcher[T]) doStream(ctx context.Context, src Source[T], out chan Batch[T], errs chan error) {
	defer func() {
		close(out)
		close(errs)
		close(b.done)
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(ctx)
	defer cancel()

	b.logger.Debug("starting source reader")
	items, srcErrs := src.Read(ctx)
	if items == nil || srcErrs == nil {
		b.logger.Error("invalid source implementation: returned nil channel(s)")
		errs <- errors.New("invalid source implementation: returned nil channel(s)")
		return
	}

	// The accumulator is created when the first element of each batch
	// arrives, so DynamicConfig updates take effect on batch boundaries.
	var acc *Accumulator[T]
	var itemCount, batchCount uint64

	itemsClosed, errsClosed := false, false
	for !itemsClosed || !errsClosed {
		select {
		case item, ok := <-items:
			if !ok {
				itemsClosed = true
				continue
			}

			if acc == nil {
				acc = NewAccumulator(b.config.Get(), b.weightFn)
			}
			before := acc.Weight()
			closed := acc.Add(item)
			itemCount++
			b.stats.RecordItemAccepted(acc.Weight() - before)

			if closed {
				if !b.emit(ctx, acc.Take(), out, &batchCount) {
					return
				}
				acc = nil
			}

		case err, ok := <-srcErrs:
			if !ok {
				errsClosed = true
				continue
			}
			b.logger.Error("source error: %v", err)
			b.stats.RecordSourceError()
			errs <- &SourceError{Err: err}
			// A failed source ends the stream without flushing: the
			// pending elements were never confirmed complete.
			return
		}
	}

	if acc != nil && !acc.Empty() {
		if !b.emit(ctx, acc.Take(), out, &batchCount) {
			return
		}
	}

	b.logger.Info("stream complete: %d element(s) in %d batch(es)", itemCount, batchCount)
}

// emit sends one closed batch to the consumer, suspending until the
// consumer pulls it. It reports false if the context was canceled instead.
func (b *Batcher[T]) emit(ctx context.Context, batch Batch[T], out chan Batch[T], batchCount *uint64) bool {
	select {
	case out <- batch:
		*batchCount++
		b.stats.RecordBatchEmitted(len(batch.Items), batch.Weight)
		b.logger.Debug("emitted batch %d: %d element(s), weight %d", *batchCount, len(batch.Items), batch.Weight)
		return true
	case <-ctx.Done():
		b.logger.Warn("context canceled while emitting: %v", ctx.Err())
		return false
	}
}
