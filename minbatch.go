package minbatch

// WeightFunc computes the weight of a single element. It is invoked exactly
// once per element, at the moment the element is accepted into the pending
// batch. It must be free of side effects the batching logic depends on:
// the accumulated weight of a batch is assumed to be the sum of the
// weights its elements had when accepted.
//
// A WeightFunc may return 0; zero-weight elements are accepted into the
// pending batch without closing it.
type WeightFunc[T any] func(item T) uint64

// Batch is an emitted batch paired with the total weight it had
// accumulated at the time it was closed. It is the item type of the
// weight-reporting entry points (MinBatchWithWeight, SeqWithWeight and
// Batcher.Go); the plain entry points emit bare []T slices.
type Batch[T any] struct {
	// Items holds the batched elements in the order the input produced them.
	Items []T

	// Weight is the sum of the elements' weights when the batch closed.
	// For a final batch emitted on input exhaustion it may be below the
	// configured minimum.
	Weight uint64
}

// Accumulator is the batching state machine shared by every entry point in
// this package. It owns the pending batch: the elements accepted so far, in
// arrival order, and their running weight sum.
//
// An Accumulator is not safe for concurrent use. Each of the stream
// adapters drives a single Accumulator from a single goroutine.
type Accumulator[T any] struct {
	config   ConfigValues
	weightFn WeightFunc[T]
	items    []T
	weight   uint64
}

// NewAccumulator returns an empty Accumulator using the given snapshot of
// config values. Config values are deliberately not validated: a zero
// MinBatchWeight is a legal degenerate configuration in which every
// accepted element immediately closes its batch, and a zero
// OptimalBatchSize disables the element-count cap.
func NewAccumulator[T any](config ConfigValues, weightFn WeightFunc[T]) *Accumulator[T] {
	return &Accumulator[T]{
		config:   config,
		weightFn: weightFn,
	}
}

// Add accepts one element into the pending batch, preserving arrival
// order, and adds its weight to the running sum. It reports whether the
// closing predicate now holds, meaning the caller should Take the batch
// and emit it:
//
//   - the accumulated weight reached MinBatchWeight, or
//   - OptimalBatchSize is set and the batch holds that many elements,
//     even if the weight floor has not been reached yet.
//
// A single element whose own weight meets the floor therefore closes its
// batch immediately, producing a singleton.
func (a *Accumulator[T]) Add(item T) bool {
	if len(a.items) == 0 && cap(a.items) == 0 {
		a.items = make([]T, 0, initialBatchCapacity(a.config))
	}
	a.weight += a.weightFn(item)
	a.items = append(a.items, item)

	if a.weight >= a.config.MinBatchWeight {
		return true
	}
	if a.config.OptimalBatchSize > 0 && uint64(len(a.items)) >= a.config.OptimalBatchSize {
		return true
	}
	return false
}

// Take removes the pending batch from the Accumulator and returns it,
// resetting the pending state to empty with zero weight. Ownership of the
// returned items transfers wholesale to the caller; the Accumulator keeps
// no reference to them.
func (a *Accumulator[T]) Take() Batch[T] {
	batch := Batch[T]{
		Items:  a.items,
		Weight: a.weight,
	}
	a.items = nil
	a.weight = 0
	return batch
}

// Len returns the number of elements currently pending.
func (a *Accumulator[T]) Len() int {
	return len(a.items)
}

// Weight returns the accumulated weight of the pending elements.
func (a *Accumulator[T]) Weight() uint64 {
	return a.weight
}

// Empty reports whether no elements are pending. On input exhaustion the
// adapters emit a final Take only when Empty is false.
func (a *Accumulator[T]) Empty() bool {
	return len(a.items) == 0
}

// initialBatchCapacity picks the starting capacity for a pending batch.
// The capacity is only a hint: OptimalBatchSize may legally be enormous
// (an effectively-uncapped configuration), and one element may carry
// arbitrary weight, so both values are clamped before allocating. The
// count cap itself is still enforced in Add.
func initialBatchCapacity(config ConfigValues) uint64 {
	capacity := config.MinBatchWeight
	if config.OptimalBatchSize > 0 {
		capacity = config.OptimalBatchSize
	}
	if capacity > maxPreallocBatchCapacity {
		return maxPreallocBatchCapacity
	}
	return capacity
}

// maxPreallocBatchCapacity bounds speculative pending-batch allocations.
const maxPreallocBatchCapacity = 1024
