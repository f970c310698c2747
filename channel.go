package minbatch

// MinBatch groups elements received from in into batches whose total
// weight, as computed by weightFn, is at least minBatchWeight. Elements
// are accumulated in arrival order; a batch is emitted as soon as its
// weight reaches the threshold, so a single element whose weight alone
// meets it forms a singleton batch. When in is closed, the final batch is
// emitted even if it is below the threshold, and the output channel is
// closed. A closed, empty input yields no batches.
//
// The output channel is unbuffered: receiving from it is the pull, and
// the internal goroutine suspends on the send until the consumer is
// ready. The consumer must drain the output channel to completion or the
// goroutine is leaked; use Batcher.Go for cancellable streams.
func MinBatch[T any](in <-chan T, minBatchWeight uint64, weightFn WeightFunc[T]) <-chan []T {
	out := make(chan []T)

	go func() {
		defer close(out)

		acc := NewAccumulator(ConfigValues{MinBatchWeight: minBatchWeight}, weightFn)
		for item := range in {
			if acc.Add(item) {
				out <- acc.Take().Items
			}
		}
		if !acc.Empty() {
			out <- acc.Take().Items
		}
	}()

	return out
}

// MinBatchWithWeight is like MinBatch but pairs each emitted batch with
// the weight it had accumulated when it closed, for consumers that need
// to know how much work a batch represents without recomputing it.
func MinBatchWithWeight[T any](in <-chan T, minBatchWeight uint64, weightFn WeightFunc[T]) <-chan Batch[T] {
	out := make(chan Batch[T])

	go func() {
		defer close(out)

		acc := NewAccumulator(ConfigValues{MinBatchWeight: minBatchWeight}, weightFn)
		for item := range in {
			if acc.Add(item) {
				out <- acc.Take()
			}
		}
		if !acc.Empty() {
			out <- acc.Take()
		}
	}()

	return out
}
