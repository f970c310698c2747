package minbatch

import "iter"

// Seq groups the elements of seq into batches whose total weight, as
// computed by weightFn, is at least minBatchWeight. It is the
// range-over-func form of MinBatch: batching happens lazily on the
// consumer's goroutine, one pull at a time, with no channels involved.
//
// The final, possibly under-threshold batch is yielded when seq is
// exhausted. If the consumer stops early, the pending batch is discarded
// and seq is not pulled again.
func Seq[T any](seq iter.Seq[T], minBatchWeight uint64, weightFn WeightFunc[T]) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		acc := NewAccumulator(ConfigValues{MinBatchWeight: minBatchWeight}, weightFn)
		for item := range seq {
			if acc.Add(item) {
				if !yield(acc.Take().Items) {
					return
				}
			}
		}
		if !acc.Empty() {
			yield(acc.Take().Items)
		}
	}
}

// SeqWithWeight is like Seq but yields each batch together with the
// weight it had accumulated when it closed.
func SeqWithWeight[T any](seq iter.Seq[T], minBatchWeight uint64, weightFn WeightFunc[T]) iter.Seq2[[]T, uint64] {
	return func(yield func([]T, uint64) bool) {
		acc := NewAccumulator(ConfigValues{MinBatchWeight: minBatchWeight}, weightFn)
		for item := range seq {
			if acc.Add(item) {
				batch := acc.Take()
				if !yield(batch.Items, batch.Weight) {
					return
				}
			}
		}
		if !acc.Empty() {
			batch := acc.Take()
			yield(batch.Items, batch.Weight)
		}
	}
}
