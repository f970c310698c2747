// Package minbatch turns a stream of elements into a stream of batches
// whose total weight satisfies a minimum. The weight of each element is
// computed by a caller-supplied WeightFunc, so "weight" can be a count of
// transactions in a block, bytes in a message, rows in a chunk, or plain 1
// per element. Downstream consumers then always receive enough work per
// batch to amortize dispatch overhead, without the producer knowing
// anything about batching policy.
//
// A batch closes as soon as its accumulated weight reaches MinBatchWeight.
// Optionally, OptimalBatchSize caps the number of elements per batch: once
// the cap is hit the batch is emitted even below the weight floor, bounding
// memory and latency. When the input ends, the final batch is emitted
// whatever its weight. An empty input emits nothing.
//
// Three entry points drive the same accumulation state machine:
//
//   - MinBatch and MinBatchWithWeight, channel combinators:
//
//     batches := minbatch.MinBatch(in, 3, func(b Block) uint64 { return b.Txs })
//     for batch := range batches {
//         process(batch)
//     }
//
//   - Seq and SeqWithWeight, iterator combinators for range-over-func:
//
//     for batch := range minbatch.Seq(blocks, 3, weightOf) {
//         process(batch)
//     }
//
//   - Batcher, the full adapter with a Source, optional Logger and
//     StatsCollector, dynamic Config, and an error channel:
//
//     b := minbatch.New[Block](config, weightOf)
//     batches, errs := b.Go(ctx, src)
//
// Batching is strictly order preserving: concatenating the emitted batches
// reproduces the input exactly, with no reordering, duplication or drops.
//
// The adapter holds no timers. A slow input simply keeps the consumer's
// receive blocked; any timeout policy belongs to the source or the caller.
package minbatch
