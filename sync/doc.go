// Package sync provides a synchronous, blocking API on top of the minbatch
// batching engine. It lets many concurrent producers hand over individual
// weighted items while a single FlushFunc receives them grouped into
// weight-closed batches, making each caller's Submit appear synchronous.
//
// The main type is Submitter, whose Submit method blocks until the batch
// containing the item has been flushed. Behind the scenes items from all
// callers are accumulated together according to the minbatch.Config.
//
// Basic usage:
//
//	// Define a function that flushes one batch downstream
//	flush := func(ctx context.Context, blocks []Block, weight uint64) error {
//		return store.WriteAll(ctx, blocks)
//	}
//
//	config := minbatch.NewConstantConfig(&minbatch.ConfigValues{
//		MinBatchWeight: 1000,
//	})
//	s := sync.NewSubmitter(config, weightOf, flush)
//	defer s.Close()
//
//	// Concurrent callers block until their batch is flushed
//	err := s.Submit(ctx, block)
//
// The sync package handles:
//   - Per-call context cancellation
//   - Grouping items from concurrent callers into weight-closed batches
//   - Propagating the flush error to every caller in the batch
//   - Graceful shutdown with a final partial flush
//
// This is useful when downstream writes support bulk operations but the
// call sites are structured around single items, such as block ingestion
// paths or batched database writes.
package sync
