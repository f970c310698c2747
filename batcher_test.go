package minbatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/pragmaxim-com/min-batch-go"
	"github.com/pragmaxim-com/min-batch-go/source"
)

// runBatcher drains both channels and returns everything the stream
// produced.
func runBatcher[T any](t *testing.T, b *Batcher[T], src Source[T]) ([]Batch[T], []error) {
	t.Helper()

	batches, errs := b.Go(context.Background(), src)

	collected := make(chan []error, 1)
	go func() {
		var out []error
		for err := range errs {
			out = append(out, err)
		}
		collected <- out
	}()

	var out []Batch[T]
	for batch := range batches {
		out = append(out, batch)
	}
	return out, <-collected
}

func TestBatcher_MinOptimalScenario(t *testing.T) {
	config := NewConstantConfig(&ConfigValues{
		MinBatchWeight:   2,
		OptimalBatchSize: 3,
	})
	src := source.NewSlice(
		blockOfTxs{"a", 1},
		blockOfTxs{"b", 2},
		blockOfTxs{"c", 3},
		blockOfTxs{"d", 4},
	)

	batches, errs := runBatcher(t, New(config, blockWeight), src)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	wantNames := [][]string{{"a", "b"}, {"c"}, {"d"}}
	if len(batches) != len(wantNames) {
		t.Fatalf("got %d batches, want %d", len(batches), len(wantNames))
	}
	for i, batch := range batches {
		if len(batch.Items) != len(wantNames[i]) {
			t.Fatalf("batch %d = %v, want names %v", i, batch.Items, wantNames[i])
		}
		for j, item := range batch.Items {
			if item.name != wantNames[i][j] {
				t.Errorf("batch %d item %d = %q, want %q", i, j, item.name, wantNames[i][j])
			}
		}
	}
}

func TestBatcher_CountCapClosesBelowWeightFloor(t *testing.T) {
	config := NewConstantConfig(&ConfigValues{
		MinBatchWeight:   5,
		OptimalBatchSize: 2,
	})
	src := source.NewSlice(1, 2, 3, 4, 5)

	batches, errs := runBatcher(t, New(config, func(int) uint64 { return 0 }), src)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	wantSizes := []int{2, 2, 1}
	if len(batches) != len(wantSizes) {
		t.Fatalf("got %d batches, want %d", len(batches), len(wantSizes))
	}
	for i, batch := range batches {
		if len(batch.Items) != wantSizes[i] {
			t.Errorf("batch %d size = %d, want %d", i, len(batch.Items), wantSizes[i])
		}
		if batch.Weight != 0 {
			t.Errorf("batch %d weight = %d, want 0", i, batch.Weight)
		}
	}
}

func TestBatcher_WeightFloorClosesBelowCountCap(t *testing.T) {
	config := NewConstantConfig(&ConfigValues{
		MinBatchWeight:   3,
		OptimalBatchSize: 10,
	})
	src := source.NewSlice(1, 1, 1, 1, 1, 1, 1, 1, 1)

	batches, errs := runBatcher(t, New(config, func(int) uint64 { return 1 }), src)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	for i, batch := range batches {
		if len(batch.Items) != 3 || batch.Weight != 3 {
			t.Errorf("batch %d = %d items of weight %d, want 3 of 3", i, len(batch.Items), batch.Weight)
		}
	}
}

func TestBatcher_EmptySourceYieldsNothing(t *testing.T) {
	config := NewConstantConfig(&ConfigValues{MinBatchWeight: 3})

	batches, errs := runBatcher(t, New(config, blockWeight), source.NewNil[blockOfTxs]())

	if len(batches) != 0 {
		t.Errorf("empty source yielded %d batches", len(batches))
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestBatcher_SourceErrorDiscardsPendingBatch(t *testing.T) {
	boom := errors.New("source failed")
	config := NewConstantConfig(&ConfigValues{MinBatchWeight: 10})
	src := &source.Slice[blockOfTxs]{
		Items: []blockOfTxs{{"a", 1}, {"b", 1}},
		Err:   boom,
	}

	batches, errs := runBatcher(t, New(config, blockWeight), src)

	if len(batches) != 0 {
		t.Errorf("pending batch was flushed on error: %v", batches)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	var srcErr *SourceError
	if !errors.As(errs[0], &srcErr) {
		t.Fatalf("error %v is not a SourceError", errs[0])
	}
	if !errors.Is(errs[0], boom) {
		t.Errorf("SourceError does not wrap the original error: %v", errs[0])
	}
}

func TestBatcher_ErrorOnlySource(t *testing.T) {
	boom := errors.New("no data today")
	errIn := make(chan error, 1)
	errIn <- boom
	close(errIn)

	src, err := source.NewError[int](source.ErrorConfig{Errs: errIn})
	if err != nil {
		t.Fatal(err)
	}

	config := NewConstantConfig(&ConfigValues{MinBatchWeight: 1})
	batches, errs := runBatcher(t, New(config, func(int) uint64 { return 1 }), src)

	if len(batches) != 0 {
		t.Errorf("error-only source yielded batches: %v", batches)
	}
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("errs = %v, want the wrapped source error", errs)
	}
}

func TestBatcher_NilSource(t *testing.T) {
	b := New(nil, blockWeight)
	batches, errs := b.Go(context.Background(), nil)

	if _, ok := <-batches; ok {
		t.Error("batch channel not closed for nil source")
	}
	err, ok := <-errs
	if !ok || err == nil {
		t.Fatal("expected an error for nil source")
	}
	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Error("Done not closed for nil source")
	}
}

func TestBatcher_NilWeightFunc(t *testing.T) {
	b := New[int](nil, nil)
	batches, errs := b.Go(context.Background(), source.NewSlice(1, 2, 3))

	if _, ok := <-batches; ok {
		t.Error("batch channel not closed for nil weight function")
	}
	if err := <-errs; err == nil {
		t.Fatal("expected an error for nil weight function")
	}
}

func TestBatcher_DoneBeforeGo(t *testing.T) {
	b := New(nil, blockWeight)

	select {
	case <-b.Done():
	default:
		t.Error("Done must return a closed channel before Go is called")
	}
}

func TestBatcher_ConcurrentGoPanics(t *testing.T) {
	input := make(chan int)
	b := New(NewConstantConfig(&ConfigValues{MinBatchWeight: 1}), func(int) uint64 { return 1 })

	batches, errs := b.Go(context.Background(), &source.Channel[int]{Input: input})
	IgnoreErrors(errs)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("second Go call did not panic")
			}
		}()
		b.Go(context.Background(), &source.Channel[int]{Input: input})
	}()

	close(input)
	for range batches {
	}
	<-b.Done()
}

func TestBatcher_DynamicConfigAppliesOnBatchBoundary(t *testing.T) {
	config := NewDynamicConfig(&ConfigValues{MinBatchWeight: 2})
	input := make(chan blockOfTxs)
	b := New(config, blockWeight)

	batches, errs := b.Go(context.Background(), &source.Channel[blockOfTxs]{Input: input})
	IgnoreErrors(errs)

	input <- blockOfTxs{"a", 1}
	input <- blockOfTxs{"b", 1}
	first := <-batches
	if len(first.Items) != 2 {
		t.Fatalf("first batch has %d items, want 2", len(first.Items))
	}

	// The next batch has not started yet, so the update applies to it.
	config.Update(ConfigValues{MinBatchWeight: 3})

	input <- blockOfTxs{"c", 1}
	input <- blockOfTxs{"d", 1}
	input <- blockOfTxs{"e", 1}
	second := <-batches
	if len(second.Items) != 3 {
		t.Fatalf("second batch has %d items, want 3 after update", len(second.Items))
	}

	close(input)
	if batch, ok := <-batches; ok {
		t.Errorf("unexpected trailing batch: %v", batch)
	}
	<-b.Done()
}

func TestBatcher_CollectsStats(t *testing.T) {
	stats := NewBasicStatsCollector()
	config := NewConstantConfig(&ConfigValues{MinBatchWeight: 3})
	src := source.NewSlice(
		blockOfTxs{"a", 1},
		blockOfTxs{"b", 2},
		blockOfTxs{"c", 3},
	)

	b := New(config, blockWeight).WithStats(stats)
	batches, errs := runBatcher(t, b, src)

	if len(batches) != 2 || len(errs) != 0 {
		t.Fatalf("stream = (%d batches, %v), want (2, no errors)", len(batches), errs)
	}

	s := stats.GetStats()
	if s.ItemsAccepted != 3 {
		t.Errorf("ItemsAccepted = %d, want 3", s.ItemsAccepted)
	}
	if s.WeightAccepted != 6 {
		t.Errorf("WeightAccepted = %d, want 6", s.WeightAccepted)
	}
	if s.BatchesEmitted != 2 {
		t.Errorf("BatchesEmitted = %d, want 2", s.BatchesEmitted)
	}
	if s.MinBatchSize != 1 || s.MaxBatchSize != 2 {
		t.Errorf("batch sizes = (%d, %d), want (1, 2)", s.MinBatchSize, s.MaxBatchSize)
	}
	if s.MinBatchWeight != 3 || s.MaxBatchWeight != 3 {
		t.Errorf("batch weights = (%d, %d), want (3, 3)", s.MinBatchWeight, s.MaxBatchWeight)
	}
}

func TestBatcher_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := make(chan int) // never fed
	b := New(NewConstantConfig(&ConfigValues{MinBatchWeight: 1}), func(int) uint64 { return 1 })

	batches, errs := b.Go(ctx, &source.Channel[int]{Input: input})

	cancel()

	var got []error
	for err := range errs {
		got = append(got, err)
	}
	if len(got) != 1 || !errors.Is(got[0], context.Canceled) {
		t.Errorf("errs = %v, want wrapped context.Canceled", got)
	}
	if batch, ok := <-batches; ok {
		t.Errorf("unexpected batch after cancellation: %v", batch)
	}

	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Error("stream did not finish after cancellation")
	}
}
