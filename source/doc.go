// Package source contains several implementations of the minbatch.Source
// interface for common data source scenarios, including:
//
// - Channel: for using existing channels as batch sources
// - Slice: for replaying a fixed set of elements, with optional trailing error
// - Error: for simulating error-only sources without data
// - Nil: for testing timing behavior without emitting data
//
// Each source implementation handles context cancellation properly and
// ensures both returned channels are closed when reading finishes.
//
// Basic usage of the Channel source:
//
//	input := make(chan string, 2)
//	input <- "a"
//	input <- "b"
//	close(input)
//
//	src := &source.Channel[string]{Input: input}
//	out, errs := src.Read(context.Background())
//	for item := range out {
//	    fmt.Println(item)
//	}
//	for range errs {
//	}
//
// Output:
//
//	a
//	b
package source
