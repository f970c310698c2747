package minbatch

import "fmt"

// SourceError wraps an error produced by a Source. Errors on the channel
// returned by Batcher.Go are of this type, so callers can tell source
// failures apart with errors.As and unwrap the original error.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source error: %v", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IgnoreErrors starts a goroutine that drains errs and discards every
// error. It can be used with Batcher.Go when errors aren't needed. The
// error channel must be drained by someone; simply dropping it would
// block the stream once an error is produced:
//
//	batches, errs := b.Go(ctx, src)
//	minbatch.IgnoreErrors(errs)
func IgnoreErrors(errs <-chan error) {
	// nil channels always block, so check for nil first to avoid a
	// goroutine leak
	if errs != nil {
		go func() {
			for range errs {
			}
		}()
	}
}
