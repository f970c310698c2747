package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	minbatch "github.com/pragmaxim-com/min-batch-go"
)

// Client is the subset of the go-redis client that RedisSink needs. It is
// satisfied by *redis.Client, *redis.ClusterClient and *redis.Ring, and is
// narrow enough to fake in tests.
type Client interface {
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// MarshalFunc converts one element to the bytes stored in Redis.
type MarshalFunc[T any] func(item T) ([]byte, error)

// KeyFunc derives the Redis key an element is appended to. Elements of the
// same batch may map to different keys; they still share one round trip.
type KeyFunc[T any] func(item T) string

// RedisSinkOptions configures a RedisSink.
type RedisSinkOptions[T any] struct {
	// Key routes every element to a single fixed list. Exactly one of
	// Key and KeyFunc must be set.
	Key string

	// KeyFunc routes each element to its own list.
	KeyFunc KeyFunc[T]

	// Marshal converts elements to bytes. Required.
	Marshal MarshalFunc[T]
}

// Validate checks if the options are usable.
func (o RedisSinkOptions[T]) Validate() error {
	if o.Key == "" && o.KeyFunc == nil {
		return errors.New("either Key or KeyFunc must be set")
	}
	if o.Key != "" && o.KeyFunc != nil {
		return errors.New("Key and KeyFunc are mutually exclusive")
	}
	if o.Marshal == nil {
		return errors.New("Marshal cannot be nil")
	}
	return nil
}

// RedisSink writes weight-closed batches to Redis lists. Each batch is
// written with a single pipelined round trip: one RPUSH per element, all
// flushed to the server together. Batching upstream by weight therefore
// translates directly into fewer, fuller round trips.
type RedisSink[T any] struct {
	client  Client
	keyFn   KeyFunc[T]
	marshal MarshalFunc[T]
}

// NewRedisSink creates a RedisSink using the given client and options.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	sink, err := pipeline.NewRedisSink(client, pipeline.RedisSinkOptions[Block]{
//		Key:     "blocks",
//		Marshal: func(b Block) ([]byte, error) { return json.Marshal(b) },
//	})
func NewRedisSink[T any](client Client, opts RedisSinkOptions[T]) (*RedisSink[T], error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis sink options: %w", err)
	}

	keyFn := opts.KeyFunc
	if keyFn == nil {
		key := opts.Key
		keyFn = func(T) string { return key }
	}

	return &RedisSink[T]{
		client:  client,
		keyFn:   keyFn,
		marshal: opts.Marshal,
	}, nil
}

// WriteBatch writes one batch in a single pipelined round trip. A marshal
// failure aborts the whole batch before anything is sent; a server error
// is returned as-is. Writing an empty batch is a no-op.
func (s *RedisSink[T]) WriteBatch(ctx context.Context, batch minbatch.Batch[T]) error {
	if len(batch.Items) == 0 {
		return nil
	}

	// Marshal everything up front so a bad element can't leave a
	// half-written batch queued on the pipeline.
	keys := make([]string, len(batch.Items))
	payloads := make([][]byte, len(batch.Items))
	for i, item := range batch.Items {
		data, err := s.marshal(item)
		if err != nil {
			return fmt.Errorf("marshal element %d: %w", i, err)
		}
		keys[i] = s.keyFn(item)
		payloads[i] = data
	}

	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range payloads {
			pipe.RPush(ctx, keys[i], payloads[i])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write batch of %d element(s): %w", len(batch.Items), err)
	}
	return nil
}

// Consume drains a batch stream, writing every batch with WriteBatch. It
// returns nil once the stream is exhausted, the first write error, or the
// context error if canceled while waiting for a batch.
func (s *RedisSink[T]) Consume(ctx context.Context, batches <-chan minbatch.Batch[T]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				return nil
			}
			if err := s.WriteBatch(ctx, batch); err != nil {
				return err
			}
		}
	}
}
