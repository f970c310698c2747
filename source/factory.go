package source

import (
	"errors"
	"fmt"
)

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig[T any] struct {
	// Input is the channel from which this source will read elements.
	// This field is required.
	Input <-chan T

	// BufferSize controls the capacity of the output channel.
	// If zero or negative, defaultChannelBuffer is used.
	BufferSize int
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[T]) Validate() error {
	if c.Input == nil {
		return errors.New("input channel cannot be nil")
	}
	return nil
}

// NewChannel creates a new Channel source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	input := make(chan Block, 10)
//	src, err := source.NewChannel(source.ChannelConfig[Block]{
//		Input:      input,
//		BufferSize: 100,
//	})
//	if err != nil {
//		// handle error
//	}
func NewChannel[T any](config ChannelConfig[T]) (*Channel[T], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel config: %w", err)
	}

	return &Channel[T]{
		Input:      config.Input,
		BufferSize: config.BufferSize,
	}, nil
}

// ErrorConfig provides configuration options for creating an Error source.
type ErrorConfig struct {
	// Errs is the channel from which this source will read errors.
	// This field is required.
	Errs <-chan error

	// BufferSize controls the capacity of the error channel.
	// If zero or negative, defaultErrorBuffer is used.
	BufferSize int
}

// Validate checks if the ErrorConfig is valid.
func (c ErrorConfig) Validate() error {
	if c.Errs == nil {
		return errors.New("error channel cannot be nil")
	}
	return nil
}

// NewError creates a new Error source with the given configuration.
// It validates the configuration and returns an error if invalid.
func NewError[T any](config ErrorConfig) (*Error[T], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid error config: %w", err)
	}

	return &Error[T]{
		Errs:       config.Errs,
		BufferSize: config.BufferSize,
	}, nil
}

// NewSlice creates a new Slice source producing the given elements in order.
func NewSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{Items: items}
}

// NewNil creates a new Nil source. The Nil source closes its channels
// without providing any data.
func NewNil[T any]() *Nil[T] {
	return &Nil[T]{}
}
