package minbatch

import "sync"

// Config retrieves the config values used by the batching adapters. If the
// values are constant, NewConstantConfig can be used to create an
// implementation of the interface.
//
// The Config interface allows the batching policy to change at runtime:
// the adapters re-read the config each time a new pending batch starts, so
// a dynamic implementation can tune thresholds under load without
// restarting the stream.
type Config interface {
	// Get returns the values for configuration.
	//
	// If the config values may be modified while a stream is running, Get
	// must properly handle concurrency issues.
	Get() ConfigValues
}

// ConfigValues contains the batching thresholds.
//
// Values are not validated. A zero MinBatchWeight means every accepted
// element trivially satisfies the floor, degenerating to one-element
// batches; that is a legal, if extreme, configuration.
type ConfigValues struct {
	// MinBatchWeight is the weight floor. A batch closes as soon as the
	// accumulated weight of its elements reaches or exceeds this value.
	// The final batch emitted on input exhaustion may be below it.
	MinBatchWeight uint64 `json:"minBatchWeight"`

	// OptimalBatchSize, when nonzero, caps the number of elements in a
	// batch. Accumulation stops and the batch is emitted once it holds
	// this many elements, even if MinBatchWeight has not been reached.
	// This bounds memory and latency when elements carry little weight.
	//
	// Zero disables the cap (pure weight-threshold mode).
	OptimalBatchSize uint64 `json:"optimalBatchSize"`
}

// NewConstantConfig returns a Config with constant values. If values is
// nil, zero values are used.
//
// This is the simplest way to configure the adapters when the thresholds
// do not change during the lifetime of the stream.
func NewConstantConfig(values *ConfigValues) *ConstantConfig {
	if values == nil {
		return &ConstantConfig{}
	}

	return &ConstantConfig{
		values: *values,
	}
}

// ConstantConfig is a Config with constant values. Create one with
// NewConstantConfig.
//
// It is safe for concurrent use since the values never change after
// initialization.
type ConstantConfig struct {
	values ConfigValues
}

// Get implements the Config interface.
func (c *ConstantConfig) Get() ConfigValues {
	return c.values
}

// NewDynamicConfig creates a configuration that can be adjusted at
// runtime. It is thread-safe and suitable for streams whose batching
// thresholds need to change in response to system conditions, for example
// widening batches when a downstream store slows down.
//
// If values is nil, zero values are used.
func NewDynamicConfig(values *ConfigValues) *DynamicConfig {
	if values == nil {
		return &DynamicConfig{}
	}

	return &DynamicConfig{
		minBatchWeight:   values.MinBatchWeight,
		optimalBatchSize: values.OptimalBatchSize,
	}
}

// DynamicConfig implements the Config interface with values that can be
// modified while a stream is running. Updates take effect when the next
// pending batch starts; the batch being accumulated keeps the snapshot it
// started with.
type DynamicConfig struct {
	mu               sync.RWMutex
	minBatchWeight   uint64
	optimalBatchSize uint64
}

// Get implements the Config interface by returning the current values.
func (c *DynamicConfig) Get() ConfigValues {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ConfigValues{
		MinBatchWeight:   c.minBatchWeight,
		OptimalBatchSize: c.optimalBatchSize,
	}
}

// Update replaces the configuration values. It is safe to call while a
// stream is running.
func (c *DynamicConfig) Update(values ConfigValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minBatchWeight = values.MinBatchWeight
	c.optimalBatchSize = values.OptimalBatchSize
}
