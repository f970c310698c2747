package minbatch

import (
	"sync"
	"time"
)

// StatsCollector defines the interface for collecting metrics while a
// stream is being batched. Implementations can store metrics in memory or
// forward them to monitoring systems. The StatsCollector is optional - if
// not provided, no statistics are collected.
type StatsCollector interface {
	// RecordItemAccepted is called for each element accepted into the
	// pending batch, with the weight the WeightFunc assigned to it.
	RecordItemAccepted(weight uint64)

	// RecordBatchEmitted is called when a batch closes and is emitted.
	RecordBatchEmitted(size int, weight uint64)

	// RecordSourceError is called when the source reports an error.
	RecordSourceError()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about a batched stream.
type Stats struct {
	// ItemsAccepted is the total number of elements accepted from the source.
	ItemsAccepted uint64

	// WeightAccepted is the total weight of all accepted elements.
	WeightAccepted uint64

	// BatchesEmitted is the total number of batches emitted.
	BatchesEmitted uint64

	// SourceErrors is the total number of errors reported by the source.
	SourceErrors uint64

	// MinBatchSize is the smallest emitted batch, in elements.
	MinBatchSize int

	// MaxBatchSize is the largest emitted batch, in elements.
	MaxBatchSize int

	// MinBatchWeight is the lightest emitted batch.
	MinBatchWeight uint64

	// MaxBatchWeight is the heaviest emitted batch.
	MaxBatchWeight uint64

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all metrics. It
// implements the StatsCollector interface but performs no operations.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordItemAccepted implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordItemAccepted(weight uint64) {}

// RecordBatchEmitted implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchEmitted(size int, weight uint64) {}

// RecordSourceError implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordSourceError() {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector collects statistics in memory. It is safe for
// concurrent use.
type BasicStatsCollector struct {
	mu    sync.Mutex
	stats Stats
}

// NewBasicStatsCollector creates a BasicStatsCollector ready for use.
func NewBasicStatsCollector() *BasicStatsCollector {
	return &BasicStatsCollector{
		stats: Stats{
			StartTime: time.Now(),
		},
	}
}

// RecordItemAccepted implements the StatsCollector interface.
func (c *BasicStatsCollector) RecordItemAccepted(weight uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.ItemsAccepted++
	c.stats.WeightAccepted += weight
	c.stats.LastUpdateTime = time.Now()
}

// RecordBatchEmitted implements the StatsCollector interface.
func (c *BasicStatsCollector) RecordBatchEmitted(size int, weight uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats.BatchesEmitted == 0 || size < c.stats.MinBatchSize {
		c.stats.MinBatchSize = size
	}
	if size > c.stats.MaxBatchSize {
		c.stats.MaxBatchSize = size
	}
	if c.stats.BatchesEmitted == 0 || weight < c.stats.MinBatchWeight {
		c.stats.MinBatchWeight = weight
	}
	if weight > c.stats.MaxBatchWeight {
		c.stats.MaxBatchWeight = weight
	}

	c.stats.BatchesEmitted++
	c.stats.LastUpdateTime = time.Now()
}

// RecordSourceError implements the StatsCollector interface.
func (c *BasicStatsCollector) RecordSourceError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.SourceErrors++
	c.stats.LastUpdateTime = time.Now()
}

// GetStats implements the StatsCollector interface. It returns a snapshot
// of the statistics collected so far.
func (c *BasicStatsCollector) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
