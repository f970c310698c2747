// Package pipeline contains downstream consumers that turn weight-closed
// batches into bulk operations against external systems.
//
// The point of weight batching is that each downstream dispatch carries
// enough work to amortize its fixed cost. The consumers in this package
// complete that story on the output side: one emitted batch becomes one
// network round trip, however many elements it holds.
//
// Current implementations:
//
//   - RedisSink: writes each batch to Redis in a single pipelined
//     round trip, one command per element.
package pipeline
