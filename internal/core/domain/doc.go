// Package domain defines the core entities of archstore.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PackageRecord: one result reported by one source
//   - AggregateEntry: the merged, scored row shown to the user
//   - Snapshot: the ranked list emitted after every source batch
//   - AppSettings: source switches, search tuning and cache policy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
