// Package waterpoint aggregates raw water-point records into per-community
// statistics.
//
// Aggregation is a pure function of its input: records are grouped by exact,
// case-sensitive community name and returned in the order each community was
// first seen. A record is broken unless its status field equals the configured
// functioning value.
//
// The package has no I/O and no logging. Decoding records from JSON is the
// job of package source.
package waterpoint
