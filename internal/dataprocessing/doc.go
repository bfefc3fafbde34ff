// Package dataprocessing validates, normalizes and reshapes the two
// canonical table formats of the modeling pipeline: scalar records and
// stacked time series.
//
// # Architecture
//
// The package is organized around four components:
//
// 1. Loader: reads raw tables, enforces the canonical schemas and
// repairs missing optional columns
// 2. Format detection: classifies raw time series input as stacked,
// wide or flow-result shaped
// 3. Stacking engine: converts between the wide and the stacked
// representation
// 4. Aggregation: collapses scalar records along chosen dimensions
//
// # Data Flow
//
// The typical flow through this package:
//
//	raw file → detection → Loader → stacked records → [aggregate | unstack | persist]
//
// Every transform is a pure function: it takes input tables or record
// slices and returns new ones, the caller's data is never mutated.
//
// # Error Handling
//
// Violations of the canonical format surface as the typed errors of
// internal/errors (SchemaError, FormatError, DataError) and fail fast.
// Repairs that keep the pipeline going, such as filling a missing
// optional column, are reported through slog instead.
package dataprocessing
