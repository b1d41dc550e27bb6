// Package dataprocessing reshapes bedside-monitor trend exports into
// de-identified, analysis-ready wide tables.
//
// # Architecture
//
// The package covers the complete transform from file to table set:
//
// 1. Parser: reads monitor exports (.xlsx/.csv) and the laboratory blood-gas export
// 2. Aggregate: merges per-file batches into one long-format collection
// 3. Anonymize: projects down to {timestamp, parameter, value}
// 4. Pivot: the long-to-wide transform, with multi-valued parameter handling
// 5. SelectCategory: declarative projections onto clinical category views
// 6. ReconcileGasTables: side-by-side combination of the two blood-gas sources
//
// # Data Flow
//
// The typical flow through this package:
//
//	Export Files → Parser → RawBatch → Aggregate → Anonymize → Observations → Pivot → Table → Category Views
//
// # Error Handling
//
// Validation failures return a *TransformError carrying the offending
// source and column; all kinds abort the run. The one tolerated
// absence is a category naming parameters the dataset never recorded;
// those columns come back empty.
//
// # Testing
//
// Use table-driven tests with testify when adding new functionality.
package dataprocessing
