// Package exporter renders the final table set into persisted
// artifacts: one multi-sheet Excel workbook per patient, optionally
// mirrored as per-sheet CSV files. It only consumes named tables; the
// transform pipeline never depends on the artifact format.
package exporter
