package dataprocessing

import (
	"log/slog"

	"icucli/pkg/contracts/domain"
)

// Aggregate merges the per-file batches of one patient dataset into a
// single long-format batch. Every batch must expose the three schema
// columns; extra columns survive untouched (the anonymizer drops them
// later). Row order follows batch order, then row order within each
// batch. No deduplication happens here: repeated observations are a
// pivot concern, not an aggregation concern.
func Aggregate(batches []domain.RawBatch, schema domain.Schema) (domain.RawBatch, error) {
	merged := domain.RawBatch{Source: "aggregate"}

	seen := make(map[string]bool)
	for _, batch := range batches {
		for _, required := range []string{schema.Time, schema.Parameter, schema.Value} {
			if !batch.HasColumn(required) {
				return domain.RawBatch{}, NewSchemaMismatchError(batch.Source, required)
			}
		}

		// Column union in first-seen order.
		for _, col := range batch.Columns {
			if !seen[col] {
				seen[col] = true
				merged.Columns = append(merged.Columns, col)
			}
		}
		merged.Rows = append(merged.Rows, batch.Rows...)
	}

	slog.Debug("Aggregated source batches",
		slog.Int("batch_count", len(batches)),
		slog.Int("row_count", len(merged.Rows)),
		slog.Int("column_count", len(merged.Columns)))

	return merged, nil
}
