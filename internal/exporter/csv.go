package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"icucli/pkg/contracts/domain"
)

// CSVWriter mirrors workbook sheets as plain CSV files for consumers
// that want the tables without Excel.
type CSVWriter struct {
	outputDir string
	transform CellFunc
}

// NewCSVWriter creates a CSV writer rooted at the given directory.
func NewCSVWriter(outputDir string, transform CellFunc) *CSVWriter {
	return &CSVWriter{outputDir: outputDir, transform: transform}
}

// WriteTable writes one table as <name>.csv, Time first column, a
// UTF-8 BOM up front so Excel opens it correctly.
func (w *CSVWriter) WriteTable(table domain.Table) error {
	headers := append([]string{"Time"}, table.Columns...)

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Time.Format(timeFormat))
		for _, col := range table.Columns {
			value, ok := row.Cells[col]
			if ok && w.transform != nil {
				value = w.transform(col, value)
			}
			record = append(record, value)
		}
		records = append(records, record)
	}

	path := filepath.Join(w.outputDir, sanitizeFileName(table.Name)+".csv")
	return w.writeCSV(path, headers, records)
}

// writeCSV writes headers plus records to a fresh file.
func (w *CSVWriter) writeCSV(path string, headers []string, records [][]string) error {
	slog.Debug("Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// sanitizeFileName keeps sheet names usable as file names.
func sanitizeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
