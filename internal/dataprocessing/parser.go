package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"icucli/pkg/contracts/domain"
)

// ParseExportFile reads one monitor trend export (.xlsx or .csv) into
// a raw batch. The batch keeps every column the file carried; schema
// enforcement and de-identification happen downstream.
func ParseExportFile(filePath string, schema domain.Schema) (domain.RawBatch, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		return parseExcelExport(filePath, schema)
	case ".csv":
		return parseCSVExport(filePath)
	default:
		return domain.RawBatch{}, fmt.Errorf("unsupported export format: %s", filePath)
	}
}

// parseExcelExport reads the first sheet that contains the export's
// header row. Monitor firmware versions disagree about sheet naming,
// so the header is located by content, not by sheet name.
func parseExcelExport(filePath string, schema domain.Schema) (domain.RawBatch, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return domain.RawBatch{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		headerRow := findHeaderRow(rows, schema)
		if headerRow == -1 {
			continue
		}

		slog.Debug("Found export data",
			slog.String("file", filepath.Base(filePath)),
			slog.String("sheet", sheet),
			slog.Int("header_row", headerRow),
			slog.Int("total_rows", len(rows)))

		return batchFromRows(filepath.Base(filePath), rows[headerRow:]), nil
	}

	return domain.RawBatch{}, fmt.Errorf("no sheet in %s carries the export header row", filepath.Base(filePath))
}

// parseCSVExport reads a CSV export; the first record is the header.
func parseCSVExport(filePath string) (domain.RawBatch, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return domain.RawBatch{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return domain.RawBatch{}, fmt.Errorf("failed to read %s: %w", filepath.Base(filePath), err)
	}
	if len(records) == 0 {
		return domain.RawBatch{Source: filepath.Base(filePath)}, nil
	}

	return batchFromRows(filepath.Base(filePath), records), nil
}

// findHeaderRow scans for the first row carrying both identifier
// columns of the export schema.
func findHeaderRow(rows [][]string, schema domain.Schema) int {
	for i, row := range rows {
		hasTime, hasParameter := false, false
		for _, cell := range row {
			switch strings.TrimSpace(cell) {
			case schema.Time:
				hasTime = true
			case schema.Parameter:
				hasParameter = true
			}
		}
		if hasTime && hasParameter {
			return i
		}
	}
	return -1
}

// batchFromRows builds a raw batch from a header row plus data rows.
// Cells missing from short rows are simply absent; fully empty rows
// are skipped.
func batchFromRows(source string, rows [][]string) domain.RawBatch {
	batch := domain.RawBatch{Source: source}
	if len(rows) == 0 {
		return batch
	}

	for _, header := range rows[0] {
		batch.Columns = append(batch.Columns, strings.TrimSpace(header))
	}

	for _, row := range rows[1:] {
		hasData := false
		cells := make(map[string]string, len(batch.Columns))
		for i, col := range batch.Columns {
			if col == "" || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			cells[col] = value
			hasData = true
		}
		if hasData {
			batch.Rows = append(batch.Rows, cells)
		}
	}

	return batch
}
