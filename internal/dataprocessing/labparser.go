package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"icucli/pkg/contracts/domain"
)

// LabSchema describes the laboratory analyzer's result export, which
// has its own shape: already wide (one row per sample, one column per
// analyte) with its own sample-time column and a couple of
// patient-identifying columns that must never reach the output.
type LabSchema struct {
	Time        string   `yaml:"time"`
	Identifying []string `yaml:"identifying"`
	TimeLayouts []string `yaml:"time_layouts"`
}

// DefaultLabSchema matches the laboratory system's standard export.
func DefaultLabSchema() LabSchema {
	return LabSchema{
		Time:        "Sample Time",
		Identifying: []string{"Patient ID", "Patient Name"},
	}
}

// ParseLabFile reads the laboratory blood-gas export into a wide table
// keyed by its sample-time column. The identifying columns are dropped
// right here, before the data enters the pipeline at all; the
// reconciler checks again on the way out.
func ParseLabFile(filePath string, schema LabSchema) (domain.Table, error) {
	batch, err := ParseExportFile(filePath, domain.Schema{Time: schema.Time, Parameter: schema.Time, Value: schema.Time})
	if err != nil {
		return domain.Table{}, err
	}
	if !batch.HasColumn(schema.Time) {
		return domain.Table{}, NewMissingIdentifierError(schema.Time)
	}

	banned := make(map[string]bool, len(schema.Identifying))
	for _, name := range schema.Identifying {
		banned[strings.ToLower(strings.TrimSpace(name))] = true
	}

	layouts := schema.TimeLayouts
	if len(layouts) == 0 {
		layouts = defaultTimeLayouts
	}

	table := domain.Table{Name: "Blood Gas (Lab)"}
	for _, col := range batch.Columns {
		if col == schema.Time || banned[strings.ToLower(col)] {
			continue
		}
		table.Columns = append(table.Columns, col)
	}

	skipped := 0
	for _, row := range batch.Rows {
		ts, ok := parseTime(row[schema.Time], layouts)
		if !ok {
			slog.Warn("Skipping lab row with unparseable sample time",
				slog.String("file", filepath.Base(filePath)),
				slog.String("sample_time", row[schema.Time]))
			skipped++
			continue
		}
		cells := make(map[string]string, len(table.Columns))
		for _, col := range table.Columns {
			if v, ok := row[col]; ok {
				cells[col] = v
			}
		}
		table.Rows = append(table.Rows, domain.Row{Time: ts, Cells: cells})
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].Time.Before(table.Rows[j].Time)
	})

	slog.Debug("Parsed laboratory export",
		slog.String("file", filepath.Base(filePath)),
		slog.Int("sample_count", len(table.Rows)),
		slog.Int("skipped_rows", skipped))

	return table, nil
}

// LabError marks lab-file failures so callers can treat the secondary
// source as optional without hiding parse problems.
func LabError(filePath string, err error) error {
	return fmt.Errorf("laboratory export %s: %w", filepath.Base(filePath), err)
}
