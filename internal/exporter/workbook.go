package exporter

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"icucli/pkg/contracts/domain"
)

// timeFormat renders row timestamps in workbook cells.
const timeFormat = "2006-01-02 15:04:05"

// CellFunc optionally rewrites a cell on its way into the workbook.
// This is the unit-coercion hook: the pipeline itself never converts
// units, the operator supplies the mapping.
type CellFunc func(column, value string) string

// TableSink accepts the final named table set. The transform core only
// depends on this; the Excel rendition below is one implementation.
type TableSink interface {
	AddTable(table domain.Table) error
}

// RunInfo is the metadata written onto the workbook's leading info sheet.
type RunInfo struct {
	Patient     string
	RunID       string
	GeneratedAt time.Time
	Sources     []string
	Policy      domain.DuplicatePolicy
	Categories  []string
}

// Workbook assembles the category views into one multi-sheet Excel
// artifact, one sheet per table, sheet and column order preserved,
// Time always the first column.
type Workbook struct {
	f         *excelize.File
	transform CellFunc
	sheets    []string
}

// NewWorkbook creates an empty workbook. transform may be nil.
func NewWorkbook(transform CellFunc) *Workbook {
	return &Workbook{f: excelize.NewFile(), transform: transform}
}

// AddInfoSheet writes the run metadata sheet. Call first so it becomes
// the workbook's opening page.
func (w *Workbook) AddInfoSheet(info RunInfo) error {
	const sheet = "Info"
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create info sheet: %w", err)
	}
	w.sheets = append(w.sheets, sheet)

	rows := [][]interface{}{
		{"Patient", info.Patient},
		{"Run ID", info.RunID},
		{"Generated", info.GeneratedAt.Format(time.RFC3339)},
		{"Duplicate policy", string(info.Policy)},
		{"Source files", joinStrings(info.Sources)},
		{"Sheets", joinStrings(info.Categories)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write info row: %w", err)
		}
	}

	if err := w.f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "B", "B", 60)
}

// AddTable appends one table as a new sheet.
func (w *Workbook) AddTable(table domain.Table) error {
	sheet := table.Name
	if sheet == "" {
		return fmt.Errorf("refusing to add unnamed table")
	}
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)

	header := make([]interface{}, 0, len(table.Columns)+1)
	header = append(header, "Time")
	for _, col := range table.Columns {
		header = append(header, col)
	}
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, 0, len(header))
		cells = append(cells, row.Time.Format(timeFormat))
		for _, col := range table.Columns {
			value, ok := row.Cells[col]
			if ok && w.transform != nil {
				value = w.transform(col, value)
			}
			cells = append(cells, value)
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i, sheet, err)
		}
	}

	if err := w.styleHeader(sheet, len(header)); err != nil {
		return err
	}

	slog.Debug("Added workbook sheet",
		slog.String("sheet", sheet),
		slog.Int("row_count", len(table.Rows)),
		slog.Int("column_count", len(table.Columns)))

	return nil
}

// styleHeader bolds and freezes the header row.
func (w *Workbook) styleHeader(sheet string, width int) error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", end, style); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// SaveAs writes the workbook. The default sheet excelize creates is
// removed so the info sheet opens first.
func (w *Workbook) SaveAs(path string) error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("refusing to save empty workbook")
	}
	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	index, err := w.f.GetSheetIndex(w.sheets[0])
	if err != nil {
		return err
	}
	w.f.SetActiveSheet(index)

	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.f.Close()
}

// ScaleTransform builds the unit-coercion function from an explicit
// column→factor mapping. Non-numeric cells pass through untouched.
func ScaleTransform(scale map[string]float64) CellFunc {
	if len(scale) == 0 {
		return nil
	}
	return func(column, value string) string {
		factor, ok := scale[column]
		if !ok {
			return value
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		return strconv.FormatFloat(parsed*factor, 'f', -1, 64)
	}
}

// joinStrings renders a short list into one info cell.
func joinStrings(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
