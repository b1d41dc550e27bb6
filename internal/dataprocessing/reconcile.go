package dataprocessing

import (
	"log/slog"
	"strings"

	"icucli/pkg/contracts/domain"
)

// ReconcileGasTables combines the monitor-charted blood gas view with
// the laboratory analyzer's own result table. The two sources record
// the same clinical fact but their timestamps need not refer to the
// same sample draw (transcription into the monitor happens whenever a
// nurse gets to it), so no row-level merge is attempted: the tables go
// out side by side under distinct names and a reviewer matches rows.
//
// The one active responsibility here is de-identification: any column
// on either table whose name appears in identifying is removed before
// the tables leave the pipeline.
func ReconcileGasTables(monitor, lab domain.Table, identifying []string) []domain.Table {
	banned := make(map[string]bool, len(identifying))
	for _, name := range identifying {
		banned[strings.ToLower(strings.TrimSpace(name))] = true
	}

	monitor = dropColumns(monitor, banned)
	lab = dropColumns(lab, banned)

	if monitor.Name == "" {
		monitor.Name = "Blood Gas (Monitor)"
	}
	if lab.Name == "" {
		lab.Name = "Blood Gas (Lab)"
	}

	return []domain.Table{monitor, lab}
}

// dropColumns removes banned columns and their cells from a table.
func dropColumns(table domain.Table, banned map[string]bool) domain.Table {
	if len(banned) == 0 {
		return table
	}

	var kept []string
	var removed []string
	for _, col := range table.Columns {
		if banned[strings.ToLower(strings.TrimSpace(col))] {
			removed = append(removed, col)
			continue
		}
		kept = append(kept, col)
	}
	if len(removed) == 0 {
		return table
	}

	slog.Warn("Removing identifying columns from table",
		slog.String("table", table.Name),
		slog.Any("columns", removed))

	rows := make([]domain.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make(map[string]string, len(row.Cells))
		for col, v := range row.Cells {
			if !banned[strings.ToLower(strings.TrimSpace(col))] {
				cells[col] = v
			}
		}
		rows = append(rows, domain.Row{Time: row.Time, Cells: cells, Lists: row.Lists})
	}

	return domain.Table{Name: table.Name, Columns: kept, Rows: rows}
}
