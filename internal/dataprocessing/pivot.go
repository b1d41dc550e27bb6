package dataprocessing

import (
	"log/slog"
	"sort"
	"time"

	"icucli/pkg/contracts/domain"
)

// PivotOptions configures the long-to-wide transform.
type PivotOptions struct {
	// MultiValued lists parameter names that legitimately carry more
	// than one concurrent value per timestamp (rhythm classifications
	// and the like). Their values are collected in arrival order and
	// flattened with Separator.
	MultiValued []string
	// Policy decides what a second value for a scalar parameter at the
	// same timestamp means: an error (strict) or an overwrite (lenient).
	Policy domain.DuplicatePolicy
	// Separator joins multi-valued cells. Defaults to ",".
	Separator string
}

// Pivot converts long-format observations into one wide table: one row
// per distinct timestamp, one column per distinct parameter, columns in
// first-seen order, rows sorted by time ascending.
//
// Multi-valued parameters are grouped by (timestamp, parameter) first,
// duplicates retained, then flattened to a single display string; the
// ordered individual values are additionally kept on Row.Lists so a
// later consumer can compute over them without re-splitting the join.
func Pivot(observations []domain.Observation, opts PivotOptions) (domain.Table, error) {
	if opts.Policy == "" {
		opts.Policy = domain.PolicyStrict
	}
	if opts.Separator == "" {
		opts.Separator = ","
	}
	multi := make(map[string]bool, len(opts.MultiValued))
	for _, name := range opts.MultiValued {
		multi[name] = true
	}

	var (
		columns  []string
		seenCol  = make(map[string]bool)
		rowIndex = make(map[time.Time]*domain.Row)
		order    []time.Time
	)

	rowFor := func(ts time.Time) *domain.Row {
		if row, ok := rowIndex[ts]; ok {
			return row
		}
		row := &domain.Row{Time: ts, Cells: make(map[string]string)}
		rowIndex[ts] = row
		order = append(order, ts)
		return row
	}

	for _, obs := range observations {
		if !seenCol[obs.Parameter] {
			seenCol[obs.Parameter] = true
			columns = append(columns, obs.Parameter)
		}

		row := rowFor(obs.Time)
		if multi[obs.Parameter] {
			if row.Lists == nil {
				row.Lists = make(map[string][]string)
			}
			row.Lists[obs.Parameter] = append(row.Lists[obs.Parameter], obs.Value)
			continue
		}

		if prior, exists := row.Cells[obs.Parameter]; exists {
			if opts.Policy == domain.PolicyStrict {
				return domain.Table{}, NewDuplicateScalarError(
					obs.Parameter, obs.Time.Format(time.RFC3339), prior, obs.Value)
			}
			slog.Warn("Duplicate scalar observation, keeping last value",
				slog.String("parameter", obs.Parameter),
				slog.Time("timestamp", obs.Time),
				slog.String("dropped", prior),
				slog.String("kept", obs.Value))
		}
		row.Cells[obs.Parameter] = obs.Value
	}

	// Flatten the multi-valued groups into their display cells.
	table := domain.Table{Columns: columns}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	for _, ts := range order {
		row := rowIndex[ts]
		for parameter, values := range row.Lists {
			row.Cells[parameter] = joinValues(values, opts.Separator)
		}
		table.Rows = append(table.Rows, *row)
	}

	slog.Debug("Pivoted observations",
		slog.Int("observation_count", len(observations)),
		slog.Int("row_count", len(table.Rows)),
		slog.Int("column_count", len(table.Columns)))

	return table, nil
}

// joinValues flattens an ordered value sequence deterministically.
func joinValues(values []string, separator string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	joined := values[0]
	for _, v := range values[1:] {
		joined += separator + v
	}
	return joined
}
