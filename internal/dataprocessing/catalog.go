package dataprocessing

import (
	"icucli/pkg/contracts/domain"
)

// Catalog lists the distinct parameter names observed across a dataset
// together with their observation counts, in first-seen order. It is a
// diagnostic aid for operators maintaining category lists and is never
// persisted.
func Catalog(observations []domain.Observation) []domain.ParameterCount {
	index := make(map[string]int)
	var catalog []domain.ParameterCount

	for _, obs := range observations {
		if i, ok := index[obs.Parameter]; ok {
			catalog[i].Count++
			continue
		}
		index[obs.Parameter] = len(catalog)
		catalog = append(catalog, domain.ParameterCount{Parameter: obs.Parameter, Count: 1})
	}

	return catalog
}

// Unpivot converts a wide table back to long-format observations, row
// by row in column order. Multi-valued cells expand back into their
// individual ordered values when the structured form was preserved.
func Unpivot(table domain.Table) []domain.Observation {
	var observations []domain.Observation
	for _, row := range table.Rows {
		for _, col := range table.Columns {
			if values, ok := row.Lists[col]; ok {
				for _, v := range values {
					observations = append(observations, domain.Observation{Time: row.Time, Parameter: col, Value: v})
				}
				continue
			}
			if v, ok := row.Cells[col]; ok {
				observations = append(observations, domain.Observation{Time: row.Time, Parameter: col, Value: v})
			}
		}
	}
	return observations
}
