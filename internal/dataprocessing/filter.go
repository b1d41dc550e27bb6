package dataprocessing

import (
	"sort"

	"icucli/pkg/contracts/domain"
)

// SelectCategory projects the wide table onto one clinical category:
// exactly the requested parameter columns, in the requested order,
// rows sorted by time. Parameters the category names but the dataset
// never recorded become all-empty columns; category lists are written
// generically across wards and must never fail just because one
// patient's monitor was configured differently.
//
// The projection is read-only: categories share the source table and
// never mutate it or each other, so running the same selection twice
// yields identical output.
func SelectCategory(table domain.Table, category domain.Category) domain.Table {
	available := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		available[col] = true
	}

	out := domain.Table{
		Name:    category.Name,
		Columns: append([]string(nil), category.Parameters...),
		Rows:    make([]domain.Row, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		cells := make(map[string]string, len(category.Parameters))
		var lists map[string][]string
		for _, parameter := range category.Parameters {
			if !available[parameter] {
				continue
			}
			if v, ok := row.Cells[parameter]; ok {
				cells[parameter] = v
			}
			if values, ok := row.Lists[parameter]; ok {
				if lists == nil {
					lists = make(map[string][]string)
				}
				lists[parameter] = append([]string(nil), values...)
			}
		}
		out.Rows = append(out.Rows, domain.Row{Time: row.Time, Cells: cells, Lists: lists})
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].Time.Before(out.Rows[j].Time)
	})

	return out
}

// SelectCategories applies every category in order against the same
// authoritative wide table.
func SelectCategories(table domain.Table, categories []domain.Category) []domain.Table {
	views := make([]domain.Table, 0, len(categories))
	for _, category := range categories {
		views = append(views, SelectCategory(table, category))
	}
	return views
}
