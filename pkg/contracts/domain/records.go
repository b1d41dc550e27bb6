package domain

import (
	"time"
)

// RawBatch is one tabular source (a single monitor export file) before
// anonymization. Rows keep every column the source carried; the
// projection down to the three observation fields happens later.
type RawBatch struct {
	Source  string              `json:"source"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// HasColumn reports whether the batch carries the named column.
func (b RawBatch) HasColumn(name string) bool {
	for _, c := range b.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Observation is a single de-identified long-format record: one
// parameter carrying one value at one point in time. Values stay
// strings until a consumer re-interprets them for its own category.
type Observation struct {
	Time      time.Time `json:"time"`
	Parameter string    `json:"parameter"`
	Value     string    `json:"value"`
}

// Row is one wide-format row: everything observed at a single
// timestamp. Cells holds the display value per parameter column; a
// missing key means the parameter was not observed at this time.
// Lists keeps the ordered individual values for multi-valued
// parameters whose Cells entry is a flattened join.
type Row struct {
	Time  time.Time           `json:"time"`
	Cells map[string]string   `json:"cells"`
	Lists map[string][]string `json:"lists,omitempty"`
}

// Cell returns the value for the named column and whether it was observed.
func (r Row) Cell(column string) (string, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// Table is a named wide-format table: one row per timestamp, one entry
// in Columns per parameter. The timestamp is not listed in Columns; it
// is implicitly the first column of any rendered output.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Category is a declarative projection of the wide table: an ordered
// list of parameter columns that belong to one clinical grouping.
// Parameters may be absent from a given dataset; the filter fills them
// in as empty columns rather than failing.
type Category struct {
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Parameters []string `json:"parameters" yaml:"parameters" validate:"required,min=1"`
}

// Schema names the three required columns of a long-format source.
type Schema struct {
	Time      string `json:"time"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// DefaultSchema matches the column headers the bedside monitor export
// system writes.
func DefaultSchema() Schema {
	return Schema{
		Time:      "Time",
		Parameter: "Parameter Name",
		Value:     "Value",
	}
}

// DuplicatePolicy controls what happens when a declared-scalar
// parameter carries two values at the same timestamp.
type DuplicatePolicy string

const (
	// PolicyStrict aborts the run on a duplicate scalar observation.
	PolicyStrict DuplicatePolicy = "strict"
	// PolicyLenient keeps the last-seen value and logs the overwrite.
	PolicyLenient DuplicatePolicy = "lenient"
)

// Valid reports whether the policy is one of the supported modes.
func (p DuplicatePolicy) Valid() bool {
	return p == PolicyStrict || p == PolicyLenient
}

// ParameterCount is one entry of the diagnostic parameter catalog.
type ParameterCount struct {
	Parameter string `json:"parameter"`
	Count     int    `json:"count"`
}
