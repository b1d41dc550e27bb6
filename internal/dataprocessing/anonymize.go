package dataprocessing

import (
	"log/slog"
	"strings"
	"time"

	"icucli/pkg/contracts/domain"
)

// Layouts accepted for the monitor export's timestamp column. The
// export system is not consistent across firmware versions.
var defaultTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04",
}

// Anonymize projects the aggregated batch down to the three-field
// observation form. Everything outside {timestamp, parameter, value}
// is dropped; this is the de-identification boundary, so no other
// column may survive regardless of what the export carried. Parameter
// names are trimmed (case preserved) and values pass through as
// strings; consumers re-type them per category.
//
// Because trimming happens here, this is also the last point where the
// raw parameter names are visible, so the column-name collision check
// lives here: two distinct raw names folding onto one trimmed name
// would silently merge unrelated clinical variables.
func Anonymize(batch domain.RawBatch, schema domain.Schema, layouts []string) ([]domain.Observation, error) {
	for _, required := range []string{schema.Time, schema.Parameter} {
		if !batch.HasColumn(required) {
			return nil, NewMissingIdentifierError(required)
		}
	}
	if len(layouts) == 0 {
		layouts = defaultTimeLayouts
	}

	observations := make([]domain.Observation, 0, len(batch.Rows))
	rawByTrimmed := make(map[string]string)
	skipped := 0

	for _, row := range batch.Rows {
		raw := row[schema.Parameter]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			skipped++
			continue
		}
		if prior, ok := rawByTrimmed[trimmed]; ok {
			if prior != raw {
				return nil, NewColumnCollisionError(trimmed, prior, raw)
			}
		} else {
			rawByTrimmed[trimmed] = raw
		}

		ts, ok := parseTime(row[schema.Time], layouts)
		if !ok {
			slog.Warn("Skipping row with unparseable timestamp",
				slog.String("timestamp", row[schema.Time]),
				slog.String("parameter", trimmed))
			skipped++
			continue
		}

		observations = append(observations, domain.Observation{
			Time:      ts,
			Parameter: trimmed,
			Value:     row[schema.Value],
		})
	}

	slog.Debug("Anonymized records",
		slog.Int("observation_count", len(observations)),
		slog.Int("skipped_rows", skipped),
		slog.Int("distinct_parameters", len(rawByTrimmed)))

	return observations, nil
}

// parseTime tries each accepted layout in order.
func parseTime(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
