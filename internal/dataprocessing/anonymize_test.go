package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icucli/pkg/contracts/domain"
)

func TestAnonymize_DropsEverythingOutsideAllowList(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value", "Patient Name", "MRN", "Bed"},
		Rows: []map[string]string{
			{
				"Time":           "2024-03-01 10:00:00",
				"Parameter Name": "HR",
				"Value":          "80",
				"Patient Name":   "Doe, J.",
				"MRN":            "123456",
				"Bed":            "ICU-3",
			},
		},
	}

	observations, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.NoError(t, err)

	require.Len(t, observations, 1)
	// The Observation type carries exactly three fields; assert the
	// content survived and nothing else leaked into the value.
	assert.Equal(t, "HR", observations[0].Parameter)
	assert.Equal(t, "80", observations[0].Value)
	assert.NotContains(t, observations[0].Value, "Doe")
}

func TestAnonymize_TrimsParameterNamesCasePreserved(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value"},
		Rows: []map[string]string{
			{"Time": "2024-03-01 10:00:00", "Parameter Name": "  etCO2 ", "Value": "4.8"},
		},
	}

	observations, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.NoError(t, err)
	assert.Equal(t, "etCO2", observations[0].Parameter)
}

func TestAnonymize_MissingIdentifierColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing string
	}{
		{"no timestamp", []string{"Parameter Name", "Value"}, "Time"},
		{"no parameter", []string{"Time", "Value"}, "Parameter Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := domain.RawBatch{Source: "export.xlsx", Columns: tt.columns}
			_, err := Anonymize(batch, domain.DefaultSchema(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingIdentifierColumn)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestAnonymize_ColumnNameCollision(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value"},
		Rows: []map[string]string{
			{"Time": "2024-03-01 10:00:00", "Parameter Name": "HR", "Value": "80"},
			{"Time": "2024-03-01 10:05:00", "Parameter Name": "HR ", "Value": "82"},
		},
	}

	_, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNameCollision)
}

func TestAnonymize_IdenticalRawNamesDoNotCollide(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value"},
		Rows: []map[string]string{
			{"Time": "2024-03-01 10:00:00", "Parameter Name": "HR", "Value": "80"},
			{"Time": "2024-03-01 10:05:00", "Parameter Name": "HR", "Value": "82"},
		},
	}

	observations, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.NoError(t, err)
	assert.Len(t, observations, 2)
}

func TestAnonymize_AcceptsMultipleTimeLayouts(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value"},
		Rows: []map[string]string{
			{"Time": "2024-03-01 10:00:00", "Parameter Name": "HR", "Value": "80"},
			{"Time": "01/03/2024 10:05", "Parameter Name": "HR", "Value": "82"},
			{"Time": "2024-03-01T10:10:00", "Parameter Name": "HR", "Value": "84"},
		},
	}

	observations, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.NoError(t, err)
	require.Len(t, observations, 3)

	expected, _ := time.Parse("2006-01-02 15:04", "2024-03-01 10:05")
	assert.Equal(t, expected, observations[1].Time)
}

func TestAnonymize_SkipsUnparseableTimestamps(t *testing.T) {
	batch := domain.RawBatch{
		Source:  "export.xlsx",
		Columns: []string{"Time", "Parameter Name", "Value"},
		Rows: []map[string]string{
			{"Time": "not a time", "Parameter Name": "HR", "Value": "80"},
			{"Time": "2024-03-01 10:05:00", "Parameter Name": "HR", "Value": "82"},
		},
	}

	observations, err := Anonymize(batch, domain.DefaultSchema(), nil)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "82", observations[0].Value)
}

func TestCatalog_CountsInFirstSeenOrder(t *testing.T) {
	observations := []domain.Observation{
		{Parameter: "HR", Value: "80"},
		{Parameter: "SpO2", Value: "97"},
		{Parameter: "HR", Value: "82"},
		{Parameter: "HR", Value: "84"},
	}

	catalog := Catalog(observations)
	require.Len(t, catalog, 2)
	assert.Equal(t, domain.ParameterCount{Parameter: "HR", Count: 3}, catalog[0])
	assert.Equal(t, domain.ParameterCount{Parameter: "SpO2", Count: 1}, catalog[1])
}
