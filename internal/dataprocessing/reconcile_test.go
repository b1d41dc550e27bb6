package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icucli/pkg/contracts/domain"
)

func labFixture() domain.Table {
	ts, _ := time.Parse("2006-01-02 15:04", "2024-03-01 10:12")
	return domain.Table{
		Name:    "Blood Gas (Lab)",
		Columns: []string{"pH", "pCO2", "pO2", "Lactate"},
		Rows: []domain.Row{
			{Time: ts, Cells: map[string]string{"pH": "7.38", "pCO2": "5.1", "pO2": "11.2", "Lactate": "1.4"}},
		},
	}
}

func monitorGasFixture(t *testing.T) domain.Table {
	t.Helper()
	view := SelectCategory(wideFixture(t), domain.Category{
		Name:       "Blood Gas (Monitor)",
		Parameters: []string{"pH", "pCO2"},
	})
	return view
}

func TestReconcileGasTables_SideBySideNoRowMerge(t *testing.T) {
	monitor := monitorGasFixture(t)
	lab := labFixture()

	tables := ReconcileGasTables(monitor, lab, nil)

	require.Len(t, tables, 2)
	assert.Equal(t, "Blood Gas (Monitor)", tables[0].Name)
	assert.Equal(t, "Blood Gas (Lab)", tables[1].Name)
	// Row counts are untouched: no algorithmic matching happened.
	assert.Len(t, tables[0].Rows, len(monitor.Rows))
	assert.Len(t, tables[1].Rows, len(lab.Rows))
}

func TestReconcileGasTables_StripsIdentifyingColumns(t *testing.T) {
	lab := labFixture()
	lab.Columns = append(lab.Columns, "Patient Name")
	lab.Rows[0].Cells["Patient Name"] = "Doe, J."

	tables := ReconcileGasTables(monitorGasFixture(t), lab, []string{"Patient Name", "Patient ID"})

	cleaned := tables[1]
	assert.NotContains(t, cleaned.Columns, "Patient Name")
	_, present := cleaned.Rows[0].Cells["Patient Name"]
	assert.False(t, present)
	// Clinical columns survive.
	assert.Equal(t, "7.38", cleaned.Rows[0].Cells["pH"])
}

func TestReconcileGasTables_IdentifyingMatchIsCaseInsensitive(t *testing.T) {
	lab := labFixture()
	lab.Columns = append(lab.Columns, "PATIENT ID ")
	lab.Rows[0].Cells["PATIENT ID "] = "123456"

	tables := ReconcileGasTables(monitorGasFixture(t), lab, []string{"patient id"})
	assert.NotContains(t, tables[1].Columns, "PATIENT ID ")
}

func TestReconcileGasTables_ChecksMonitorSideToo(t *testing.T) {
	monitor := monitorGasFixture(t)
	monitor.Columns = append(monitor.Columns, "MRN")
	for i := range monitor.Rows {
		monitor.Rows[i].Cells["MRN"] = "123456"
	}

	tables := ReconcileGasTables(monitor, labFixture(), []string{"MRN"})
	assert.NotContains(t, tables[0].Columns, "MRN")
	for _, row := range tables[0].Rows {
		_, present := row.Cells["MRN"]
		assert.False(t, present)
	}
}
