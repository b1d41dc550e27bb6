package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"icucli/pkg/contracts/domain"
)

func writeCSVExport(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeExcelExport(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseExportFile_CSV(t *testing.T) {
	path := writeCSVExport(t, "trend.csv",
		"Time,Parameter Name,Value,Bed\n"+
			"2024-03-01 10:00:00,HR,80,ICU-3\n"+
			"2024-03-01 10:00:00,Rhythm,sinus,ICU-3\n")

	batch, err := ParseExportFile(path, domain.DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, "trend.csv", batch.Source)
	assert.Equal(t, []string{"Time", "Parameter Name", "Value", "Bed"}, batch.Columns)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "80", batch.Rows[0]["Value"])
	assert.Equal(t, "ICU-3", batch.Rows[0]["Bed"])
}

func TestParseExportFile_Excel(t *testing.T) {
	path := writeExcelExport(t, "Trend Export", [][]interface{}{
		{"Exported 2024-03-01"},
		{},
		{"Time", "Parameter Name", "Value"},
		{"2024-03-01 10:00:00", "HR", "80"},
		{"2024-03-01 10:05:00", "HR", "82"},
	})

	batch, err := ParseExportFile(path, domain.DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{"Time", "Parameter Name", "Value"}, batch.Columns)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "HR", batch.Rows[0]["Parameter Name"])
}

func TestParseExportFile_ExcelWithoutHeaderRow(t *testing.T) {
	path := writeExcelExport(t, "Sheet1", [][]interface{}{
		{"nothing", "useful", "here"},
	})

	_, err := ParseExportFile(path, domain.DefaultSchema())
	assert.Error(t, err)
}

func TestParseExportFile_UnsupportedExtension(t *testing.T) {
	_, err := ParseExportFile("export.pdf", domain.DefaultSchema())
	assert.Error(t, err)
}

func TestParseExportFile_SkipsEmptyRows(t *testing.T) {
	path := writeCSVExport(t, "trend.csv",
		"Time,Parameter Name,Value\n"+
			"2024-03-01 10:00:00,HR,80\n"+
			",,\n"+
			"2024-03-01 10:05:00,HR,82\n")

	batch, err := ParseExportFile(path, domain.DefaultSchema())
	require.NoError(t, err)
	assert.Len(t, batch.Rows, 2)
}

func TestParseLabFile_DropsIdentifyingColumns(t *testing.T) {
	path := writeCSVExport(t, "lab.csv",
		"Sample Time,Patient ID,Patient Name,pH,pCO2,Lactate\n"+
			"2024-03-01 10:12:00,123456,\"Doe, J.\",7.38,5.1,1.4\n"+
			"2024-03-01 14:40:00,123456,\"Doe, J.\",7.31,6.0,2.2\n")

	table, err := ParseLabFile(path, DefaultLabSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{"pH", "pCO2", "Lactate"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "7.38", table.Rows[0].Cells["pH"])
	for _, row := range table.Rows {
		_, id := row.Cells["Patient ID"]
		_, name := row.Cells["Patient Name"]
		assert.False(t, id)
		assert.False(t, name)
	}
}

func TestParseLabFile_SortsBySampleTime(t *testing.T) {
	path := writeCSVExport(t, "lab.csv",
		"Sample Time,pH\n"+
			"2024-03-01 14:40:00,7.31\n"+
			"2024-03-01 10:12:00,7.38\n")

	table, err := ParseLabFile(path, DefaultLabSchema())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.True(t, table.Rows[0].Time.Before(table.Rows[1].Time))
}

func TestParseLabFile_MissingSampleTimeColumn(t *testing.T) {
	path := writeCSVExport(t, "lab.csv", "pH,pCO2\n7.38,5.1\n")

	_, err := ParseLabFile(path, DefaultLabSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIdentifierColumn)
}
