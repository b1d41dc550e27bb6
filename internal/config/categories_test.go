package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	spec := DefaultCategories()

	assert.Contains(t, spec.MultiValued, "Rhythm")
	require.Len(t, spec.Categories, 5)

	names := make([]string, 0, len(spec.Categories))
	for _, category := range spec.Categories {
		names = append(names, category.Name)
		assert.NotEmpty(t, category.Parameters, "category %s has no parameters", category.Name)
	}
	assert.Equal(t, []string{
		"Cardiovascular",
		"Cardiac Output",
		"Ventilation (Invasive)",
		"Ventilation (Non-Invasive)",
		"Blood Gas (Monitor)",
	}, names)
}

func TestLoadCategories_EmptyPathUsesDefaults(t *testing.T) {
	spec, err := LoadCategories("")
	require.NoError(t, err)
	assert.Len(t, spec.Categories, 5)
}

func TestLoadCategories_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yml")
	content := `
multi_valued: [Rhythm, Alarm]
categories:
  - name: Vitals
    parameters: [HR, SpO2]
  - name: Blood Gas (Monitor)
    parameters: [pH, pCO2]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	spec, err := LoadCategories(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rhythm", "Alarm"}, spec.MultiValued)
	require.Len(t, spec.Categories, 2)
	assert.Equal(t, "Vitals", spec.Categories[0].Name)
	assert.Equal(t, []string{"HR", "SpO2"}, spec.Categories[0].Parameters)
}

func TestLoadCategories_EmptySpecificationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yml")
	require.NoError(t, os.WriteFile(path, []byte("multi_valued: []\n"), 0644))

	_, err := LoadCategories(path)
	assert.Error(t, err)
}

func TestGasCategory(t *testing.T) {
	spec := DefaultCategories()

	gas, ok := spec.GasCategory()
	require.True(t, ok)
	assert.Equal(t, "Blood Gas (Monitor)", gas.Name)
	assert.Contains(t, gas.Parameters, "pH")

	spec.Categories = spec.Categories[:1]
	_, ok = spec.GasCategory()
	assert.False(t, ok)
}
