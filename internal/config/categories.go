package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"icucli/pkg/contracts/domain"
)

// CategorySpec is the operator-maintained category specification:
// which parameters belong to which clinical view, and which parameters
// may legitimately carry several concurrent values. It is
// configuration, not code: wards edit the YAML, not this file.
type CategorySpec struct {
	MultiValued []string          `yaml:"multi_valued"`
	Categories  []domain.Category `yaml:"categories" validate:"required,min=1,dive"`
}

// LoadCategories reads a category specification file, falling back to
// the built-in defaults when no file is given.
func LoadCategories(path string) (CategorySpec, error) {
	if path == "" {
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return CategorySpec{}, fmt.Errorf("failed to read category specification: %w", err)
	}

	var spec CategorySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return CategorySpec{}, fmt.Errorf("failed to parse category specification: %w", err)
	}
	if len(spec.Categories) == 0 {
		return CategorySpec{}, fmt.Errorf("category specification %s defines no categories", path)
	}

	return spec, nil
}

// GasCategory returns the blood-gas category, if the specification has one.
// The reconciler runs on this view; the other views go straight to the
// workbook.
func (s CategorySpec) GasCategory() (domain.Category, bool) {
	for _, category := range s.Categories {
		if category.Name == "Blood Gas (Monitor)" {
			return category, true
		}
	}
	return domain.Category{}, false
}

// DefaultCategories is the specification shipped with the tool. The
// parameter lists are written generically: a given dataset need not
// contain every name here, absent ones come out as empty columns.
func DefaultCategories() CategorySpec {
	return CategorySpec{
		MultiValued: []string{"Rhythm"},
		Categories: []domain.Category{
			{
				Name: "Cardiovascular",
				Parameters: []string{
					"HR", "Rhythm", "ABP Systolic", "ABP Diastolic", "ABP Mean",
					"NBP Systolic", "NBP Diastolic", "NBP Mean", "CVP", "SpO2", "Temp",
				},
			},
			{
				Name: "Cardiac Output",
				Parameters: []string{
					"CO", "CI", "SVV", "SVR", "SVRI", "GEDI", "ELWI", "CFI",
				},
			},
			{
				Name: "Ventilation (Invasive)",
				Parameters: []string{
					"Ventilation Mode", "FiO2", "PEEP", "Pinsp", "Pmean", "Ppeak",
					"RR", "Vt", "MV", "etCO2", "Compliance", "Resistance",
				},
			},
			{
				Name: "Ventilation (Non-Invasive)",
				Parameters: []string{
					"NIV Mode", "FiO2", "EPAP", "IPAP", "RR", "SpO2", "O2 Flow",
				},
			},
			{
				Name: "Blood Gas (Monitor)",
				Parameters: []string{
					"pH", "pCO2", "pO2", "HCO3", "Base Excess", "SaO2", "Lactate",
					"Hb", "Na+", "K+", "Ca++", "Glucose",
				},
			},
		},
	}
}
