package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPathFor(t *testing.T) {
	path := outputPathFor(filepath.Join("data", "workbooks"), "patient-007")
	assert.Equal(t, filepath.Join("data", "workbooks", "patient-007_monitoring.xlsx"), path)
}
