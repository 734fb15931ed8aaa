package excel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellscope/domain/core"
	"cellscope/internal/testkit"
)

func TestReadSource_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "population.csv")
	content := "expression,cell_type\n1.5,T-cell\n2.5,B-cell\n,T-cell\n4.0,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src, cells, err := NewDataReader(path).ReadSource()
	require.NoError(t, err)
	assert.Equal(t, 4, cells)

	values, err := src.NumericField("expression")
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, 1.5, values[0])
	assert.True(t, math.IsNaN(values[2]), "blank cell must load as NaN")

	field, err := src.CategoricalField("cell_type")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-cell", "B-cell"}, field.Labels)
	assert.Equal(t, []int{0, 1, 0, -1}, field.Codes)
}

func TestReadSource_GeneratedPopulationRoundTrip(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.Cells = 500
	p, err := testkit.Generate(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cells.csv")
	require.NoError(t, p.WriteCSV(path))

	src, cells, err := NewDataReader(path).ReadSource()
	require.NoError(t, err)
	assert.Equal(t, 500, cells)

	expr, err := src.NumericField("expression")
	require.NoError(t, err)
	assert.Len(t, expr, 500)

	cellType, err := src.CategoricalField("cell_type")
	require.NoError(t, err)
	assert.Equal(t, 500, cellType.Len())
}

func TestReadSource_MissingFile(t *testing.T) {
	_, _, err := NewDataReader("/nonexistent/data.csv").ReadSource()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadSource_HeaderOnlyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("expression\n"), 0o644))

	_, _, err := NewDataReader(path).ReadSource()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
