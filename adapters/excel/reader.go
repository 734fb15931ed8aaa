// Package excel loads population matrices from .xlsx and .csv files
// into an aggregation source: one column per field, one row per cell.
package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cellscope/domain/core"
	"cellscope/internal"
	"cellscope/internal/aggregate"
)

// DataReader handles reading Excel and CSV population files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// ReadSource reads the file into an aggregation source. The first row
// holds field names; columns whose non-empty cells all parse as numbers
// become numeric fields (blank or unparseable cells become NaN), the
// rest become integer-coded categorical fields.
func (r *DataReader) ReadSource() (*aggregate.Source, int, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, 0, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, 0, err
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("%w: dataset needs a header row and at least one data row", core.ErrInsufficientData)
	}

	headers := rows[0]
	data := rows[1:]
	r.log.Info("loaded %s: %d fields, %d cells", filepath.Base(r.filePath), len(headers), len(data))

	src := aggregate.NewSource()
	for col, name := range headers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		column := columnValues(data, col)
		if numeric, ok := parseNumericColumn(column); ok {
			src.SetNumericField(core.FieldKey(name), numeric)
		} else {
			codes, labels := encodeCategorical(column)
			src.SetCategoricalField(core.FieldKey(name), codes, labels)
		}
	}
	return src, len(data), nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// columnValues extracts one column, padding short rows with blanks.
func columnValues(data [][]string, col int) []string {
	out := make([]string, len(data))
	for i, row := range data {
		if col < len(row) {
			out[i] = strings.TrimSpace(row[col])
		}
	}
	return out
}

// parseNumericColumn converts a column to floats when every non-empty
// cell parses; blanks become NaN so downstream filtering treats them as
// missing.
func parseNumericColumn(column []string) ([]float64, bool) {
	out := make([]float64, len(column))
	nonEmpty := 0
	for i, cell := range column {
		if cell == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
		nonEmpty++
	}
	return out, nonEmpty > 0
}

// encodeCategorical integer-codes a label column; blank cells code as
// missing (-1). Label order follows first appearance.
func encodeCategorical(column []string) ([]int, []string) {
	codes := make([]int, len(column))
	index := make(map[string]int)
	var labels []string
	for i, cell := range column {
		if cell == "" {
			codes[i] = -1
			continue
		}
		code, ok := index[cell]
		if !ok {
			code = len(labels)
			index[cell] = code
			labels = append(labels, cell)
		}
		codes[i] = code
	}
	return codes, labels
}
