// Package dataset loads goldstandard and predictions files into typed,
// column-oriented tables according to a challenge schema. CSV is the wire
// format; XLSX submissions are accepted and read from the first sheet.
package dataset

import (
	"math"

	"github.com/challenge-workflows/eval-cli/internal/schema"
)

// Table is a column-oriented view of one loaded file. Only columns declared
// in the schema are kept; anything else in the file is ignored.
type Table struct {
	n       int
	strings map[string][]string
	ints    map[string][]int64
	floats  map[string][]float64
}

func newTable() *Table {
	return &Table{
		strings: make(map[string][]string),
		ints:    make(map[string][]int64),
		floats:  make(map[string][]float64),
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.n }

// Strings returns a string column, or nil if absent.
func (t *Table) Strings(name string) []string { return t.strings[name] }

// Ints returns an int column, or nil if absent.
func (t *Table) Ints(name string) []int64 { return t.ints[name] }

// Floats returns a float column, or nil if absent. Empty cells are NaN.
func (t *Table) Floats(name string) []float64 { return t.floats[name] }

func (t *Table) appendCell(col schema.Column, raw string) error {
	switch col.Type {
	case schema.TypeString:
		t.strings[col.Name] = append(t.strings[col.Name], raw)
	case schema.TypeInt:
		v, err := parseInt(raw)
		if err != nil {
			return err
		}
		t.ints[col.Name] = append(t.ints[col.Name], v)
	case schema.TypeFloat:
		if raw == "" {
			t.floats[col.Name] = append(t.floats[col.Name], math.NaN())
			return nil
		}
		v, err := parseFloat(raw)
		if err != nil {
			return err
		}
		t.floats[col.Name] = append(t.floats[col.Name], v)
	}
	return nil
}
