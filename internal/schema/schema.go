// Package schema defines the expected tabular layout of goldstandard and
// predictions files for a challenge. The default layout matches the stock
// evaluation template; challenges override it with a YAML schema file.
package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ColumnType is the declared type of a tabular column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
)

// Column is a named, typed column.
type Column struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type"`
}

// FileSchema describes one tabular file: its required columns and which
// column holds the row key.
type FileSchema struct {
	Key     string   `yaml:"key"`
	Columns []Column `yaml:"columns"`
}

// Range is an inclusive value range for the prediction column.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Schema is the full challenge layout.
type Schema struct {
	Goldstandard FileSchema `yaml:"goldstandard"`
	Predictions  FileSchema `yaml:"predictions"`
	Label        string     `yaml:"label"` // goldstandard class column
	Value        string     `yaml:"value"` // predictions score column
	Range        Range      `yaml:"range"`
}

// Default returns the stock binary-classification schema: string IDs, an
// integer disease label, and a probability in [0, 1].
func Default() *Schema {
	return &Schema{
		Goldstandard: FileSchema{
			Key: "id",
			Columns: []Column{
				{Name: "id", Type: TypeString},
				{Name: "disease", Type: TypeInt},
			},
		},
		Predictions: FileSchema{
			Key: "id",
			Columns: []Column{
				{Name: "id", Type: TypeString},
				{Name: "probability", Type: TypeFloat},
			},
		},
		Label: "disease",
		Value: "probability",
		Range: Range{Min: 0, Max: 1},
	}
}

// Load reads a schema from a YAML file. The file has a top-level "schema" key.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read %s", path)
	}

	var wrapper struct {
		Schema Schema `yaml:"schema"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "schema: parse")
	}

	s := &wrapper.Schema
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks internal consistency: keys and label/value columns must be
// declared, and all column types must be known.
func (s *Schema) Validate() error {
	if err := s.Goldstandard.validate("goldstandard"); err != nil {
		return err
	}
	if err := s.Predictions.validate("predictions"); err != nil {
		return err
	}
	if s.Goldstandard.Column(s.Label) == nil {
		return eris.Errorf("schema: label column %q not declared in goldstandard", s.Label)
	}
	if s.Predictions.Column(s.Value) == nil {
		return eris.Errorf("schema: value column %q not declared in predictions", s.Value)
	}
	if s.Range.Max < s.Range.Min {
		return eris.Errorf("schema: range max %g below min %g", s.Range.Max, s.Range.Min)
	}
	return nil
}

func (f *FileSchema) validate(name string) error {
	if len(f.Columns) == 0 {
		return eris.Errorf("schema: %s declares no columns", name)
	}
	for _, c := range f.Columns {
		switch c.Type {
		case TypeString, TypeInt, TypeFloat:
		default:
			return eris.Errorf("schema: %s column %q has unknown type %q", name, c.Name, c.Type)
		}
	}
	if f.Column(f.Key) == nil {
		return eris.Errorf("schema: %s key column %q not declared", name, f.Key)
	}
	return nil
}

// Column returns the declared column with the given name, or nil.
func (f *FileSchema) Column(name string) *Column {
	for i := range f.Columns {
		if f.Columns[i].Name == name {
			return &f.Columns[i]
		}
	}
	return nil
}

// String renders the expected layout the way error messages report it,
// e.g. "{id: string, probability: float}".
func (f *FileSchema) String() string {
	parts := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		parts = append(parts, fmt.Sprintf("%s: %s", c.Name, c.Type))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
