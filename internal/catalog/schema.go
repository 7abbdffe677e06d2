// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog defines the product catalog schema and the errors raised
// while reading a catalog file.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"go.yaml.in/yaml/v3"
)

// ImageColumn is the column holding the inline image payload used for
// classification.
const ImageColumn = "image"

// ColumnType is the declared value type of a column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeInt64   ColumnType = "int64"
	TypeFloat64 ColumnType = "float64"
	TypeBool    ColumnType = "bool"
)

// Column is a single named, typed column.
type Column struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type"`
}

// Schema is the ordered list of columns shared by the input header and both
// output datasets.
type Schema struct {
	Columns []Column `yaml:"columns"`
}

//go:embed schema.yaml
var defaultSchemaYAML []byte

// Default returns the built-in product catalog schema: seven text columns
// from brand to year_release.
func Default() Schema {
	s, err := ParseSchema(defaultSchemaYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded schema is invalid: %v", err))
	}
	return s
}

// LoadSchema reads a YAML schema from path. An empty path returns Default.
func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("reading schema file %s: %w", path, err)
	}
	s, err := ParseSchema(data)
	if err != nil {
		return Schema{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return s, nil
}

// ParseSchema decodes and validates a YAML schema document.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parsing schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Validate checks that the schema is non-empty, has unique column names of
// known types, and includes the image column.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema has no columns")
	}
	seen := make(map[string]bool, len(s.Columns))
	for i, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema column %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema column %q is declared twice", c.Name)
		}
		seen[c.Name] = true
		if _, ok := arrowTypes[c.Type]; !ok {
			return fmt.Errorf("schema column %q has unsupported type %q", c.Name, c.Type)
		}
	}
	if !seen[ImageColumn] {
		return fmt.Errorf("schema has no %q column", ImageColumn)
	}
	return nil
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var arrowTypes = map[ColumnType]arrow.DataType{
	TypeString:  arrow.BinaryTypes.String,
	TypeInt64:   arrow.PrimitiveTypes.Int64,
	TypeFloat64: arrow.PrimitiveTypes.Float64,
	TypeBool:    arrow.FixedWidthTypes.Boolean,
}

// Arrow returns the equivalent Arrow schema. All fields are nullable.
func (s Schema) Arrow() *arrow.Schema {
	fields := make([]arrow.Field, len(s.Columns))
	for i, c := range s.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowTypes[c.Type], Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}
