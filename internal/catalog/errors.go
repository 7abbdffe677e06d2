// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInputPath = errors.New("file does not seem to be a csv")
	ErrSchemaMismatch   = errors.New("csv file does not have a valid header")
	ErrMalformedRow     = errors.New("malformed row")
	ErrTypeConversion   = errors.New("type conversion failed")
)

// CheckInputPath rejects paths that do not end in ".csv". Only the
// extension is checked; the file is not opened.
func CheckInputPath(path string) error {
	if !strings.HasSuffix(path, ".csv") {
		return fmt.Errorf("%w: %s", ErrInvalidInputPath, path)
	}
	return nil
}

// SchemaMismatchError reports a header that differs from the schema.
type SchemaMismatchError struct {
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%v. Should be %v, got %v", ErrSchemaMismatch, e.Expected, e.Got)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// MalformedRowError reports a data row with fewer fields than the header.
type MalformedRowError struct {
	// Line is the 1-based line number in the input file.
	Line   int
	Fields int
	Want   int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%v: line %d has %d fields, want %d", ErrMalformedRow, e.Line, e.Fields, e.Want)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }

// TypeConversionError reports a value that cannot be cast to its column type.
type TypeConversionError struct {
	Column string
	// Row is the 0-based position within the bucket being assembled.
	Row   int
	Value string
	Type  ColumnType
	Err   error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("%v: column %q row %d: cannot convert %q to %s: %v",
		ErrTypeConversion, e.Column, e.Row, e.Value, e.Type, e.Err)
}

func (e *TypeConversionError) Unwrap() []error { return []error{ErrTypeConversion, e.Err} }
