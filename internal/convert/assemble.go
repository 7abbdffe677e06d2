// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pdiddy/catalog-parquet/internal/catalog"
)

// Assemble binds raw text columns to schema, converting each value to its
// declared type. Columns follow schema order and must all have the same
// length; a column absent from cols counts as empty. Empty strings in
// non-text columns become nulls.
func Assemble(schema catalog.Schema, cols Columns, mem memory.Allocator) (arrow.Table, error) {
	rows := -1
	for _, c := range schema.Columns {
		n := len(cols[c.Name])
		if rows < 0 {
			rows = n
		} else if n != rows {
			return nil, fmt.Errorf("column %q has %d values, want %d", c.Name, n, rows)
		}
	}
	if rows < 0 {
		rows = 0
	}

	sc := schema.Arrow()
	columns := make([]arrow.Column, 0, len(schema.Columns))
	defer func() {
		for i := range columns {
			columns[i].Release()
		}
	}()

	for i, c := range schema.Columns {
		arr, err := buildArray(c, cols[c.Name], mem)
		if err != nil {
			return nil, err
		}
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()
		columns = append(columns, *arrow.NewColumn(sc.Field(i), chunked))
		chunked.Release()
	}

	return array.NewTable(sc, columns, int64(rows)), nil
}

func buildArray(c catalog.Column, values []string, mem memory.Allocator) (arrow.Array, error) {
	switch c.Type {
	case catalog.TypeString:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.Reserve(len(values))
		b.AppendValues(values, nil)
		return b.NewArray(), nil

	case catalog.TypeInt64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.Reserve(len(values))
		for i, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			x, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, conversionError(c, i, v, err)
			}
			b.Append(x)
		}
		return b.NewArray(), nil

	case catalog.TypeFloat64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.Reserve(len(values))
		for i, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, conversionError(c, i, v, err)
			}
			b.Append(x)
		}
		return b.NewArray(), nil

	case catalog.TypeBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.Reserve(len(values))
		for i, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			x, err := strconv.ParseBool(v)
			if err != nil {
				return nil, conversionError(c, i, v, err)
			}
			b.Append(x)
		}
		return b.NewArray(), nil
	}
	return nil, fmt.Errorf("column %q has unsupported type %q", c.Name, c.Type)
}

func conversionError(c catalog.Column, row int, value string, err error) error {
	return &catalog.TypeConversionError{Column: c.Name, Row: row, Value: value, Type: c.Type, Err: err}
}
