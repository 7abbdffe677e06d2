// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a product catalog CSV into columnar tables, one per
// classification bucket. Rows whose image field decodes as an image land in
// the valid bucket; every other row lands in the error bucket.
package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/pdiddy/catalog-parquet/internal/catalog"
	"github.com/pdiddy/catalog-parquet/internal/imagecheck"
	"github.com/pdiddy/catalog-parquet/pkg/types"
)

// Options carries the optional collaborators of a conversion.
type Options struct {
	// Logger receives progress messages. Defaults to a no-op logger.
	Logger *zap.Logger

	// Allocator backs the Arrow arrays. Defaults to the Go allocator.
	Allocator memory.Allocator
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Allocator == nil {
		o.Allocator = memory.NewGoAllocator()
	}
	return o
}

// Columns maps a column name to its values in row order.
type Columns map[string][]string

func newColumns(schema catalog.Schema) Columns {
	cols := make(Columns, len(schema.Columns))
	for _, c := range schema.Columns {
		cols[c.Name] = []string{}
	}
	return cols
}

// Classified is the row-oriented input transposed into per-bucket columns.
type Classified struct {
	Counts  types.Counts
	Buckets map[types.Bucket]Columns
}

// Classify reads a catalog from r, checks the header against schema, and
// distributes every row into the valid or error bucket.
func Classify(r io.Reader, schema catalog.Schema) (Classified, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	// Unquoted fields may carry inch marks such as `15" laptop`.
	reader.LazyQuotes = true

	want := schema.Names()
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Classified{}, &catalog.SchemaMismatchError{Expected: want}
	}
	if err != nil {
		return Classified{}, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, want) {
		return Classified{}, &catalog.SchemaMismatchError{Expected: want, Got: slices.Clone(header)}
	}

	out := Classified{Buckets: make(map[types.Bucket]Columns, len(types.Buckets))}
	for _, b := range types.Buckets {
		out.Buckets[b] = newColumns(schema)
	}
	imageIdx := schema.Index(catalog.ImageColumn)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Classified{}, fmt.Errorf("reading row: %w", err)
		}
		if len(row) < len(want) {
			line, _ := reader.FieldPos(0)
			return Classified{}, &catalog.MalformedRowError{Line: line, Fields: len(row), Want: len(want)}
		}

		bucket := types.BucketError
		if imagecheck.IsValidImageString(row[imageIdx]) {
			bucket = types.BucketValid
		}
		out.Counts.Add(bucket)

		cols := out.Buckets[bucket]
		for i, name := range want {
			cols[name] = append(cols[name], row[i])
		}
	}
	return out, nil
}

// ParseCatalog classifies the catalog at path and assembles one table per
// bucket. The caller owns the returned tables and must release them.
func ParseCatalog(path string, schema catalog.Schema, opts Options) (types.Counts, map[types.Bucket]arrow.Table, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With(zap.String("input", path))

	f, err := os.Open(path)
	if err != nil {
		return types.Counts{}, nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	log.Debug("Classifying catalog rows")
	classified, err := Classify(f, schema)
	if err != nil {
		return types.Counts{}, nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	log.Info("Catalog classified",
		zap.Int("valid", classified.Counts.Valid),
		zap.Int("error", classified.Counts.Error))

	tables := make(map[types.Bucket]arrow.Table, len(classified.Buckets))
	for _, b := range types.Buckets {
		tbl, err := Assemble(schema, classified.Buckets[b], opts.Allocator)
		if err != nil {
			ReleaseTables(tables)
			return types.Counts{}, nil, fmt.Errorf("assembling %s dataset: %w", b, err)
		}
		tables[b] = tbl
	}
	return classified.Counts, tables, nil
}

// ReleaseTables releases every table in tables.
func ReleaseTables(tables map[types.Bucket]arrow.Table) {
	for _, t := range tables {
		t.Release()
	}
}
