// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset writes classified catalog tables to Parquet files and
// reads them back.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/pdiddy/catalog-parquet/pkg/types"
)

const (
	// Ext is the extension of every dataset file.
	Ext = ".parquet"

	dateLayout   = "20060102"
	rowGroupSize = 64 * 1024
)

// statFile is replaced in tests.
var statFile = os.Stat

var codecs = map[string]compress.Compression{
	"snappy": compress.Codecs.Snappy,
	"gzip":   compress.Codecs.Gzip,
	"zstd":   compress.Codecs.Zstd,
	"brotli": compress.Codecs.Brotli,
	"none":   compress.Codecs.Uncompressed,
}

// ParseCompression maps a codec name to a Parquet compression. An empty name
// selects snappy.
func ParseCompression(name string) (compress.Compression, error) {
	if name == "" {
		name = types.DefaultCompression
	}
	c, ok := codecs[name]
	if !ok {
		return 0, fmt.Errorf("unknown compression %q (want snappy, gzip, zstd, brotli, or none)", name)
	}
	return c, nil
}

// WriteOptions controls where and how datasets are written.
type WriteOptions struct {
	OutputDir   string
	Name        string
	Compression string

	// Now supplies the date embedded in file names. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

func (o WriteOptions) withDefaults() WriteOptions {
	if o.OutputDir == "" {
		o.OutputDir = types.DefaultOutputDir
	}
	if o.Name == "" {
		o.Name = types.DefaultName
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Result describes one written dataset file.
type Result struct {
	Bucket types.Bucket
	Path   string
	Rows   int64
	Size   int64
}

// FileName returns the dataset file name for bucket on the date of t:
// {name}_{bucket}_{YYYYMMDD}.parquet.
func FileName(name string, bucket types.Bucket, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s%s", name, bucket, t.Format(dateLayout), Ext)
}

// Write stores each table under opts.OutputDir, creating the directory if
// needed. An existing file at a target path is removed and replaced. Tables
// are written in bucket order: valid, error, then any other bucket by name.
func Write(tables map[types.Bucket]arrow.Table, opts WriteOptions) ([]Result, error) {
	opts = opts.withDefaults()

	codec, err := ParseCompression(opts.Compression)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", opts.OutputDir, err)
	}

	today := opts.Now()
	results := make([]Result, 0, len(tables))
	for _, b := range orderBuckets(tables) {
		path := filepath.Join(opts.OutputDir, FileName(opts.Name, b, today))
		tbl := tables[b]

		if err := writeTable(path, tbl, codec); err != nil {
			return results, err
		}

		res := Result{Bucket: b, Path: path, Rows: tbl.NumRows()}
		if info, err := statFile(path); err == nil {
			res.Size = info.Size()
		} else {
			opts.Logger.Debug("Dataset size unavailable", zap.String("path", path), zap.Error(err))
		}
		opts.Logger.Info("Dataset written",
			zap.String("bucket", string(b)),
			zap.String("path", path),
			zap.Int64("rows", res.Rows),
			zap.Int64("bytes", res.Size))
		results = append(results, res)
	}
	return results, nil
}

func orderBuckets(tables map[types.Bucket]arrow.Table) []types.Bucket {
	var order, rest []types.Bucket
	for _, b := range types.Buckets {
		if _, ok := tables[b]; ok {
			order = append(order, b)
		}
	}
	for b := range tables {
		if !slices.Contains(types.Buckets, b) {
			rest = append(rest, b)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

func writeTable(path string, tbl arrow.Table, codec compress.Compression) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing existing %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	// The parquet writer closes f on success; this covers the error paths.
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(codec))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(tbl.Schema(), f, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating parquet writer for %s: %w", path, err)
	}
	if err := w.WriteTable(tbl, rowGroupSize); err != nil {
		w.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// ReadTable loads the dataset at path into memory. The caller must release
// the returned table.
func ReadTable(ctx context.Context, path string, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("reading parquet footer of %s: %w", path, err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow reader for %s: %w", path, err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return tbl, nil
}

// Rows renders up to limit rows of tbl as text, one slice per row in column
// order. A negative limit returns every row. Nulls render as "(null)".
func Rows(tbl arrow.Table, limit int) [][]string {
	n := int(tbl.NumRows())
	if limit >= 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, tbl.NumCols())
	}

	for c := 0; c < int(tbl.NumCols()); c++ {
		row := 0
		for _, chunk := range tbl.Column(c).Data().Chunks() {
			for i := 0; i < chunk.Len() && row < n; i++ {
				rows[row][c] = chunk.ValueStr(i)
				row++
			}
			if row >= n {
				break
			}
		}
	}
	return rows
}
