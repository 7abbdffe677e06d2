// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/catalog-parquet/pkg/types"
)

var fixedDay = time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)

func fixedNow() time.Time { return fixedDay }

// stringTable builds a table of text columns from rows.
func stringTable(t *testing.T, names []string, rows [][]string) arrow.Table {
	t.Helper()
	fields := make([]arrow.Field, len(names))
	for i, n := range names {
		fields[i] = arrow.Field{Name: n, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for _, row := range rows {
		for i, v := range row {
			b.Field(i).(*array.StringBuilder).Append(v)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec})
}

func tablesFor(t *testing.T, valid, errs [][]string) map[types.Bucket]arrow.Table {
	t.Helper()
	names := []string{"brand", "image"}
	tables := map[types.Bucket]arrow.Table{
		types.BucketValid: stringTable(t, names, valid),
		types.BucketError: stringTable(t, names, errs),
	}
	t.Cleanup(func() {
		for _, tbl := range tables {
			tbl.Release()
		}
	})
	return tables
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "product_catalog_valid_20260307.parquet", FileName("product_catalog", types.BucketValid, fixedDay))
	assert.Equal(t, "shop_error_20261231.parquet",
		FileName("shop", types.BucketError, time.Date(2026, time.December, 31, 23, 59, 0, 0, time.Local)))
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"", "snappy", "gzip", "zstd", "brotli", "none"} {
		_, err := ParseCompression(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseCompression("lzma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown compression")
}

func TestWrite_RoundTrip(t *testing.T) {
	valid := [][]string{{"ASUS", "data:image/png;base64,AAAA"}, {"DELL", "data:image/png;base64,BBBB"}}
	errs := [][]string{{"ACER", ""}}
	dir := filepath.Join(t.TempDir(), "nested", "outputs")

	results, err := Write(tablesFor(t, valid, errs), WriteOptions{OutputDir: dir, Now: fixedNow})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, types.BucketValid, results[0].Bucket)
	assert.Equal(t, filepath.Join(dir, "product_catalog_valid_20260307.parquet"), results[0].Path)
	assert.Equal(t, types.BucketError, results[1].Bucket)
	assert.Equal(t, filepath.Join(dir, "product_catalog_error_20260307.parquet"), results[1].Path)

	want := map[types.Bucket][][]string{types.BucketValid: valid, types.BucketError: errs}
	for _, r := range results {
		assert.Positive(t, r.Size)

		tbl, err := ReadTable(context.Background(), r.Path, nil)
		require.NoError(t, err)

		assert.Equal(t, "brand", tbl.Schema().Field(0).Name)
		assert.Equal(t, "image", tbl.Schema().Field(1).Name)
		assert.True(t, arrow.TypeEqual(arrow.BinaryTypes.String, tbl.Schema().Field(0).Type))
		if diff := cmp.Diff(want[r.Bucket], Rows(tbl, -1)); diff != "" {
			t.Errorf("%s rows mismatch (-want +got):\n%s", r.Bucket, diff)
		}
		assert.EqualValues(t, len(want[r.Bucket]), r.Rows)
		tbl.Release()
	}
}

func TestWrite_SizeUnavailableIsLogged(t *testing.T) {
	orig := statFile
	statFile = func(string) (fs.FileInfo, error) { return nil, errors.New("stat denied") }
	t.Cleanup(func() { statFile = orig })

	core, logs := observer.New(zapcore.DebugLevel)
	results, err := Write(tablesFor(t, [][]string{{"ASUS", "x"}}, nil),
		WriteOptions{OutputDir: t.TempDir(), Now: fixedNow, Logger: zap.New(core)})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Zero(t, results[0].Size)
	assert.EqualValues(t, 1, results[0].Rows)

	unavailable := logs.FilterMessage("Dataset size unavailable").All()
	require.Len(t, unavailable, 2)
	assert.Equal(t, results[0].Path, unavailable[0].ContextMap()["path"])
	assert.Equal(t, "stat denied", unavailable[0].ContextMap()["error"])
}

func TestWrite_Compression(t *testing.T) {
	for _, codec := range []string{"gzip", "zstd", "none"} {
		t.Run(codec, func(t *testing.T) {
			dir := t.TempDir()
			results, err := Write(tablesFor(t, [][]string{{"ASUS", "x"}}, nil),
				WriteOptions{OutputDir: dir, Compression: codec, Now: fixedNow})
			require.NoError(t, err)

			tbl, err := ReadTable(context.Background(), results[0].Path, nil)
			require.NoError(t, err)
			defer tbl.Release()
			assert.Equal(t, [][]string{{"ASUS", "x"}}, Rows(tbl, -1))
		})
	}
}

func TestWrite_Overwrite(t *testing.T) {
	dir := t.TempDir()
	opts := WriteOptions{OutputDir: dir, Name: "catalog", Now: fixedNow}

	_, err := Write(tablesFor(t, [][]string{{"A", "1"}, {"B", "2"}}, [][]string{{"C", ""}}), opts)
	require.NoError(t, err)

	stale := filepath.Join(dir, "catalog_valid_20260307.parquet")
	results, err := Write(tablesFor(t, [][]string{{"Z", "9"}}, nil), opts)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, stale, results[0].Path)
	tbl, err := ReadTable(context.Background(), stale, nil)
	require.NoError(t, err)
	defer tbl.Release()
	assert.Equal(t, [][]string{{"Z", "9"}}, Rows(tbl, -1))
}

func TestWrite_EmptyTables(t *testing.T) {
	dir := t.TempDir()
	results, err := Write(tablesFor(t, nil, nil), WriteOptions{OutputDir: dir, Now: fixedNow})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		tbl, err := ReadTable(context.Background(), r.Path, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 0, tbl.NumRows())
		assert.EqualValues(t, 2, tbl.NumCols())
		tbl.Release()
	}
}

func TestWrite_Errors(t *testing.T) {
	t.Run("output dir is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "outputs")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := Write(tablesFor(t, nil, nil), WriteOptions{OutputDir: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating output directory")
	})

	t.Run("unknown compression", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "outputs")
		_, err := Write(tablesFor(t, nil, nil), WriteOptions{OutputDir: dir, Compression: "lzma"})
		require.Error(t, err)
		assert.NoDirExists(t, dir)
	})
}

func TestWrite_BucketOrder(t *testing.T) {
	names := []string{"brand", "image"}
	tables := map[types.Bucket]arrow.Table{
		"review":          stringTable(t, names, nil),
		types.BucketError: stringTable(t, names, nil),
		"archive":         stringTable(t, names, nil),
		types.BucketValid: stringTable(t, names, nil),
	}
	defer func() {
		for _, tbl := range tables {
			tbl.Release()
		}
	}()

	results, err := Write(tables, WriteOptions{OutputDir: t.TempDir(), Now: fixedNow})
	require.NoError(t, err)

	var got []types.Bucket
	for _, r := range results {
		got = append(got, r.Bucket)
	}
	assert.Equal(t, []types.Bucket{types.BucketValid, types.BucketError, "archive", "review"}, got)
}

func TestReadTable_Missing(t *testing.T) {
	_, err := ReadTable(context.Background(), filepath.Join(t.TempDir(), "nope.parquet"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadTable_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.parquet")
	require.NoError(t, os.WriteFile(path, []byte("brand,image\nASUS,\n"), 0o644))

	_, err := ReadTable(context.Background(), path, nil)
	require.Error(t, err)
}

func TestRows_Limit(t *testing.T) {
	tbl := stringTable(t, []string{"brand", "image"}, [][]string{{"A", "1"}, {"B", "2"}, {"C", "3"}})
	defer tbl.Release()

	assert.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, Rows(tbl, 2))
	assert.Len(t, Rows(tbl, -1), 3)
	assert.Len(t, Rows(tbl, 10), 3)
	assert.Empty(t, Rows(tbl, 0))
}
