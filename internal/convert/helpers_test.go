// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/catalog-parquet/internal/imagecheck"
)

var header = []string{"brand", "category_id", "comment", "currency", "description", "image", "year_release"}

// pngURI returns a data URI holding a freshly encoded 4x4 PNG.
func pngURI(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.NRGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imagecheck.DataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// catalogCSV renders rows as CSV text with the given header.
func catalogCSV(t *testing.T, head []string, rows ...[]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(head))
	for _, r := range rows {
		require.NoError(t, w.Write(r))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

// writeCatalog writes content to a catalog.csv in a fresh temp dir.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "product_catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func product(brand, img string) []string {
	return []string{brand, "12", "", "EUR", "TEST", img, "2018"}
}

func fieldNames(tbl arrow.Table) []string {
	names := make([]string, tbl.NumCols())
	for i, f := range tbl.Schema().Fields() {
		names[i] = f.Name
	}
	return names
}
