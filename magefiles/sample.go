//go:build mage

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
)

const (
	samplePath        = "samples/product_catalog.csv"
	defaultSampleRows = 1_000_000
)

var sampleHeader = []string{"brand", "category_id", "comment", "currency", "description", "image", "year_release"}

// Sample writes a synthetic catalog to samples/product_catalog.csv for timing
// runs. SAMPLE_ROWS overrides the row count (default one million). Every
// tenth row carries a non-image payload so both datasets are populated.
func Sample() error {
	rows := defaultSampleRows
	if v := os.Getenv("SAMPLE_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("SAMPLE_ROWS must be a non-negative integer, got %q", v)
		}
		rows = n
	}

	img, err := sampleImage()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(samplePath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(samplePath), err)
	}

	f, err := os.Create(samplePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", samplePath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		payload := img
		if i%10 == 9 {
			payload = "ThisIsNotAnImage"
		}
		if err := w.Write([]string{"ASUS", "", "", "EUR", "TEST", payload, "2018"}); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", samplePath, err)
	}
	fmt.Printf("Wrote %d rows to %s\n", rows, samplePath)
	return f.Close()
}

// sampleImage returns a 16x16 PNG data URI.
func sampleImage() (string, error) {
	m := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		m.Set(x, x, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return "", fmt.Errorf("encoding sample image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
