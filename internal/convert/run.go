// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/catalog-parquet/internal/catalog"
	"github.com/pdiddy/catalog-parquet/internal/dataset"
	"github.com/pdiddy/catalog-parquet/pkg/types"
)

// RunResult summarizes a completed conversion.
type RunResult struct {
	Counts types.Counts
	Files  []dataset.Result
}

// Run converts cfg.InputPath into one Parquet dataset per bucket. Nothing is
// written unless the whole catalog classifies and assembles without error.
func Run(cfg types.ConverterConfig, schema catalog.Schema, opts Options) (RunResult, error) {
	cfg = cfg.WithDefaults()
	opts = opts.withDefaults()

	if err := catalog.CheckInputPath(cfg.InputPath); err != nil {
		return RunResult{}, err
	}
	if err := schema.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid schema: %w", err)
	}
	if _, err := dataset.ParseCompression(cfg.Compression); err != nil {
		return RunResult{}, err
	}

	counts, tables, err := ParseCatalog(cfg.InputPath, schema, opts)
	if err != nil {
		return RunResult{}, err
	}
	defer ReleaseTables(tables)

	files, err := dataset.Write(tables, dataset.WriteOptions{
		OutputDir:   cfg.OutputDir,
		Name:        cfg.Name,
		Compression: cfg.Compression,
		Logger:      opts.Logger,
	})
	if err != nil {
		return RunResult{Counts: counts, Files: files}, err
	}

	opts.Logger.Debug("Conversion complete", zap.Int("lines", counts.Total()))
	return RunResult{Counts: counts, Files: files}, nil
}
