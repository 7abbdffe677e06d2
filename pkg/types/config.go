// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default values for ConverterConfig fields left empty.
const (
	DefaultOutputDir   = "outputs"
	DefaultName        = "product_catalog"
	DefaultCompression = "snappy"
)

// ConverterConfig holds settings for a single catalog conversion run.
type ConverterConfig struct {
	// InputPath is the catalog CSV to convert. Must end in ".csv".
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputDir is the directory receiving the Parquet datasets (default "outputs").
	// It is created if missing.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Name is the base name of the output files (default "product_catalog").
	// Files are named {name}_{bucket}_{YYYYMMDD}.parquet.
	Name string `json:"name" yaml:"name"`

	// SchemaFile optionally points to a YAML schema replacing the built-in
	// product catalog schema.
	SchemaFile string `json:"schema_file,omitempty" yaml:"schema_file,omitempty"`

	// Compression selects the Parquet codec: snappy, gzip, zstd, brotli, or none.
	Compression string `json:"compression" yaml:"compression"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ConverterConfig) WithDefaults() ConverterConfig {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Compression == "" {
		c.Compression = DefaultCompression
	}
	return c
}
