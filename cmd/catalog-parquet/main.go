// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-parquet CLI. The root
// command converts a product catalog CSV into two Parquet datasets, one for
// products with a valid inline image and one for everything else.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/catalog-parquet/internal/catalog"
	"github.com/pdiddy/catalog-parquet/internal/convert"
	"github.com/pdiddy/catalog-parquet/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd converts a catalog when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "catalog-parquet -f <catalog.csv>",
	Short: "Convert a product catalog CSV into valid and error Parquet datasets",
	Long: `catalog-parquet reads a product catalog CSV, checks its header against the
catalog schema, and splits the rows into two Parquet datasets:

  {name}_valid_{YYYYMMDD}.parquet   rows whose image is a decodable base64 PNG data URI
  {name}_error_{YYYYMMDD}.parquet   every other row

Both files are written to the output directory, replacing same-day files.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg := converterConfig()
	schema, err := catalog.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return err
	}

	res, err := convert.Run(cfg, schema, convert.Options{Logger: logger})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), res.Counts, time.Since(start))
	return nil
}

func converterConfig() types.ConverterConfig {
	return types.ConverterConfig{
		InputPath:   viper.GetString("file"),
		OutputDir:   viper.GetString("output_dir"),
		Name:        viper.GetString("name"),
		SchemaFile:  viper.GetString("schema_file"),
		Compression: viper.GetString("compression"),
	}.WithDefaults()
}

func printSummary(w io.Writer, counts types.Counts, elapsed time.Duration) {
	fmt.Fprintf(w, "%d lines processed\n", counts.Total())
	fmt.Fprintf(w, "%d valid products\n", counts.Valid)
	fmt.Fprintf(w, "%d errors\n", counts.Error)
	fmt.Fprintf(w, "Execution time : %.3fs\n", elapsed.Seconds())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./catalog-parquet.yaml or ~/.config/catalog-parquet/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringP("file", "f", "", "catalog CSV file to process")
	rootCmd.Flags().String("output-dir", types.DefaultOutputDir, "directory receiving the Parquet datasets")
	rootCmd.Flags().String("name", types.DefaultName, "base name of the output files")
	rootCmd.Flags().String("compression", types.DefaultCompression, "parquet compression: snappy, gzip, zstd, brotli, or none")
	_ = rootCmd.MarkFlagRequired("file")

	_ = viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("name", rootCmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("compression", rootCmd.Flags().Lookup("compression"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-parquet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-parquet"))
		}
	}

	viper.SetEnvPrefix("CATALOG_PARQUET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
