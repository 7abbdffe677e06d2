// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-parquet/internal/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset.parquet>",
	Short: "Show the schema, row count, and first rows of a written dataset",
	Long: `Inspect reads a Parquet dataset produced by the converter and prints its
columns with their types, the number of rows, and the first --head rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// inspectOutput is the JSON form of an inspect report.
type inspectOutput struct {
	Path    string         `json:"path"`
	Rows    int64          `json:"rows"`
	Columns []inspectField `json:"columns"`
	Head    [][]string     `json:"head"`
}

type inspectField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	head, _ := cmd.Flags().GetInt("head")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	tbl, err := dataset.ReadTable(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}
	defer tbl.Release()

	out := inspectOutput{Path: args[0], Rows: tbl.NumRows(), Head: dataset.Rows(tbl, head)}
	for _, f := range tbl.Schema().Fields() {
		out.Columns = append(out.Columns, inspectField{Name: f.Name, Type: f.Type.String()})
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s\n", out.Path)
	for _, c := range out.Columns {
		fmt.Fprintf(w, "  %-20s %s\n", c.Name, c.Type)
	}
	fmt.Fprintf(w, "%d rows\n", out.Rows)
	if len(out.Head) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	for _, row := range out.Head {
		cells := make([]string, len(row))
		for i, v := range row {
			if len(v) > 40 {
				v = v[:37] + "..."
			}
			cells[i] = v
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
	return nil
}

func init() {
	inspectCmd.Flags().Int("head", 5, "number of rows to print")
	inspectCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(inspectCmd)
}
