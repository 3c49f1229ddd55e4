// cmd/tourismctl/cmd_encode.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unclebandit/tourism-predictor/internal/encoder"
)

var encodeFlags struct {
	file string
	row  string
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a customer record into the trained feature vector",
	Long: "encode -f reads a customer record and runs the full encoder.\n" +
		"encode --row reads a flat JSON object of column values and projects it\n" +
		"onto the trained schema: missing columns become 0, unknown ones are dropped.",
	RunE: runEncode,
}

func init() {
	f := encodeCmd.Flags()
	f.StringVarP(&encodeFlags.file, "file", "f", "", "Record file, YAML or JSON (- for stdin)")
	f.StringVar(&encodeFlags.row, "row", "", "JSON object of column -> value to project")
}

func runEncode(cmd *cobra.Command, _ []string) error {
	defer func() { encodeFlags.file, encodeFlags.row = "", "" }()
	if (encodeFlags.file == "") == (encodeFlags.row == "") {
		return errors.New("exactly one of --file or --row is required")
	}

	if encodeFlags.row != "" {
		row, err := readRow(encodeFlags.row)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), encoder.Project(row, encoder.TrainedSchema()))
	}

	rec, err := readRecord(encodeFlags.file)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), encoder.Encode(rec))
}

func readRow(path string) (map[string]encoder.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read row: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse row %s: %w", path, err)
	}

	row := make(map[string]encoder.Value, len(raw))
	for col, v := range raw {
		switch x := v.(type) {
		case float64:
			row[col] = encoder.Num(x)
		case bool:
			if x {
				row[col] = encoder.Num(1)
			} else {
				row[col] = encoder.Num(0)
			}
		case string:
			row[col] = encoder.Text(x)
		default:
			return nil, fmt.Errorf("row column %s must be a number, bool or string", col)
		}
	}
	return row, nil
}
