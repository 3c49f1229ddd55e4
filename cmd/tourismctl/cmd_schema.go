// cmd/tourismctl/cmd_schema.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/tourism-predictor/internal/encoder"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

var schemaFlags struct {
	json bool
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the trained feature columns in order",
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaFlags.json, "json", false, "Print columns, bounds and vocabularies as JSON")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if schemaFlags.json {
		vocab := map[string][]string{}
		for _, f := range model.Vocabulary() {
			vocab[f.Column] = f.Values
		}
		return printJSON(out, map[string]any{
			"columns":    encoder.TrainedSchema().Columns(),
			"numeric":    model.NumericBounds(),
			"vocabulary": vocab,
		})
	}
	for i, c := range encoder.TrainedSchema().Columns() {
		fmt.Fprintf(out, "%2d  %s\n", i, c)
	}
	return nil
}
