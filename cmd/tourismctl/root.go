// cmd/tourismctl/root.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tourismctl",
	Short: "Encode customer records and predict package purchases",
	Long: "tourismctl runs the feature encoder and the purchase classifier from the\n" +
		"command line, or queues records for the scoring worker.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(enqueueCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
