// cmd/tourismctl/cmd_predict.go
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/unclebandit/tourism-predictor/internal/app"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/observability"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

var predictFlags struct {
	file string
	json bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Load the configured model and predict one record",
	RunE:  runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVarP(&predictFlags.file, "file", "f", "", "Record file, YAML or JSON (- for stdin)")
	f.BoolVar(&predictFlags.json, "json", false, "Print the full prediction as JSON")
	_ = predictCmd.MarkFlagRequired("file")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	rec, err := readRecord(predictFlags.file)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.InitLogger(cfg.Log)
	ctx := cmd.Context()

	gw, closeStore, err := app.LoadGateway(ctx, cfg, logger)
	defer closeStore()
	if err != nil {
		return err
	}

	svc := service.NewPredictionService(gw, nil, logger)
	p, err := svc.Predict(ctx, rec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if predictFlags.json {
		return printJSON(out, p)
	}
	logger.Debug("predicted", slog.String("model", p.ModelName), slog.String("version", p.ModelVersion))
	fmt.Fprintf(out, "%s (probability %.3f)\n", p.Label.Message(), p.Probability)
	return nil
}
