// cmd/tourismctl/cmd_enqueue.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/tourism-predictor/internal/app"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/observability"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

var enqueueFlags struct {
	file string
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Queue a record for the scoring worker",
	RunE:  runEnqueue,
}

func init() {
	enqueueCmd.Flags().StringVarP(&enqueueFlags.file, "file", "f", "", "Record file, YAML or JSON (- for stdin)")
	_ = enqueueCmd.MarkFlagRequired("file")
}

func runEnqueue(cmd *cobra.Command, _ []string) error {
	rec, err := readRecord(enqueueFlags.file)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.InitLogger(cfg.Log)

	q, err := app.OpenQueue(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Queue.Driver, err)
	}
	defer q.Close()

	job := service.NewScoringJob(rec)
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.Publish(cmd.Context(), cfg.Queue.RequestTopic, payload); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued %s on %s\n", job.ID, cfg.Queue.RequestTopic)
	return nil
}
