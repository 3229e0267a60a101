package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/quality"
	"github.com/jmontp/LocoHub-sub002/report"
	"github.com/jmontp/LocoHub-sub002/spec"
	"github.com/jmontp/LocoHub-sub002/store"
)

var reportHistoryLimit int

var reportCmd = &cobra.Command{
	Use:   "report [dataset.parquet]",
	Short: "Produce a full validation report for a dataset",
	Long: `Validates a dataset, assesses its overall quality and renders a
report with summary, per-task tables, quality grades and the issue list.

Text output is rendered for the terminal; use --format markdown or json
for machine-readable forms. When a history database is configured,
recent runs for the dataset are included as a trend section.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportHistoryLimit, "history", 5, "Number of prior runs to include in the trend section")
}

func runReport(cmd *cobra.Command, args []string) error {
	v, err := newValidator(cmd)
	if err != nil {
		return err
	}
	defer v.Close()

	ds, err := dataset.ReadAll(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	start := time.Now()
	result, err := v.ValidateDataset(cmd.Context(), ds)
	if err != nil {
		return err
	}
	defer result.Release()

	recordHistory(cmd, result, start)

	manager := newSpecManager()
	specs := make(map[string]*spec.TaskSpec)
	for _, task := range ds.Tasks() {
		ts, err := manager.Load(task)
		if err != nil {
			continue
		}
		specs[task] = ts
	}

	assessor := quality.NewAssessor(lv.WithPointsPerCycle(cfg.PointsPerCycle))
	assessment, err := assessor.Assess(cmd.Context(), ds, specs)
	if err != nil {
		return fmt.Errorf("assessing dataset quality: %w", err)
	}

	r := report.New(result).WithAssessment(assessment)
	r.History = loadHistory(cmd, args[0])

	switch format {
	case "json":
		data, err := r.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

	case "markdown":
		fmt.Fprint(cmd.OutOrStdout(), r.Markdown())

	case "text":
		out, err := r.Terminal()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)

	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if !result.Valid {
		return fmt.Errorf("validation failed with %d errors", result.ErrorCount())
	}
	return nil
}

// loadHistory fetches prior runs for the trend section, newest first.
func loadHistory(cmd *cobra.Command, datasetPath string) []report.RunSummary {
	if cfg.HistoryDB == "" || reportHistoryLimit <= 0 {
		return nil
	}

	s, err := store.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("cannot open history database", zap.Error(err))
		return nil
	}
	defer s.Close()

	runs, err := s.RunsForDataset(cmd.Context(), datasetPath, reportHistoryLimit)
	if err != nil {
		logger.Warn("cannot load run history", zap.Error(err))
		return nil
	}

	summaries := make([]report.RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, report.RunSummary{
			StartedAt: run.StartedAt,
			Valid:     run.Valid,
			Strides:   run.Strides,
			Errors:    run.Errors,
			Warnings:  run.Warnings,
		})
	}
	return summaries
}
