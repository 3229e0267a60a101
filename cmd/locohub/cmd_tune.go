package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmontp/LocoHub-sub002/benchmark"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

var (
	tuneTask   string
	tuneMargin float64
	tuneSave   bool
)

var tuneCmd = &cobra.Command{
	Use:   "tune [dataset.parquet]",
	Short: "Derive draft validation ranges from a trusted dataset",
	Long: `Computes per-variable percentile ranges at each checkpoint phase
of a dataset known to contain good strides, widened by a margin. The
drafts are printed as Markdown spec documents; with --save they are
written to the spec directory for hand tuning.`,
	Args: cobra.ExactArgs(1),
	RunE: runTune,
}

func init() {
	tuneCmd.Flags().StringVar(&tuneTask, "task", "", "Derive ranges for a single task only")
	tuneCmd.Flags().Float64Var(&tuneMargin, "margin", benchmark.DefaultMargin, "Fraction of the percentile span added on each side")
	tuneCmd.Flags().BoolVar(&tuneSave, "save", false, "Write the drafts to the spec directory")
}

func runTune(cmd *cobra.Command, args []string) error {
	if tuneSave && cfg.SpecDir == "" {
		return fmt.Errorf("--save requires a spec directory (--spec-dir or config)")
	}

	ds, err := dataset.ReadAll(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	creator := benchmark.NewCreator(
		benchmark.WithMargin(tuneMargin),
		benchmark.WithPointsPerCycle(cfg.PointsPerCycle),
	)

	var drafts []*spec.TaskSpec
	if tuneTask != "" {
		ts, err := creator.DeriveTask(cmd.Context(), ds, tuneTask)
		if err != nil {
			return err
		}
		drafts = append(drafts, ts)
	} else {
		drafts, err = creator.Derive(cmd.Context(), ds)
		if err != nil {
			return err
		}
	}

	if len(drafts) == 0 {
		return fmt.Errorf("no ranges could be derived from %s", args[0])
	}

	manager := newSpecManager()
	for _, ts := range drafts {
		if tuneSave {
			if err := manager.Save(ts); err != nil {
				return fmt.Errorf("saving draft for %s: %w", ts.Task, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved draft ranges for %s (%d checkpoints, %d variables)\n",
				ts.Task, len(ts.Phases()), len(ts.Variables()))
			continue
		}

		doc, err := spec.RenderMarkdown(ts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(doc))
	}

	return nil
}
