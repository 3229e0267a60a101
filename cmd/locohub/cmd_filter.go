package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmontp/LocoHub-sub002/dataset"
)

var filterOutput string

var filterCmd = &cobra.Command{
	Use:   "filter [dataset.parquet]",
	Short: "Classify strides as valid or invalid and export the valid ones",
	Long: `Classifies every stride against its task's validation ranges and
phase structure. With --output, the strides that pass are written to a
new parquet file; strides of tasks without ranges are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "Write passing strides to this parquet file")
}

func runFilter(cmd *cobra.Command, args []string) error {
	v, err := newValidator(cmd)
	if err != nil {
		return err
	}
	defer v.Close()

	fr, err := v.FilterStrides(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(fr, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

	case "text", "markdown":
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d strides, %d passed, %d failed, %d without ranges (%.1f%% pass rate)\n",
			fr.Dataset, fr.Total, fr.Passed, fr.Failed, fr.Skipped, 100*fr.PassRate())
		for _, verdict := range fr.Verdicts {
			if verdict.Valid {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  FAIL %s/%s/%d: %v (%d violations)\n",
				verdict.Subject, verdict.Task, verdict.Step, verdict.FailingChecks, verdict.Violations)
		}

	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if filterOutput != "" {
		kept := fr.PassedStrides()
		if err := dataset.WriteAll(filterOutput, kept); err != nil {
			return fmt.Errorf("writing filtered dataset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d strides to %s\n", len(kept), filterOutput)
	}

	return nil
}
