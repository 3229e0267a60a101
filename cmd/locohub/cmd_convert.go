package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmontp/LocoHub-sub002/dataset"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a dataset between CSV and parquet",
	Long: `Converts a phase-indexed dataset between CSV and parquet forms.
The direction is inferred from the file extensions:

  locohub convert gait.csv gait.parquet
  locohub convert gait.parquet gait.csv

The CSV must carry the subject, task, step and phase_percent columns;
empty, NA and NaN cells become non-finite samples.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	switch {
	case strings.HasSuffix(in, ".csv") && strings.HasSuffix(out, ".parquet"):
		strides, err := dataset.ConvertCSV(cmd.Context(), in, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d strides from %s to %s\n", strides, in, out)

	case strings.HasSuffix(in, ".parquet") && strings.HasSuffix(out, ".csv"):
		if err := dataset.ExportCSV(cmd.Context(), in, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", in, out)

	default:
		return fmt.Errorf("cannot infer conversion direction from %q and %q (use .csv and .parquet extensions)", in, out)
	}

	return nil
}
