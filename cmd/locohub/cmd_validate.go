package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/report"
	"github.com/jmontp/LocoHub-sub002/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dataset.parquet]...",
	Short: "Validate one or more phase-indexed datasets",
	Long: `Runs the full validation pipeline over each dataset: schema and
naming checks, per-stride phase structure, checkpoint range checks and
completeness analysis.

The command exits with status 1 if any dataset fails validation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	v, err := newValidator(cmd)
	if err != nil {
		return err
	}
	defer v.Close()

	failed := 0
	if len(args) == 1 {
		start := time.Now()
		result, err := v.Validate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer result.Release()

		recordHistory(cmd, result, start)
		if err := printResult(cmd, result); err != nil {
			return err
		}
		if !result.Valid {
			failed++
		}
	} else {
		start := time.Now()
		br := v.ValidateBatch(cmd.Context(), args)
		for _, jr := range br.Results {
			if jr.Error != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", jr.Path, jr.Error)
				continue
			}
			recordHistory(cmd, jr.Result, start)
			if err := printResult(cmd, jr.Result); err != nil {
				return err
			}
			if !jr.Result.Valid {
				failed++
			}
			jr.Result.Release()
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d datasets", failed, len(args))
	}
	return nil
}

// printResult renders a result in the selected output format.
func printResult(cmd *cobra.Command, result *lv.Result) error {
	r := report.New(result)

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
		status := "PASS"
		if !result.Valid {
			status = "FAIL"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  strides=%d errors=%d warnings=%d\n",
			status, result.Dataset, result.StridesChecked,
			result.ErrorCount(), result.WarningCount())
		for _, issue := range result.Issues {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue.String())
		}

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// recordHistory persists the run when a history database is configured.
func recordHistory(cmd *cobra.Command, result *lv.Result, start time.Time) {
	if cfg.HistoryDB == "" {
		return
	}

	s, err := store.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("cannot open history database", zap.Error(err))
		return
	}
	defer s.Close()

	if _, err := s.RecordResult(cmd.Context(), result, start, time.Since(start)); err != nil {
		logger.Warn("cannot record run history", zap.Error(err))
	}
}
