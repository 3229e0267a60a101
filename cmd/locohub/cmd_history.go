package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmontp/LocoHub-sub002/store"
)

var (
	historyDataset string
	historyLimit   int
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded validation runs",
	Long: `Lists validation runs recorded in the history database, newest
first. Requires history_db in the configuration or LOCOHUB_HISTORY_DB.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDataset, "dataset", "", "Only show runs for this dataset")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete runs older than this duration before listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryDB == "" {
		return fmt.Errorf("no history database configured (set history_db or LOCOHUB_HISTORY_DB)")
	}

	s, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer s.Close()

	if historyPrune > 0 {
		pruned, err := s.PruneBefore(cmd.Context(), time.Now().Add(-historyPrune))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs\n", pruned)
	}

	var runs []store.Run
	if historyDataset != "" {
		runs, err = s.RunsForDataset(cmd.Context(), historyDataset, historyLimit)
	} else {
		runs, err = s.Runs(cmd.Context(), historyLimit)
	}
	if err != nil {
		return err
	}

	if format == "json" {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil
	}

	for _, run := range runs {
		status := "PASS"
		if !run.Valid {
			status = "FAIL"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  strides=%d errors=%d warnings=%d (%s)\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), status, run.Dataset,
			run.Strides, run.Errors, run.Warnings, run.Duration)
	}
	return nil
}
