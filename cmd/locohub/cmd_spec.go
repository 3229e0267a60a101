package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jmontp/LocoHub-sub002/spec"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Inspect validation range specifications",
}

var specListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with validation ranges",
	RunE:  runSpecList,
}

var specShowCmd = &cobra.Command{
	Use:   "show [task]",
	Short: "Show the validation ranges for a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpecShow,
}

func init() {
	specCmd.AddCommand(specListCmd)
	specCmd.AddCommand(specShowCmd)
}

func runSpecList(cmd *cobra.Command, args []string) error {
	manager := newSpecManager()

	tasks, err := manager.Tasks()
	if err != nil {
		return err
	}

	for _, task := range tasks {
		ts, err := manager.Load(task)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (unreadable: %v)\n", task, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  checkpoints=%d variables=%d\n",
			task, len(ts.Phases()), len(ts.Variables()))
	}
	return nil
}

func runSpecShow(cmd *cobra.Command, args []string) error {
	manager := newSpecManager()

	ts, err := manager.Load(args[0])
	if err != nil {
		return err
	}

	doc, err := spec.RenderMarkdown(ts)
	if err != nil {
		return err
	}

	if format != "text" {
		fmt.Fprint(cmd.OutOrStdout(), string(doc))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(string(doc))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
