package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/export"
	"github.com/joseph-ayodele/followups-tracker/internal/review"
)

func newManualCmd(root *rootOptions) *cobra.Command {
	var (
		entry review.ManualEntry
		out   outputFlags
	)
	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Record a follow-up task for a report that matched no standard task",
		Long: "Record a follow-up task by hand. Trades offered for manual entry: " +
			strings.Join(manualTrades(), ", "),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := root.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			session := review.NewSession()
			i, err := session.AddManual(entry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.PrintLine(session.Rows()[i].Record))
			return writeOutputs(ctx, cmd.OutOrStdout(), a, session, out)
		},
	}
	cmd.Flags().StringVar(&entry.ReportText, "report", "", "report text the task belongs to")
	cmd.Flags().StringVar(&entry.TaskName, "task", "", "task description")
	cmd.Flags().StringVar(&entry.Trade, "trade", string(constants.Sanitaer), "trade responsible for the task")
	cmd.Flags().IntVar(&entry.Headcount, "headcount", 1, "number of workers")
	cmd.Flags().Float64Var(&entry.Hours, "hours", 1, "estimated hours")
	out.register(cmd)
	return cmd
}

func manualTrades() []string {
	out := make([]string, len(constants.ManualEntryTrades))
	for i, t := range constants.ManualEntryTrades {
		out[i] = string(t)
	}
	return out
}
