package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/followups-tracker/internal/repository"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the stored task history",
	}

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print every history record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := root.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Processor.History(ctx)
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				return repository.WriteHistoryCSV(cmd.OutOrStdout(), records)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			default:
				return fmt.Errorf("unknown --format %q (csv, json)", format)
			}
		},
	}
	list.Flags().StringVar(&format, "format", "csv", "output format: csv or json")

	cmd.AddCommand(list)
	return cmd
}
