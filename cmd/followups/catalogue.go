package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/followups-tracker/internal/classify"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/utils"
)

func newCatalogueCmd(_ *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Print the standard-task catalogue in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := classify.LoadCatalogue(common.LoadConfig().Catalogue.Path)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cat.Rules())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ARBEIT\tGEWERK\tPERSONEN\tSTUNDEN\tMUSTER")
			for _, r := range cat.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Name, r.Trade, r.DefaultHeadcount, utils.FormatDecimal(r.DefaultHours), r.MatchPattern)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalogue as JSON")
	return cmd
}
