// Package cmd - collapse command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tour-quote/adapters/quotefile"
	"tour-quote/core/collapse"
	"tour-quote/core/itinerary"
	"tour-quote/core/types"
)

var collapseJSON bool

var collapseCmd = &cobra.Command{
	Use:   "collapse <quotation-file>",
	Short: "Print the itinerary with free days merged",
	Long: `Print the display itinerary of a quotation file. Runs of consecutive
free days with no cost content become one "Day X - Y" row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := quotefile.Load(args[0])
		if err != nil {
			return err
		}
		days := make([]types.ItineraryDay, len(f.Days))
		for i, d := range f.Days {
			days[i] = d.ItineraryDay
		}
		display := collapse.Collapse(itinerary.ApplyReplication(days))

		out := cmd.OutOrStdout()
		if collapseJSON {
			return writeJSON(out, display)
		}
		for _, d := range display {
			fmt.Fprintf(out, "%-12s %s\n", d.Label, d.Description)
		}
		return nil
	},
}

func init() {
	collapseCmd.Flags().BoolVar(&collapseJSON, "json", false, "print JSON instead of text")
}
