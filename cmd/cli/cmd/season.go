// Package cmd - season command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tour-quote/core/rates"
	"tour-quote/core/season"
	qerrors "tour-quote/internal/errors"
)

var (
	seasonCity      string
	seasonStars     string
	seasonArrival   string
	seasonDeparture string
)

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Resolve the hotel season of a stay",
	Long: `Resolve the rate season for a stay in a city and star category.

Hotel calendars are searched first; without a matching range the month
of the arrival date decides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arrival, err := rates.ParseDate(seasonArrival)
		if err != nil {
			return qerrors.Wrap(qerrors.TypeInput, "--arrival must be YYYY-MM-DD", err)
		}
		departure := arrival
		if seasonDeparture != "" {
			if departure, err = rates.ParseDate(seasonDeparture); err != nil {
				return qerrors.Wrap(qerrors.TypeInput, "--departure must be YYYY-MM-DD", err)
			}
		}

		repo, _, err := loadRates()
		if err != nil {
			return err
		}
		res := season.Resolve(repo, seasonCity, seasonStars, arrival.Time, departure.Time)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Season: %s (%s", res.Season, res.Source)
		if res.Hotel != "" {
			fmt.Fprintf(out, ", calendar of %s", res.Hotel)
		}
		fmt.Fprintln(out, ")")
		if !res.HasRates {
			fmt.Fprintf(out, "No hotel rates for %s %s\n", seasonCity, seasonStars)
		}
		return nil
	},
}

func init() {
	seasonCmd.Flags().StringVar(&seasonCity, "city", "", "city name [REQUIRED]")
	seasonCmd.Flags().StringVar(&seasonStars, "stars", "", "star category")
	seasonCmd.Flags().StringVar(&seasonArrival, "arrival", "", "arrival date, YYYY-MM-DD [REQUIRED]")
	seasonCmd.Flags().StringVar(&seasonDeparture, "departure", "", "departure date, YYYY-MM-DD (defaults to arrival)")
	_ = seasonCmd.MarkFlagRequired("city")
	_ = seasonCmd.MarkFlagRequired("arrival")
}
