// Package cmd - rate table commands
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tour-quote/adapters/ratefile"
	qerrors "tour-quote/internal/errors"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect rate tables",
	Long: `Rate table commands.

Rate tables are read from JSON, YAML or HCL. Malformed or negative amounts
are coerced to zero and duplicate rows are dropped; validate lists every
such coercion.`,
}

var ratesStrict bool

var ratesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rate file and list coercions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, issues, err := ratefile.LoadRepository(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d cities, %d jeep services\n", args[0], len(repo.Cities()), len(repo.JeepServices()))
		if len(issues) == 0 {
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		fmt.Fprintf(out, "%d issues:\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		if ratesStrict {
			return qerrors.Newf(qerrors.TypeRates, "%d rate table issues", len(issues))
		}
		return nil
	},
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cities and their star categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _, err := loadRates()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, city := range repo.Cities() {
			fmt.Fprintf(out, "%s\n", city)
			for _, stars := range repo.StarsFor(city) {
				fmt.Fprintf(out, "  %-8s %s\n", stars, strings.Join(repo.HotelsFor(city, stars), ", "))
			}
		}
		return nil
	},
}

func init() {
	ratesCmd.AddCommand(ratesValidateCmd)
	ratesCmd.AddCommand(ratesListCmd)
	ratesValidateCmd.Flags().BoolVar(&ratesStrict, "strict", false, "fail when any coercion was needed")
}
