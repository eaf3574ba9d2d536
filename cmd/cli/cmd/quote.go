// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tour-quote/adapters/quotefile"
	"tour-quote/core/output"
	"tour-quote/core/quote"
	"tour-quote/internal/config"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

var (
	outputFormat  string
	marginFlag    string
	agentFlag     string
	showDetails   bool
	showItinerary bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote <quotation-file>",
	Short: "Price a tour",
	Long: `Price the tour described by a JSON or YAML quotation file.

The file holds the arrival and departure dates, the day-by-day itinerary,
the accommodation options, optional setting overrides and manual edits.

Examples:
  tour-quote quote tour.yaml
  tour-quote quote --format json tour.yaml
  tour-quote quote --margin 0.15 --agent A1 tour.json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown); defaults to the config")
	quoteCmd.Flags().StringVar(&marginFlag, "margin", "", "profit margin as a fraction, e.g. 0.15")
	quoteCmd.Flags().StringVar(&agentFlag, "agent", "", "agent ID for special hotel rates")
	quoteCmd.Flags().BoolVarP(&showDetails, "details", "d", true, "show the per-bracket cost breakdown")
	quoteCmd.Flags().BoolVar(&showItinerary, "itinerary", true, "show the collapsed itinerary")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	repo, issues, err := loadRates()
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		logging.Info("rate tables coerced", zap.Int("issues", len(issues)))
	}

	f, err := quotefile.Load(args[0])
	if err != nil {
		return err
	}
	if err := applyFlags(&f.Settings); err != nil {
		return err
	}
	session, err := f.Session(repo, quote.SettingsFrom(cfg.Pricing))
	if err != nil {
		return err
	}
	q := session.Calculate()

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	details := showDetails
	if !cmd.Flags().Changed("details") {
		details = cfg.Output.ShowDetails
	}
	return output.Render(cmd.OutOrStdout(), output.Format(format), &q, output.Options{
		ShowDetails:   details,
		ShowItinerary: showItinerary,
	})
}

// applyFlags writes --margin and --agent into the file's settings so they
// take precedence over both the file and the configuration.
func applyFlags(patch *quotefile.SettingsPatch) error {
	if marginFlag != "" {
		m, err := decimal.NewFromString(marginFlag)
		if err != nil {
			return qerrors.Inputf("--margin %q is not a number", marginFlag)
		}
		if m.IsNegative() {
			return qerrors.Inputf("--margin must not be negative, got %s", m)
		}
		patch.ProfitMargin = &m
	}
	if agentFlag != "" {
		agent := agentFlag
		patch.AgentID = &agent
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
