// Package quote turns an itinerary, its accommodation options and a rate
// snapshot into the per-bracket price matrix.
package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tour-quote/core/accommodation"
	"tour-quote/core/daycost"
	"tour-quote/core/guide"
	"tour-quote/core/itinerary"
	"tour-quote/core/money"
	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/config"
	"tour-quote/internal/logging"
)

// Settings are the pricing knobs of one calculation pass
type Settings struct {
	JODToUSD             decimal.Decimal `json:"jod_to_usd" yaml:"jod_to_usd"`
	ProfitMargin         decimal.Decimal `json:"profit_margin" yaml:"profit_margin"`
	TransportDiscountPct decimal.Decimal `json:"transport_discount_pct" yaml:"transport_discount_pct"`
	IncludeWater         bool            `json:"include_water" yaml:"include_water"`
	GuideLanguage        string          `json:"guide_language" yaml:"guide_language"`
	AgentID              string          `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	UseSpecialRates      bool            `json:"use_special_rates" yaml:"use_special_rates"`
	PaxBrackets          []int           `json:"pax_brackets" yaml:"pax_brackets"`
}

// SettingsFrom copies the pricing section of the configuration
func SettingsFrom(cfg config.PricingConfig) Settings {
	return Settings{
		JODToUSD:             cfg.JODToUSD,
		ProfitMargin:         cfg.ProfitMargin,
		TransportDiscountPct: cfg.TransportDiscountPct,
		IncludeWater:         cfg.IncludeWater,
		GuideLanguage:        cfg.GuideLanguage,
		AgentID:              cfg.AgentID,
		UseSpecialRates:      cfg.UseSpecialRates,
		PaxBrackets:          append([]int(nil), cfg.PaxBrackets...),
	}
}

// DefaultSettings returns the settings of the default configuration
func DefaultSettings() Settings {
	return SettingsFrom(config.Default().Pricing)
}

func (s Settings) brackets() []types.PaxBracket {
	values := s.PaxBrackets
	if len(values) == 0 {
		values = config.DefaultPaxBrackets
	}
	return types.Brackets(values)
}

// MeetAssist is the per-person meet & assist fee
func MeetAssist(pax int) decimal.Decimal {
	if pax == 1 {
		return decimal.NewFromInt(10)
	}
	return decimal.NewFromInt(5)
}

// Tips is the per-person tips allowance
func Tips(pax int) decimal.Decimal {
	switch {
	case pax == 1:
		return decimal.NewFromInt(20)
	case pax >= 2 && pax <= 3:
		return decimal.NewFromInt(10)
	default:
		return decimal.NewFromInt(5)
	}
}

// Commission is the per-person bank commission; same tiers as Tips
func Commission(pax int) decimal.Decimal {
	return Tips(pax)
}

// Input is everything one calculation pass reads
type Input struct {
	Repo     *rates.Repository
	Days     []types.ItineraryDay
	Options  []types.Option
	Settings Settings
}

// Aggregate prices every bracket in ascending configured order
func Aggregate(in Input, diag *rates.Diagnostics) []types.CalculationResult {
	brackets := in.Settings.brackets()
	out := make([]types.CalculationResult, 0, len(brackets))
	for _, b := range brackets {
		out = append(out, PriceBracket(in, b, diag))
	}
	return out
}

// PriceBracket computes the breakdown and option prices of one bracket
func PriceBracket(in Input, bracket types.PaxBracket, diag *rates.Diagnostics) types.CalculationResult {
	pax := bracket.Pax
	s := in.Settings
	days := itinerary.Reprice(in.Repo, in.Days, pax, diag)

	day := daycost.Compute(in.Repo, days, pax, daycost.Settings{
		JODToUSD:             s.JODToUSD,
		TransportDiscountPct: s.TransportDiscountPct,
		IncludeWater:         s.IncludeWater,
	}, diag)
	guides := guide.Compute(in.Repo, days, pax, s.GuideLanguage, s.JODToUSD, diag)

	b := types.Breakdown{
		Transport:    day.Transport,
		Entrances:    day.Entrances,
		Jeep:         day.Jeep,
		LocalGuide:   money.PerPerson(guides.LocalUSD, pax),
		PrivateGuide: money.PerPerson(guides.PrivateUSD, pax),
		Meals:        day.Meals,
		Extras:       day.Extras,
		Water:        day.Water,
		MeetAssist:   MeetAssist(pax),
		Tips:         Tips(pax),
		Commission:   Commission(pax),
	}
	b.BaseCost = b.Total()

	result := types.CalculationResult{
		Bracket:   bracket,
		Breakdown: b,
		Options:   make([]types.OptionPrice, 0, len(in.Options)),
	}
	for i, opt := range in.Options {
		result.Options = append(result.Options, PriceOption(i, opt, pax, b.BaseCost, s.ProfitMargin, diag))
	}

	logging.Debug("bracket priced", logging.Pax(pax))
	return result
}

// PriceOption prices one accommodation option on top of a base cost
func PriceOption(index int, opt types.Option, pax int, base, margin decimal.Decimal, diag *rates.Diagnostics) types.OptionPrice {
	total, lines := accommodation.PriceOptionLines(opt, pax)
	for _, sel := range opt.Accommodations {
		if !types.IsBoard(sel.Board) {
			diag.Missing(rates.LookupBoard, string(sel.Board), rates.NoDay, "unknown board priced as B/B")
		}
		if sel.Hotel != "" && sel.DBL.IsZero() && !sel.IsManualRate {
			diag.Missing(rates.LookupHotel, sel.City+"/"+sel.Stars+"/"+sel.Hotel, rates.NoDay, "unresolved nightly rate")
		}
	}
	accPP := money.PerPerson(total, pax)
	pre := base.Add(accPP)
	return types.OptionPrice{
		Option:                 index,
		Name:                   optionName(index, opt),
		AccommodationPerPerson: accPP,
		PreProfit:              pre,
		FinalPrice:             money.Margin(pre, margin),
		Accommodations:         lines,
	}
}

func optionName(index int, opt types.Option) string {
	if opt.Name != "" {
		return opt.Name
	}
	return fmt.Sprintf("Option %d", index+1)
}

// OverrideLine edits one breakdown line. The base cost is re-summed and,
// when it changed, every option price is re-derived from it and loses its
// manual override.
func OverrideLine(res types.CalculationResult, line types.Line, value, margin decimal.Decimal) (types.CalculationResult, bool) {
	out := cloneResult(res)
	if !out.Breakdown.Set(line, value) {
		return res, false
	}
	if !containsLine(out.Overrides, line) {
		out.Overrides = append(out.Overrides, line)
	}
	base := out.Breakdown.Total()
	if base.Equal(out.Breakdown.BaseCost) {
		return out, true
	}
	out.Breakdown.BaseCost = base
	for i := range out.Options {
		o := &out.Options[i]
		o.PreProfit = base.Add(o.AccommodationPerPerson)
		o.FinalPrice = money.Margin(o.PreProfit, margin)
		o.Overridden = false
	}
	return out, true
}

// OverrideOptionPrice pins the final price of one option
func OverrideOptionPrice(res types.CalculationResult, option int, price decimal.Decimal) (types.CalculationResult, bool) {
	if option < 0 || option >= len(res.Options) {
		return res, false
	}
	out := cloneResult(res)
	out.Options[option].FinalPrice = price
	out.Options[option].Overridden = true
	return out, true
}

func containsLine(lines []types.Line, l types.Line) bool {
	for _, x := range lines {
		if x == l {
			return true
		}
	}
	return false
}

func cloneResult(res types.CalculationResult) types.CalculationResult {
	out := res
	out.Overrides = append([]types.Line(nil), res.Overrides...)
	out.Options = make([]types.OptionPrice, len(res.Options))
	for i, o := range res.Options {
		o.Accommodations = append([]types.AccommodationCost(nil), o.Accommodations...)
		out.Options[i] = o
	}
	return out
}
