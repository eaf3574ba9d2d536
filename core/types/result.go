package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaxBracket is a representative group size with its display label.
// Every tiered rule keys off Pax, never off the label's range.
type PaxBracket struct {
	Pax   int    `json:"pax"`
	Label string `json:"label"`
}

// Brackets labels ascending representative values. Each bracket spans up
// to the next value minus one; the last one is open ended.
func Brackets(values []int) []PaxBracket {
	out := make([]PaxBracket, 0, len(values))
	for i, v := range values {
		label := fmt.Sprintf("%d+ pax", v)
		if i+1 < len(values) {
			upper := values[i+1] - 1
			if upper <= v {
				label = fmt.Sprintf("%d pax", v)
			} else {
				label = fmt.Sprintf("%d-%d pax", v, upper)
			}
		}
		out = append(out, PaxBracket{Pax: v, Label: label})
	}
	return out
}

// Line names one editable row of a cost breakdown
type Line string

const (
	LineTransport    Line = "transport"
	LineEntrances    Line = "entrances"
	LineJeep         Line = "jeep"
	LineLocalGuide   Line = "local_guide"
	LinePrivateGuide Line = "private_guide"
	LineMeals        Line = "meals"
	LineExtras       Line = "extras"
	LineWater        Line = "water"
	LineMeetAssist   Line = "meet_assist"
	LineTips         Line = "tips"
	LineCommission   Line = "commission"
)

// Lines lists the breakdown rows in display order.
var Lines = []Line{
	LineTransport, LineEntrances, LineJeep, LineLocalGuide, LinePrivateGuide,
	LineMeals, LineExtras, LineWater, LineMeetAssist, LineTips, LineCommission,
}

// IsLine reports whether l names a breakdown row
func IsLine(l Line) bool {
	for _, known := range Lines {
		if known == l {
			return true
		}
	}
	return false
}

// Breakdown is the per-person cost of one pax bracket, excluding lodging
type Breakdown struct {
	Transport    decimal.Decimal `json:"transport"`
	Entrances    decimal.Decimal `json:"entrances"`
	Jeep         decimal.Decimal `json:"jeep"`
	LocalGuide   decimal.Decimal `json:"local_guide"`
	PrivateGuide decimal.Decimal `json:"private_guide"`
	Meals        decimal.Decimal `json:"meals"`
	Extras       decimal.Decimal `json:"extras"`
	Water        decimal.Decimal `json:"water"`
	MeetAssist   decimal.Decimal `json:"meet_assist"`
	Tips         decimal.Decimal `json:"tips"`
	Commission   decimal.Decimal `json:"commission"`

	// BaseCost is always the sum of the lines above
	BaseCost decimal.Decimal `json:"base_cost"`
}

// Get returns the value of a line; unknown lines read as zero.
func (b Breakdown) Get(line Line) decimal.Decimal {
	if p := b.field(line); p != nil {
		return *p
	}
	return decimal.Zero
}

// Set assigns a line and reports whether the line exists.
// BaseCost is NOT recomputed; callers use Total.
func (b *Breakdown) Set(line Line, v decimal.Decimal) bool {
	p := b.field(line)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// Total sums every line in display order
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range Lines {
		total = total.Add(b.Get(l))
	}
	return total
}

func (b *Breakdown) field(line Line) *decimal.Decimal {
	switch line {
	case LineTransport:
		return &b.Transport
	case LineEntrances:
		return &b.Entrances
	case LineJeep:
		return &b.Jeep
	case LineLocalGuide:
		return &b.LocalGuide
	case LinePrivateGuide:
		return &b.PrivateGuide
	case LineMeals:
		return &b.Meals
	case LineExtras:
		return &b.Extras
	case LineWater:
		return &b.Water
	case LineMeetAssist:
		return &b.MeetAssist
	case LineTips:
		return &b.Tips
	case LineCommission:
		return &b.Commission
	}
	return nil
}

// AccommodationCost is one priced lodging line inside an option price
type AccommodationCost struct {
	City      string          `json:"city"`
	Hotel     string          `json:"hotel"`
	Season    string          `json:"season"`
	Board     Board           `json:"board"`
	Nights    int             `json:"nights"`
	PerPerson decimal.Decimal `json:"per_person_nightly"`
	Total     decimal.Decimal `json:"total"`
}

// OptionPrice is the final per-person price of one option in one bracket
type OptionPrice struct {
	Option                 int                 `json:"option"`
	Name                   string              `json:"name"`
	AccommodationPerPerson decimal.Decimal     `json:"accommodation_per_person"`
	PreProfit              decimal.Decimal     `json:"pre_profit"`
	FinalPrice             decimal.Decimal     `json:"final_price"`
	Accommodations         []AccommodationCost `json:"accommodations"`

	// Overridden marks a manually edited FinalPrice
	Overridden bool `json:"overridden,omitempty"`
}

// CalculationResult is the complete quotation for one pax bracket
type CalculationResult struct {
	Bracket   PaxBracket    `json:"bracket"`
	Breakdown Breakdown     `json:"breakdown"`
	Options   []OptionPrice `json:"options"`

	// Overrides lists the breakdown lines edited by hand
	Overrides []Line `json:"overrides,omitempty"`
}
