// Package accommodation prices lodging options and drives the
// city → stars → season → hotel → rate auto-population of a selection.
package accommodation

import (
	"github.com/shopspring/decimal"

	"tour-quote/core/money"
	"tour-quote/core/types"
)

// CostPerPerson is the nightly per-person cost of a board basis.
// Supplements are clamped at zero so the result is never below DBL.
func CostPerPerson(board types.Board, dbl, hb, sgl decimal.Decimal) decimal.Decimal {
	dbl = money.NonNegative(dbl)
	hb = money.NonNegative(hb)
	sgl = money.NonNegative(sgl)

	switch board {
	case types.BoardHB:
		return dbl.Add(hb)
	case types.BoardSGLSupplement:
		return dbl.Add(sgl)
	case types.BoardSGLHB:
		return dbl.Add(sgl).Add(hb)
	default:
		return dbl
	}
}

// LineCost prices one lodging line for a group: cost × pax × nights
func LineCost(sel types.AccommodationSelection, pax int) types.AccommodationCost {
	perPerson := CostPerPerson(sel.Board, sel.DBL, sel.HB, sel.SGL)
	total := decimal.Zero
	if pax > 0 && sel.Nights > 0 {
		total = perPerson.Mul(money.Int(pax)).Mul(money.Int(sel.Nights))
	}
	return types.AccommodationCost{
		City:      sel.City,
		Hotel:     sel.Hotel,
		Season:    sel.Season,
		Board:     sel.Board,
		Nights:    sel.Nights,
		PerPerson: perPerson,
		Total:     total,
	}
}

// PriceOption returns the total lodging cost of an option for the whole
// group. A non-positive pax count prices to zero.
func PriceOption(opt types.Option, pax int) decimal.Decimal {
	total, _ := PriceOptionLines(opt, pax)
	return total
}

// PriceOptionLines is PriceOption with the per-line detail
func PriceOptionLines(opt types.Option, pax int) (decimal.Decimal, []types.AccommodationCost) {
	lines := make([]types.AccommodationCost, 0, len(opt.Accommodations))
	total := decimal.Zero
	for _, sel := range opt.Accommodations {
		line := LineCost(sel, pax)
		lines = append(lines, line)
		total = total.Add(line.Total)
	}
	if pax <= 0 {
		return decimal.Zero, lines
	}
	return total, lines
}
