package accommodation

import (
	"github.com/shopspring/decimal"

	"tour-quote/core/rates"
	"tour-quote/core/types"
)

// RateChoice is the outcome of SelectRate
type RateChoice struct {
	DBL       decimal.Decimal
	HB        decimal.Decimal
	SGL       decimal.Decimal
	Season    string
	IsSpecial bool

	// Standard and Special are cached for later toggling
	Standard *types.RateSnapshot
	Special  *types.RateSnapshot

	// Found is false when neither a standard nor a special rate exists
	Found bool
}

// SelectRate resolves nightly rates for a lodging tuple.
//
// The agent's special rate wins when one exists for the exact tuple and
// useSpecial is set. Otherwise the standard rate for the exact tuple
// applies; failing that, any standard rate of the same hotel is adopted
// together with its season.
func SelectRate(repo *rates.Repository, city, stars, hotel, season, agentID string, useSpecial bool) RateChoice {
	choice := RateChoice{Season: season}
	if repo == nil || hotel == "" {
		return choice
	}

	for _, s := range repo.SpecialRatesFor(agentID) {
		if s.City == city && s.Stars == stars && s.Hotel == hotel && s.Season == season {
			snap := s.Snapshot()
			choice.Special = &snap
			break
		}
	}

	if std, ok := repo.StandardRate(city, stars, hotel, season); ok {
		snap := std.Snapshot()
		choice.Standard = &snap
	} else if std, ok := repo.AnyRate(city, stars, hotel); ok {
		snap := std.Snapshot()
		choice.Standard = &snap
	}

	active := choice.Standard
	if useSpecial && choice.Special != nil {
		active = choice.Special
		choice.IsSpecial = true
	}
	if active == nil {
		return choice
	}

	choice.Found = true
	choice.DBL = active.DBL
	choice.HB = active.HB
	choice.SGL = active.SGL
	choice.Season = active.Season
	return choice
}
