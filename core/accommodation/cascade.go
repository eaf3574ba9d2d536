package accommodation

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tour-quote/core/rates"
	"tour-quote/core/season"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

// Stage is where a selection sits in the auto-population pipeline:
// CityChanged → StarsChanged → SeasonResolved → HotelAutoSelected →
// RateApplied, with ManualOverride as a terminal state.
type Stage int

const (
	StageEmpty Stage = iota
	StageCity
	StageStars
	StageSeasonResolved
	StageHotelSelected
	StageRateApplied
	StageManualOverride
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageCity:
		return "city"
	case StageStars:
		return "stars"
	case StageSeasonResolved:
		return "season_resolved"
	case StageHotelSelected:
		return "hotel_selected"
	case StageRateApplied:
		return "rate_applied"
	case StageManualOverride:
		return "manual_override"
	default:
		return "unknown"
	}
}

// StageOf derives the pipeline stage of a selection from its fields
func StageOf(sel types.AccommodationSelection) Stage {
	switch {
	case sel.IsManualRate:
		return StageManualOverride
	case sel.City == "":
		return StageEmpty
	case sel.Stars == "":
		return StageCity
	case sel.Season == "":
		return StageStars
	case sel.Hotel == "":
		return StageSeasonResolved
	case sel.StandardRate == nil && sel.SpecialRate == nil:
		return StageHotelSelected
	default:
		return StageRateApplied
	}
}

// Env carries everything a transition may read
type Env struct {
	Repo            *rates.Repository
	Arrival         time.Time
	Departure       time.Time
	AgentID         string
	UseSpecialRates bool
}

// Event is a user edit of one accommodation line
type Event interface {
	apply(sel types.AccommodationSelection, env Env) types.AccommodationSelection
}

// CityChanged resets the line to a new city
type CityChanged struct{ City string }

// StarsChanged selects a star category and runs the rest of the pipeline
type StarsChanged struct{ Stars string }

// HotelChanged picks a hotel explicitly and re-applies its rate
type HotelChanged struct{ Hotel string }

// DatesChanged re-resolves the season for a new stay
type DatesChanged struct{ Arrival, Departure time.Time }

// ManualRateEdited overrides rate fields; nil fields keep their value
type ManualRateEdited struct{ DBL, HB, SGL *decimal.Decimal }

// SpecialRateToggled switches between the cached standard and special rate
type SpecialRateToggled struct{ On bool }

// NightsChanged edits the number of nights
type NightsChanged struct{ Nights int }

// BoardChanged edits the board basis
type BoardChanged struct{ Board types.Board }

// Apply runs one event through the pipeline. The input is never mutated.
func Apply(sel types.AccommodationSelection, ev Event, env Env) types.AccommodationSelection {
	out := ev.apply(sel.Clone(), env)
	return enforceWadiRum(out)
}

// Refresh re-runs season resolution and rate application for new stay
// dates. Manual overrides are left untouched.
func Refresh(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	return Apply(sel, DatesChanged{Arrival: env.Arrival, Departure: env.Departure}, env)
}

func (e CityChanged) apply(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	next := types.AccommodationSelection{
		City:   e.City,
		Nights: sel.Nights,
		Board:  sel.Board,
	}
	if next.Board == "" {
		next.Board = types.BoardBB
	}
	if env.Repo == nil {
		return next
	}
	if stars := allowedStars(env.Repo, e.City); len(stars) == 1 {
		return StarsChanged{Stars: stars[0]}.apply(next, env)
	}
	return next
}

func (e StarsChanged) apply(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	if sel.City == "" {
		return sel
	}
	if types.IsWadiRum(sel.City) && !slices.Contains(types.WadiRumStars, e.Stars) {
		logging.Debug("star category not allowed for Wadi Rum", zap.String("stars", e.Stars))
		return sel
	}
	sel.Stars = e.Stars
	sel.Hotel = ""
	clearRates(&sel)
	sel = resolveSeason(sel, env)
	sel = autoSelectHotel(sel, env)
	return applyRate(sel, env)
}

func (e HotelChanged) apply(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	if sel.City == "" || sel.Stars == "" {
		return sel
	}
	sel.Hotel = e.Hotel
	clearRates(&sel)
	sel = resolveSeason(sel, env)
	return applyRate(sel, env)
}

func (e DatesChanged) apply(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	if sel.IsManualRate || sel.City == "" || sel.Stars == "" {
		return sel
	}
	env.Arrival, env.Departure = e.Arrival, e.Departure
	sel = resolveSeason(sel, env)
	if sel.Hotel == "" {
		sel = autoSelectHotel(sel, env)
	}
	return applyRate(sel, env)
}

func (e ManualRateEdited) apply(sel types.AccommodationSelection, _ Env) types.AccommodationSelection {
	if e.DBL != nil {
		sel.DBL = *e.DBL
	}
	if e.HB != nil {
		sel.HB = *e.HB
	}
	if e.SGL != nil {
		sel.SGL = *e.SGL
	}
	sel.IsManualRate = true
	return sel
}

func (e SpecialRateToggled) apply(sel types.AccommodationSelection, _ Env) types.AccommodationSelection {
	sel.IsSpecialRate = e.On && sel.SpecialRate != nil
	if sel.IsManualRate {
		return sel
	}
	if snap := sel.ActiveSnapshot(); snap != nil {
		sel.DBL, sel.HB, sel.SGL, sel.Season = snap.DBL, snap.HB, snap.SGL, snap.Season
	}
	return sel
}

func (e NightsChanged) apply(sel types.AccommodationSelection, _ Env) types.AccommodationSelection {
	sel.Nights = max(e.Nights, 0)
	return sel
}

func (e BoardChanged) apply(sel types.AccommodationSelection, _ Env) types.AccommodationSelection {
	sel.Board = e.Board
	return sel
}

func allowedStars(repo *rates.Repository, city string) []string {
	stars := repo.StarsFor(city)
	if !types.IsWadiRum(city) {
		return stars
	}
	var out []string
	for _, s := range stars {
		if slices.Contains(types.WadiRumStars, s) {
			out = append(out, s)
		}
	}
	return out
}

func clearRates(sel *types.AccommodationSelection) {
	sel.Season = ""
	sel.DBL = decimal.Zero
	sel.HB = decimal.Zero
	sel.SGL = decimal.Zero
	sel.IsManualRate = false
	sel.IsSpecialRate = false
	sel.StandardRate = nil
	sel.SpecialRate = nil
}

func resolveSeason(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	res := season.Resolve(env.Repo, sel.City, sel.Stars, env.Arrival, env.Departure)
	sel.Season = res.Season
	return sel
}

// autoSelectHotel keeps a hotel still rated for (city, stars); otherwise
// it picks the first hotel rated for the resolved season, then the first
// hotel at all.
func autoSelectHotel(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	if env.Repo == nil {
		return sel
	}
	hotels := env.Repo.HotelsFor(sel.City, sel.Stars)
	if sel.Hotel != "" && slices.Contains(hotels, sel.Hotel) {
		return sel
	}
	sel.Hotel = ""
	for _, h := range hotels {
		if _, ok := env.Repo.StandardRate(sel.City, sel.Stars, h, sel.Season); ok {
			sel.Hotel = h
			return sel
		}
	}
	if len(hotels) > 0 {
		sel.Hotel = hotels[0]
	}
	return sel
}

func applyRate(sel types.AccommodationSelection, env Env) types.AccommodationSelection {
	if sel.IsManualRate || sel.Hotel == "" {
		return sel
	}
	choice := SelectRate(env.Repo, sel.City, sel.Stars, sel.Hotel, sel.Season, env.AgentID, env.UseSpecialRates)
	sel.StandardRate = choice.Standard
	sel.SpecialRate = choice.Special
	sel.IsSpecialRate = choice.IsSpecial
	if !choice.Found {
		logging.Warn("no rate for accommodation, leaving rates unresolved",
			logging.Hotel(sel.City, sel.Stars, sel.Hotel, sel.Season))
		sel.DBL, sel.HB, sel.SGL = decimal.Zero, decimal.Zero, decimal.Zero
		return sel
	}
	sel.DBL, sel.HB, sel.SGL = choice.DBL, choice.HB, choice.SGL
	sel.Season = choice.Season
	return sel
}

func enforceWadiRum(sel types.AccommodationSelection) types.AccommodationSelection {
	if !types.IsWadiRum(sel.City) {
		return sel
	}
	sel.Board = types.BoardHB
	if sel.Stars != "" && !slices.Contains(types.WadiRumStars, sel.Stars) {
		sel.Stars = ""
		sel.Hotel = ""
		clearRates(&sel)
	}
	return sel
}

// StayDates splits a tour into consecutive stays, one per option line,
// starting at arrival and advancing by each line's nights.
func StayDates(opt types.Option, arrival time.Time) [][2]time.Time {
	out := make([][2]time.Time, len(opt.Accommodations))
	cursor := rates.Truncate(arrival)
	for i, sel := range opt.Accommodations {
		nights := max(sel.Nights, 0)
		end := cursor.AddDate(0, 0, nights)
		out[i] = [2]time.Time{cursor, end}
		cursor = end
	}
	return out
}

// RefreshOption refreshes every non-manual line of an option against its
// own stay window.
func RefreshOption(opt types.Option, env Env) types.Option {
	out := opt.Clone()
	stays := StayDates(opt, env.Arrival)
	for i, sel := range out.Accommodations {
		lineEnv := env
		lineEnv.Arrival, lineEnv.Departure = stays[i][0], stays[i][1]
		out.Accommodations[i] = Refresh(sel, lineEnv)
	}
	return out
}
