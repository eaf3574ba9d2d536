// Package season resolves the hotel rate season applicable to a stay.
package season

import (
	"time"

	"go.uber.org/zap"

	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

// Fallback season codes produced by the month heuristic.
const (
	Low      = "Low"
	Shoulder = "Shoulder"
	Mid      = "Mid"
	High     = "High"
	Regular  = "Regular"
)

// Source says how a season was determined
type Source string

const (
	SourceCalendar  Source = "calendar"
	SourceHeuristic Source = "heuristic"
)

// Resolution is the outcome of Resolve
type Resolution struct {
	Season string `json:"season"`
	Source Source `json:"source"`

	// Hotel is the calendar that matched, empty for the heuristic
	Hotel string `json:"hotel,omitempty"`

	// HasRates is false when no hotel rate exists for (city, stars);
	// rate fields are then left unresolved upstream
	HasRates bool `json:"has_rates"`
}

// Resolve determines the season for a stay. Every hotel rated for
// (city, stars) is scanned in repository order, then its seasons and
// ranges in calendar order; the first range overlapping the stay wins.
// Without a match the month heuristic of the arrival date applies.
func Resolve(repo *rates.Repository, city, stars string, arrival, departure time.Time) Resolution {
	arrival = rates.Truncate(arrival)
	departure = rates.Truncate(departure)
	if departure.Before(arrival) {
		departure = arrival
	}

	var hotels []string
	if repo != nil {
		hotels = repo.HotelsFor(city, stars)
	}

	for _, hotel := range hotels {
		for _, window := range repo.Calendar(hotel) {
			for _, r := range window.Ranges {
				if Overlaps(arrival, departure, r.Start.Time, r.End.Time) {
					return Resolution{
						Season:   window.Season,
						Source:   SourceCalendar,
						Hotel:    hotel,
						HasRates: true,
					}
				}
			}
		}
	}

	season := Heuristic(city, arrival)
	if len(hotels) == 0 {
		logging.Debug("no hotel rates for city/stars, using month heuristic",
			zap.String("city", city),
			zap.String("stars", stars),
			zap.String("season", season),
		)
	}
	return Resolution{Season: season, Source: SourceHeuristic, HasRates: len(hotels) > 0}
}

// Overlaps reports whether the stay [arrival, departure] touches the range
// [start, end]: either stay endpoint lies inside it, or the stay fully
// contains it. Bounds are inclusive calendar dates.
func Overlaps(arrival, departure, start, end time.Time) bool {
	start = rates.Truncate(start)
	end = rates.Truncate(end)
	within := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}
	if within(arrival) || within(departure) {
		return true
	}
	return !arrival.After(start) && !departure.Before(end)
}

// Heuristic maps a date onto a season when no calendar matches.
func Heuristic(city string, date time.Time) string {
	coastal := types.NormalizeKey(city) == types.NormalizeKey(types.CityAqaba) ||
		types.NormalizeKey(city) == types.NormalizeKey(types.CityDeadSea)

	switch date.Month() {
	case time.May, time.June, time.September, time.October:
		return Low
	case time.March, time.April, time.November:
		return shoulderOrMid(coastal)
	case time.January, time.February, time.July, time.August:
		return High
	case time.December:
		if date.Day() <= 15 {
			return shoulderOrMid(coastal)
		}
		return High
	}
	return Regular
}

func shoulderOrMid(coastal bool) string {
	if coastal {
		return Shoulder
	}
	return Mid
}
