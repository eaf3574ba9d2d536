// Package itinerary builds and edits the day list of a quotation.
// Edits return new values; inputs are never mutated.
package itinerary

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tour-quote/core/money"
	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

// MaxDays bounds generated itineraries
const MaxDays = 366

// Generate creates one default day per calendar date, both ends included.
// A departure before arrival yields a single day.
func Generate(arrival, departure time.Time) []types.ItineraryDay {
	arrival = rates.Truncate(arrival)
	departure = rates.Truncate(departure)
	if departure.Before(arrival) {
		departure = arrival
	}
	var days []types.ItineraryDay
	for d := arrival; !d.After(departure) && len(days) < MaxDays; d = d.AddDate(0, 0, 1) {
		days = append(days, NewDay(d))
	}
	return days
}

// NewDay returns an empty day for a date
func NewDay(date time.Time) types.ItineraryDay {
	date = rates.Truncate(date)
	return types.ItineraryDay{Date: date, Weekday: date.Weekday().String()}
}

// Regenerate rebuilds the day list for new dates, keeping the content of
// every day whose date is still in range.
func Regenerate(days []types.ItineraryDay, arrival, departure time.Time) []types.ItineraryDay {
	byDate := make(map[time.Time]types.ItineraryDay, len(days))
	for _, d := range days {
		key := rates.Truncate(d.Date)
		if _, dup := byDate[key]; !dup {
			byDate[key] = d
		}
	}

	fresh := Generate(arrival, departure)
	kept := 0
	for i, d := range fresh {
		if old, ok := byDate[d.Date]; ok {
			c := old.Clone()
			c.Date, c.Weekday = d.Date, d.Weekday
			c.ReplicateTo = nil
			fresh[i] = c
			kept++
		}
	}
	logging.Debug("itinerary regenerated",
		zap.Int("days", len(fresh)),
		zap.Int("kept", kept),
		zap.Int("dropped", len(days)-kept),
	)
	return fresh
}

// AddEntrance adds an entrance code unless already present
func AddEntrance(day types.ItineraryDay, code string) types.ItineraryDay {
	out := day.Clone()
	out.Entrances = addKey(out.Entrances, code)
	return out
}

// RemoveEntrance removes an entrance code
func RemoveEntrance(day types.ItineraryDay, code string) types.ItineraryDay {
	out := day.Clone()
	out.Entrances = removeKey(out.Entrances, code)
	return out
}

// AddExtra adds a catalog extra unless already present
func AddExtra(day types.ItineraryDay, key string) types.ItineraryDay {
	out := day.Clone()
	out.Extras = addKey(out.Extras, key)
	return out
}

// RemoveExtra removes a catalog extra
func RemoveExtra(day types.ItineraryDay, key string) types.ItineraryDay {
	out := day.Clone()
	out.Extras = removeKey(out.Extras, key)
	return out
}

func addKey(keys []string, key string) []string {
	key = strings.TrimSpace(key)
	if key == "" || slices.Contains(keys, key) {
		return keys
	}
	return append(keys, key)
}

func removeKey(keys []string, key string) []string {
	key = strings.TrimSpace(key)
	return slices.DeleteFunc(keys, func(k string) bool { return k == key })
}

// Dedupe enforces set semantics on entrances and extras, keeping the
// first occurrence of every key.
func Dedupe(day types.ItineraryDay) types.ItineraryDay {
	out := day.Clone()
	out.Entrances = dedupe(out.Entrances)
	out.Extras = dedupe(out.Extras)
	return out
}

func dedupe(keys []string) []string {
	var out []string
	for _, k := range keys {
		out = addKey(out, k)
	}
	return out
}

// ResolveRestaurant picks the menu item that prices a meal for pax:
// the first item whose pax range fits, else the first unbounded one.
func ResolveRestaurant(items []rates.Restaurant, pax int) (rates.Restaurant, bool) {
	for _, item := range items {
		if item.Bounded() && item.Fits(pax) {
			return item, true
		}
	}
	for _, item := range items {
		if !item.Bounded() {
			return item, true
		}
	}
	return rates.Restaurant{}, false
}

// SelectRestaurant sets a day's lunch or dinner from a restaurant's menu
// items. Without a matching item the choice is kept with a zero price and
// reported as unresolved.
func SelectRestaurant(day types.ItineraryDay, kind types.MealKind, region, restaurant string, items []rates.Restaurant, pax int) (types.ItineraryDay, bool) {
	out := day.Clone()
	choice := &types.RestaurantChoice{Region: region, Restaurant: restaurant}
	item, ok := ResolveRestaurant(items, pax)
	if ok {
		choice.Region = item.Region
		choice.PriceValue = item.PriceValue
		choice.PriceCurrency = item.PriceCurrency
		choice.USDPrice = money.NonNegative(item.USDPrice)
	} else {
		logging.Warn("no menu item for restaurant",
			zap.String("restaurant", restaurant),
			zap.String("kind", string(kind)),
			logging.Pax(pax),
		)
	}
	switch kind {
	case types.MealKindDinner:
		out.Dinner = choice
	default:
		out.Lunch = choice
	}
	out.MealIncluded = true
	return out, ok
}

// Reprice re-resolves every selected restaurant for a group size. Prices
// carried on the input are discarded; a restaurant without a menu item for
// pax is priced at zero and reported.
func Reprice(repo *rates.Repository, days []types.ItineraryDay, pax int, diag *rates.Diagnostics) []types.ItineraryDay {
	out := types.CloneDays(days)
	if repo == nil {
		repo = rates.Empty()
	}
	for i := range out {
		for _, kind := range []types.MealKind{types.MealKindLunch, types.MealKindDinner} {
			choice := out[i].Lunch
			if kind == types.MealKindDinner {
				choice = out[i].Dinner
			}
			if choice == nil || choice.Restaurant == "" {
				continue
			}
			items := repo.RestaurantItems(choice.Region, choice.Restaurant, kind)
			item, ok := ResolveRestaurant(items, pax)
			if !ok {
				diag.Missing(rates.LookupRestaurant, choice.Restaurant, i, fmt.Sprintf("no %s menu for %d pax", kind, pax))
				choice.PriceValue, choice.PriceCurrency, choice.USDPrice = decimal.Zero, "", decimal.Zero
				continue
			}
			choice.PriceValue = item.PriceValue
			choice.PriceCurrency = item.PriceCurrency
			choice.USDPrice = money.NonNegative(item.USDPrice)
		}
	}
	return out
}

// ApplyReplication copies every flagged day onto its listed later days,
// keeping the target's date. Earlier or out-of-range targets are ignored.
func ApplyReplication(days []types.ItineraryDay) []types.ItineraryDay {
	out := types.CloneDays(days)
	for src, day := range days {
		for _, dst := range day.ReplicateTo {
			if dst <= src || dst >= len(out) {
				logging.Debug("replication target ignored", logging.Day(src), zap.Int("target", dst))
				continue
			}
			c := day.Clone()
			c.Date, c.Weekday = out[dst].Date, out[dst].Weekday
			c.ReplicateTo = nil
			out[dst] = c
		}
	}
	return out
}

// Issue is a structural problem of an itinerary
type Issue struct {
	Day     int    `json:"day"`
	Message string `json:"message"`
}

// String renders the issue
func (i Issue) String() string {
	if i.Day == rates.NoDay {
		return i.Message
	}
	return fmt.Sprintf("day %d: %s", i.Day+1, i.Message)
}

// Validate reports structural issues. They never block pricing.
func Validate(days []types.ItineraryDay) []Issue {
	if len(days) == 0 {
		return []Issue{{Day: rates.NoDay, Message: "itinerary is empty"}}
	}
	var issues []Issue
	for i, d := range days {
		if d.Date.IsZero() {
			issues = append(issues, Issue{Day: i, Message: "missing date"})
		} else if i > 0 && !days[i-1].Date.IsZero() && !rates.Truncate(d.Date).After(rates.Truncate(days[i-1].Date)) {
			issues = append(issues, Issue{Day: i, Message: "date not after previous day"})
		}
		if d.Jeep && d.JeepService == "" {
			issues = append(issues, Issue{Day: i, Message: "jeep selected without a service"})
		}
		if d.MealIncluded && d.Lunch == nil && d.Dinner == nil {
			issues = append(issues, Issue{Day: i, Message: "meal included without a restaurant"})
		}
		for _, dst := range d.ReplicateTo {
			if dst <= i || dst >= len(days) {
				issues = append(issues, Issue{Day: i, Message: fmt.Sprintf("invalid replication target %d", dst+1)})
			}
		}
	}
	return issues
}
