// Package daycost computes the per-day cost lines of an itinerary:
// transport, entrances, jeep tours, meals, extras and water.
//
// Every function is pure. Missing rates price to zero and are reported
// on the optional Diagnostics; nothing here returns an error.
package daycost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tour-quote/core/money"
	"tour-quote/core/rates"
	"tour-quote/core/types"
)

// Vehicle classes keyed in the transport table.
const (
	VehicleCar     = "car"
	VehicleMinivan = "minivan"
	VehicleVan10   = "van10"
	VehicleSmall   = "small"
	VehicleMedium  = "medium"
	VehicleLarge   = "large"
)

var (
	// DriverAccommodationUSD is the flat cost of a driver overnight
	DriverAccommodationUSD = decimal.RequireFromString("21.16")

	// WaterPerDayUSD is the per-person bottled water allowance
	WaterPerDayUSD = decimal.RequireFromString("1.50")
)

// VehicleClass picks the vehicle for a group size
func VehicleClass(pax int) string {
	switch {
	case pax <= 3:
		return VehicleCar
	case pax <= 5:
		return VehicleMinivan
	case pax <= 9:
		return VehicleVan10
	case pax <= 14:
		return VehicleSmall
	case pax <= 24:
		return VehicleMedium
	default:
		return VehicleLarge
	}
}

// jeepTiers maps an inclusive pax ceiling to a jeep count
var jeepTiers = []struct{ max, jeeps int }{
	{7, 1}, {14, 2}, {19, 4}, {24, 5}, {29, 6}, {34, 7}, {39, 8}, {44, 9}, {49, 10},
}

// JeepCount is the number of jeeps needed for a group
func JeepCount(pax int) int {
	for _, t := range jeepTiers {
		if pax <= t.max {
			return t.jeeps
		}
	}
	return money.CeilDiv(pax, 6)
}

// Settings are the configuration inputs of the day engine
type Settings struct {
	JODToUSD             decimal.Decimal
	TransportDiscountPct decimal.Decimal
	IncludeWater         bool
}

// Transport returns the per-person transport cost
func Transport(repo *rates.Repository, days []types.ItineraryDay, pax int, discountPct decimal.Decimal, diag *rates.Diagnostics) decimal.Decimal {
	if pax <= 0 {
		return decimal.Zero
	}
	class := VehicleClass(pax)
	total := decimal.Zero
	for i, day := range days {
		if day.TransportType != types.TransportNone {
			rate, ok := lookupTransport(repo, string(day.TransportType), class)
			if !ok {
				diag.Missing(rates.LookupTransport, string(day.TransportType), i,
					fmt.Sprintf("no rate for vehicle class %s", class))
			}
			total = total.Add(rate)
		}
		if day.DriverAccommodation {
			total = total.Add(DriverAccommodationUSD)
		}
	}
	if discountPct.IsPositive() {
		total = money.Discount(total, discountPct)
	}
	return money.PerPerson(total, pax)
}

func lookupTransport(repo *rates.Repository, service, class string) (decimal.Decimal, bool) {
	if repo == nil {
		return decimal.Zero, false
	}
	return repo.TransportRate(service, class)
}

// Entrances returns the per-person sum of every selected entrance fee
func Entrances(repo *rates.Repository, days []types.ItineraryDay, diag *rates.Diagnostics) decimal.Decimal {
	total := decimal.Zero
	for i, day := range days {
		for _, code := range day.Entrances {
			var rate decimal.Decimal
			ok := false
			if repo != nil {
				rate, ok = repo.EntranceRate(code)
			}
			if !ok {
				diag.Missing(rates.LookupEntrance, code, i, "unknown entrance code")
				continue
			}
			total = total.Add(rate)
		}
	}
	return total
}

// Jeep returns the per-person cost of jeep tours. Service rates are flat
// JOD amounts per jeep.
func Jeep(repo *rates.Repository, days []types.ItineraryDay, pax int, jodToUSD decimal.Decimal, diag *rates.Diagnostics) decimal.Decimal {
	if pax <= 0 {
		return decimal.Zero
	}
	gross := decimal.Zero
	for i, day := range days {
		if !day.Jeep {
			continue
		}
		var rate decimal.Decimal
		ok := false
		if repo != nil && day.JeepService != "" {
			rate, ok = repo.JeepRate(day.JeepService)
		}
		if !ok {
			diag.Missing(rates.LookupJeep, day.JeepService, i, "jeep flagged without a priced service")
			continue
		}
		gross = gross.Add(rate)
	}
	if gross.IsZero() {
		return decimal.Zero
	}
	usd := money.FromJOD(gross.Mul(money.Int(JeepCount(pax))), jodToUSD)
	return money.PerPerson(usd, pax)
}

// Meals returns the per-person restaurant cost. A day with no meal type
// charges whichever restaurants are selected.
func Meals(days []types.ItineraryDay, diag *rates.Diagnostics) decimal.Decimal {
	total := decimal.Zero
	for i, day := range days {
		if !day.MealIncluded {
			continue
		}
		lunch := day.MealType == "" || day.MealType.IncludesLunch()
		dinner := day.MealType == "" || day.MealType.IncludesDinner()
		total = total.Add(mealPrice(day.Lunch, lunch, day.MealType != "", types.MealKindLunch, i, diag))
		total = total.Add(mealPrice(day.Dinner, dinner, day.MealType != "", types.MealKindDinner, i, diag))
	}
	return total
}

func mealPrice(choice *types.RestaurantChoice, wanted, explicit bool, kind types.MealKind, day int, diag *rates.Diagnostics) decimal.Decimal {
	if !wanted {
		return decimal.Zero
	}
	if choice == nil {
		if explicit {
			diag.Missing(rates.LookupRestaurant, string(kind), day, "meal included without a restaurant")
		}
		return decimal.Zero
	}
	return money.NonNegative(choice.USDPrice)
}

// Extras returns the per-person extras cost.
//
// Per-day sums are scaled by pax and the grand total divided by pax again,
// so the result equals the plain sum of per-day extras for any group size.
func Extras(repo *rates.Repository, days []types.ItineraryDay, pax int, diag *rates.Diagnostics) decimal.Decimal {
	if pax <= 0 {
		return decimal.Zero
	}
	group := decimal.Zero
	for i, day := range days {
		daySum := decimal.Zero
		for _, key := range day.Extras {
			var cost decimal.Decimal
			ok := false
			if repo != nil {
				cost, ok = repo.ExtraCost(key)
			}
			if !ok {
				diag.Missing(rates.LookupExtra, key, i, "unknown extra")
				continue
			}
			daySum = daySum.Add(cost)
		}
		group = group.Add(daySum.Mul(money.Int(pax)))
	}
	return money.PerPerson(group, pax)
}

// Water returns the per-person water allowance
func Water(days []types.ItineraryDay, enabled bool) decimal.Decimal {
	if !enabled {
		return decimal.Zero
	}
	return WaterPerDayUSD.Mul(money.Int(len(days)))
}

// Costs are the per-person day lines of one pax bracket
type Costs struct {
	Transport decimal.Decimal
	Entrances decimal.Decimal
	Jeep      decimal.Decimal
	Meals     decimal.Decimal
	Extras    decimal.Decimal
	Water     decimal.Decimal
}

// Compute runs every day line for one group size
func Compute(repo *rates.Repository, days []types.ItineraryDay, pax int, s Settings, diag *rates.Diagnostics) Costs {
	return Costs{
		Transport: Transport(repo, days, pax, s.TransportDiscountPct, diag),
		Entrances: Entrances(repo, days, diag),
		Jeep:      Jeep(repo, days, pax, s.JODToUSD, diag),
		Meals:     Meals(days, diag),
		Extras:    Extras(repo, days, pax, diag),
		Water:     Water(days, s.IncludeWater),
	}
}
