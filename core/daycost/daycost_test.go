package daycost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	m.Run()
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(d(want)), "want %s, got %s", want, got)
}

func testRepo() *rates.Repository {
	repo, _ := rates.NewRepository(rates.Tables{
		Transport: map[string]map[string]rates.Amount{
			"Full Day": {"car": rates.AmountOf("100"), "minivan": rates.AmountOf("120"), "van10": rates.AmountOf("150")},
			"Transfer": {"car": rates.AmountOf("40")},
		},
		Entrances: map[string]rates.Amount{
			"Petra 1 Day":     rates.AmountOf("70"),
			"Jerash":          rates.AmountOf("10"),
			"Wadi Rum Jeep 2h": rates.AmountOf("35"),
		},
		Extras: map[string]rates.Amount{
			"Camel Ride":   rates.AmountOf("25"),
			"Turkish Bath": rates.AmountOf("15"),
		},
	})
	return repo
}

func TestVehicleClassBoundaries(t *testing.T) {
	tests := []struct {
		pax  int
		want string
	}{
		{1, VehicleCar}, {3, VehicleCar},
		{4, VehicleMinivan}, {5, VehicleMinivan},
		{6, VehicleVan10}, {9, VehicleVan10},
		{10, VehicleSmall}, {14, VehicleSmall},
		{15, VehicleMedium}, {24, VehicleMedium},
		{25, VehicleLarge}, {45, VehicleLarge},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, VehicleClass(tt.pax), "pax %d", tt.pax)
	}
}

func TestJeepCountBoundaries(t *testing.T) {
	tests := []struct{ pax, want int }{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 4}, {19, 4}, {20, 5}, {24, 5},
		{25, 6}, {29, 6}, {30, 7}, {34, 7}, {35, 8}, {39, 8}, {40, 9}, {44, 9},
		{45, 10}, {49, 10}, {50, 9}, {60, 10}, {61, 11},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, JeepCount(tt.pax), "pax %d", tt.pax)
	}
}

func TestVehicleClassMonotonic(t *testing.T) {
	order := map[string]int{VehicleCar: 0, VehicleMinivan: 1, VehicleVan10: 2, VehicleSmall: 3, VehicleMedium: 4, VehicleLarge: 5}
	for p := 1; p < 60; p++ {
		require.LessOrEqual(t, order[VehicleClass(p)], order[VehicleClass(p+1)], "pax %d", p)
	}
}

func TestTransport(t *testing.T) {
	repo := testRepo()
	days := []types.ItineraryDay{
		{TransportType: types.TransportFullDay},
		{TransportType: types.TransportTransfer, DriverAccommodation: true},
		{},
	}

	requireDec(t, "80.58", Transport(repo, days, 2, decimal.Zero, nil))
	requireDec(t, "72.522", Transport(repo, days, 2, d("10"), nil))
	require.True(t, Transport(repo, days, 0, decimal.Zero, nil).IsZero())
}

func TestTransportMissingRateDegrades(t *testing.T) {
	diag := rates.NewDiagnostics()
	days := []types.ItineraryDay{{TransportType: types.TransportTransfer}}

	got := Transport(testRepo(), days, 4, decimal.Zero, diag)
	require.True(t, got.IsZero())
	require.Equal(t, 1, diag.Len())
	require.Equal(t, rates.LookupTransport, diag.Items()[0].Kind)

	require.True(t, Transport(nil, days, 4, decimal.Zero, nil).IsZero())
}

func TestEntrancesAreNotDividedByPax(t *testing.T) {
	diag := rates.NewDiagnostics()
	days := []types.ItineraryDay{
		{Entrances: []string{"Jerash"}},
		{Entrances: []string{"Petra 1 Day", "Nowhere"}},
	}
	requireDec(t, "80", Entrances(testRepo(), days, diag))
	require.Equal(t, 1, diag.Len())
}

func TestJeep(t *testing.T) {
	repo := testRepo()
	days := []types.ItineraryDay{{Jeep: true, JeepService: "Wadi Rum Jeep 2h"}, {Jeep: false, JeepService: "Wadi Rum Jeep 2h"}}
	rate := d("1.41")

	// 35 JOD x 1 jeep x 1.41 / 2
	requireDec(t, "24.675", Jeep(repo, days, 2, rate, nil))
	// 35 x 2 jeeps x 1.41 / 10
	requireDec(t, "9.87", Jeep(repo, days, 10, rate, nil))
	require.True(t, Jeep(repo, days, 0, rate, nil).IsZero())

	diag := rates.NewDiagnostics()
	require.True(t, Jeep(repo, []types.ItineraryDay{{Jeep: true}}, 2, rate, diag).IsZero())
	require.Equal(t, 1, diag.Len())
}

func TestMeals(t *testing.T) {
	lunch := &types.RestaurantChoice{Restaurant: "Haret Jdoudna", USDPrice: d("20")}
	dinner := &types.RestaurantChoice{Restaurant: "Sufra", USDPrice: d("25")}
	negative := &types.RestaurantChoice{Restaurant: "Broken", USDPrice: d("-5")}

	tests := []struct {
		name string
		day  types.ItineraryDay
		want string
	}{
		{"not included", types.ItineraryDay{Lunch: lunch}, "0"},
		{"lunch only", types.ItineraryDay{MealIncluded: true, MealType: types.MealLunch, Lunch: lunch, Dinner: dinner}, "20"},
		{"dinner only", types.ItineraryDay{MealIncluded: true, MealType: types.MealDinner, Lunch: lunch, Dinner: dinner}, "25"},
		{"both", types.ItineraryDay{MealIncluded: true, MealType: types.MealBoth, Lunch: lunch, Dinner: dinner}, "45"},
		{"untyped charges selections", types.ItineraryDay{MealIncluded: true, Dinner: dinner}, "25"},
		{"no restaurant", types.ItineraryDay{MealIncluded: true, MealType: types.MealLunch}, "0"},
		{"negative clamped", types.ItineraryDay{MealIncluded: true, MealType: types.MealLunch, Lunch: negative}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireDec(t, tt.want, Meals([]types.ItineraryDay{tt.day}, nil))
		})
	}
}

func TestExtrasIndependentOfPax(t *testing.T) {
	repo := testRepo()
	days := []types.ItineraryDay{
		{Extras: []string{"Camel Ride"}},
		{Extras: []string{"Turkish Bath", "Camel Ride"}},
	}
	for _, pax := range []int{1, 2, 3, 7, 45} {
		requireDec(t, "65", Extras(repo, days, pax, nil))
	}
	require.True(t, Extras(repo, days, 0, nil).IsZero())
}

func TestWater(t *testing.T) {
	days := make([]types.ItineraryDay, 4)
	requireDec(t, "6", Water(days, true))
	require.True(t, Water(days, false).IsZero())
	require.True(t, Water(nil, true).IsZero())
}

func TestCompute(t *testing.T) {
	days := []types.ItineraryDay{{TransportType: types.TransportFullDay, Entrances: []string{"Jerash"}}}
	c := Compute(testRepo(), days, 2, Settings{JODToUSD: d("1.41"), IncludeWater: false}, nil)
	requireDec(t, "50", c.Transport)
	requireDec(t, "10", c.Entrances)
	require.True(t, c.Jeep.IsZero())
	require.True(t, c.Water.IsZero())
}
