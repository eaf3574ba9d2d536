package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tour-quote/core/accommodation"
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

func requireDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	require.True(t, got.Equal(d(want)), "%s: want %s, got %s", msg, want, got)
}

var arrival = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func scenarioRepo() *rates.Repository {
	repo, _ := rates.NewRepository(rates.Tables{
		Transport: map[string]map[string]rates.Amount{
			"Full Day": {"car": rates.AmountOf("100"), "minivan": rates.AmountOf("130")},
		},
		Entrances: map[string]rates.Amount{"Citadel": rates.AmountOf("10")},
		HotelRates: []rates.HotelRate{
			{City: "Amman", Stars: "4", Hotel: "Alpha", Season: "Low", DBL: rates.AmountOf("50"), HB: rates.AmountOf("15")},
		},
	})
	return repo
}

func scenarioSettings() Settings {
	return Settings{
		JODToUSD:      d("1.41"),
		ProfitMargin:  d("0.10"),
		GuideLanguage: "English",
		PaxBrackets:   []int{1, 2, 4},
	}
}

func scenarioSession() Session {
	s := NewSession(scenarioRepo(), arrival, arrival, scenarioSettings())
	s = s.WithDay(0, types.ItineraryDay{
		Date:          arrival,
		Description:   "Amman city tour",
		TransportType: types.TransportFullDay,
		Entrances:     []string{"Citadel"},
	})
	return s.WithOptions([]types.Option{{
		Name: "Option 1",
		Accommodations: []types.AccommodationSelection{
			{City: "Amman", DBL: d("50"), Nights: 1, Board: types.BoardBB},
		},
	}})
}

func TestEndToEndScenario(t *testing.T) {
	q := scenarioSession().Calculate()

	res, ok := q.Bracket(2)
	require.True(t, ok)
	require.Equal(t, "2-3 pax", res.Bracket.Label)

	b := res.Breakdown
	requireDec(t, "50", b.Transport, "transport")
	requireDec(t, "10", b.Entrances, "entrances")
	requireDec(t, "5", b.MeetAssist, "meet assist")
	requireDec(t, "10", b.Tips, "tips")
	requireDec(t, "10", b.Commission, "commission")
	requireDec(t, "85", b.BaseCost, "base")

	require.Len(t, res.Options, 1)
	o := res.Options[0]
	requireDec(t, "50", o.AccommodationPerPerson, "accommodation")
	requireDec(t, "135", o.PreProfit, "pre-profit")
	requireDec(t, "148.5", o.FinalPrice, "final")
	require.Equal(t, "148.50", o.FinalPrice.StringFixed(2))

	require.Empty(t, q.Diagnostics)
	require.Len(t, q.Itinerary, 1)
	require.Equal(t, "Day 1", q.Itinerary[0].Label)
}

func TestCalculateIsDeterministic(t *testing.T) {
	s := scenarioSession()
	a := s.Calculate()
	for i := 0; i < 10; i++ {
		require.Equal(t, a, s.Calculate())
	}
}

func TestSurchargeTiers(t *testing.T) {
	tests := []struct {
		pax                      int
		meet, tips, commission string
	}{
		{1, "10", "20", "20"},
		{2, "5", "10", "10"},
		{3, "5", "10", "10"},
		{4, "5", "5", "5"},
		{45, "5", "5", "5"},
	}
	for _, tt := range tests {
		requireDec(t, tt.meet, MeetAssist(tt.pax), "meet")
		requireDec(t, tt.tips, Tips(tt.pax), "tips")
		requireDec(t, tt.commission, Commission(tt.pax), "commission")
	}
}

func TestBaseCostIsSumOfLines(t *testing.T) {
	q := scenarioSession().Calculate()
	for _, r := range q.Results {
		require.True(t, r.Breakdown.BaseCost.Equal(r.Breakdown.Total()), "pax %d", r.Bracket.Pax)
	}
}

func TestOverrideLineRederivesOptions(t *testing.T) {
	q := scenarioSession().Calculate()

	q, ok := q.OverrideOptionPrice(2, 0, d("200"))
	require.True(t, ok)
	res, _ := q.Bracket(2)
	require.True(t, res.Options[0].Overridden)
	requireDec(t, "200", res.Options[0].FinalPrice, "pinned")

	q, ok = q.OverrideLine(2, types.LineTips, d("10"))
	require.True(t, ok)
	res, _ = q.Bracket(2)
	require.True(t, res.Options[0].Overridden, "unchanged base keeps pinned price")
	require.Equal(t, []types.Line{types.LineTips}, res.Overrides)

	q, ok = q.OverrideLine(2, types.LineTransport, d("60"))
	require.True(t, ok)
	res, _ = q.Bracket(2)
	requireDec(t, "95", res.Breakdown.BaseCost, "base")
	requireDec(t, "145", res.Options[0].PreProfit, "pre-profit")
	requireDec(t, "159.5", res.Options[0].FinalPrice, "final")
	require.False(t, res.Options[0].Overridden)

	other, _ := q.Bracket(4)
	require.Empty(t, other.Overrides)

	_, ok = q.OverrideLine(2, types.Line("bogus"), d("1"))
	require.False(t, ok)
	_, ok = q.OverrideLine(99, types.LineTips, d("1"))
	require.False(t, ok)
	_, ok = q.OverrideOptionPrice(2, 5, d("1"))
	require.False(t, ok)
}

func TestSessionOverridesReplayInOrder(t *testing.T) {
	s := scenarioSession().
		WithOverride(Override{Pax: 2, Option: 0, Value: d("200")}).
		WithOverride(Override{Pax: 2, Line: types.LineTransport, Value: d("60")})

	res, _ := s.Calculate().Bracket(2)
	requireDec(t, "159.5", res.Options[0].FinalPrice, "line edit after pin re-derives")

	s = scenarioSession().
		WithOverride(Override{Pax: 2, Line: types.LineTransport, Value: d("60")}).
		WithOverride(Override{Pax: 2, Option: 0, Value: d("200")})
	res, _ = s.Calculate().Bracket(2)
	requireDec(t, "200", res.Options[0].FinalPrice, "pin after line edit wins")
}

func TestSessionIsImmutable(t *testing.T) {
	s := scenarioSession()
	before := s.clone()

	_ = s.WithDay(0, types.ItineraryDay{Description: "changed"})
	_ = s.WithOptions(nil)
	_ = s.WithDates(arrival.AddDate(0, 0, 5), arrival.AddDate(0, 0, 7))
	_ = s.WithOverride(Override{Pax: 2, Line: types.LineTips, Value: d("1")})
	require.Equal(t, before, s)

	require.Equal(t, s, s.WithDay(7, types.ItineraryDay{}))
}

func TestWithDatesKeepsSurvivingDays(t *testing.T) {
	s := scenarioSession().WithDates(arrival.AddDate(0, 0, -1), arrival.AddDate(0, 0, 1))
	require.Len(t, s.Days, 3)
	require.Empty(t, s.Days[0].Description)
	require.Equal(t, "Amman city tour", s.Days[1].Description)
}

func TestRefreshRatesResolvesSelections(t *testing.T) {
	s := NewSession(scenarioRepo(), arrival, arrival.AddDate(0, 0, 2), scenarioSettings())
	s = s.WithOptions([]types.Option{{Accommodations: []types.AccommodationSelection{
		{City: "Amman", Stars: "4", Hotel: "Alpha", Nights: 2, Board: types.BoardHB},
	}}}).RefreshRates()

	sel := s.Options[0].Accommodations[0]
	require.Equal(t, "Low", sel.Season)
	requireDec(t, "50", sel.DBL, "dbl")
	requireDec(t, "15", sel.HB, "hb")
}

func TestApplyEvent(t *testing.T) {
	s := NewSession(scenarioRepo(), arrival, arrival.AddDate(0, 0, 1), scenarioSettings())
	s = s.WithOptions([]types.Option{{Accommodations: []types.AccommodationSelection{{Nights: 1}}}})

	s = s.ApplyEvent(0, 0, accommodation.CityChanged{City: "Amman"})
	sel := s.Options[0].Accommodations[0]
	require.Equal(t, "4", sel.Stars, "single category auto-selected")
	require.Equal(t, "Alpha", sel.Hotel)
	requireDec(t, "50", sel.DBL, "dbl")

	require.Equal(t, s, s.ApplyEvent(3, 0, accommodation.NightsChanged{Nights: 2}))
}

func TestMissingRatesDegradeWithDiagnostics(t *testing.T) {
	s := NewSession(nil, arrival, arrival, scenarioSettings())
	s = s.WithDay(0, types.ItineraryDay{
		Date:          arrival,
		Description:   "Jerash",
		TransportType: types.TransportFullDay,
		Entrances:     []string{"Unknown"},
	})
	s = s.WithOptions([]types.Option{{Accommodations: []types.AccommodationSelection{
		{City: "Amman", Stars: "4", Hotel: "Ghost", Nights: 1},
	}}})

	q := s.Calculate()
	require.NotEmpty(t, q.Diagnostics)
	res, _ := q.Bracket(2)
	require.True(t, res.Breakdown.Transport.IsZero())
	require.True(t, res.Options[0].AccommodationPerPerson.IsZero())

	kinds := map[rates.LookupKind]bool{}
	for _, l := range q.Diagnostics {
		kinds[l.Kind] = true
	}
	require.True(t, kinds[rates.LookupTransport])
	require.True(t, kinds[rates.LookupEntrance])
	require.True(t, kinds[rates.LookupGuide])
	require.True(t, kinds[rates.LookupHotel])
}

func TestZeroOptionsStillPricesBreakdown(t *testing.T) {
	q := scenarioSession().WithOptions(nil).Calculate()
	require.Len(t, q.Results, 3)
	for _, r := range q.Results {
		require.Empty(t, r.Options)
		require.True(t, r.Breakdown.BaseCost.IsPositive())
	}
	require.Len(t, q.ByPax(), 3)
}

func TestSettingsFromConfigDefaults(t *testing.T) {
	s := DefaultSettings()
	requireDec(t, "1.41", s.JODToUSD, "rate")
	requireDec(t, "0.1", s.ProfitMargin, "margin")
	require.Equal(t, 13, len(s.brackets()))
	require.Equal(t, "45+ pax", s.brackets()[12].Label)
}

func TestMealsPricedFromRestaurantTable(t *testing.T) {
	one, three := 1, 3
	repo, issues := rates.NewRepository(rates.Tables{Restaurants: []rates.RestaurantItem{
		{Region: "Petra", Restaurant: "Basin", ItemType: "lunch", USDPrice: rates.AmountOf("21.15")},
		{Region: "Petra", Restaurant: "Basin", ItemType: "dinner", USDPrice: rates.AmountOf("30"), MinPax: &one, MaxPax: &three},
	}})
	require.Empty(t, issues)

	settings := scenarioSettings()
	settings.PaxBrackets = []int{2, 4}
	s := NewSession(repo, arrival, arrival, settings)
	s = s.WithDay(0, types.ItineraryDay{
		Date:         arrival,
		Description:  "Petra",
		MealIncluded: true,
		MealType:     types.MealBoth,
		Lunch:        &types.RestaurantChoice{Restaurant: "Basin", USDPrice: d("999")},
		Dinner:       &types.RestaurantChoice{Restaurant: "Basin", USDPrice: d("500")},
	})

	q := s.Calculate()
	small, ok := q.Bracket(2)
	require.True(t, ok)
	requireDec(t, "51.15", small.Breakdown.Meals, "meals for 2")

	large, ok := q.Bracket(4)
	require.True(t, ok)
	requireDec(t, "21.15", large.Breakdown.Meals, "meals for 4")

	var missing []rates.Lookup
	for _, l := range q.Diagnostics {
		if l.Kind == rates.LookupRestaurant {
			missing = append(missing, l)
		}
	}
	require.Len(t, missing, 1)
	require.Equal(t, "Basin", missing[0].Key)
	requireDec(t, "999", s.Days[0].Lunch.USDPrice, "session days untouched")
}

func TestUnknownBoardIsReported(t *testing.T) {
	s := scenarioSession().WithOptions([]types.Option{{
		Name: "Odd",
		Accommodations: []types.AccommodationSelection{
			{City: "Amman", DBL: d("50"), HB: d("20"), Nights: 1, Board: types.Board("Full board")},
		},
	}})

	q := s.Calculate()
	res, _ := q.Bracket(2)
	requireDec(t, "50", res.Options[0].AccommodationPerPerson, "priced as B/B")

	var boards []string
	for _, l := range q.Diagnostics {
		if l.Kind == rates.LookupBoard {
			boards = append(boards, l.Key)
		}
	}
	require.Equal(t, []string{"Full board"}, boards)
}
