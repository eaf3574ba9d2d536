package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tour-quote/core/rates"
	"tour-quote/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	m.Run()
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calendarRepo() *rates.Repository {
	repo, _ := rates.NewRepository(rates.Tables{
		HotelRates: []rates.HotelRate{
			{City: "Amman", Stars: "4", Hotel: "Alpha", Season: "Peak", DBL: rates.AmountOf("90")},
			{City: "Amman", Stars: "4", Hotel: "Beta", Season: "Festive", DBL: rates.AmountOf("95")},
		},
		Calendar: []rates.HotelCalendar{
			{Hotel: "Alpha", Seasons: []rates.SeasonWindow{
				{Season: "Peak", Ranges: []rates.DateRange{{Start: rates.NewDate(2026, 4, 10), End: rates.NewDate(2026, 4, 20)}}},
			}},
			{Hotel: "Beta", Seasons: []rates.SeasonWindow{
				{Season: "Festive", Ranges: []rates.DateRange{{Start: rates.NewDate(2026, 4, 15), End: rates.NewDate(2026, 4, 25)}}},
			}},
		},
	})
	return repo
}

func TestResolveCalendarMatch(t *testing.T) {
	repo := calendarRepo()

	tests := []struct {
		name      string
		arrival   time.Time
		departure time.Time
		want      string
		hotel     string
	}{
		{"arrival inside", date(2026, 4, 12), date(2026, 4, 30), "Peak", "Alpha"},
		{"departure inside", date(2026, 4, 1), date(2026, 4, 10), "Peak", "Alpha"},
		{"stay contains range", date(2026, 4, 1), date(2026, 4, 30), "Peak", "Alpha"},
		{"first hotel wins when both overlap", date(2026, 4, 16), date(2026, 4, 17), "Peak", "Alpha"},
		{"second hotel when first misses", date(2026, 4, 22), date(2026, 4, 23), "Festive", "Beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(repo, "Amman", "4", tt.arrival, tt.departure)
			require.Equal(t, tt.want, res.Season)
			require.Equal(t, SourceCalendar, res.Source)
			require.Equal(t, tt.hotel, res.Hotel)
			require.True(t, res.HasRates)
		})
	}
}

func TestResolveFallsBackToHeuristic(t *testing.T) {
	repo := calendarRepo()

	res := Resolve(repo, "Amman", "4", date(2026, 5, 3), date(2026, 5, 5))
	require.Equal(t, Low, res.Season)
	require.Equal(t, SourceHeuristic, res.Source)
	require.True(t, res.HasRates)

	res = Resolve(repo, "Aqaba", "5", date(2026, 3, 3), date(2026, 3, 5))
	require.Equal(t, Shoulder, res.Season)
	require.False(t, res.HasRates)

	res = Resolve(nil, "Amman", "4", date(2026, 7, 3), date(2026, 7, 5))
	require.Equal(t, High, res.Season)
}

func TestResolveIsDeterministic(t *testing.T) {
	repo := calendarRepo()
	a := Resolve(repo, "Amman", "4", date(2026, 4, 16), date(2026, 4, 18))
	for i := 0; i < 20; i++ {
		require.Equal(t, a, Resolve(repo, "Amman", "4", date(2026, 4, 16), date(2026, 4, 18)))
	}
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		city string
		date time.Time
		want string
	}{
		{"Amman", date(2026, 5, 1), Low},
		{"Amman", date(2026, 6, 30), Low},
		{"Amman", date(2026, 9, 1), Low},
		{"Amman", date(2026, 10, 31), Low},
		{"Amman", date(2026, 3, 1), Mid},
		{"Amman", date(2026, 4, 1), Mid},
		{"Amman", date(2026, 11, 1), Mid},
		{"Aqaba", date(2026, 11, 1), Shoulder},
		{"Dead Sea", date(2026, 4, 1), Shoulder},
		{"dead sea", date(2026, 12, 15), Shoulder},
		{"Amman", date(2026, 12, 15), Mid},
		{"Amman", date(2026, 12, 16), High},
		{"Aqaba", date(2026, 12, 31), High},
		{"Petra", date(2026, 1, 10), High},
		{"Petra", date(2026, 2, 10), High},
		{"Petra", date(2026, 7, 10), High},
		{"Petra", date(2026, 8, 10), High},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Heuristic(tt.city, tt.date), "%s %s", tt.city, tt.date.Format("2006-01-02"))
	}
}

func TestOverlaps(t *testing.T) {
	start, end := date(2026, 4, 10), date(2026, 4, 20)
	require.True(t, Overlaps(date(2026, 4, 20), date(2026, 4, 22), start, end))
	require.True(t, Overlaps(date(2026, 4, 8), date(2026, 4, 10), start, end))
	require.False(t, Overlaps(date(2026, 4, 21), date(2026, 4, 22), start, end))
	require.False(t, Overlaps(date(2026, 4, 1), date(2026, 4, 9), start, end))
}
