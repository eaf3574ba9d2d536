package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tour-quote/core/quote"
	"tour-quote/core/rates"
	"tour-quote/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, issues := rates.NewRepository(rates.Tables{
		HotelRates: []rates.HotelRate{
			{City: "Amman", Stars: "4", Hotel: "Beta", Season: "Low", DBL: rates.AmountOf("60")},
		},
		Transport: map[string]map[string]rates.Amount{"Full Day": {"car": rates.AmountOf("100")}},
		Calendar: []rates.HotelCalendar{{Hotel: "Beta", Seasons: []rates.SeasonWindow{{
			Season: "Peak",
			Ranges: []rates.DateRange{{Start: rates.NewDate(2026, 12, 20), End: rates.NewDate(2027, 1, 5)}},
		}}}},
	})
	require.Empty(t, issues)
	settings := quote.DefaultSettings()
	settings.IncludeWater = false
	return NewServer("test", repo, settings)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

const quoteBody = `{
  "arrival": "2026-05-04",
  "departure": "2026-05-05",
  "settings": {"pax_brackets": [2]},
  "days": [
    {"description": "Amman city tour", "transport_type": "Full Day", "entrances": ["Citadel"]},
    {"description": "Departure"}
  ],
  "options": [
    {"name": "Classic", "accommodations": [{"city": "Amman", "stars": "4", "hotel": "Beta", "nights": 1, "board": "B/B"}]}
  ]
}`

func TestQuote(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/quotes", quoteBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var resp struct {
		RequestID string `json:"request_id"`
		Quotation struct {
			Results []struct {
				Options []struct {
					Name       string `json:"name"`
					FinalPrice string `json:"final_price"`
				} `json:"options"`
			} `json:"results"`
			Itinerary   []json.RawMessage `json:"itinerary"`
			Diagnostics []rates.Lookup    `json:"diagnostics"`
		} `json:"quotation"`
		Metadata ResponseMetadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, rec.Header().Get(middleware.RequestIDHeader), resp.RequestID)
	require.Len(t, resp.Quotation.Results, 1)
	require.Equal(t, "Classic", resp.Quotation.Results[0].Options[0].Name)
	require.Len(t, resp.Quotation.Itinerary, 2)
	require.Len(t, resp.Quotation.Diagnostics, 1, "missing Citadel entrance is reported")
	require.Equal(t, rates.LookupEntrance, resp.Quotation.Diagnostics[0].Kind)
	require.Len(t, resp.Metadata.InputHash, 64)
	require.Equal(t, "test", resp.Metadata.EngineVersion)

	again := do(t, s, http.MethodPost, "/quotes", quoteBody)
	var second struct {
		Metadata ResponseMetadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &second))
	require.Equal(t, resp.Metadata.InputHash, second.Metadata.InputHash)
}

func TestQuoteHonoursRequestID(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(quoteBody))
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestQuoteErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		code   string
		status int
	}{
		{"malformed", `{"arrival":`, "PARSING_ERROR", http.StatusBadRequest},
		{"unknown field", `{"arrival": "2026-05-04", "departure": "2026-05-04", "pax": 3}`, "PARSING_ERROR", http.StatusBadRequest},
		{"missing dates", `{}`, "INPUT_ERROR", http.StatusBadRequest},
		{"reversed dates", `{"arrival": "2026-05-05", "departure": "2026-05-04"}`, "INPUT_ERROR", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/quotes", tt.body)
			require.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.code, resp.Error.Code)
			require.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestCollapse(t *testing.T) {
	s := newTestServer(t)
	body := `{"days": [
	  {"date": "2026-05-04", "description": "Arrival", "transport_type": "Transfer"},
	  {"date": "2026-05-05", "description": "Free day"},
	  {"date": "2026-05-06", "description": "at leisure"},
	  {"date": "2026-05-07", "description": "Departure", "transport_type": "Transfer"}
	]}`
	rec := do(t, s, http.MethodPost, "/itinerary/collapse", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Itinerary []struct {
			Label string `json:"label"`
		} `json:"itinerary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Itinerary, 3)
	require.Equal(t, "Day 2 - 3", resp.Itinerary[1].Label)

	rec = do(t, s, http.MethodPost, "/itinerary/collapse", `[`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeasons(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/seasons?city=Amman&stars=4&arrival=2026-12-30&departure=2027-01-02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp SeasonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Peak", resp.Season)
	require.Equal(t, "Beta", resp.Hotel)
	require.True(t, resp.HasRates)

	rec = do(t, s, http.MethodGet, "/seasons?city=Aqaba&stars=5&arrival=2026-04-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Shoulder", resp.Season)
	require.False(t, resp.HasRates)
	require.Equal(t, "2026-04-10", resp.Departure)

	rec = do(t, s, http.MethodGet, "/seasons?stars=5&arrival=2026-04-10", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/seasons?city=Amman&arrival=tomorrow", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"healthy"`)

	rec = do(t, s, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"tour-quote"`)

	rec = do(t, s, http.MethodGet, "/quotes", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
