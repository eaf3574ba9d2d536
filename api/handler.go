// Package api - HTTP handler for tour quotation
// This handler wraps the engine - it contains NO pricing logic.
// All logic is delegated to core packages.
package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tour-quote/core/collapse"
	"tour-quote/core/itinerary"
	"tour-quote/core/quote"
	"tour-quote/core/rates"
	"tour-quote/core/season"
	"tour-quote/core/types"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// Handler executes requests against one rate snapshot
type Handler struct {
	repo     *rates.Repository
	settings quote.Settings
}

// NewHandler creates a handler. A nil repository prices every lookup at
// zero and reports it in the diagnostics.
func NewHandler(repo *rates.Repository, settings quote.Settings) *Handler {
	if repo == nil {
		repo = rates.Empty()
	}
	return &Handler{repo: repo, settings: settings}
}

// calculate builds a session from the request and prices it
func (h *Handler) calculate(ctx context.Context, requestID string, req *QuoteRequest) (*quote.Quotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, qerrors.Internal("request cancelled", err)
	}
	session, err := req.Session(h.repo, h.settings)
	if err != nil {
		return nil, err
	}
	q := session.Calculate()

	logging.Debug("quote served",
		zap.String("request_id", requestID),
		zap.String("session", q.SessionID),
		zap.Int("diagnostics", len(q.Diagnostics)),
	)
	return &q, nil
}

// collapseDays renders the display itinerary of a day list
func (h *Handler) collapseDays(req *CollapseRequest) []types.DisplayDay {
	days := make([]types.ItineraryDay, len(req.Days))
	for i, d := range req.Days {
		days[i] = d.ItineraryDay
	}
	return collapse.Collapse(itinerary.ApplyReplication(days))
}

// resolveSeason resolves the rate season of a stay
func (h *Handler) resolveSeason(city, stars string, arrival, departure time.Time) season.Resolution {
	return season.Resolve(h.repo, city, stars, arrival, departure)
}
