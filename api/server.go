// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tour-quote/adapters/quotefile"
	"tour-quote/core/quote"
	"tour-quote/core/rates"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// maxBodyBytes bounds request bodies; a year-long itinerary fits easily.
const maxBodyBytes = 4 << 20

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	version string
}

// NewServer creates a new API server pricing against repo
func NewServer(version string, repo *rates.Repository, settings quote.Settings) *Server {
	s := &Server{
		handler: NewHandler(repo, settings),
		router:  chi.NewRouter(),
		version: version,
	}
	s.router.Use(requestIDMiddleware, requestLogger, middleware.Recoverer)
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.router.Post("/quotes", s.handleQuote)
	s.router.Post("/itinerary/collapse", s.handleCollapse)
	s.router.Get("/seasons", s.handleSeason)

	// Supporting endpoints
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
}

// handleQuote handles POST /quotes
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, qerrors.Wrap(qerrors.TypeInput, "failed to read body", err))
		return
	}
	req, err := quotefile.Decode(body, "json")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	requestID := middleware.GetReqID(ctx)
	q, err := s.handler.calculate(ctx, requestID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, QuoteResponse{
		RequestID: requestID,
		Quotation: q,
		Metadata: ResponseMetadata{
			InputHash:     computeInputHash(body),
			EngineVersion: s.version,
			DurationMs:    time.Since(start).Milliseconds(),
		},
	}, http.StatusOK)
}

// handleCollapse handles POST /itinerary/collapse
func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	var req CollapseRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, qerrors.Parsing("invalid JSON body", err))
		return
	}
	s.writeJSON(w, CollapseResponse{Itinerary: s.handler.collapseDays(&req)}, http.StatusOK)
}

// handleSeason handles GET /seasons?city=&stars=&arrival=&departure=
func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	if city == "" {
		s.writeError(w, r, qerrors.Input("city is required"))
		return
	}
	arrival, err := rates.ParseDate(q.Get("arrival"))
	if err != nil {
		s.writeError(w, r, qerrors.Wrap(qerrors.TypeInput, "arrival must be YYYY-MM-DD", err))
		return
	}
	departure := arrival
	if v := q.Get("departure"); v != "" {
		if departure, err = rates.ParseDate(v); err != nil {
			s.writeError(w, r, qerrors.Wrap(qerrors.TypeInput, "departure must be YYYY-MM-DD", err))
			return
		}
	}

	stars := strings.TrimSpace(q.Get("stars"))
	s.writeJSON(w, SeasonResponse{
		City:       city,
		Stars:      stars,
		Arrival:    arrival.Format(rates.DateLayout),
		Departure:  departure.Format(rates.DateLayout),
		Resolution: s.handler.resolveSeason(city, stars, arrival.Time, departure.Time),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "tour-quote",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}}, status)
}

// classify maps domain errors onto HTTP statuses
func classify(err error) (string, int) {
	t := qerrors.TypeOf(err)
	switch t {
	case qerrors.TypeInput, qerrors.TypeParsing, qerrors.TypeNotSupported:
		return string(t), http.StatusBadRequest
	case qerrors.TypeNotFound:
		return string(t), http.StatusNotFound
	}
	return string(qerrors.TypeInternal), http.StatusInternalServerError
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Helper functions

func computeInputHash(body []byte) string {
	hash := sha256.Sum256(body)
	return hex.EncodeToString(hash[:])
}

// requestIDMiddleware tags every request with a UUID, honouring one sent
// by the caller.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(middleware.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs request completion with status and latency
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		log := logging.Named("http").With(zap.String("request_id", middleware.GetReqID(r.Context())))
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", ww.BytesWritten()),
		}
		switch {
		case ww.Status() >= http.StatusInternalServerError:
			log.Error("request completed", fields...)
		case ww.Status() >= http.StatusBadRequest:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	})
}
