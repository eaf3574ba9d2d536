// Package api - API types for tour quotation
// These types define the contract for the /quotes endpoint family.
// The API is stateless: every request carries its own itinerary.
package api

import (
	"tour-quote/adapters/quotefile"
	"tour-quote/core/quote"
	"tour-quote/core/season"
	"tour-quote/core/types"
)

// QuoteRequest is the input to POST /quotes. It has the same shape as a
// JSON quotation file.
type QuoteRequest = quotefile.File

// QuoteResponse is the output of POST /quotes
type QuoteResponse struct {
	RequestID string           `json:"request_id"`
	Quotation *quote.Quotation `json:"quotation"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a quotation was produced
type ResponseMetadata struct {
	// InputHash is the SHA-256 of the request body
	InputHash string `json:"input_hash"`

	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// CollapseRequest is the input to POST /itinerary/collapse
type CollapseRequest struct {
	Days []quotefile.Day `json:"days"`
}

// CollapseResponse is the display itinerary
type CollapseResponse struct {
	Itinerary []types.DisplayDay `json:"itinerary"`
}

// SeasonResponse is the output of GET /seasons
type SeasonResponse struct {
	City      string `json:"city"`
	Stars     string `json:"stars"`
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
	season.Resolution
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
