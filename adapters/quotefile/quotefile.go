// Package quotefile reads quotation requests: a date range, the itinerary,
// the accommodation options, setting overrides and manual edits.
package quotefile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tour-quote/core/itinerary"
	"tour-quote/core/quote"
	"tour-quote/core/rates"
	"tour-quote/core/types"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// File is a decoded quotation request
type File struct {
	Arrival   rates.Date       `json:"arrival" yaml:"arrival"`
	Departure rates.Date       `json:"departure" yaml:"departure"`
	Settings  SettingsPatch    `json:"settings" yaml:"settings"`
	Days      []Day            `json:"days" yaml:"days"`
	Options   []types.Option   `json:"options" yaml:"options"`
	Overrides []quote.Override `json:"overrides" yaml:"overrides"`
}

// SettingsPatch overrides individual pricing settings; nil fields keep
// the configured value.
type SettingsPatch struct {
	JODToUSD             *decimal.Decimal `json:"jod_to_usd,omitempty" yaml:"jod_to_usd,omitempty"`
	ProfitMargin         *decimal.Decimal `json:"profit_margin,omitempty" yaml:"profit_margin,omitempty"`
	TransportDiscountPct *decimal.Decimal `json:"transport_discount_pct,omitempty" yaml:"transport_discount_pct,omitempty"`
	IncludeWater         *bool            `json:"include_water,omitempty" yaml:"include_water,omitempty"`
	GuideLanguage        *string          `json:"guide_language,omitempty" yaml:"guide_language,omitempty"`
	AgentID              *string          `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	UseSpecialRates      *bool            `json:"use_special_rates,omitempty" yaml:"use_special_rates,omitempty"`
	PaxBrackets          []int            `json:"pax_brackets,omitempty" yaml:"pax_brackets,omitempty"`
}

// Apply returns base with the patched fields replaced
func (p SettingsPatch) Apply(base quote.Settings) quote.Settings {
	out := base
	out.PaxBrackets = append([]int(nil), base.PaxBrackets...)
	if p.JODToUSD != nil {
		out.JODToUSD = *p.JODToUSD
	}
	if p.ProfitMargin != nil {
		out.ProfitMargin = *p.ProfitMargin
	}
	if p.TransportDiscountPct != nil {
		out.TransportDiscountPct = *p.TransportDiscountPct
	}
	if p.IncludeWater != nil {
		out.IncludeWater = *p.IncludeWater
	}
	if p.GuideLanguage != nil {
		out.GuideLanguage = *p.GuideLanguage
	}
	if p.AgentID != nil {
		out.AgentID = *p.AgentID
	}
	if p.UseSpecialRates != nil {
		out.UseSpecialRates = *p.UseSpecialRates
	}
	if len(p.PaxBrackets) > 0 {
		out.PaxBrackets = append([]int(nil), p.PaxBrackets...)
	}
	return out
}

// Day is an itinerary day whose date may be written as "YYYY-MM-DD" or
// left out, in which case it follows from the arrival date.
type Day struct {
	types.ItineraryDay
}

// UnmarshalJSON accepts a calendar date in place of a timestamp
func (d *Day) UnmarshalJSON(data []byte) error {
	type plain types.ItineraryDay
	aux := struct {
		*plain
		Date *rates.Date `json:"date"`
	}{plain: (*plain)(&d.ItineraryDay)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date != nil {
		d.Date = aux.Date.Time
	}
	return nil
}

// UnmarshalYAML decodes the embedded day
func (d *Day) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&d.ItineraryDay)
}

// Load reads a JSON or YAML quotation request
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, qerrors.NotFound("quote file", path)
		}
		return nil, qerrors.Wrap(qerrors.TypeInput, "failed to read quote file", err).WithContext("path", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Decode(data, "json")
	case ".yaml", ".yml":
		return Decode(data, "yaml")
	}
	return nil, qerrors.NotSupported("quote file extension " + filepath.Ext(path))
}

// Decode parses a quotation request in "json" or "yaml"
func Decode(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, qerrors.Parsing("invalid JSON quote file", err)
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, qerrors.Parsing("invalid YAML quote file", err)
		}
	default:
		return nil, qerrors.NotSupported("quote file format " + format)
	}
	return &f, nil
}

// Validate rejects requests that cannot describe a tour
func (f *File) Validate() error {
	if f.Arrival.IsZero() || f.Departure.IsZero() {
		return qerrors.Input("arrival and departure dates are required")
	}
	if f.Departure.Before(f.Arrival.Time) {
		return qerrors.Input("departure is before arrival")
	}
	span := int(f.Departure.Sub(f.Arrival.Time).Hours()/24) + 1
	if span > itinerary.MaxDays {
		return qerrors.Inputf("tour spans %d days, the limit is %d", span, itinerary.MaxDays)
	}
	if len(f.Days) > span {
		return qerrors.Inputf("itinerary has %d days but the date range covers %d", len(f.Days), span)
	}
	for i, o := range f.Overrides {
		if o.Pax <= 0 {
			return qerrors.Inputf("overrides[%d]: pax must be positive", i)
		}
		if o.Line != "" && !types.IsLine(o.Line) {
			return qerrors.Inputf("overrides[%d]: unknown line %q", i, o.Line)
		}
	}
	return nil
}

// Session builds a session ready to calculate. Days without a date take
// arrival+index; missing days keep the generated empty day.
func (f *File) Session(repo *rates.Repository, base quote.Settings) (quote.Session, error) {
	if err := f.Validate(); err != nil {
		return quote.Session{}, err
	}
	s := quote.NewSession(repo, f.Arrival.Time, f.Departure.Time, f.Settings.Apply(base))

	days := types.CloneDays(s.Days)
	for i, d := range f.Days {
		day := d.ItineraryDay.Clone()
		if day.Date.IsZero() {
			day.Date = days[i].Date
		} else {
			day.Date = rates.Truncate(day.Date)
		}
		if day.Weekday == "" {
			day.Weekday = day.Date.Weekday().String()
		}
		days[i] = itinerary.Dedupe(day)
	}
	s = s.WithItinerary(days).WithOptions(f.Options)
	for _, o := range f.Overrides {
		s = s.WithOverride(o)
	}

	logging.Debug("quote file loaded",
		zap.String("session", s.ID),
		zap.Int("days", len(days)),
		zap.Int("options", len(f.Options)),
		zap.Int("overrides", len(f.Overrides)),
	)
	return s.RefreshRates(), nil
}
