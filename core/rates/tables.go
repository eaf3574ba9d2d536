// Package rates holds the externally supplied rate tables.
//
// Tables is the raw decoded form, tolerant of the loosely typed records the
// surrounding application exports. NewRepository validates and coerces it
// once, at the boundary, into an immutable Repository the engine reads.
package rates

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tour-quote/core/money"
)

// DateLayout is the calendar date format used by every table.
const DateLayout = "2006-01-02"

// Amount is a numeric rate field. It decodes from a JSON/YAML number or a
// numeric string; anything else decodes to zero and is flagged Invalid.
type Amount struct {
	Value   decimal.Decimal
	Invalid bool
}

// NewAmount wraps a decimal
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d}
}

// AmountOf parses a literal, used mostly by tests and fixtures
func AmountOf(s string) Amount {
	return parseAmount(s)
}

func parseAmount(s string) Amount {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Amount{}
	}
	d := money.Parse(trimmed)
	if d.IsZero() && !isZeroLiteral(trimmed) {
		return Amount{Invalid: true}
	}
	return Amount{Value: d}
}

func isZeroLiteral(s string) bool {
	s = strings.TrimLeft(strings.TrimPrefix(s, "$"), "+-")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' && r != '.' {
			return false
		}
	}
	return true
}

// MarshalJSON writes the amount as a JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Value.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{Invalid: true}
			return nil
		}
		*a = parseAmount(s)
		return nil
	}
	*a = parseAmount(string(data))
	return nil
}

// UnmarshalYAML accepts scalar numbers and numeric strings
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*a = Amount{Invalid: true}
		return nil
	}
	if node.Tag == "!!null" {
		*a = Amount{}
		return nil
	}
	*a = parseAmount(node.Value)
	return nil
}

// Date is a calendar date decoded from "YYYY-MM-DD"
type Date struct {
	time.Time
}

// NewDate builds a Date at UTC midnight
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses DateLayout, also accepting RFC 3339 timestamps
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Truncate(t)}, nil
}

// Truncate drops the time of day, keeping the calendar date in UTC
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON writes the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON reads "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML reads "YYYY-MM-DD"
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HotelRate is one standard nightly rate row
type HotelRate struct {
	City   string `json:"City" yaml:"City"`
	Stars  string `json:"Stars" yaml:"Stars"`
	Hotel  string `json:"Hotel" yaml:"Hotel"`
	Season string `json:"Season" yaml:"Season"`
	DBL    Amount `json:"Rate_DBL" yaml:"Rate_DBL"`
	SGL    Amount `json:"Rate_SGL" yaml:"Rate_SGL"`
	HB     Amount `json:"Rate_HB" yaml:"Rate_HB"`
}

// SpecialRate is an agent-scoped negotiated override of a HotelRate
type SpecialRate struct {
	HotelRate `yaml:",inline"`
	AgentID   string `json:"AgentID" yaml:"AgentID"`
}

// LocalGuideRates are per-site local guide fees in JOD
type LocalGuideRates struct {
	Petra     Amount `json:"Petra" yaml:"Petra"`
	Jerash    Amount `json:"Jerash" yaml:"Jerash"`
	AccNights Amount `json:"AccNights" yaml:"AccNights"`
}

// GuideRates are guide fees in JOD. Private is keyed by language, with the
// reserved key "AccNights" for the guide's overnight.
type GuideRates struct {
	Local   LocalGuideRates   `json:"Local" yaml:"Local"`
	Private map[string]Amount `json:"Private" yaml:"Private"`
}

// RestaurantItem is one priced menu of a restaurant
type RestaurantItem struct {
	Region        string `json:"region" yaml:"region"`
	Restaurant    string `json:"restaurant" yaml:"restaurant"`
	ItemType      string `json:"itemType" yaml:"itemType"`
	PriceValue    Amount `json:"priceOriginalValue" yaml:"priceOriginalValue"`
	PriceCurrency string `json:"priceOriginalCurrency" yaml:"priceOriginalCurrency"`
	USDPrice      Amount `json:"usdPrice" yaml:"usdPrice"`
	MinPax        *int   `json:"minPax,omitempty" yaml:"minPax,omitempty"`
	MaxPax        *int   `json:"maxPax,omitempty" yaml:"maxPax,omitempty"`
}

// DateRange is an inclusive calendar range
type DateRange struct {
	Start Date `json:"startDate" yaml:"startDate"`
	End   Date `json:"endDate" yaml:"endDate"`
}

// SeasonWindow lists the date ranges of one season
type SeasonWindow struct {
	Season string      `json:"season" yaml:"season"`
	Ranges []DateRange `json:"ranges" yaml:"ranges"`
}

// HotelCalendar is the ordered seasonality of one hotel
type HotelCalendar struct {
	Hotel   string         `json:"hotel" yaml:"hotel"`
	Seasons []SeasonWindow `json:"seasons" yaml:"seasons"`
}

// Tables is the complete raw rate snapshot
type Tables struct {
	HotelRates   []HotelRate                  `json:"hotel_rates" yaml:"hotel_rates"`
	SpecialRates []SpecialRate                `json:"special_rates" yaml:"special_rates"`
	Transport    map[string]map[string]Amount `json:"transport" yaml:"transport"`
	Guides       *GuideRates                  `json:"guides" yaml:"guides"`
	Entrances    map[string]Amount            `json:"entrances" yaml:"entrances"`
	Restaurants  []RestaurantItem             `json:"restaurants" yaml:"restaurants"`
	Calendar     []HotelCalendar              `json:"calendar" yaml:"calendar"`
	Extras       map[string]Amount            `json:"extras" yaml:"extras"`
}
