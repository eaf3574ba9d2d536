package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TransportType is the kind of vehicle service booked for a day
type TransportType string

const (
	TransportNone     TransportType = ""
	TransportTransfer TransportType = "Transfer"
	TransportFullDay  TransportType = "Full Day"
	TransportHalfDay  TransportType = "Half Day"
	TransportStopover TransportType = "Stopover"
	TransportCruise   TransportType = "Cruise"
)

// TransportTypes lists every bookable service in display order.
var TransportTypes = []TransportType{
	TransportTransfer,
	TransportFullDay,
	TransportHalfDay,
	TransportStopover,
	TransportCruise,
}

// ParseTransportType maps free-form labels onto a known service.
// Unknown labels are kept verbatim so the rate lookup can still try them.
func ParseTransportType(s string) TransportType {
	key := NormalizeKey(s)
	if key == "" || key == "none" {
		return TransportNone
	}
	for _, t := range TransportTypes {
		if NormalizeKey(string(t)) == key {
			return t
		}
	}
	return TransportType(s)
}

// UnmarshalJSON normalizes the label through ParseTransportType
func (t *TransportType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTransportType(s)
	return nil
}

// UnmarshalYAML normalizes the label through ParseTransportType
func (t *TransportType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*t = ParseTransportType(s)
	return nil
}

// MealType selects which meals a day includes
type MealType string

const (
	MealLunch  MealType = "Lunch"
	MealDinner MealType = "Dinner"
	MealBoth   MealType = "Both"
)

// IncludesLunch reports whether lunch is part of the meal plan
func (m MealType) IncludesLunch() bool {
	return m == MealLunch || m == MealBoth
}

// IncludesDinner reports whether dinner is part of the meal plan
func (m MealType) IncludesDinner() bool {
	return m == MealDinner || m == MealBoth
}

// MealKind distinguishes restaurant menu items
type MealKind string

const (
	MealKindLunch  MealKind = "lunch"
	MealKindDinner MealKind = "dinner"
)

// RestaurantChoice is a selected restaurant with its resolved price.
// USDPrice is derived from the restaurant table and never edited directly.
type RestaurantChoice struct {
	Region        string          `json:"region" yaml:"region"`
	Restaurant    string          `json:"restaurant" yaml:"restaurant"`
	PriceValue    decimal.Decimal `json:"price_value" yaml:"price_value"`
	PriceCurrency string          `json:"price_currency" yaml:"price_currency"`
	USDPrice      decimal.Decimal `json:"usd_price" yaml:"usd_price"`
}

// ItineraryDay is one calendar day of the tour
type ItineraryDay struct {
	// Date is the calendar date (time of day is ignored)
	Date time.Time `json:"date" yaml:"date"`

	// Weekday is the display label, e.g. "Monday"
	Weekday string `json:"weekday" yaml:"weekday"`

	// Description is the free-text program of the day
	Description string `json:"description" yaml:"description"`

	// TransportType is the vehicle service booked for the day
	TransportType TransportType `json:"transport_type,omitempty" yaml:"transport_type,omitempty"`

	// Entrances are entrance-fee codes; a set kept in day order
	Entrances []string `json:"entrances,omitempty" yaml:"entrances,omitempty"`

	// Jeep and JeepService select a jeep tour for the day
	Jeep        bool   `json:"jeep,omitempty" yaml:"jeep,omitempty"`
	JeepService string `json:"jeep_service,omitempty" yaml:"jeep_service,omitempty"`

	// GuideRequired forces a private guide for the day
	GuideRequired bool `json:"guide_required,omitempty" yaml:"guide_required,omitempty"`

	// GuideLanguage overrides the quotation's guide language for the day
	GuideLanguage string `json:"guide_language,omitempty" yaml:"guide_language,omitempty"`

	// GuideAccommodation charges the private guide's overnight
	GuideAccommodation bool `json:"guide_accommodation,omitempty" yaml:"guide_accommodation,omitempty"`

	// DriverAccommodation charges the driver's overnight
	DriverAccommodation bool `json:"driver_accommodation,omitempty" yaml:"driver_accommodation,omitempty"`

	// MealIncluded and MealType select restaurant meals
	MealIncluded bool     `json:"meal_included,omitempty" yaml:"meal_included,omitempty"`
	MealType     MealType `json:"meal_type,omitempty" yaml:"meal_type,omitempty"`

	Lunch  *RestaurantChoice `json:"lunch,omitempty" yaml:"lunch,omitempty"`
	Dinner *RestaurantChoice `json:"dinner,omitempty" yaml:"dinner,omitempty"`

	// Extras are catalog keys; a set kept in day order
	Extras []string `json:"extras,omitempty" yaml:"extras,omitempty"`

	// ReplicateTo lists later day indices that receive a copy of this day
	ReplicateTo []int `json:"replicate_to,omitempty" yaml:"replicate_to,omitempty"`
}

// HasCostContent reports whether anything on the day affects pricing
func (d ItineraryDay) HasCostContent() bool {
	return d.TransportType != TransportNone ||
		len(d.Entrances) > 0 ||
		d.MealIncluded ||
		len(d.Extras) > 0 ||
		d.Jeep ||
		d.GuideRequired
}

// Clone returns a deep copy so edits never alias the original slices
func (d ItineraryDay) Clone() ItineraryDay {
	out := d
	out.Entrances = append([]string(nil), d.Entrances...)
	out.Extras = append([]string(nil), d.Extras...)
	out.ReplicateTo = append([]int(nil), d.ReplicateTo...)
	if d.Lunch != nil {
		l := *d.Lunch
		out.Lunch = &l
	}
	if d.Dinner != nil {
		dn := *d.Dinner
		out.Dinner = &dn
	}
	return out
}

// CloneDays deep-copies an itinerary
func CloneDays(days []ItineraryDay) []ItineraryDay {
	if days == nil {
		return nil
	}
	out := make([]ItineraryDay, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return out
}

// DisplayDay is one rendered row of the itinerary
type DisplayDay struct {
	// Label is "Day N" or "Day X - Y"
	Label string `json:"label"`

	// FirstDay and LastDay are 1-based day numbers covered by the row
	FirstDay int `json:"first_day"`
	LastDay  int `json:"last_day"`

	Date        time.Time `json:"date"`
	Description string    `json:"description"`

	// Collapsed is set when several leisure days were merged
	Collapsed bool `json:"collapsed,omitempty"`

	// Day is the source day of the first covered row
	Day ItineraryDay `json:"day"`
}
