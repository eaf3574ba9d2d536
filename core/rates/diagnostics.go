package rates

import (
	"fmt"

	"go.uber.org/zap"

	"tour-quote/internal/logging"
)

// LookupKind names the table a failed lookup was made against
type LookupKind string

const (
	LookupHotel      LookupKind = "hotel_rate"
	LookupBoard      LookupKind = "board"
	LookupSeason     LookupKind = "season"
	LookupTransport  LookupKind = "transport_rate"
	LookupGuide      LookupKind = "guide_rate"
	LookupEntrance   LookupKind = "entrance_fee"
	LookupJeep       LookupKind = "jeep_service"
	LookupRestaurant LookupKind = "restaurant"
	LookupExtra      LookupKind = "extra"
	LookupItinerary  LookupKind = "itinerary"
)

// NoDay marks a lookup that is not tied to an itinerary day
const NoDay = -1

// Lookup is one unresolved rate lookup that degraded to zero
type Lookup struct {
	Kind   LookupKind `json:"kind"`
	Key    string     `json:"key"`
	Day    int        `json:"day"`
	Detail string     `json:"detail,omitempty"`
}

// String renders the lookup for CLI output
func (l Lookup) String() string {
	if l.Day == NoDay {
		return fmt.Sprintf("%s %q: %s", l.Kind, l.Key, l.Detail)
	}
	return fmt.Sprintf("day %d: %s %q: %s", l.Day+1, l.Kind, l.Key, l.Detail)
}

// Diagnostics collects unresolved lookups of one calculation pass.
// A nil *Diagnostics is valid and only logs.
type Diagnostics struct {
	items []Lookup
	seen  map[Lookup]bool
}

// NewDiagnostics returns an empty collector
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[Lookup]bool)}
}

// Missing records a lookup once and logs it
func (d *Diagnostics) Missing(kind LookupKind, key string, day int, detail string) {
	l := Lookup{Kind: kind, Key: key, Day: day, Detail: detail}
	if d != nil {
		if d.seen == nil {
			d.seen = make(map[Lookup]bool)
		}
		if d.seen[l] {
			return
		}
		d.seen[l] = true
		d.items = append(d.items, l)
	}
	logging.Warn("rate lookup degraded to zero",
		logging.Lookup(string(kind), key),
		zap.Int("day", day),
		zap.String("detail", detail),
	)
}

// Items returns recorded lookups in first-seen order
func (d *Diagnostics) Items() []Lookup {
	if d == nil {
		return nil
	}
	out := make([]Lookup, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of recorded lookups
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}
