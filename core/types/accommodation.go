package types

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Board is the meal plan / occupancy basis of a hotel stay
type Board string

const (
	BoardBB            Board = "B/B"
	BoardHB            Board = "H/B"
	BoardSGLSupplement Board = "SGL Supplement"
	BoardSGLHB         Board = "SGL+HB"
)

// Boards lists every board in display order.
var Boards = []Board{BoardBB, BoardHB, BoardSGLSupplement, BoardSGLHB}

// ParseBoard maps labels such as "HB", "h/b", "half board" or "sgl+hb"
// onto a Board. An empty label is B/B; unknown labels report false.
func ParseBoard(s string) (Board, bool) {
	key := NormalizeKey(s)
	for _, b := range Boards {
		if NormalizeKey(string(b)) == key {
			return b, true
		}
	}
	switch key {
	case "", "bb", "bedandbreakfast", "breakfast":
		return BoardBB, true
	case "hb", "halfboard":
		return BoardHB, true
	case "sgl", "single", "sglsupp":
		return BoardSGLSupplement, true
	case "sglhb", "singlehb", "singlehalfboard":
		return BoardSGLHB, true
	}
	return Board(s), false
}

// IsBoard reports whether b prices as one of the known boards. The empty
// board counts as B/B.
func IsBoard(b Board) bool {
	return b == "" || slices.Contains(Boards, b)
}

func (b *Board) set(s string) error {
	parsed, ok := ParseBoard(s)
	if !ok {
		return fmt.Errorf("unknown board %q (want one of B/B, H/B, SGL Supplement, SGL+HB)", s)
	}
	*b = parsed
	return nil
}

// UnmarshalJSON accepts any label ParseBoard knows
func (b *Board) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return b.set(s)
}

// UnmarshalYAML accepts any label ParseBoard knows
func (b *Board) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return b.set(s)
}

// RateSnapshot caches one resolved nightly rate
type RateSnapshot struct {
	Season string          `json:"season" yaml:"season"`
	DBL    decimal.Decimal `json:"dbl" yaml:"dbl"`
	HB     decimal.Decimal `json:"hb" yaml:"hb"`
	SGL    decimal.Decimal `json:"sgl" yaml:"sgl"`
}

// AccommodationSelection is one lodging line inside an Option
type AccommodationSelection struct {
	City   string `json:"city" yaml:"city"`
	Stars  string `json:"stars" yaml:"stars"`
	Hotel  string `json:"hotel" yaml:"hotel"`
	Season string `json:"season" yaml:"season"`

	// Nightly rates: DBL per person sharing, HB supplement, SGL supplement
	DBL decimal.Decimal `json:"dbl" yaml:"dbl"`
	HB  decimal.Decimal `json:"hb" yaml:"hb"`
	SGL decimal.Decimal `json:"sgl" yaml:"sgl"`

	Nights int   `json:"nights" yaml:"nights"`
	Board  Board `json:"board" yaml:"board"`

	// IsManualRate freezes the rate fields against repository lookups
	IsManualRate bool `json:"is_manual_rate,omitempty" yaml:"is_manual_rate,omitempty"`

	// IsSpecialRate selects SpecialRate over StandardRate
	IsSpecialRate bool          `json:"is_special_rate,omitempty" yaml:"is_special_rate,omitempty"`
	StandardRate  *RateSnapshot `json:"standard_rate,omitempty" yaml:"standard_rate,omitempty"`
	SpecialRate   *RateSnapshot `json:"special_rate,omitempty" yaml:"special_rate,omitempty"`
}

// ActiveSnapshot returns the cached snapshot selected by IsSpecialRate
func (a AccommodationSelection) ActiveSnapshot() *RateSnapshot {
	if a.IsSpecialRate && a.SpecialRate != nil {
		return a.SpecialRate
	}
	return a.StandardRate
}

// Clone returns a deep copy
func (a AccommodationSelection) Clone() AccommodationSelection {
	out := a
	if a.StandardRate != nil {
		s := *a.StandardRate
		out.StandardRate = &s
	}
	if a.SpecialRate != nil {
		s := *a.SpecialRate
		out.SpecialRate = &s
	}
	return out
}

// Option is one proposed lodging plan
type Option struct {
	Name           string                   `json:"name" yaml:"name"`
	Accommodations []AccommodationSelection `json:"accommodations" yaml:"accommodations"`
}

// Clone returns a deep copy
func (o Option) Clone() Option {
	out := Option{Name: o.Name}
	if o.Accommodations != nil {
		out.Accommodations = make([]AccommodationSelection, len(o.Accommodations))
		for i, a := range o.Accommodations {
			out.Accommodations[i] = a.Clone()
		}
	}
	return out
}

// CloneOptions deep-copies a list of options
func CloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = o.Clone()
	}
	return out
}
