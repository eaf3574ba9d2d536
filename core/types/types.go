// Package types defines core domain types shared across all layers.
// This package contains NO pricing logic - only type definitions and
// the small normalizations needed to compare enum values.
package types

import (
	"strings"
)

// Well-known cities with special handling.
const (
	CityWadiRum = "Wadi Rum"
	CityAqaba   = "Aqaba"
	CityDeadSea = "Dead Sea"
)

// Star categories allowed for Wadi Rum camps.
const (
	StarsDeluxe  = "Deluxe"
	StarsRegular = "Regular"
)

// WadiRumStars lists the only categories a Wadi Rum line may carry.
var WadiRumStars = []string{StarsDeluxe, StarsRegular}

// IsWadiRum reports whether city names the Wadi Rum desert camps.
func IsWadiRum(city string) bool {
	return NormalizeKey(city) == NormalizeKey(CityWadiRum)
}

// NormalizeKey folds case and drops spaces, underscores, hyphens and
// slashes so that "Full Day", "full_day" and "FullDay" compare equal.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '/', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
