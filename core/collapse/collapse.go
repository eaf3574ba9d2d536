// Package collapse merges runs of free days for display. It never
// changes what an itinerary costs.
package collapse

import (
	"fmt"
	"regexp"
	"strings"

	"tour-quote/core/types"
)

// DefaultFreeDescription labels a merged block without a description
const DefaultFreeDescription = "Free Day at Leisure"

var (
	exactFree = map[string]bool{
		"free":        true,
		"free day":    true,
		"leisure":     true,
		"leisure day": true,
	}

	atLeisure = regexp.MustCompile(`\b(day )?at leisure\b`)
	spaces    = regexp.MustCompile(`\s+`)
)

// IsFreeText reports whether a description reads as a free/leisure day
func IsFreeText(description string) bool {
	text := strings.ToLower(strings.TrimSpace(description))
	text = strings.Trim(spaces.ReplaceAllString(text, " "), ".!")
	if exactFree[text] {
		return true
	}
	return atLeisure.MatchString(text)
}

// IsFreeDay reports whether a day is free text with nothing priced on it
func IsFreeDay(day types.ItineraryDay) bool {
	return IsFreeText(day.Description) && !day.HasCostContent()
}

// Label renders "Day X" or "Day X - Y" from 1-based day numbers
func Label(first, last int) string {
	if first == last {
		return fmt.Sprintf("Day %d", first)
	}
	return fmt.Sprintf("Day %d - %d", first, last)
}

// Collapse merges consecutive free days into one display row
func Collapse(days []types.ItineraryDay) []types.DisplayDay {
	out := make([]types.DisplayDay, 0, len(days))
	for i := 0; i < len(days); {
		day := days[i]
		if !IsFreeDay(day) {
			out = append(out, types.DisplayDay{
				Label:       Label(i+1, i+1),
				FirstDay:    i + 1,
				LastDay:     i + 1,
				Date:        day.Date,
				Description: day.Description,
				Day:         day.Clone(),
			})
			i++
			continue
		}

		j := i
		for j+1 < len(days) && IsFreeDay(days[j+1]) {
			j++
		}
		desc := strings.TrimSpace(day.Description)
		if desc == "" {
			desc = DefaultFreeDescription
		}
		out = append(out, types.DisplayDay{
			Label:       Label(i+1, j+1),
			FirstDay:    i + 1,
			LastDay:     j + 1,
			Date:        day.Date,
			Description: desc,
			Collapsed:   j > i,
			Day:         day.Clone(),
		})
		i = j + 1
	}
	return out
}
