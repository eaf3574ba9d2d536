// Package money provides exact decimal arithmetic for quotation amounts.
// NEVER use float64 for money calculations.
package money

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency codes seen in rate tables.
const (
	USD = "USD"
	JOD = "JOD"
)

var hundred = decimal.NewFromInt(100)

// Zero is the additive identity, exported for readability at call sites.
var Zero = decimal.Zero

// Int lifts an integer into a decimal.
func Int(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// MustParse parses a literal known at compile time.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Parse coerces free-form numeric input. Empty, malformed or non-finite
// input yields zero; thousands separators and a leading currency sign
// are tolerated.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds amounts in order.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// PerPerson divides total by pax; a non-positive pax yields zero.
func PerPerson(total decimal.Decimal, pax int) decimal.Decimal {
	if pax <= 0 {
		return decimal.Zero
	}
	return total.Div(Int(pax))
}

// FromJOD converts a JOD amount to USD.
func FromJOD(jod, rate decimal.Decimal) decimal.Decimal {
	return jod.Mul(rate)
}

// Discount applies total * (1 - pct/100).
func Discount(total, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return total
	}
	return total.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

// Margin applies amount * (1 + margin).
func Margin(amount, margin decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(margin))
}

// CeilDiv returns ceil(a/b) for positive b.
func CeilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Format renders an amount with two decimals and a currency code.
func Format(d decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", d.StringFixed(2), currency)
}

// SortedKeys returns map keys in ascending order for deterministic iteration.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
