// Package guide decides private and local guide staffing for an
// itinerary and prices it for one group size.
package guide

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tour-quote/core/money"
	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

// Staffing thresholds and default local fees (JOD).
const (
	// PrivateFromPax makes a private guide mandatory at Petra and Jerash
	PrivateFromPax = 6

	// ExtraLocalFromPax adds local Jerash guides next to the private one
	ExtraLocalFromPax = 11

	extraLocalPerGroup = 10
	extraLocalFeeJOD   = 10
)

var (
	DefaultPetraJOD  = decimal.NewFromInt(50)
	DefaultJerashJOD = decimal.NewFromInt(30)
)

// Costs are guide totals in USD for the whole group. Callers divide by pax.
type Costs struct {
	LocalUSD   decimal.Decimal `json:"local_usd"`
	PrivateUSD decimal.Decimal `json:"private_usd"`
}

// Plan is the staffing decision before pricing
type Plan struct {
	PetraDays   []int
	JerashDays  []int
	PrivateDays []int
}

// IsPetra reports whether a day visits Petra
func IsPetra(day types.ItineraryDay) bool {
	return strings.Contains(strings.ToLower(day.Description), "petra")
}

// IsJerash reports whether a day visits Jerash
func IsJerash(day types.ItineraryDay) bool {
	return strings.Contains(strings.ToLower(day.Description), "jerash")
}

// Staff decides which days get a private guide
func Staff(days []types.ItineraryDay, pax int) Plan {
	var plan Plan
	for i, day := range days {
		petra, jerash := IsPetra(day), IsJerash(day)
		if petra {
			plan.PetraDays = append(plan.PetraDays, i)
		}
		if jerash {
			plan.JerashDays = append(plan.JerashDays, i)
		}
		if day.GuideRequired || (pax >= PrivateFromPax && (petra || jerash)) {
			plan.PrivateDays = append(plan.PrivateDays, i)
		}
	}
	return plan
}

func (p Plan) private(i int) bool {
	for _, d := range p.PrivateDays {
		if d == i {
			return true
		}
	}
	return false
}

// Compute prices guide staffing for one group size. Missing guide tables
// degrade to zero; the private rate falls back to zero for unknown
// languages. A day's GuideLanguage overrides language.
func Compute(repo *rates.Repository, days []types.ItineraryDay, pax int, language string, jodToUSD decimal.Decimal, diag *rates.Diagnostics) Costs {
	if pax <= 0 || len(days) == 0 {
		return Costs{LocalUSD: decimal.Zero, PrivateUSD: decimal.Zero}
	}
	plan := Staff(days, pax)
	log := logging.Named("guide").With(logging.Pax(pax))

	hasTables := repo != nil && repo.HasGuideRates()
	if !hasTables && (len(plan.PrivateDays) > 0 || len(plan.PetraDays) > 0 || len(plan.JerashDays) > 0) {
		log.Warn("guide rates unavailable, guide costs degrade to zero")
		diag.Missing(rates.LookupGuide, "guides", rates.NoDay, "guide table missing")
		return Costs{LocalUSD: decimal.Zero, PrivateUSD: decimal.Zero}
	}

	privateJOD := decimal.Zero
	for _, i := range plan.PrivateDays {
		lang := language
		if days[i].GuideLanguage != "" {
			lang = days[i].GuideLanguage
		}
		rate, ok := repo.PrivateGuideRate(lang)
		if !ok {
			diag.Missing(rates.LookupGuide, lang, i, "no private guide rate for language")
		}
		privateJOD = privateJOD.Add(rate)
		if days[i].GuideAccommodation {
			privateJOD = privateJOD.Add(repo.PrivateGuideAccNights())
		}
	}

	localJOD := decimal.Zero
	if hasTables {
		petraFee, jerashFee := localFees(repo)
		if pax < PrivateFromPax {
			for _, i := range plan.PetraDays {
				if !plan.private(i) {
					localJOD = localJOD.Add(petraFee)
				}
			}
			for _, i := range plan.JerashDays {
				if !plan.private(i) {
					localJOD = localJOD.Add(jerashFee)
				}
			}
		} else if pax >= ExtraLocalFromPax {
			extra := decimal.NewFromInt(int64(money.CeilDiv(pax-10, extraLocalPerGroup) * extraLocalFeeJOD))
			localJOD = extra.Mul(money.Int(len(plan.JerashDays)))
		}
	}

	costs := Costs{
		LocalUSD:   money.FromJOD(localJOD, jodToUSD),
		PrivateUSD: money.FromJOD(privateJOD, jodToUSD),
	}
	log.Debug("guide costs",
		zap.Int("private_days", len(plan.PrivateDays)),
		zap.String("local_usd", costs.LocalUSD.String()),
		zap.String("private_usd", costs.PrivateUSD.String()),
	)
	return costs
}

// localFees returns the per-site local fees, defaulting to 50/30 JOD when
// the table leaves them at zero.
func localFees(repo *rates.Repository) (petra, jerash decimal.Decimal) {
	local := repo.LocalGuideRates()
	petra, jerash = DefaultPetraJOD, DefaultJerashJOD
	if local.Petra.IsPositive() {
		petra = local.Petra
	}
	if local.Jerash.IsPositive() {
		jerash = local.Jerash
	}
	return petra, jerash
}
