package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tour-quote/core/accommodation"
	"tour-quote/core/collapse"
	"tour-quote/core/itinerary"
	"tour-quote/core/rates"
	"tour-quote/core/types"
	"tour-quote/internal/logging"
)

// Override is one manual edit applied after calculation
type Override struct {
	Pax int `json:"pax" yaml:"pax"`

	// Line edits a breakdown row; empty when Option is used
	Line types.Line `json:"line,omitempty" yaml:"line,omitempty"`

	// Option pins a final option price when Line is empty
	Option int `json:"option,omitempty" yaml:"option,omitempty"`

	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Session is an immutable quotation snapshot. Every With* edit returns a
// new session and leaves the receiver untouched.
type Session struct {
	ID        string
	Arrival   time.Time
	Departure time.Time
	Days      []types.ItineraryDay
	Options   []types.Option
	Settings  Settings
	Overrides []Override

	repo *rates.Repository
}

// NewSession starts a quotation with a generated day list
func NewSession(repo *rates.Repository, arrival, departure time.Time, settings Settings) Session {
	if repo == nil {
		repo = rates.Empty()
	}
	return Session{
		ID:        uuid.New().String(),
		Arrival:   rates.Truncate(arrival),
		Departure: rates.Truncate(departure),
		Days:      itinerary.Generate(arrival, departure),
		Settings:  settings,
		repo:      repo,
	}
}

// Repository returns the rate snapshot the session prices against
func (s Session) Repository() *rates.Repository {
	return s.repo
}

func (s Session) clone() Session {
	out := s
	out.Days = types.CloneDays(s.Days)
	out.Options = types.CloneOptions(s.Options)
	out.Settings.PaxBrackets = append([]int(nil), s.Settings.PaxBrackets...)
	out.Overrides = append([]Override(nil), s.Overrides...)
	return out
}

// WithRates swaps the rate snapshot and refreshes automatic rates
func (s Session) WithRates(repo *rates.Repository) Session {
	out := s.clone()
	if repo == nil {
		repo = rates.Empty()
	}
	out.repo = repo
	return out.RefreshRates()
}

// WithItinerary replaces the day list
func (s Session) WithItinerary(days []types.ItineraryDay) Session {
	out := s.clone()
	out.Days = types.CloneDays(days)
	return out
}

// WithDay replaces one day; out-of-range indices leave the session as is
func (s Session) WithDay(i int, day types.ItineraryDay) Session {
	if i < 0 || i >= len(s.Days) {
		logging.Debug("day index out of range", logging.Day(i))
		return s
	}
	out := s.clone()
	out.Days[i] = itinerary.Dedupe(day)
	return out
}

// WithOptions replaces the accommodation options
func (s Session) WithOptions(opts []types.Option) Session {
	out := s.clone()
	out.Options = types.CloneOptions(opts)
	return out
}

// WithSettings replaces the pricing settings. Special-rate scoping
// changes refresh automatic rates.
func (s Session) WithSettings(settings Settings) Session {
	out := s.clone()
	out.Settings = settings
	out.Settings.PaxBrackets = append([]int(nil), settings.PaxBrackets...)
	if settings.AgentID != s.Settings.AgentID || settings.UseSpecialRates != s.Settings.UseSpecialRates {
		return out.RefreshRates()
	}
	return out
}

// WithDates moves the tour. Days whose date survives keep their content
// and every automatic rate is re-resolved for the new stay.
func (s Session) WithDates(arrival, departure time.Time) Session {
	out := s.clone()
	out.Arrival = rates.Truncate(arrival)
	out.Departure = rates.Truncate(departure)
	out.Days = itinerary.Regenerate(s.Days, arrival, departure)
	return out.RefreshRates()
}

// WithOverride records a manual edit of the calculated matrix
func (s Session) WithOverride(o Override) Session {
	out := s.clone()
	out.Overrides = append(out.Overrides, o)
	return out
}

// ApplyEvent runs one accommodation edit through the cascade
func (s Session) ApplyEvent(option, line int, ev accommodation.Event) Session {
	if option < 0 || option >= len(s.Options) || line < 0 || line >= len(s.Options[option].Accommodations) {
		logging.Debug("accommodation line out of range", logging.Option(option), zap.Int("line", line))
		return s
	}
	out := s.clone()
	stays := accommodation.StayDates(out.Options[option], out.Arrival)
	env := s.env()
	env.Arrival, env.Departure = stays[line][0], stays[line][1]
	out.Options[option].Accommodations[line] = accommodation.Apply(out.Options[option].Accommodations[line], ev, env)
	return out
}

// RefreshRates re-resolves season and rate of every non-manual line
func (s Session) RefreshRates() Session {
	out := s.clone()
	env := s.env()
	for i, opt := range out.Options {
		out.Options[i] = accommodation.RefreshOption(opt, env)
	}
	return out
}

func (s Session) env() accommodation.Env {
	return accommodation.Env{
		Repo:            s.repo,
		Arrival:         s.Arrival,
		Departure:       s.Departure,
		AgentID:         s.Settings.AgentID,
		UseSpecialRates: s.Settings.UseSpecialRates,
	}
}

// Quotation is the output of one calculation pass
type Quotation struct {
	SessionID   string                    `json:"session_id"`
	Arrival     time.Time                 `json:"arrival"`
	Departure   time.Time                 `json:"departure"`
	Currency    string                    `json:"currency"`
	Results     []types.CalculationResult `json:"results"`
	Itinerary   []types.DisplayDay        `json:"itinerary"`
	Diagnostics []rates.Lookup            `json:"diagnostics,omitempty"`
	Issues      []itinerary.Issue         `json:"issues,omitempty"`

	margin decimal.Decimal
}

// Calculate prices the session. It never fails; unresolved lookups are
// listed in Diagnostics.
func (s Session) Calculate() Quotation {
	diag := rates.NewDiagnostics()
	days := itinerary.ApplyReplication(s.Days)

	results := Aggregate(Input{
		Repo:     s.repo,
		Days:     days,
		Options:  s.Options,
		Settings: s.Settings,
	}, diag)

	q := Quotation{
		SessionID: s.ID,
		Arrival:   s.Arrival,
		Departure: s.Departure,
		Currency:  "USD",
		Results:   results,
		Itinerary: collapse.Collapse(days),
		Issues:    itinerary.Validate(days),
		margin:    s.Settings.ProfitMargin,
	}
	log := logging.With(zap.String("session", s.ID))
	for _, o := range s.Overrides {
		var ok bool
		if o.Line != "" {
			q, ok = q.OverrideLine(o.Pax, o.Line, o.Value)
		} else {
			q, ok = q.OverrideOptionPrice(o.Pax, o.Option, o.Value)
		}
		if !ok {
			log.Warn("override ignored",
				logging.Pax(o.Pax),
				zap.String("line", string(o.Line)),
				logging.Option(o.Option),
			)
		}
	}
	q.Diagnostics = diag.Items()

	log.Info("quotation calculated",
		zap.Int("brackets", len(q.Results)),
		zap.Int("options", len(s.Options)),
		zap.Int("diagnostics", len(q.Diagnostics)),
	)
	return q
}

// Bracket returns the result of a pax value
func (q Quotation) Bracket(pax int) (types.CalculationResult, bool) {
	for _, r := range q.Results {
		if r.Bracket.Pax == pax {
			return r, true
		}
	}
	return types.CalculationResult{}, false
}

// ByPax indexes results by representative pax value
func (q Quotation) ByPax() map[int]types.CalculationResult {
	out := make(map[int]types.CalculationResult, len(q.Results))
	for _, r := range q.Results {
		out[r.Bracket.Pax] = r
	}
	return out
}

// OverrideLine edits one breakdown line of a bracket
func (q Quotation) OverrideLine(pax int, line types.Line, value decimal.Decimal) (Quotation, bool) {
	return q.edit(pax, func(r types.CalculationResult) (types.CalculationResult, bool) {
		return OverrideLine(r, line, value, q.margin)
	})
}

// OverrideOptionPrice pins one option price of a bracket
func (q Quotation) OverrideOptionPrice(pax, option int, price decimal.Decimal) (Quotation, bool) {
	return q.edit(pax, func(r types.CalculationResult) (types.CalculationResult, bool) {
		return OverrideOptionPrice(r, option, price)
	})
}

func (q Quotation) edit(pax int, fn func(types.CalculationResult) (types.CalculationResult, bool)) (Quotation, bool) {
	for i, r := range q.Results {
		if r.Bracket.Pax != pax {
			continue
		}
		next, ok := fn(r)
		if !ok {
			return q, false
		}
		out := q
		out.Results = append([]types.CalculationResult(nil), q.Results...)
		out.Results[i] = next
		return out, true
	}
	return q, false
}
