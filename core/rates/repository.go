package rates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tour-quote/core/money"
	"tour-quote/core/types"
)

// PrivateAccNightsKey is the reserved Private guide key for overnights.
const PrivateAccNightsKey = "AccNights"

// Rate is a validated nightly hotel rate
type Rate struct {
	City    string
	Stars   string
	Hotel   string
	Season  string
	DBL     decimal.Decimal
	HB      decimal.Decimal
	SGL     decimal.Decimal
	Special bool
	AgentID string
}

// Snapshot converts the rate into the cached form stored on a selection
func (r Rate) Snapshot() types.RateSnapshot {
	return types.RateSnapshot{Season: r.Season, DBL: r.DBL, HB: r.HB, SGL: r.SGL}
}

// LocalGuide holds validated local guide fees in JOD
type LocalGuide struct {
	Petra     decimal.Decimal
	Jerash    decimal.Decimal
	AccNights decimal.Decimal
}

// Restaurant is a validated menu item
type Restaurant struct {
	Region        string
	Restaurant    string
	Kind          types.MealKind
	PriceValue    decimal.Decimal
	PriceCurrency string
	USDPrice      decimal.Decimal
	MinPax        int // 0 = unbounded
	MaxPax        int // 0 = unbounded
}

// Bounded reports whether the item carries a pax range
func (r Restaurant) Bounded() bool {
	return r.MinPax > 0 || r.MaxPax > 0
}

// Fits reports whether pax falls inside the item's range
func (r Restaurant) Fits(pax int) bool {
	if r.MinPax > 0 && pax < r.MinPax {
		return false
	}
	if r.MaxPax > 0 && pax > r.MaxPax {
		return false
	}
	return true
}

// Issue records a coercion applied while validating tables
type Issue struct {
	Table   string `json:"table"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// String renders the issue for logs and CLI output
func (i Issue) String() string {
	return fmt.Sprintf("%s[%s]: %s", i.Table, i.Key, i.Message)
}

// Repository is an immutable, validated rate snapshot.
// It is safe for concurrent reads; nothing mutates it after construction.
type Repository struct {
	hotelRates   []Rate
	specialRates []Rate
	transport    map[string]map[string]decimal.Decimal
	hasGuides    bool
	localGuide   LocalGuide
	privateGuide map[string]decimal.Decimal
	privateAcc   decimal.Decimal
	entrances    map[string]decimal.Decimal
	jeeps        map[string]decimal.Decimal
	restaurants  []Restaurant
	calendar     map[string][]SeasonWindow
	extras       map[string]decimal.Decimal
}

// Empty returns a repository with no tables at all
func Empty() *Repository {
	r, _ := NewRepository(Tables{})
	return r
}

// NewRepository validates tables and builds the lookup indexes.
// Problems are coerced (negative → 0, malformed → 0, duplicate → first
// wins) and reported as issues; construction itself never fails.
func NewRepository(t Tables) (*Repository, []Issue) {
	v := &validator{}
	repo := &Repository{
		transport:    make(map[string]map[string]decimal.Decimal),
		privateGuide: make(map[string]decimal.Decimal),
		entrances:    make(map[string]decimal.Decimal),
		jeeps:        make(map[string]decimal.Decimal),
		calendar:     make(map[string][]SeasonWindow),
		extras:       make(map[string]decimal.Decimal),
	}

	seen := make(map[string]bool)
	for i, h := range t.HotelRates {
		rate, ok := v.rate("hotel_rates", i, h)
		if !ok {
			continue
		}
		key := rateKey(rate)
		if seen[key] {
			v.add("hotel_rates", key, "duplicate rate ignored")
			continue
		}
		seen[key] = true
		repo.hotelRates = append(repo.hotelRates, rate)
	}

	seenSpecial := make(map[string]bool)
	for i, s := range t.SpecialRates {
		rate, ok := v.rate("special_rates", i, s.HotelRate)
		if !ok {
			continue
		}
		rate.Special = true
		rate.AgentID = strings.TrimSpace(s.AgentID)
		key := rate.AgentID + "|" + rateKey(rate)
		if seenSpecial[key] {
			v.add("special_rates", key, "duplicate rate ignored")
			continue
		}
		seenSpecial[key] = true
		repo.specialRates = append(repo.specialRates, rate)
	}

	for _, service := range money.SortedKeys(t.Transport) {
		classes := make(map[string]decimal.Decimal)
		for _, class := range money.SortedKeys(t.Transport[service]) {
			classes[types.NormalizeKey(class)] = v.amount("transport", service+"/"+class, t.Transport[service][class])
		}
		repo.transport[types.NormalizeKey(service)] = classes
	}

	if t.Guides != nil {
		repo.hasGuides = true
		repo.localGuide = LocalGuide{
			Petra:     v.amount("guides", "Local.Petra", t.Guides.Local.Petra),
			Jerash:    v.amount("guides", "Local.Jerash", t.Guides.Local.Jerash),
			AccNights: v.amount("guides", "Local.AccNights", t.Guides.Local.AccNights),
		}
		for _, lang := range money.SortedKeys(t.Guides.Private) {
			amt := v.amount("guides", "Private."+lang, t.Guides.Private[lang])
			if strings.EqualFold(strings.TrimSpace(lang), PrivateAccNightsKey) {
				repo.privateAcc = amt
				continue
			}
			repo.privateGuide[types.NormalizeKey(lang)] = amt
		}
	}

	for _, name := range money.SortedKeys(t.Entrances) {
		code := strings.TrimSpace(name)
		if code == "" {
			v.add("entrances", name, "empty code ignored")
			continue
		}
		amt := v.amount("entrances", code, t.Entrances[name])
		repo.entrances[code] = amt
		if strings.Contains(strings.ToLower(code), "jeep") {
			repo.jeeps[code] = amt
		}
	}

	for _, key := range money.SortedKeys(t.Extras) {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		repo.extras[k] = v.amount("extras", k, t.Extras[key])
	}

	for i, item := range t.Restaurants {
		r, ok := v.restaurant(i, item)
		if ok {
			repo.restaurants = append(repo.restaurants, r)
		}
	}

	for _, cal := range t.Calendar {
		hotel := strings.TrimSpace(cal.Hotel)
		if hotel == "" {
			v.add("calendar", "", "calendar without hotel ignored")
			continue
		}
		if _, dup := repo.calendar[hotel]; dup {
			v.add("calendar", hotel, "duplicate hotel calendar ignored")
			continue
		}
		windows := make([]SeasonWindow, 0, len(cal.Seasons))
		for _, w := range cal.Seasons {
			window := SeasonWindow{Season: strings.TrimSpace(w.Season)}
			for _, r := range w.Ranges {
				if r.End.Before(r.Start.Time) {
					v.add("calendar", hotel+"/"+window.Season, "range end before start swapped")
					r.Start, r.End = r.End, r.Start
				}
				window.Ranges = append(window.Ranges, r)
			}
			windows = append(windows, window)
		}
		repo.calendar[hotel] = windows
	}

	return repo, v.issues
}

func rateKey(r Rate) string {
	return r.City + "|" + r.Stars + "|" + r.Hotel + "|" + r.Season
}

type validator struct {
	issues []Issue
}

func (v *validator) add(table, key, msg string) {
	v.issues = append(v.issues, Issue{Table: table, Key: key, Message: msg})
}

func (v *validator) amount(table, key string, a Amount) decimal.Decimal {
	if a.Invalid {
		v.add(table, key, "malformed amount coerced to 0")
		return decimal.Zero
	}
	if a.Value.IsNegative() {
		v.add(table, key, "negative amount coerced to 0")
		return decimal.Zero
	}
	return a.Value
}

func (v *validator) rate(table string, i int, h HotelRate) (Rate, bool) {
	r := Rate{
		City:   strings.TrimSpace(h.City),
		Stars:  strings.TrimSpace(h.Stars),
		Hotel:  strings.TrimSpace(h.Hotel),
		Season: strings.TrimSpace(h.Season),
	}
	if r.City == "" || r.Stars == "" || r.Hotel == "" {
		v.add(table, fmt.Sprintf("#%d", i), "row without city, stars or hotel ignored")
		return Rate{}, false
	}
	key := rateKey(r)
	r.DBL = v.amount(table, key+"/DBL", h.DBL)
	r.HB = v.amount(table, key+"/HB", h.HB)
	r.SGL = v.amount(table, key+"/SGL", h.SGL)
	return r, true
}

func (v *validator) restaurant(i int, item RestaurantItem) (Restaurant, bool) {
	key := fmt.Sprintf("#%d", i)
	r := Restaurant{
		Region:        strings.TrimSpace(item.Region),
		Restaurant:    strings.TrimSpace(item.Restaurant),
		PriceCurrency: strings.ToUpper(strings.TrimSpace(item.PriceCurrency)),
	}
	switch types.NormalizeKey(item.ItemType) {
	case "lunch":
		r.Kind = types.MealKindLunch
	case "dinner":
		r.Kind = types.MealKindDinner
	default:
		v.add("restaurants", key, "unknown item type "+item.ItemType+" ignored")
		return Restaurant{}, false
	}
	if r.Restaurant == "" {
		v.add("restaurants", key, "item without restaurant ignored")
		return Restaurant{}, false
	}
	key = r.Region + "/" + r.Restaurant + "/" + string(r.Kind)
	r.PriceValue = v.amount("restaurants", key, item.PriceValue)
	r.USDPrice = v.amount("restaurants", key, item.USDPrice)
	if item.MinPax != nil && *item.MinPax > 0 {
		r.MinPax = *item.MinPax
	}
	if item.MaxPax != nil && *item.MaxPax > 0 {
		r.MaxPax = *item.MaxPax
	}
	if r.MinPax > 0 && r.MaxPax > 0 && r.MaxPax < r.MinPax {
		v.add("restaurants", key, "maxPax below minPax swapped")
		r.MinPax, r.MaxPax = r.MaxPax, r.MinPax
	}
	return r, true
}

// HotelRates returns standard rates for (city, stars) in repository order
func (r *Repository) HotelRates(city, stars string) []Rate {
	var out []Rate
	for _, h := range r.hotelRates {
		if h.City == city && h.Stars == stars {
			out = append(out, h)
		}
	}
	return out
}

// HotelsFor returns distinct hotel names for (city, stars) in repository order
func (r *Repository) HotelsFor(city, stars string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, h := range r.HotelRates(city, stars) {
		if !seen[h.Hotel] {
			seen[h.Hotel] = true
			out = append(out, h.Hotel)
		}
	}
	return out
}

// Cities returns distinct cities sorted by name
func (r *Repository) Cities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range r.hotelRates {
		if !seen[h.City] {
			seen[h.City] = true
			out = append(out, h.City)
		}
	}
	sort.Strings(out)
	return out
}

// StarsFor returns distinct star categories of a city in repository order
func (r *Repository) StarsFor(city string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range r.hotelRates {
		if h.City == city && !seen[h.Stars] {
			seen[h.Stars] = true
			out = append(out, h.Stars)
		}
	}
	return out
}

// StandardRate returns the exact (city, stars, hotel, season) rate
func (r *Repository) StandardRate(city, stars, hotel, season string) (Rate, bool) {
	for _, h := range r.hotelRates {
		if h.City == city && h.Stars == stars && h.Hotel == hotel && h.Season == season {
			return h, true
		}
	}
	return Rate{}, false
}

// AnyRate returns the first rate for (city, stars, hotel) regardless of season
func (r *Repository) AnyRate(city, stars, hotel string) (Rate, bool) {
	for _, h := range r.hotelRates {
		if h.City == city && h.Stars == stars && h.Hotel == hotel {
			return h, true
		}
	}
	return Rate{}, false
}

// SpecialRatesFor returns the special rates visible to an agent. Rows
// without an agent apply to every agent.
func (r *Repository) SpecialRatesFor(agentID string) []Rate {
	agentID = strings.TrimSpace(agentID)
	var out []Rate
	for _, s := range r.specialRates {
		if s.AgentID == "" || s.AgentID == agentID {
			out = append(out, s)
		}
	}
	return out
}

// TransportRate returns the day rate of a service for a vehicle class
func (r *Repository) TransportRate(service, class string) (decimal.Decimal, bool) {
	classes, ok := r.transport[types.NormalizeKey(service)]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := classes[types.NormalizeKey(class)]
	return rate, ok
}

// HasGuideRates reports whether a guide table was supplied at all
func (r *Repository) HasGuideRates() bool {
	return r.hasGuides
}

// LocalGuideRates returns local guide fees in JOD
func (r *Repository) LocalGuideRates() LocalGuide {
	return r.localGuide
}

// PrivateGuideRate returns the private guide day rate for a language in JOD
func (r *Repository) PrivateGuideRate(language string) (decimal.Decimal, bool) {
	rate, ok := r.privateGuide[types.NormalizeKey(language)]
	return rate, ok
}

// PrivateGuideAccNights returns the private guide overnight fee in JOD
func (r *Repository) PrivateGuideAccNights() decimal.Decimal {
	return r.privateAcc
}

// EntranceRate returns the per-person entrance fee of a code in USD
func (r *Repository) EntranceRate(code string) (decimal.Decimal, bool) {
	rate, ok := r.entrances[strings.TrimSpace(code)]
	return rate, ok
}

// JeepRate returns the flat JOD rate of a jeep service
func (r *Repository) JeepRate(code string) (decimal.Decimal, bool) {
	rate, ok := r.jeeps[strings.TrimSpace(code)]
	return rate, ok
}

// JeepServices lists jeep service codes sorted by name
func (r *Repository) JeepServices() []string {
	return money.SortedKeys(r.jeeps)
}

// ExtraCost returns the fixed USD cost of a catalog extra
func (r *Repository) ExtraCost(key string) (decimal.Decimal, bool) {
	cost, ok := r.extras[strings.TrimSpace(key)]
	return cost, ok
}

// RestaurantItems returns menu items of a restaurant for a meal kind
func (r *Repository) RestaurantItems(region, restaurant string, kind types.MealKind) []Restaurant {
	var out []Restaurant
	for _, item := range r.restaurants {
		if item.Restaurant != restaurant || item.Kind != kind {
			continue
		}
		if region != "" && item.Region != region {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Calendar returns a hotel's ordered season windows
func (r *Repository) Calendar(hotel string) []SeasonWindow {
	return r.calendar[hotel]
}
