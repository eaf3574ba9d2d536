package ratefile

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"tour-quote/core/rates"
	qerrors "tour-quote/internal/errors"
)

// HCL rate files use one block per row:
//
//	hotel_rate {
//	  city   = "Amman"
//	  stars  = 4
//	  hotel  = "Alpha"
//	  season = "High"
//	  dbl    = 100
//	  sgl    = 30
//	  hb     = 15
//	}
//
//	transport "Full Day" {
//	  car   = 100
//	  van10 = 150
//	}
//
//	calendar "Alpha" {
//	  season "High" {
//	    ranges = [["2026-03-01", "2026-05-31"]]
//	  }
//	}
//
// Amounts stay expressions until the end so a malformed value is coerced
// to an invalid Amount instead of failing the whole file.
type hclFile struct {
	HotelRates   []hclRate       `hcl:"hotel_rate,block"`
	SpecialRates []hclRate       `hcl:"special_rate,block"`
	Transport    []hclTransport  `hcl:"transport,block"`
	Guides       *hclGuides      `hcl:"guides,block"`
	Restaurants  []hclRestaurant `hcl:"restaurant,block"`
	Calendar     []hclCalendar   `hcl:"calendar,block"`
	Entrances    hcl.Expression  `hcl:"entrances,optional"`
	Extras       hcl.Expression  `hcl:"extras,optional"`
}

type hclRate struct {
	City   string         `hcl:"city"`
	Stars  string         `hcl:"stars"`
	Hotel  string         `hcl:"hotel"`
	Season string         `hcl:"season,optional"`
	DBL    hcl.Expression `hcl:"dbl,optional"`
	SGL    hcl.Expression `hcl:"sgl,optional"`
	HB     hcl.Expression `hcl:"hb,optional"`
	Agent  string         `hcl:"agent,optional"`
}

type hclTransport struct {
	Service  string   `hcl:"service,label"`
	Vehicles hcl.Body `hcl:",remain"`
}

type hclGuides struct {
	Local   *hclLocalGuides `hcl:"local,block"`
	Private hcl.Expression  `hcl:"private,optional"`
}

type hclLocalGuides struct {
	Petra     hcl.Expression `hcl:"petra,optional"`
	Jerash    hcl.Expression `hcl:"jerash,optional"`
	AccNights hcl.Expression `hcl:"acc_nights,optional"`
}

type hclRestaurant struct {
	Region     string         `hcl:"region"`
	Restaurant string         `hcl:"restaurant"`
	ItemType   string         `hcl:"item_type"`
	Price      hcl.Expression `hcl:"price,optional"`
	Currency   string         `hcl:"currency,optional"`
	USDPrice   hcl.Expression `hcl:"usd_price,optional"`
	MinPax     *int           `hcl:"min_pax,optional"`
	MaxPax     *int           `hcl:"max_pax,optional"`
}

type hclCalendar struct {
	Hotel   string      `hcl:"hotel,label"`
	Seasons []hclSeason `hcl:"season,block"`
}

type hclSeason struct {
	Name   string     `hcl:"name,label"`
	Ranges [][]string `hcl:"ranges"`
}

func decodeHCL(data []byte, filename string) (rates.Tables, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return rates.Tables{}, qerrors.Parsing("invalid HCL rate file", diags).WithContext("file", filename)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return rates.Tables{}, qerrors.Parsing("invalid HCL rate file", diags).WithContext("file", filename)
	}

	d := &hclDecoder{}
	t := rates.Tables{
		Entrances: d.amountMap(raw.Entrances),
		Extras:    d.amountMap(raw.Extras),
	}
	for _, r := range raw.HotelRates {
		t.HotelRates = append(t.HotelRates, d.hotelRate(r))
	}
	for _, r := range raw.SpecialRates {
		t.SpecialRates = append(t.SpecialRates, rates.SpecialRate{HotelRate: d.hotelRate(r), AgentID: r.Agent})
	}
	if len(raw.Transport) > 0 {
		t.Transport = make(map[string]map[string]rates.Amount, len(raw.Transport))
		for _, tr := range raw.Transport {
			t.Transport[tr.Service] = d.attributes(tr.Vehicles)
		}
	}
	if raw.Guides != nil {
		g := &rates.GuideRates{Private: d.amountMap(raw.Guides.Private)}
		if l := raw.Guides.Local; l != nil {
			g.Local = rates.LocalGuideRates{
				Petra:     d.amount(l.Petra),
				Jerash:    d.amount(l.Jerash),
				AccNights: d.amount(l.AccNights),
			}
		}
		t.Guides = g
	}
	for _, r := range raw.Restaurants {
		t.Restaurants = append(t.Restaurants, rates.RestaurantItem{
			Region:        r.Region,
			Restaurant:    r.Restaurant,
			ItemType:      r.ItemType,
			PriceValue:    d.amount(r.Price),
			PriceCurrency: r.Currency,
			USDPrice:      d.amount(r.USDPrice),
			MinPax:        r.MinPax,
			MaxPax:        r.MaxPax,
		})
	}
	for _, c := range raw.Calendar {
		cal, err := calendar(c)
		if err != nil {
			return rates.Tables{}, qerrors.Parsing("invalid HCL rate file", err).WithContext("file", filename)
		}
		t.Calendar = append(t.Calendar, cal)
	}

	if d.diags.HasErrors() {
		return rates.Tables{}, qerrors.Parsing("invalid HCL rate file", d.diags).WithContext("file", filename)
	}
	return t, nil
}

// hclDecoder evaluates amount expressions, collecting diagnostics for
// expressions that cannot be evaluated at all (references, functions).
type hclDecoder struct {
	diags hcl.Diagnostics
}

func (d *hclDecoder) hotelRate(r hclRate) rates.HotelRate {
	return rates.HotelRate{
		City:   r.City,
		Stars:  r.Stars,
		Hotel:  r.Hotel,
		Season: r.Season,
		DBL:    d.amount(r.DBL),
		SGL:    d.amount(r.SGL),
		HB:     d.amount(r.HB),
	}
}

func (d *hclDecoder) value(expr hcl.Expression) cty.Value {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	val, diags := expr.Value(nil)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return val
}

func (d *hclDecoder) amount(expr hcl.Expression) rates.Amount {
	return amountOf(d.value(expr))
}

func (d *hclDecoder) amountMap(expr hcl.Expression) map[string]rates.Amount {
	val := d.value(expr)
	if val.IsNull() || !val.IsKnown() {
		return nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		d.diags = append(d.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Expected a map of amounts",
			Detail:   fmt.Sprintf("Got %s.", ty.FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
		return nil
	}
	out := make(map[string]rates.Amount, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = amountOf(v)
	}
	return out
}

func (d *hclDecoder) attributes(body hcl.Body) map[string]rates.Amount {
	attrs, diags := body.JustAttributes()
	d.diags = append(d.diags, diags...)
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]rates.Amount, len(attrs))
	for _, name := range names {
		out[name] = d.amount(attrs[name].Expr)
	}
	return out
}

// amountOf converts a cty value the same way JSON amounts decode: numbers
// and numeric strings parse, null is zero, anything else is invalid.
func amountOf(val cty.Value) rates.Amount {
	if val.IsNull() {
		return rates.Amount{}
	}
	if !val.IsKnown() {
		return rates.Amount{Invalid: true}
	}
	switch val.Type() {
	case cty.Number:
		return rates.AmountOf(val.AsBigFloat().Text('f', -1))
	case cty.String:
		return rates.AmountOf(val.AsString())
	}
	return rates.Amount{Invalid: true}
}

func calendar(c hclCalendar) (rates.HotelCalendar, error) {
	cal := rates.HotelCalendar{Hotel: c.Hotel}
	for _, s := range c.Seasons {
		w := rates.SeasonWindow{Season: s.Name}
		for _, pair := range s.Ranges {
			if len(pair) != 2 {
				return cal, fmt.Errorf("calendar %q season %q: range needs a start and an end date", c.Hotel, s.Name)
			}
			start, err := rates.ParseDate(pair[0])
			if err != nil {
				return cal, fmt.Errorf("calendar %q season %q: %w", c.Hotel, s.Name, err)
			}
			end, err := rates.ParseDate(pair[1])
			if err != nil {
				return cal, fmt.Errorf("calendar %q season %q: %w", c.Hotel, s.Name, err)
			}
			w.Ranges = append(w.Ranges, rates.DateRange{Start: start, End: end})
		}
		cal.Seasons = append(cal.Seasons, w)
	}
	return cal, nil
}
