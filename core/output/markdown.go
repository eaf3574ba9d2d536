package output

import (
	"io"
	"strings"

	"tour-quote/core/quote"
	"tour-quote/core/types"
)

type markdownFormatter struct{}

func (markdownFormatter) Format() Format { return FormatMarkdown }

func (markdownFormatter) Render(w io.Writer, q *quote.Quotation, opts Options) error {
	b := &boxWriter{w: w}
	names := optionNames(q)

	b.printf("## Tour quotation\n\n")
	if !q.Arrival.IsZero() {
		b.printf("%s to %s, prices in USD per person.\n\n", q.Arrival.Format("2006-01-02"), q.Departure.Format("2006-01-02"))
	}

	b.printf("| Pax | Base cost |")
	for _, n := range names {
		b.printf(" %s |", escape(n))
	}
	b.printf("\n|---|---:|%s\n", strings.Repeat("---:|", len(names)))
	for _, r := range q.Results {
		b.printf("| %s | %s |", r.Bracket.Label, usd(r.Breakdown.BaseCost))
		for _, o := range r.Options {
			mark := ""
			if o.Overridden {
				mark = " *"
			}
			b.printf(" %s%s |", usd(o.FinalPrice), mark)
		}
		b.printf("\n")
	}

	if opts.ShowDetails && len(q.Results) > 0 {
		b.printf("\n### Breakdown\n\n| Line |")
		for _, r := range q.Results {
			b.printf(" %s |", r.Bracket.Label)
		}
		b.printf("\n|---|%s\n", strings.Repeat("---:|", len(q.Results)))
		for _, line := range types.Lines {
			b.printf("| %s |", lineLabel(line))
			for _, r := range q.Results {
				b.printf(" %s |", usd(r.Breakdown.Get(line)))
			}
			b.printf("\n")
		}
	}

	if opts.ShowItinerary && len(q.Itinerary) > 0 {
		b.printf("\n### Itinerary\n\n")
		for _, d := range q.Itinerary {
			b.printf("- **%s**: %s\n", d.Label, escape(d.Description))
		}
	}

	if len(q.Diagnostics) > 0 {
		b.printf("\n> %d rate lookups priced at zero:\n", len(q.Diagnostics))
		for _, l := range q.Diagnostics {
			b.printf("> - %s\n", escape(l.String()))
		}
	}
	return b.err
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
