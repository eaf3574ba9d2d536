package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"tour-quote/core/quote"
	"tour-quote/core/types"
)

const (
	labelWidth  = 20
	columnWidth = 14
)

type cliFormatter struct{}

func (cliFormatter) Format() Format { return FormatCLI }

func (cliFormatter) Render(w io.Writer, q *quote.Quotation, opts Options) error {
	names := optionNames(q)
	inner := labelWidth + (columnWidth+1)*(len(names)+1) + 1
	b := &boxWriter{w: w, width: inner}

	b.rule("┌", "┐", inner)
	b.centered("TOUR QUOTATION (USD PER PERSON)", inner)
	if !q.Arrival.IsZero() {
		b.centered(fmt.Sprintf("%s → %s", q.Arrival.Format("02 Jan 2006"), q.Departure.Format("02 Jan 2006")), inner)
	}
	b.rule("├", "┤", inner)

	header := []string{"Base cost"}
	for _, n := range names {
		header = append(header, truncate(n, columnWidth))
	}
	b.row("Pax", header)
	b.rule("├", "┤", inner)

	for _, r := range q.Results {
		cells := []string{usd(r.Breakdown.BaseCost)}
		for _, o := range r.Options {
			cell := usd(o.FinalPrice)
			if o.Overridden {
				cell += "*"
			}
			cells = append(cells, cell)
		}
		b.row(r.Bracket.Label, cells)

		if opts.ShowDetails {
			for _, line := range types.Lines {
				v := r.Breakdown.Get(line)
				if v.IsZero() {
					continue
				}
				b.row("  └─ "+lineLabel(line), []string{usd(v)})
			}
		}
	}
	b.rule("└", "┘", inner)

	if opts.ShowItinerary && len(q.Itinerary) > 0 {
		b.printf("\nItinerary:\n")
		for _, d := range q.Itinerary {
			b.printf("  %-10s %s\n", d.Label, d.Description)
		}
	}
	if len(q.Diagnostics) > 0 {
		b.printf("\nWarning: %d rate lookups priced at zero\n", len(q.Diagnostics))
		for _, l := range q.Diagnostics {
			b.printf("  %s\n", l)
		}
	}
	for _, issue := range q.Issues {
		b.printf("Note: %s\n", issue)
	}
	return b.err
}

// boxWriter draws a fixed-width box and keeps the first write error
type boxWriter struct {
	w     io.Writer
	width int
	err   error
}

func (b *boxWriter) printf(format string, args ...interface{}) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format, args...)
}

func (b *boxWriter) rule(left, right string, width int) {
	b.printf("%s%s%s\n", left, strings.Repeat("─", width), right)
}

func (b *boxWriter) centered(text string, width int) {
	n := len([]rune(text))
	if n >= width {
		b.printf("│%s│\n", string([]rune(text)[:width]))
		return
	}
	pad := (width - n) / 2
	b.printf("│%s%s%s│\n", strings.Repeat(" ", pad), text, strings.Repeat(" ", width-n-pad))
}

func (b *boxWriter) row(label string, cells []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" %-*s", labelWidth-1, truncate(label, labelWidth-1)))
	for _, c := range cells {
		sb.WriteString(fmt.Sprintf(" %*s", columnWidth, c))
	}
	pad := b.width - utf8.RuneCountInString(sb.String())
	if pad < 0 {
		pad = 0
	}
	b.printf("│%s%s│\n", sb.String(), strings.Repeat(" ", pad))
}

func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func lineLabel(l types.Line) string {
	switch l {
	case types.LineLocalGuide:
		return "Local guide"
	case types.LinePrivateGuide:
		return "Private guide"
	case types.LineMeetAssist:
		return "Meet & assist"
	}
	s := strings.ReplaceAll(string(l), "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
