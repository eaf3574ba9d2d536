package output

import (
	"encoding/json"
	"io"

	"tour-quote/core/quote"
)

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

// Render writes the full quotation; decimals are encoded as strings so
// no precision is lost.
func (jsonFormatter) Render(w io.Writer, q *quote.Quotation, _ Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}
