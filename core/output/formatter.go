// Package output renders quotations for people and machines.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"tour-quote/core/quote"
	qerrors "tour-quote/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable box table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Options tune rendering
type Options struct {
	// ShowDetails includes the per-bracket cost breakdown
	ShowDetails bool

	// ShowItinerary includes the collapsed day list
	ShowItinerary bool
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the quotation
	Render(w io.Writer, q *quote.Quotation, opts Options) error
}

// Registry maps formats to formatters
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with every built-in formatter
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(cliFormatter{})
	r.Register(jsonFormatter{})
	r.Register(markdownFormatter{})
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[Format(strings.ToLower(strings.TrimSpace(string(format))))]
	if !ok {
		return nil, qerrors.NotSupported(fmt.Sprintf("output format %q (available: %s)", format, strings.Join(r.Names(), ", ")))
	}
	return f, nil
}

// Names lists registered formats
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Render writes q in the given format using the built-in formatters
func Render(w io.Writer, format Format, q *quote.Quotation, opts Options) error {
	f, err := defaultRegistry.Get(format)
	if err != nil {
		return err
	}
	return f.Render(w, q, opts)
}

// optionNames returns the column names of a quotation
func optionNames(q *quote.Quotation) []string {
	if len(q.Results) == 0 {
		return nil
	}
	names := make([]string, len(q.Results[0].Options))
	for i, o := range q.Results[0].Options {
		names[i] = o.Name
	}
	return names
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
