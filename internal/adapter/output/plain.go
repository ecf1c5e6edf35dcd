package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/dailywords/internal/daily"
)

// PlainFormatter formats a selection as plain text, one topic per line.
type PlainFormatter struct {
	opts FormatterOptions
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	return &PlainFormatter{opts: opts}
}

// Format writes the selection as plain text.
func (f *PlainFormatter) Format(w io.Writer, sel daily.Selection) error {
	var sb strings.Builder

	if f.opts.ShowDate && sel.Date != "" {
		sb.WriteString(sel.Date + "\n")
	}

	width := len(fmt.Sprint(len(sel.Words)))
	for i, word := range sel.Words {
		if f.opts.ShowIndex {
			sb.WriteString(fmt.Sprintf("%*d. ", width, i+1))
		}
		sb.WriteString(word + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
