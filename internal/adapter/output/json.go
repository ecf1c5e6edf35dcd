package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/dailywords/internal/daily"
)

// JSONFormatter formats a selection as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the selection as an indented JSON object.
func (f *JSONFormatter) Format(w io.Writer, sel daily.Selection) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sel)
}
