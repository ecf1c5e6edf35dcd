// Package output provides output formatters for daily selections.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/dailywords/internal/daily"
)

// Formatter formats a selection for output.
type Formatter interface {
	// Format writes the formatted selection to the writer.
	Format(w io.Writer, sel daily.Selection) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// Formats lists the supported format names.
var Formats = []FormatType{FormatPlain, FormatJSON, FormatYAML}

// FormatNames returns the supported format names, comma separated.
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		return NewPlainFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of: %s)", format, FormatNames())
	}
}

// FormatterOptions configures plain formatter behavior.
type FormatterOptions struct {
	ShowIndex bool // Show 1-based index prefix
	ShowDate  bool // Print the date key as a header line
}

// DefaultFormatterOptions returns the defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowDate:  true,
	}
}
