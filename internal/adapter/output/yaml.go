package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/dailywords/internal/daily"
)

// YAMLFormatter formats a selection as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes the selection as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, sel daily.Selection) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(sel); err != nil {
		return err
	}
	return encoder.Close()
}
