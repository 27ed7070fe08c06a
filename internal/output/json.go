package output

import (
	"encoding/json"
	"io"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
)

// JSONFormatter formats the statistics report as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the per-repository statistics as JSON
func (f *JSONFormatter) Format(stats []abandon.Statistics, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(stats)
}
