package output

import (
	"fmt"
	"io"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
)

// MarkdownFormatter formats the statistics report as a Markdown table
type MarkdownFormatter struct{}

// Format outputs the per-repository statistics as a Markdown table
func (f *MarkdownFormatter) Format(stats []abandon.Statistics, w io.Writer) error {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No repositories processed.")
		return nil
	}

	fmt.Fprintln(w, "| Repository | Language | Stars | Pulls | Open | Merged | Closed | Abandoned | Dataset |")
	fmt.Fprintln(w, "|------------|----------|------:|------:|-----:|-------:|-------:|----------:|--------:|")
	for _, s := range stats {
		fmt.Fprintf(w, "| %s | %s | %d | %d | %d | %d | %d | %d | %d |\n",
			s.Project,
			s.Language,
			s.Stars,
			s.All.Pulls,
			s.All.Open,
			s.All.Merged,
			s.All.Closed,
			s.Dataset.Abandoned,
			s.Dataset.Pulls)
	}
	return nil
}
