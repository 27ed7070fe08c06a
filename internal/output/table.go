package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
)

// TableFormatter formats the statistics report as a terminal table
type TableFormatter struct{}

var (
	headerColor    = color.New(color.Bold)
	abandonedColor = color.New(color.FgRed)
)

// Format outputs one row per repository with the all-pulls counts and the
// filtered-dataset counts side by side
func (f *TableFormatter) Format(stats []abandon.Statistics, w io.Writer) error {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No repositories processed.")
		return nil
	}

	const (
		colProject   = 28
		colLanguage  = 10
		colStars     = 7
		colPulls     = 7
		colOpen      = 6
		colMerged    = 7
		colClosed    = 7
		colAbandoned = 9
		colDataset   = 8
	)

	header := fmt.Sprintf("%-*s  %-*s  %*s  %*s  %*s  %*s  %*s  %*s  %*s",
		colProject, "Repository",
		colLanguage, "Language",
		colStars, "Stars",
		colPulls, "Pulls",
		colOpen, "Open",
		colMerged, "Merged",
		colClosed, "Closed",
		colAbandoned, "Abandoned",
		colDataset, "Dataset")
	fmt.Fprintln(w, headerColor.Sprint(header))
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, s := range stats {
		project := s.Project
		if len(project) > colProject {
			project = project[:colProject-3] + "..."
		}
		abandoned := fmt.Sprintf("%*d", colAbandoned, s.Dataset.Abandoned)
		if s.Dataset.Abandoned > 0 {
			abandoned = abandonedColor.Sprint(abandoned)
		}
		fmt.Fprintf(w, "%-*s  %-*s  %*d  %*d  %*d  %*d  %*d  %s  %*d\n",
			colProject, project,
			colLanguage, s.Language,
			colStars, s.Stars,
			colPulls, s.All.Pulls,
			colOpen, s.All.Open,
			colMerged, s.All.Merged,
			colClosed, s.All.Closed,
			abandoned,
			colDataset, s.Dataset.Pulls)
	}
	return nil
}
