// Package export writes the analysis results as CSV files: the combined
// event dataframe, the normalized timelines, the pull-request index, the
// filtered dataset, the manual-labeling sample, and the per-repository
// statistics report.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/lookup"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatBool(b bool) string { return strconv.FormatBool(b) }

// dataframeColumns are the scalar columns preceding the per-keyword flag
// columns in dataframe.csv and dataset.csv.
var dataframeColumns = []string{
	"pull_number",
	"event_number",
	"event",
	"actor",
	"author_association",
	"time",
	"opened_at",
	"closed_at",
	"merged_at",
	"open",
	"closed",
	"merged",
	"contributor",
	"last_activity",
	"inactive_days",
}

func dataframeRow(tl *model.Timeline, event *model.Event, keywords []string, withKeywords bool) []string {
	inactive := ""
	if tl.HasActivity {
		inactive = strconv.Itoa(tl.InactiveDays)
	}
	row := []string{
		strconv.Itoa(event.PullNumber),
		strconv.Itoa(event.EventNumber),
		event.Kind,
		event.Actor,
		event.Association,
		formatTime(event.Time),
		formatTime(tl.OpenedAt),
		formatTimePtr(tl.ClosedAt),
		formatTimePtr(tl.MergedAt),
		formatBool(tl.Open),
		formatBool(tl.Closed),
		formatBool(tl.Merged),
		formatBool(event.Contributor),
		formatBool(event.LastActivity),
		inactive,
	}
	if withKeywords {
		for _, phrase := range keywords {
			row = append(row, formatBool(tl.Keywords[phrase]))
		}
	}
	return row
}

// WriteDataframe writes one row per event with the pull's derived lifecycle
// fields repeated on every row, plus one flag column per keyword.
func WriteDataframe(w io.Writer, timelines []model.Timeline, keywords []string) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, dataframeColumns...), keywords...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range timelines {
		tl := &timelines[i]
		for j := range tl.Events {
			if err := cw.Write(dataframeRow(tl, &tl.Events[j], keywords, true)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDataset writes the dataframe rows of the pulls that passed the
// inclusion filter, without the keyword columns.
func WriteDataset(w io.Writer, timelines []model.Timeline, summaries []model.PullSummary) error {
	included := make(map[int]bool, len(summaries))
	for _, summary := range summaries {
		if summary.Included {
			included[summary.PullNumber] = true
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(dataframeColumns); err != nil {
		return err
	}
	for i := range timelines {
		tl := &timelines[i]
		if !included[tl.PullNumber] {
			continue
		}
		for j := range tl.Events {
			if err := cw.Write(dataframeRow(tl, &tl.Events[j], nil, false)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTimelines writes the normalized event sequences, one row per event.
func WriteTimelines(w io.Writer, timelines []model.Timeline) error {
	cw := csv.NewWriter(w)
	header := []string{
		"pull_number",
		"event_number",
		"event",
		"actor",
		"author_association",
		"time",
		"commit_id",
		"referenced",
		"body",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range timelines {
		for j := range timelines[i].Events {
			event := &timelines[i].Events[j]
			row := []string{
				strconv.Itoa(event.PullNumber),
				strconv.Itoa(event.EventNumber),
				event.Kind,
				event.Actor,
				event.Association,
				formatTime(event.Time),
				event.CommitID,
				formatBool(event.Referenced),
				event.Body,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePulls writes the pull-request index: number, URL, title, and body
// projected out of each pull's raw record.
func WritePulls(w io.Writer, timelines []model.Timeline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"number", "html_url", "title", "body"}); err != nil {
		return err
	}
	for i := range timelines {
		root, ok := timelines[i].Root()
		if !ok {
			continue
		}
		url, _ := lookup.String(root.Raw, "html_url")
		title, _ := lookup.String(root.Raw, "title")
		body, _ := lookup.String(root.Raw, "body")
		row := []string{strconv.Itoa(timelines[i].PullNumber), url, title, body}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSample writes the shuffled abandoned-pull sample with each pull's URL
// for manual labeling. pulls is the sampled order; timelines supply the URLs.
func WriteSample(w io.Writer, timelines []model.Timeline, pulls []int) error {
	urls := make(map[int]string, len(timelines))
	for i := range timelines {
		if root, ok := timelines[i].Root(); ok {
			url, _ := lookup.String(root.Raw, "html_url")
			urls[timelines[i].PullNumber] = url
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pull_number", "html_url"}); err != nil {
		return err
	}
	for _, pull := range pulls {
		if err := cw.Write([]string{strconv.Itoa(pull), urls[pull]}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// statisticsColumns lists the scalar columns of statistics.csv; the two
// keyword column groups follow them.
var statisticsColumns = []string{
	"project",
	"language",
	"stars",
	"months",
	"cores",
	"contributors",
	"pulls",
	"open",
	"closed",
	"merged",
	"abandoned",
	"dataset_months",
	"dataset_cores",
	"dataset_contributors",
	"dataset_pulls",
	"dataset_open",
	"dataset_closed",
	"dataset_merged",
	"dataset_abandoned",
}

// WriteStatistics appends one row per repository to the shared statistics
// report. The header is written only when requested, so callers can append
// to an existing file.
func WriteStatistics(w io.Writer, stats []abandon.Statistics, keywords []string, withHeader bool) error {
	cw := csv.NewWriter(w)
	if withHeader {
		header := append([]string{}, statisticsColumns...)
		header = append(header, keywords...)
		for _, phrase := range keywords {
			header = append(header, "dataset_"+phrase)
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	counts := func(c abandon.Counts) []string {
		return []string{
			strconv.Itoa(c.Months),
			strconv.Itoa(c.Cores),
			strconv.Itoa(c.Contributors),
			strconv.Itoa(c.Pulls),
			strconv.Itoa(c.Open),
			strconv.Itoa(c.Closed),
			strconv.Itoa(c.Merged),
			strconv.Itoa(c.Abandoned),
		}
	}

	for _, s := range stats {
		row := []string{s.Project, s.Language, strconv.Itoa(s.Stars)}
		row = append(row, counts(s.All)...)
		row = append(row, counts(s.Dataset)...)
		for _, phrase := range keywords {
			row = append(row, strconv.Itoa(s.All.Keywords[phrase]))
		}
		for _, phrase := range keywords {
			row = append(row, strconv.Itoa(s.Dataset.Keywords[phrase]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
