package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func fixture() []model.Timeline {
	closedAt := ts("2019-06-01T00:00:00Z")
	return []model.Timeline{
		{
			PullNumber:   1,
			OpenedAt:     ts("2019-01-01T00:00:00Z"),
			ClosedAt:     &closedAt,
			Closed:       true,
			HasActivity:  true,
			InactiveDays: 515,
			Keywords:     map[string]bool{"stale": true, "close it": false},
			Events: []model.Event{
				{
					PullNumber:   1,
					EventNumber:  0,
					Kind:         "pulled",
					Actor:        "alice",
					Association:  "NONE",
					Time:         ts("2019-01-01T00:00:00Z"),
					Contributor:  true,
					LastActivity: true,
					Raw: json.RawMessage(`{
						"number": 1,
						"html_url": "https://github.com/octo/repo/pull/1",
						"title": "Fix crash",
						"body": "fixes #2"
					}`),
				},
				{
					PullNumber:  1,
					EventNumber: 1,
					Kind:        "commented",
					Actor:       "bob",
					Association: "CONTRIBUTOR",
					Time:        ts("2019-02-01T00:00:00Z"),
					Body:        "this looks stale",
				},
			},
		},
		{
			PullNumber: 2,
			OpenedAt:   ts("2019-03-01T00:00:00Z"),
			Open:       true,
			Events: []model.Event{
				{
					PullNumber: 2,
					Kind:       "pulled",
					Actor:      "carol",
					Time:       ts("2019-03-01T00:00:00Z"),
					Raw:        json.RawMessage(`{"number": 2, "html_url": "https://github.com/octo/repo/pull/2"}`),
				},
			},
		},
	}
}

func parse(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return records
}

func TestWriteDataframe(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataframe(&buf, fixture(), []string{"stale", "close it"}); err != nil {
		t.Fatalf("WriteDataframe() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3 events", len(records))
	}

	header := records[0]
	if header[0] != "pull_number" || header[len(header)-2] != "stale" || header[len(header)-1] != "close it" {
		t.Errorf("unexpected header: %v", header)
	}

	row := records[2] // pull 1, commented event
	want := []string{
		"1", "1", "commented", "bob", "CONTRIBUTOR",
		"2019-02-01T00:00:00Z", "2019-01-01T00:00:00Z", "2019-06-01T00:00:00Z", "",
		"false", "true", "false", "false", "false", "515", "true", "false",
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d (%s) = %q, want %q", i, header[i], row[i], want[i])
		}
	}

	// Pull 2 never saw contributor activity, so its staleness is blank.
	if records[3][14] != "" {
		t.Errorf("inactive_days for pull 2 = %q, want empty", records[3][14])
	}
}

func TestWriteDataset(t *testing.T) {
	summaries := []model.PullSummary{
		{PullNumber: 1, Included: true},
		{PullNumber: 2, Included: false},
	}

	var buf bytes.Buffer
	if err := WriteDataset(&buf, fixture(), summaries); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 events of pull 1", len(records))
	}
	if got := len(records[0]); got != len(dataframeColumns) {
		t.Errorf("header has %d columns, want %d (no keyword columns)", got, len(dataframeColumns))
	}
	for _, row := range records[1:] {
		if row[0] != "1" {
			t.Errorf("excluded pull %s leaked into dataset", row[0])
		}
	}
}

func TestWriteTimelines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTimelines(&buf, fixture()); err != nil {
		t.Fatalf("WriteTimelines() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3 events", len(records))
	}
	row := records[2]
	if row[2] != "commented" || row[3] != "bob" || row[8] != "this looks stale" {
		t.Errorf("unexpected commented row: %v", row)
	}
}

func TestWritePulls(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePulls(&buf, fixture()); err != nil {
		t.Fatalf("WritePulls() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 pulls", len(records))
	}
	want := []string{"1", "https://github.com/octo/repo/pull/1", "Fix crash", "fixes #2"}
	for i := range want {
		if records[1][i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, records[1][i], want[i])
		}
	}
	if records[2][2] != "" {
		t.Errorf("missing title = %q, want empty", records[2][2])
	}
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSample(&buf, fixture(), []int{2, 1}); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 samples", len(records))
	}
	if records[1][0] != "2" || records[2][0] != "1" {
		t.Errorf("sample order not preserved: %v", records[1:])
	}
	if records[1][1] != "https://github.com/octo/repo/pull/2" {
		t.Errorf("sample url = %q", records[1][1])
	}
}

func TestWriteStatistics(t *testing.T) {
	stats := []abandon.Statistics{{
		Project:  "octo/repo",
		Language: "Go",
		Stars:    42,
		All: abandon.Counts{
			Months: 17, Cores: 2, Contributors: 5, Pulls: 7,
			Open: 1, Closed: 3, Merged: 3, Abandoned: 2,
			Keywords: map[string]int{"stale": 2},
		},
		Dataset: abandon.Counts{
			Pulls: 4, Closed: 3, Abandoned: 2,
			Keywords: map[string]int{"stale": 2},
		},
	}}

	var buf bytes.Buffer
	if err := WriteStatistics(&buf, stats, []string{"stale"}, true); err != nil {
		t.Fatalf("WriteStatistics() error = %v", err)
	}

	records := parse(t, &buf)
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	header, row := records[0], records[1]
	if header[len(header)-1] != "dataset_stale" {
		t.Errorf("last header column = %q, want dataset_stale", header[len(header)-1])
	}
	if row[0] != "octo/repo" || row[2] != "42" || row[3] != "17" {
		t.Errorf("unexpected row prefix: %v", row[:4])
	}
	if row[len(row)-2] != "2" || row[len(row)-1] != "2" {
		t.Errorf("keyword counts = %v", row[len(row)-2:])
	}

	// Appending without the header adds rows only.
	var more bytes.Buffer
	if err := WriteStatistics(&more, stats, []string{"stale"}, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(more.String(), "project") {
		t.Error("append wrote a header")
	}
}
