package abandon

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// avgMonth is the average Gregorian month, the unit the active-months
// statistic is measured in.
var avgMonth = time.Duration(30.436875 * 24 * float64(time.Hour))

// Counts holds one set of dataset statistics, computed either over all pulls
// or over the filtered dataset.
type Counts struct {
	Months       int            `json:"months"`
	Cores        int            `json:"cores"`
	Contributors int            `json:"contributors"`
	Pulls        int            `json:"pulls"`
	Open         int            `json:"open"`
	Closed       int            `json:"closed"`
	Merged       int            `json:"merged"`
	Abandoned    int            `json:"abandoned"`
	Keywords     map[string]int `json:"keywords"`
}

// Statistics is the per-repository report appended to statistics.csv and
// rendered to the terminal.
type Statistics struct {
	Project  string `json:"project"`
	Language string `json:"language"`
	Stars    int    `json:"stars"`
	All      Counts `json:"all"`
	Dataset  Counts `json:"dataset"`
}

// Summarize computes the repository statistics over all timelines and over
// the filtered dataset.
func Summarize(meta model.RepoMetadata, timelines []model.Timeline, summaries []model.PullSummary, keywords []string) Statistics {
	included := make(map[int]bool, len(summaries))
	for _, summary := range summaries {
		if summary.Included {
			included[summary.PullNumber] = true
		}
	}

	all := count(timelines, summaries, keywords, nil)
	dataset := count(timelines, summaries, keywords, included)

	return Statistics{
		Project:  meta.FullName,
		Language: meta.Language,
		Stars:    meta.Watchers,
		All:      all,
		Dataset:  dataset,
	}
}

func count(timelines []model.Timeline, summaries []model.PullSummary, keywords []string, included map[int]bool) Counts {
	counts := Counts{Keywords: make(map[string]int, len(keywords))}

	var first, last time.Time
	cores := make(map[string]bool)
	contributors := make(map[string]bool)

	coreByPull := make(map[int]bool, len(summaries))
	for _, summary := range summaries {
		coreByPull[summary.PullNumber] = summary.Core
	}

	for i := range timelines {
		tl := &timelines[i]
		if included != nil && !included[tl.PullNumber] {
			continue
		}
		counts.Pulls++

		root, ok := tl.Root()
		if ok {
			if first.IsZero() || root.Time.Before(first) {
				first = root.Time
			}
			if root.Time.After(last) {
				last = root.Time
			}
			if coreByPull[tl.PullNumber] {
				cores[root.Actor] = true
			} else {
				contributors[root.Actor] = true
			}
		}

		switch {
		case tl.Open:
			counts.Open++
		case tl.Merged:
			counts.Merged++
		case tl.Closed:
			counts.Closed++
		}
		if tl.Abandoned {
			counts.Abandoned++
		}
		for _, phrase := range keywords {
			if tl.Keywords[phrase] {
				counts.Keywords[phrase]++
			}
		}
	}

	if !first.IsZero() {
		counts.Months = int(math.Floor(float64(last.Sub(first)) / float64(avgMonth)))
	}
	counts.Cores = len(cores)
	counts.Contributors = len(contributors)
	return counts
}

// Sample returns the abandoned pulls of the filtered dataset in a
// deterministically shuffled order, for manual labeling.
func Sample(summaries []model.PullSummary) []int {
	var pulls []int
	for _, summary := range summaries {
		if summary.Included && summary.Abandoned {
			pulls = append(pulls, summary.PullNumber)
		}
	}
	sort.Ints(pulls)
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(pulls), func(i, j int) {
		pulls[i], pulls[j] = pulls[j], pulls[i]
	})
	return pulls
}
