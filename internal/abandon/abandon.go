// Package abandon combines the derived lifecycle fields into the final
// abandonment classification: per-actor association majority voting, core
// contributor detection, the abandonment label, and the dataset inclusion
// filter.
package abandon

import (
	"sort"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// Options parameterizes the classification.
type Options struct {
	// Cutoff is the analysis reference date; pulls opened within Inactivity
	// days of it are too recent to have had time to go stale.
	Cutoff time.Time

	// Inactivity is the staleness threshold in days.
	Inactivity int
}

// DefaultOptions returns the fixed analysis parameters.
func DefaultOptions() Options {
	return Options{
		Cutoff:     constants.CutoffDate,
		Inactivity: constants.InactivityDays,
	}
}

// AssociationModes computes, for every actor observed in the timelines, the
// statistical mode of the actor's non-null author associations across the
// whole repository dataset. Ties break to the lexicographically smallest
// association; actors with no recorded association anywhere map to "NONE".
func AssociationModes(timelines []model.Timeline) map[string]string {
	counts := make(map[string]map[string]int)
	for i := range timelines {
		for j := range timelines[i].Events {
			event := &timelines[i].Events[j]
			if event.Association == "" {
				continue
			}
			if counts[event.Actor] == nil {
				counts[event.Actor] = make(map[string]int)
			}
			counts[event.Actor][event.Association]++
		}
	}

	modes := make(map[string]string)
	for i := range timelines {
		for j := range timelines[i].Events {
			actor := timelines[i].Events[j].Actor
			if _, done := modes[actor]; done {
				continue
			}
			modes[actor] = mode(counts[actor])
		}
	}
	return modes
}

func mode(counts map[string]int) string {
	if len(counts) == 0 {
		return constants.NoAssociation
	}
	associations := make([]string, 0, len(counts))
	for association := range counts {
		associations = append(associations, association)
	}
	sort.Strings(associations)
	best := associations[0]
	for _, association := range associations[1:] {
		if counts[association] > counts[best] {
			best = association
		}
	}
	return best
}

// FillAssociations overwrites every event's association with its actor's
// majority-vote association, giving each actor one consistent role across
// the dataset.
func FillAssociations(timelines []model.Timeline, modes map[string]string) {
	for i := range timelines {
		for j := range timelines[i].Events {
			event := &timelines[i].Events[j]
			event.Association = modes[event.Actor]
		}
	}
}

// IsCore reports whether an association marks a core contributor.
func IsCore(association string) bool {
	for _, core := range constants.CoreAssociations {
		if association == core {
			return true
		}
	}
	return false
}

// Classify fills each timeline's Core and Abandoned fields and returns the
// per-pull summaries. A pull is abandoned iff it was not merged, has been
// inactive at least the threshold, and at least one abandonment keyword was
// voiced by an outside commenter. The summary's Included field applies the
// dataset filter: pulls by core authors, pulls by the unresolvable "ghost"
// author, pulls opened too close to the cutoff, and pulls with undefined
// staleness are excluded.
func Classify(timelines []model.Timeline, modes map[string]string, opts Options) []model.PullSummary {
	recent := opts.Cutoff.AddDate(0, 0, -opts.Inactivity)
	summaries := make([]model.PullSummary, 0, len(timelines))

	for i := range timelines {
		tl := &timelines[i]
		author := tl.Author()
		association := modes[author]
		if association == "" {
			association = constants.NoAssociation
		}

		tl.Core = IsCore(association)
		tl.Abandoned = !tl.Merged &&
			tl.HasActivity &&
			tl.InactiveDays >= opts.Inactivity &&
			tl.AnyKeyword()

		summaries = append(summaries, model.PullSummary{
			PullNumber:  tl.PullNumber,
			Author:      author,
			Association: association,
			OpenedAt:    tl.OpenedAt,
			Core:        tl.Core,
			Merged:      tl.Merged,
			Abandoned:   tl.Abandoned,
			Included: !tl.Core &&
				author != constants.GhostActor &&
				tl.HasActivity &&
				tl.OpenedAt.Before(recent),
		})
	}
	return summaries
}
