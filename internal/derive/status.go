// Package derive implements the per-pull-request derivation passes over
// normalized timelines: lifecycle status, contributor attribution, last
// activity, staleness, and abandonment-keyword detection. Each pass writes a
// disjoint set of fields and every pass is a pure per-timeline transform, so
// timelines can be derived independently and in parallel.
package derive

import (
	"errors"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// ErrNoRootEvent is returned when a timeline is missing its synthetic
// "pulled" event and cannot be derived.
var ErrNoRootEvent = errors.New("timeline has no pulled event")

// Options parameterizes a derivation run.
type Options struct {
	// Cutoff is the reference date staleness is measured against.
	Cutoff time.Time

	// Keywords are the abandonment phrases to scan for.
	Keywords []string
}

// DefaultOptions returns the fixed analysis parameters.
func DefaultOptions() Options {
	return Options{
		Cutoff:   constants.CutoffDate,
		Keywords: constants.Keywords,
	}
}

// Apply runs all derivation passes on one timeline in order.
func Apply(tl *model.Timeline, opts Options) error {
	if err := Status(tl); err != nil {
		return err
	}
	Contributor(tl)
	LastActivity(tl)
	Inactivity(tl, opts.Cutoff)
	Keywords(tl, opts.Keywords)
	return nil
}

// Status infers the pull request's terminal state and key timestamps. For
// pulls the platform reports closed, an ordered fallback chain decides
// whether the close was actually a merge:
//
//  1. an explicit merge timestamp on the pull record,
//  2. a "closed" event bundled with a commit id (squash/rebase merges attach
//     the merge commit at close time; the last such event is the merge
//     moment),
//  3. a same-repository reference (an earlier commit referencing the pull
//     implies it was merged by reference; the first such event is the merge
//     moment),
//  4. otherwise the pull is closed unmerged.
//
// When all four levels fail to identify a merge, CLOSED is the documented
// heuristic outcome, not an error.
func Status(tl *model.Timeline) error {
	root, ok := tl.Root()
	if !ok {
		return ErrNoRootEvent
	}

	tl.OpenedAt = root.Time
	tl.ClosedAt, tl.MergedAt = nil, nil
	tl.Open, tl.Closed, tl.Merged = false, false, false

	if root.State != constants.StateClosed {
		tl.Open = true
		return nil
	}

	if root.MergedTime != nil {
		tl.Merged = true
		merged := *root.MergedTime
		tl.MergedAt = &merged
		return nil
	}

	var lastClose, lastCommitClose *model.Event
	for i := range tl.Events {
		event := &tl.Events[i]
		if event.Kind != constants.EventClosed {
			continue
		}
		lastClose = event
		if event.CommitID != "" {
			lastCommitClose = event
		}
	}
	if lastCommitClose != nil {
		tl.Merged = true
		merged := lastCommitClose.Time
		tl.MergedAt = &merged
		return nil
	}

	for i := range tl.Events {
		if tl.Events[i].Referenced {
			tl.Merged = true
			merged := tl.Events[i].Time
			tl.MergedAt = &merged
			return nil
		}
	}

	tl.Closed = true
	if lastClose != nil {
		closed := lastClose.Time
		tl.ClosedAt = &closed
	}
	return nil
}
