package derive

import (
	"math"
	"time"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// Contributor marks every event authored by the pull request's own author.
func Contributor(tl *model.Timeline) {
	author := tl.Author()
	for i := range tl.Events {
		tl.Events[i].Contributor = tl.Events[i].Actor == author
	}
}

// qualifies reports whether an event counts as contributor activity.
// "mentioned" and "subscribed" are passive signals the contributor did not
// author.
func qualifies(event *model.Event) bool {
	if !event.Contributor {
		return false
	}
	return event.Kind != constants.EventMentioned && event.Kind != constants.EventSubscribed
}

// LastActivity flags the most recent qualifying contributor event(s). Events
// sharing the maximal timestamp are all flagged; with no qualifying events,
// none are.
func LastActivity(tl *model.Timeline) {
	var latest time.Time
	found := false
	for i := range tl.Events {
		event := &tl.Events[i]
		event.LastActivity = false
		if !qualifies(event) {
			continue
		}
		if !found || event.Time.After(latest) {
			latest = event.Time
			found = true
		}
	}
	if !found {
		return
	}
	for i := range tl.Events {
		event := &tl.Events[i]
		if qualifies(event) && event.Time.Equal(latest) {
			event.LastActivity = true
		}
	}
}

// Inactivity measures whole days between the cutoff date and the flagged
// last activity. Without a flagged event the measurement is undefined:
// HasActivity stays false and the pull is excluded before dataset export
// rather than silently defaulted.
func Inactivity(tl *model.Timeline, cutoff time.Time) {
	var last *model.Event
	for i := range tl.Events {
		if tl.Events[i].LastActivity {
			last = &tl.Events[i]
		}
	}
	if last == nil {
		tl.HasActivity = false
		tl.InactiveDays = 0
		return
	}
	tl.HasActivity = true
	tl.InactiveDays = int(math.Floor(cutoff.Sub(last.Time).Hours() / 24))
}
