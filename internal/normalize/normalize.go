// Package normalize reconstructs canonical per-pull-request timelines from
// raw, heterogeneous platform events. It unifies committed-event authorship,
// classifies same-repository references, unpacks batched review comments,
// inserts the synthetic "pulled" root event, resolves actor identity and
// event time through priority field lookups, and sequences everything
// chronologically.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/lookup"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/urlutil"
)

// ErrNoRootEvent is returned when a pull request's raw record is missing, so
// no synthetic root event can be built and the timeline cannot be anchored.
var ErrNoRootEvent = errors.New("pull request has no capturable root event")

// Field priority chains for actor and time resolution.
var (
	actorPaths = []string{"actor.login", "user.login", "author.login"}
	timePaths  = []string{"created_at", "committer.date", "submitted_at"}
)

// entry is an event mid-normalization: its kind, its source record, and the
// enrichments that cannot be read back out of the record itself.
type entry struct {
	kind         string
	raw          json.RawMessage
	commitAuthor string // committed events: author login from the commit set
	referenced   bool   // referenced events: same-repository reference
}

// Timeline normalizes one pull request's raw timeline into canonical form.
// pull is the raw pull-request record, events its raw timeline, and commits
// the pull's raw commit set keyed by SHA. The returned events are in
// chronological order with contiguous event numbers; the synthetic "pulled"
// event is inserted before sorting so it anchors ties at the opening time.
func Timeline(pull json.RawMessage, events []json.RawMessage, commits map[string]json.RawMessage) (model.Timeline, error) {
	if len(pull) == 0 {
		return model.Timeline{}, ErrNoRootEvent
	}
	pullNumber, ok := lookup.Int(pull, "number")
	if !ok {
		return model.Timeline{}, ErrNoRootEvent
	}

	entries := make([]entry, 0, len(events)+1)
	entries = append(entries, entry{kind: constants.EventPulled, raw: pull})
	for _, raw := range events {
		kind, _ := lookup.String(raw, "event")
		switch kind {
		case constants.EventCommitted:
			entries = append(entries, enrichCommitted(raw, commits))
		case constants.EventReferenced:
			entries = append(entries, classifyReferenced(raw))
		case constants.EventLineCommented, constants.EventCommitCommented:
			entries = append(entries, unpackComments(kind, raw)...)
		default:
			entries = append(entries, entry{kind: kind, raw: raw})
		}
	}

	canonical := make([]model.Event, 0, len(entries))
	for i, e := range entries {
		event, err := resolve(e)
		if err != nil {
			return model.Timeline{}, fmt.Errorf("pull %d event %d (%s): %w", pullNumber, i, e.kind, err)
		}
		event.PullNumber = int(pullNumber)
		canonical = append(canonical, event)
	}

	// Stable sort keeps arrival order for equal timestamps.
	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].Time.Before(canonical[j].Time)
	})
	for i := range canonical {
		canonical[i].EventNumber = i
	}

	return model.Timeline{PullNumber: int(pullNumber), Events: canonical}, nil
}

// enrichCommitted attaches the commit author's login from the commit set.
// A SHA missing from the set leaves the authorship unresolved rather than
// failing the pull; mirrored or garbage-collected commits do go missing.
func enrichCommitted(raw json.RawMessage, commits map[string]json.RawMessage) entry {
	e := entry{kind: constants.EventCommitted, raw: raw}
	sha, ok := lookup.String(raw, "sha")
	if !ok {
		return e
	}
	commit, ok := commits[sha]
	if !ok {
		return e
	}
	e.commitAuthor, _ = lookup.String(commit, "author.login")
	return e
}

// classifyReferenced marks a referenced event when the referencing object and
// the referenced commit live in the same repository, distinguishing genuine
// cross-references from cross-repository mentions.
func classifyReferenced(raw json.RawMessage) entry {
	url, _ := lookup.String(raw, "url")
	commitURL, _ := lookup.String(raw, "commit_url")
	return entry{
		kind:       constants.EventReferenced,
		raw:        raw,
		referenced: urlutil.SameRepository(url, commitURL),
	}
}

// unpackComments expands a batched review-comment event into one event per
// embedded comment, each inheriting the parent event kind.
func unpackComments(kind string, raw json.RawMessage) []entry {
	comments := gjson.GetBytes(raw, "comments").Array()
	if len(comments) == 0 {
		return nil
	}
	entries := make([]entry, 0, len(comments))
	for _, comment := range comments {
		entries = append(entries, entry{kind: kind, raw: json.RawMessage(comment.Raw)})
	}
	return entries
}

// resolve builds the canonical event from a working entry. Failing to resolve
// a time is fatal: reconstructed timelines require a time for ordering.
func resolve(e entry) (model.Event, error) {
	event := model.Event{
		Kind:       e.kind,
		Actor:      resolveActor(e),
		Referenced: e.referenced,
		Raw:        e.raw,
	}

	t, ok := lookup.Time(e.raw, timePaths...)
	if !ok {
		return model.Event{}, errors.New("no resolvable event time")
	}
	event.Time = t

	event.Association, _ = lookup.String(e.raw, "author_association")
	event.CommitID, _ = lookup.String(e.raw, "commit_id")
	event.Body, _ = lookup.String(e.raw, "body")

	if e.kind == constants.EventPulled {
		event.State, _ = lookup.String(e.raw, "state")
		if merged, ok := lookup.Time(e.raw, "merged_at"); ok {
			event.MergedTime = &merged
		}
	}
	return event, nil
}

// resolveActor walks the actor priority chain. Committed events take their
// author from the enriched commit set since the raw committed record carries
// only a git name/email pair, not a platform login.
func resolveActor(e entry) string {
	if e.kind == constants.EventCommitted {
		if actor, ok := lookup.String(e.raw, actorPaths[0], actorPaths[1]); ok {
			return actor
		}
		if e.commitAuthor != "" {
			return e.commitAuthor
		}
		return constants.GhostActor
	}
	if actor, ok := lookup.String(e.raw, actorPaths...); ok {
		return actor
	}
	return constants.GhostActor
}
