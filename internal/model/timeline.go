package model

import "time"

// Timeline is the ordered canonical event sequence for one pull request plus
// the scalar fields derived from it. The derivation passes each write a
// disjoint set of fields; nothing downstream mutates a timeline except the
// abandonment classifier's association fill.
type Timeline struct {
	PullNumber int     `json:"pull_number"`
	Events     []Event `json:"events"`

	// Lifecycle status. Exactly one of Open, Closed, Merged is true once the
	// status pass has run. ClosedAt stays nil for closed pulls with no
	// captured "closed" event; this is a known data-completeness gap, not a
	// default to be invented.
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	MergedAt *time.Time `json:"merged_at,omitempty"`
	Open     bool       `json:"open"`
	Closed   bool       `json:"closed"`
	Merged   bool       `json:"merged"`

	// Staleness. HasActivity is false when no event qualifies as the last
	// contributor activity, in which case InactiveDays is undefined and the
	// pull is excluded upstream of dataset export.
	InactiveDays int  `json:"inactive_days"`
	HasActivity  bool `json:"has_activity"`

	// Keywords maps each recognized abandonment phrase to whether any
	// qualifying outside comment contains it.
	Keywords map[string]bool `json:"keywords,omitempty"`

	// Abandonment classification, written by the abandonment pass.
	Abandoned bool `json:"abandoned"`
	Core      bool `json:"core"`
}

// Root returns the synthetic "pulled" event, which need not be chronologically
// first: same-repository commits referencing the pull can predate its
// creation. The boolean is false if no root event is present.
func (t *Timeline) Root() (*Event, bool) {
	for i := range t.Events {
		if t.Events[i].Kind == "pulled" {
			return &t.Events[i], true
		}
	}
	return nil, false
}

// Author returns the pull request's own author: the actor of the root event.
func (t *Timeline) Author() string {
	root, ok := t.Root()
	if !ok {
		return ""
	}
	return root.Actor
}

// AnyKeyword reports whether at least one keyword flag is set.
func (t *Timeline) AnyKeyword() bool {
	for _, flagged := range t.Keywords {
		if flagged {
			return true
		}
	}
	return false
}
