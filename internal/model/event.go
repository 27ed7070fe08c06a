// Package model defines the canonical data types shared across the mining
// pipeline: normalized timeline events, per-pull-request timelines with their
// derived lifecycle fields, and the per-pull classification summaries.
package model

import (
	"encoding/json"
	"time"
)

// Event is the canonical form of one raw platform event after normalization.
// EventNumber values within a pull request form a contiguous 0..n-1 range in
// chronological order, ties broken by original arrival order.
type Event struct {
	PullNumber  int       `json:"pull_number"`
	EventNumber int       `json:"event_number"`
	Kind        string    `json:"event"`
	Actor       string    `json:"actor"`
	Association string    `json:"author_association,omitempty"`
	Time        time.Time `json:"time"`
	CommitID    string    `json:"commit_id,omitempty"`
	Referenced  bool      `json:"referenced,omitempty"`
	Body        string    `json:"body,omitempty"`

	// State and MergedTime carry the raw pull record's reported platform
	// state and merge timestamp. They are populated only on the synthetic
	// "pulled" root event and feed the lifecycle status resolution.
	State      string     `json:"state,omitempty"`
	MergedTime *time.Time `json:"merged_time,omitempty"`

	// Raw is the source record the event was normalized from, kept for
	// generic column projection during export.
	Raw json.RawMessage `json:"raw,omitempty"`

	// Derived per-event fields, written by the derivation passes.
	Contributor  bool `json:"contributor"`
	LastActivity bool `json:"last_activity"`
}
