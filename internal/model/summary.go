package model

import "time"

// PullSummary is the per-pull-request classification produced by the
// abandonment pass.
type PullSummary struct {
	PullNumber  int       `json:"pull_number"`
	Author      string    `json:"author"`
	Association string    `json:"association"`
	OpenedAt    time.Time `json:"opened_at"`
	Core        bool      `json:"core"`
	Merged      bool      `json:"merged"`
	Abandoned   bool      `json:"abandoned"`

	// Included reports whether the pull passed the dataset inclusion filter.
	Included bool `json:"included"`
}

// RepoMetadata is the slice of repository metadata the statistics report
// needs from the collection stage.
type RepoMetadata struct {
	FullName string `json:"full_name"`
	Language string `json:"language"`
	Watchers int    `json:"watchers"`
}
