// Package constants provides a centralized location for the fixed analysis
// parameters and magic values used throughout the mining pipeline.
package constants

import "time"

// Analysis contract constants. These form part of the dataset contract and
// must not change between runs that feed the same downstream analysis.
const (
	// InactivityDays is the staleness threshold: a pull request idle for at
	// least this many days counts toward the abandonment label, and pulls
	// opened within this many days of the cutoff are too recent to judge.
	InactivityDays = 183
)

// CutoffDate is the fixed reference date all inactivity measurements are
// taken against.
var CutoffDate = time.Date(2020, time.May, 30, 0, 0, 0, 0, time.UTC)

// Keywords are the literal abandonment-indicating phrases scanned for in
// outside-commenter text. Order is significant: exported keyword columns
// appear in this order.
var Keywords = []string{
	"abandon",
	"stale",
	"any update",
	"lack of update",
	"no update",
	"inactive",
	"inactivity",
	"lack of activity",
	"no activity",
	"not active",
	"lack of reply",
	"no reply",
	"lack of response",
	"no response",
}

// GhostActor is the sentinel identity assigned to events whose actor cannot
// be resolved from any known field.
const GhostActor = "ghost"

// NoAssociation is the association assigned to actors with no recorded
// author_association anywhere in a repository's history.
const NoAssociation = "NONE"

// CoreAssociations are the platform associations that classify an actor as a
// core contributor of the repository.
var CoreAssociations = []string{"OWNER", "MEMBER", "COLLABORATOR"}

// Event kind tags as they appear on normalized events.
const (
	EventPulled          = "pulled"
	EventCommitted       = "committed"
	EventClosed          = "closed"
	EventCommented       = "commented"
	EventReviewed        = "reviewed"
	EventLineCommented   = "line-commented"
	EventCommitCommented = "commit-commented"
	EventReferenced      = "referenced"
	EventMentioned       = "mentioned"
	EventSubscribed      = "subscribed"
)

// Pull request platform states as reported by the raw pull record.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Collection constants.
const (
	// CollectPageSize is the page size used when walking pull requests,
	// timelines and commits.
	CollectPageSize = 100

	// RateLimitFloor is the number of remaining core-API calls below which
	// the collector waits for the rate limit window to reset.
	RateLimitFloor = 50
)
