package derive

import (
	"testing"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

func comment(actor, body, at string) model.Event {
	return model.Event{Kind: "commented", Actor: actor, Body: body, Time: ts(at)}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name    string
		events  []model.Event
		flagged []string
	}{
		{
			name: "outside comment triggers flag",
			events: []model.Event{
				comment("bob", "This looks stale, any update?", "2019-02-01T00:00:00Z"),
			},
			flagged: []string{"stale", "any update"},
		},
		{
			name: "matching is case insensitive",
			events: []model.Event{
				comment("bob", "NO UPDATE in months", "2019-02-01T00:00:00Z"),
			},
			flagged: []string{"no update"},
		},
		{
			name: "phrase inside backticks does not count",
			events: []model.Event{
				comment("bob", "the bot replies `no update` when idle", "2019-02-01T00:00:00Z"),
			},
			flagged: nil,
		},
		{
			name: "same phrase outside backticks counts",
			events: []model.Event{
				comment("bob", "there was no update since `v1.2`", "2019-02-01T00:00:00Z"),
			},
			flagged: []string{"no update"},
		},
		{
			name: "block-quoted phrase does not count",
			events: []model.Event{
				comment("bob", "> is this inactive?\nI think it is fine", "2019-02-01T00:00:00Z"),
			},
			flagged: nil,
		},
		{
			name: "author comments are not outside voices",
			events: []model.Event{
				comment("alice", "sorry for the inactivity", "2019-02-01T00:00:00Z"),
			},
			flagged: nil,
		},
		{
			name: "non-comment events are ignored",
			events: []model.Event{
				{Kind: "reviewed", Actor: "bob", Body: "seems abandoned", Time: ts("2019-02-01T00:00:00Z")},
			},
			flagged: nil,
		},
		{
			name:    "no qualifying comments at all",
			events:  nil,
			flagged: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := append([]model.Event{pulled("alice", "open", "2019-01-01T00:00:00Z", nil)}, tt.events...)
			tl := buildTimeline(1, events...)
			Contributor(&tl)
			Keywords(&tl, constants.Keywords)

			if len(tl.Keywords) != len(constants.Keywords) {
				t.Fatalf("keyword flags = %d, want %d", len(tl.Keywords), len(constants.Keywords))
			}
			want := make(map[string]bool)
			for _, phrase := range tt.flagged {
				want[phrase] = true
			}
			for _, phrase := range constants.Keywords {
				if tl.Keywords[phrase] != want[phrase] {
					t.Errorf("keyword %q = %v, want %v", phrase, tl.Keywords[phrase], want[phrase])
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	tl := buildTimeline(1,
		pulled("alice", "closed", "2019-01-01T00:00:00Z", nil),
		comment("bob", "this looks abandoned", "2019-02-01T00:00:00Z"),
		model.Event{Kind: "closed", Actor: "bob", Time: ts("2019-03-01T00:00:00Z")},
	)
	if err := Apply(&tl, DefaultOptions()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !tl.Closed {
		t.Error("Apply() did not resolve status")
	}
	if !tl.Events[0].Contributor {
		t.Error("Apply() did not attribute the contributor")
	}
	if !tl.HasActivity {
		t.Error("Apply() did not find last activity")
	}
	if !tl.Keywords["abandon"] {
		t.Error("Apply() did not scan keywords")
	}
}
