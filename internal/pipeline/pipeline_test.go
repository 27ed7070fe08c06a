package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/derive"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/normalize"
)

func rawPull(number int, author, created string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"number": %d,
		"state": "closed",
		"user": {"login": %q},
		"created_at": %q,
		"merged_at": null
	}`, number, author, created))
}

func inputs(numbers ...int) []Input {
	var ins []Input
	for _, n := range numbers {
		ins = append(ins, Input{
			PullNumber: n,
			Pull:       rawPull(n, "alice", "2019-01-01T00:00:00Z"),
			Events: []json.RawMessage{
				json.RawMessage(fmt.Sprintf(`{
					"event": "commented",
					"actor": {"login": "bob"},
					"created_at": "2019-02-0%dT00:00:00Z",
					"body": "any update on this?"
				}`, n%9+1)),
			},
		})
	}
	return ins
}

func TestNormalizeAllOrder(t *testing.T) {
	timelines, failed, err := NormalizeAll(context.Background(), inputs(5, 1, 3), 2)
	if err != nil {
		t.Fatalf("NormalizeAll() error = %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("NormalizeAll() failures = %v, want none", failed)
	}
	want := []int{1, 3, 5}
	for i, tl := range timelines {
		if tl.PullNumber != want[i] {
			t.Errorf("timeline %d pull = %d, want %d", i, tl.PullNumber, want[i])
		}
	}
}

func TestNormalizeAllWorkerIndependence(t *testing.T) {
	var baseline []byte
	for workers := 1; workers <= 4; workers++ {
		timelines, failed, err := NormalizeAll(context.Background(), inputs(9, 2, 7, 4, 1, 8, 3), workers)
		if err != nil {
			t.Fatalf("workers=%d: error = %v", workers, err)
		}
		if len(failed) != 0 {
			t.Fatalf("workers=%d: failures = %v", workers, failed)
		}
		encoded, err := json.Marshal(timelines)
		if err != nil {
			t.Fatal(err)
		}
		if workers == 1 {
			baseline = encoded
			continue
		}
		if string(encoded) != string(baseline) {
			t.Errorf("workers=%d produced different results than workers=1", workers)
		}
	}
}

func TestNormalizeAllFailureIsolation(t *testing.T) {
	ins := inputs(1, 2, 3)
	ins[1].Pull = json.RawMessage(`{"state":"open"}`)
	ins[1].PullNumber = 2

	timelines, failed, err := NormalizeAll(context.Background(), ins, 3)
	if err != nil {
		t.Fatalf("NormalizeAll() error = %v", err)
	}
	if len(timelines) != 2 {
		t.Fatalf("NormalizeAll() produced %d timelines, want 2", len(timelines))
	}
	if timelines[0].PullNumber != 1 || timelines[1].PullNumber != 3 {
		t.Errorf("surviving pulls = %d, %d, want 1, 3", timelines[0].PullNumber, timelines[1].PullNumber)
	}
	if len(failed) != 1 || failed[0].PullNumber != 2 {
		t.Fatalf("failures = %v, want pull 2 only", failed)
	}
	if !errors.Is(failed[0], normalize.ErrNoRootEvent) {
		t.Errorf("failure cause = %v, want ErrNoRootEvent", failed[0].Err)
	}
}

func TestDeriveAll(t *testing.T) {
	timelines, _, err := NormalizeAll(context.Background(), inputs(1, 2, 3, 4), 2)
	if err != nil {
		t.Fatal(err)
	}

	failed, err := DeriveAll(context.Background(), timelines, derive.DefaultOptions(), 3)
	if err != nil {
		t.Fatalf("DeriveAll() error = %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("DeriveAll() failures = %v, want none", failed)
	}
	for _, tl := range timelines {
		if !tl.Closed {
			t.Errorf("pull %d not marked closed", tl.PullNumber)
		}
		if !tl.HasActivity {
			t.Errorf("pull %d has no last activity", tl.PullNumber)
		}
		if !tl.Keywords["any update"] {
			t.Errorf("pull %d keyword not flagged", tl.PullNumber)
		}
	}
}

func TestDeriveAllFailureIsolation(t *testing.T) {
	timelines, _, err := NormalizeAll(context.Background(), inputs(1, 2), 1)
	if err != nil {
		t.Fatal(err)
	}
	// Strip the root event so derivation cannot anchor the first timeline.
	timelines[0].Events = timelines[0].Events[:0]

	failed, err := DeriveAll(context.Background(), timelines, derive.DefaultOptions(), 2)
	if err != nil {
		t.Fatalf("DeriveAll() error = %v", err)
	}
	if len(failed) != 1 || failed[0].PullNumber != 1 {
		t.Fatalf("failures = %v, want pull 1 only", failed)
	}
	if !timelines[1].Closed {
		t.Error("pull 2 was not derived")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		n, workers int
		want       []chunk
	}{
		{0, 4, nil},
		{1, 4, []chunk{{0, 1}}},
		{4, 2, []chunk{{0, 2}, {2, 4}}},
		{5, 2, []chunk{{0, 2}, {2, 5}}},
		{3, 8, []chunk{{0, 1}, {1, 2}, {2, 3}}},
	}
	for _, tt := range tests {
		got := split(tt.n, tt.workers)
		if len(got) != len(tt.want) {
			t.Errorf("split(%d, %d) = %v, want %v", tt.n, tt.workers, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("split(%d, %d)[%d] = %v, want %v", tt.n, tt.workers, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NormalizeAll(ctx, inputs(1, 2, 3), 2); !errors.Is(err, context.Canceled) {
		t.Errorf("NormalizeAll(cancelled) error = %v, want context.Canceled", err)
	}
}
