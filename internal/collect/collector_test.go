package collect

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	gh "github.com/google/go-github/v57/github"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

type fakeAPI struct {
	repository    *gh.Repository
	pulls         []*gh.PullRequest
	timelines     map[int][]*gh.Timeline
	commits       map[int][]*gh.RepositoryCommit
	unprocessable map[int]bool

	timelineCalls map[int]int
}

func (f *fakeAPI) Repository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	return f.repository, nil
}

func (f *fakeAPI) Pulls(ctx context.Context, owner, repo string) ([]*gh.PullRequest, error) {
	return f.pulls, nil
}

func (f *fakeAPI) Timeline(ctx context.Context, owner, repo string, number int) ([]*gh.Timeline, error) {
	if f.timelineCalls == nil {
		f.timelineCalls = make(map[int]int)
	}
	f.timelineCalls[number]++
	if f.unprocessable[number] {
		return nil, &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusUnprocessableEntity}}
	}
	return f.timelines[number], nil
}

func (f *fakeAPI) Commits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, error) {
	return f.commits[number], nil
}

func newFake() *fakeAPI {
	return &fakeAPI{
		repository: &gh.Repository{
			FullName:      gh.String("octo/repo"),
			Language:      gh.String("Go"),
			WatchersCount: gh.Int(42),
		},
		pulls: []*gh.PullRequest{
			{Number: gh.Int(1), CreatedAt: &gh.Timestamp{}},
			{Number: gh.Int(2), CreatedAt: &gh.Timestamp{}},
		},
		timelines: map[int][]*gh.Timeline{
			1: {{Event: gh.String("commented"), Body: gh.String("nice")}},
			2: {{Event: gh.String("closed")}},
		},
		commits: map[int][]*gh.RepositoryCommit{
			1: {{SHA: gh.String("abc123")}},
		},
	}
}

func testPaths(t *testing.T) store.Paths {
	t.Helper()
	return store.NewPaths(filepath.Join(t.TempDir(), "data"), "octo/repo")
}

func TestCollectorRun(t *testing.T) {
	api := newFake()
	paths := testPaths(t)

	if err := New(api, paths).Run(context.Background(), "octo/repo"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	meta, err := Metadata(paths)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.FullName != "octo/repo" || meta.Language != "Go" || meta.Watchers != 42 {
		t.Errorf("metadata = %+v", meta)
	}

	inputs, err := LoadInputs(paths)
	if err != nil {
		t.Fatalf("LoadInputs() error = %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("loaded %d inputs, want 2", len(inputs))
	}
	if inputs[0].PullNumber != 1 || len(inputs[0].Events) != 1 {
		t.Errorf("input 1 = number %d with %d events", inputs[0].PullNumber, len(inputs[0].Events))
	}
	if _, ok := inputs[0].Commits["abc123"]; !ok {
		t.Error("input 1 lost its commit set")
	}
	if len(inputs[1].Commits) != 0 {
		t.Errorf("input 2 has %d commits, want none", len(inputs[1].Commits))
	}
}

func TestCollectorResumesFromCheckpoint(t *testing.T) {
	api := newFake()
	paths := testPaths(t)

	if err := New(api, paths).Run(context.Background(), "octo/repo"); err != nil {
		t.Fatal(err)
	}
	if err := New(api, paths).Run(context.Background(), "octo/repo"); err != nil {
		t.Fatal(err)
	}

	for number, calls := range api.timelineCalls {
		if calls != 1 {
			t.Errorf("pull %d timeline fetched %d times, want 1", number, calls)
		}
	}
}

func TestCollectorExcludesUnprocessable(t *testing.T) {
	api := newFake()
	api.unprocessable = map[int]bool{1: true}
	paths := testPaths(t)

	if err := New(api, paths).Run(context.Background(), "octo/repo"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	inputs, err := LoadInputs(paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("loaded %d inputs, want 2", len(inputs))
	}
	if len(inputs[0].Events) != 0 {
		t.Errorf("excluded pull kept %d events, want none", len(inputs[0].Events))
	}
	if len(inputs[1].Events) != 1 {
		t.Errorf("pull 2 has %d events, want 1", len(inputs[1].Events))
	}

	// The exclusion is remembered across runs.
	if err := New(api, paths).Run(context.Background(), "octo/repo"); err != nil {
		t.Fatal(err)
	}
	if api.timelineCalls[1] != 1 {
		t.Errorf("excluded pull retried %d times", api.timelineCalls[1]-1)
	}
}

func TestSplitProject(t *testing.T) {
	owner, repo, err := splitProject("octo/repo")
	if err != nil || owner != "octo" || repo != "repo" {
		t.Errorf("splitProject(octo/repo) = %q, %q, %v", owner, repo, err)
	}
	if _, _, err := splitProject("octorepo"); err == nil {
		t.Error("splitProject(octorepo) did not fail")
	}
}
