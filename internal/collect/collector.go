// Package collect drives the checkpointed collection of a repository's pull
// requests: its metadata, every pull record, each pull's issue timeline, and
// each pull's commits, all persisted raw so later stages never talk to the
// network.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	gh "github.com/google/go-github/v57/github"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/ghclient"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// API is the slice of the GitHub client the collector needs.
type API interface {
	Repository(ctx context.Context, owner, repo string) (*gh.Repository, error)
	Pulls(ctx context.Context, owner, repo string) ([]*gh.PullRequest, error)
	Timeline(ctx context.Context, owner, repo string, number int) ([]*gh.Timeline, error)
	Commits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, error)
}

// checkpoint records how far a collection run got, so an interrupted run
// resumes instead of starting over. Excluded pulls are the ones GitHub
// refuses to serve a timeline for.
type checkpoint struct {
	LastNumber int   `json:"last_number"`
	Excluded   []int `json:"excluded"`
}

const checkpointKey = "checkpoint"

// metadataKey is the single key of the metadata store.
const metadataKey = "repository"

// Collector fetches and persists one repository's raw data.
type Collector struct {
	api   API
	paths store.Paths
}

// New returns a collector for one repository's data directory.
func New(api API, paths store.Paths) *Collector {
	return &Collector{api: api, paths: paths}
}

func splitProject(project string) (owner, repo string, err error) {
	for i := 0; i < len(project); i++ {
		if project[i] == '/' {
			return project[:i], project[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("project %q is not owner/repository", project)
}

// Run collects everything for one project, resuming from the last
// checkpoint if the data directory already has one.
func (c *Collector) Run(ctx context.Context, project string) error {
	owner, repo, err := splitProject(project)
	if err != nil {
		return err
	}

	if err := c.collectMetadata(ctx, owner, repo); err != nil {
		return err
	}
	pulls, err := c.collectPulls(ctx, owner, repo)
	if err != nil {
		return err
	}
	return c.collectTimelines(ctx, owner, repo, pulls)
}

func (c *Collector) collectMetadata(ctx context.Context, owner, repo string) error {
	repository, err := c.api.Repository(ctx, owner, repo)
	if err != nil {
		return err
	}

	metadata, err := store.Open(c.paths.Metadata())
	if err != nil {
		return err
	}
	defer metadata.Close()
	return metadata.Put(metadataKey, repository)
}

func (c *Collector) collectPulls(ctx context.Context, owner, repo string) ([]int, error) {
	pulls, err := c.api.Pulls(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	raw, err := store.Open(c.paths.RawPulls())
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	numbers := make([]int, 0, len(pulls))
	for _, pull := range pulls {
		number := pull.GetNumber()
		if err := raw.Put(strconv.Itoa(number), pull); err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	log.Info("collected pulls", "owner", owner, "repository", repo, "count", len(numbers))
	return numbers, nil
}

func (c *Collector) collectTimelines(ctx context.Context, owner, repo string, numbers []int) error {
	checkpoints, err := store.Open(c.paths.Checkpoint())
	if err != nil {
		return err
	}
	defer checkpoints.Close()

	var cp checkpoint
	if _, err := checkpoints.GetJSON(checkpointKey, &cp); err != nil {
		return err
	}
	excluded := make(map[int]bool, len(cp.Excluded))
	for _, number := range cp.Excluded {
		excluded[number] = true
	}

	timelines, err := store.Open(c.paths.RawTimelines())
	if err != nil {
		return err
	}
	defer timelines.Close()
	commits, err := store.Open(c.paths.Commits())
	if err != nil {
		return err
	}
	defer commits.Close()

	for i, number := range numbers {
		if number <= cp.LastNumber || excluded[number] {
			continue
		}
		log.Progress("collecting %s/%s pull %d (%d/%d)", owner, repo, number, i+1, len(numbers))

		events, err := c.api.Timeline(ctx, owner, repo, number)
		if err != nil {
			if ghclient.IsUnprocessable(err) {
				log.Warn("excluding unprocessable pull", "number", number)
				cp.Excluded = append(cp.Excluded, number)
				if err := checkpoints.Put(checkpointKey, cp); err != nil {
					return err
				}
				continue
			}
			return err
		}
		if err := timelines.Put(strconv.Itoa(number), events); err != nil {
			return err
		}

		pullCommits, err := c.api.Commits(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		bySHA := make(map[string]json.RawMessage, len(pullCommits))
		for _, commit := range pullCommits {
			encoded, err := json.Marshal(commit)
			if err != nil {
				return err
			}
			bySHA[commit.GetSHA()] = encoded
		}
		if err := commits.Put(strconv.Itoa(number), bySHA); err != nil {
			return err
		}

		cp.LastNumber = number
		if err := checkpoints.Put(checkpointKey, cp); err != nil {
			return err
		}
	}
	log.ProgressDone()
	return nil
}

// Metadata reads the collected repository metadata back out of the store.
func Metadata(paths store.Paths) (model.RepoMetadata, error) {
	metadata, err := store.Open(paths.Metadata())
	if err != nil {
		return model.RepoMetadata{}, err
	}
	defer metadata.Close()

	var repository gh.Repository
	found, err := metadata.GetJSON(metadataKey, &repository)
	if err != nil {
		return model.RepoMetadata{}, err
	}
	if !found {
		return model.RepoMetadata{}, fmt.Errorf("no repository metadata collected under %s", paths.Dir())
	}
	return model.RepoMetadata{
		FullName: repository.GetFullName(),
		Language: repository.GetLanguage(),
		Watchers: repository.GetWatchersCount(),
	}, nil
}
