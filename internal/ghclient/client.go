// Package ghclient wraps the GitHub REST API for the collection stage: it
// authenticates, tracks rate limits, and fetches repository metadata, pull
// requests, issue timelines, and pull commits.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
)

// rateLimitTransport wraps an http.RoundTripper to observe GitHub rate
// limit headers on every response
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && remaining <= constants.RateLimitFloor {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}
	return resp, err
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining int, resetAt time.Time) {
	remaining = -1
	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}
	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}
	return remaining, resetAt
}

// Client wraps the GitHub API client
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// NewClient creates a new GitHub client using a personal access token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	tc.Transport = &rateLimitTransport{
		base: tc.Transport,
	}

	return &Client{
		client: gh.NewClient(tc),
		token:  token,
	}, nil
}

// AuthenticatedUser returns the authenticated user's login
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// wait blocks until the rate limit window resets when the remaining budget
// drops below the floor, so long collections survive the hourly quota.
func (c *Client) wait(ctx context.Context, resp *gh.Response) error {
	if resp == nil || resp.Rate.Remaining > constants.RateLimitFloor {
		return nil
	}
	until := time.Until(resp.Rate.Reset.Time) + time.Minute
	if until <= 0 {
		return nil
	}
	log.Info("rate limit reached, waiting", "until", resp.Rate.Reset.Time.Format(time.RFC3339))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(until):
		return nil
	}
}

// Repository fetches a repository's metadata.
func (c *Client) Repository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	repository, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	if err := c.wait(ctx, resp); err != nil {
		return nil, err
	}
	return repository, nil
}

// Pulls fetches every pull request of a repository, oldest first.
func (c *Client) Pulls(ctx context.Context, owner, repo string) ([]*gh.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:     "all",
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: constants.CollectPageSize,
		},
	}

	var pulls []*gh.PullRequest
	for {
		page, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, err)
		}
		pulls = append(pulls, page...)
		if err := c.wait(ctx, resp); err != nil {
			return nil, err
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return pulls, nil
}

// Timeline fetches a pull request's issue timeline.
func (c *Client) Timeline(ctx context.Context, owner, repo string, number int) ([]*gh.Timeline, error) {
	opts := &gh.ListOptions{PerPage: constants.CollectPageSize}

	var events []*gh.Timeline
	for {
		page, resp, err := c.client.Issues.ListIssueTimeline(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list timeline for %s/%s#%d: %w", owner, repo, number, err)
		}
		events = append(events, page...)
		if err := c.wait(ctx, resp); err != nil {
			return nil, err
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return events, nil
}

// Commits fetches a pull request's commits.
func (c *Client) Commits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, error) {
	opts := &gh.ListOptions{PerPage: constants.CollectPageSize}

	var commits []*gh.RepositoryCommit
	for {
		page, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s/%s#%d: %w", owner, repo, number, err)
		}
		commits = append(commits, page...)
		if err := c.wait(ctx, resp); err != nil {
			return nil, err
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

// IsUnprocessable reports whether an API error is a 422, which GitHub
// returns for a handful of pull requests whose timelines cannot be served.
func IsUnprocessable(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnprocessableEntity
}
