package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
)

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	if _, err := NewClient(context.Background(), ""); err == nil {
		t.Error("NewClient() accepted an empty token")
	}

	client, err := NewClient(context.Background(), "token123")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client == nil {
		t.Fatal("NewClient() returned nil client")
	}
}

func TestNewClientFallsBackToEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	client, err := NewClient(context.Background(), "")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.token != "env-token" {
		t.Errorf("token = %q, want env-token", client.token)
	}
}

func TestAuthenticatedUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer srv.Close()

	ghc := gh.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	ghc.BaseURL = base

	client := &Client{client: ghc, token: "token123"}
	login, err := client.AuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("AuthenticatedUser() error = %v", err)
	}
	if login != "octocat" {
		t.Errorf("login = %q, want octocat", login)
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Remaining", "42")
	resp.Header.Set("X-RateLimit-Reset", "1590796800")

	remaining, resetAt := parseRateLimitHeaders(resp)
	if remaining != 42 {
		t.Errorf("remaining = %d, want 42", remaining)
	}
	if want := time.Unix(1590796800, 0); !resetAt.Equal(want) {
		t.Errorf("resetAt = %v, want %v", resetAt, want)
	}

	remaining, _ = parseRateLimitHeaders(&http.Response{Header: http.Header{}})
	if remaining != -1 {
		t.Errorf("remaining without headers = %d, want -1", remaining)
	}
}

func TestIsUnprocessable(t *testing.T) {
	unprocessable := &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusUnprocessableEntity}}
	if !IsUnprocessable(unprocessable) {
		t.Error("IsUnprocessable(422) = false")
	}
	if !IsUnprocessable(fmt.Errorf("listing timeline: %w", unprocessable)) {
		t.Error("IsUnprocessable(wrapped 422) = false")
	}

	notFound := &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusNotFound}}
	if IsUnprocessable(notFound) {
		t.Error("IsUnprocessable(404) = true")
	}
	if IsUnprocessable(errors.New("plain")) {
		t.Error("IsUnprocessable(plain error) = true")
	}
}
