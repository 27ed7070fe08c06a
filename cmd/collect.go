package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/collect"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/ghclient"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// NewCmdCollect creates the collect command.
func NewCmdCollect(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "collect [owner/repository ...]",
		Short: "Collect pull requests and timelines from GitHub",
		Long: `Fetches each repository's metadata, pull requests, issue timelines, and
pull commits, storing everything raw on disk. Collection is checkpointed:
an interrupted run resumes where it left off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, args, opts)
		},
	}
}

func runCollect(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()

	rt, err := setup(opts, args)
	if err != nil {
		return err
	}

	client, err := ghclient.NewClient(ctx, rt.cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	// Fail fast on a bad token before touching any repository.
	login, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("verifying GitHub token: %w", err)
	}
	log.Info("authenticated", "login", login)

	// Repositories are collected one at a time: the API quota is shared, so
	// parallel collection only makes every repository starve together.
	var failed int
	for _, project := range rt.projects {
		log.Info("collecting", "project", project)
		paths := store.NewPaths(rt.cfg.DataDir, project)
		if err := collect.New(client, paths).Run(ctx, project); err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Error("collection failed", "project", project, "error", err)
			failed++
			continue
		}
	}
	if failed > 0 {
		return fmt.Errorf("collection failed for %d of %d projects", failed, len(rt.projects))
	}
	return nil
}
