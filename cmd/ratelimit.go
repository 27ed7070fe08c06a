package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/config"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display the current GitHub API rate limit status including remaining quota and reset time.`,
		RunE:  runRateLimit,
	}
}

func runRateLimit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(cmd.Context(), cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	if limits.Core != nil {
		resetIn := time.Until(limits.Core.Reset.Time).Round(time.Second)
		if resetIn < 0 {
			resetIn = 0
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Core API: %d/%d remaining (resets in %s)\n",
			limits.Core.Remaining, limits.Core.Limit, resetIn)
	}
	return nil
}
