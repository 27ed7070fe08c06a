package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/config"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/derive"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/export"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/pipeline"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// NewCmdProcess creates the process command.
func NewCmdProcess(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [owner/repository ...]",
		Short: "Derive lifecycle status, activity, and keyword flags",
		Long: `Runs the derivation passes over the normalized timelines: lifecycle
status, contributor attribution, last activity, staleness, and abandonment
keyword detection. Writes the processed timelines store and the combined
dataframe CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent workers per repository (default: number of CPUs)")
	return cmd
}

func runProcess(cmd *cobra.Command, args []string, opts *Options) error {
	rt, err := setup(opts, args)
	if err != nil {
		return err
	}
	return forEachProject(cmd.Context(), rt, "processing", func(ctx context.Context, _ int, _ string, paths store.Paths) error {
		return processProject(ctx, rt.cfg, paths)
	})
}

func processProject(ctx context.Context, cfg *config.Config, paths store.Paths) error {
	timelines, err := store.LoadTimelines(paths.FixedTimelines())
	if err != nil {
		return err
	}
	if len(timelines) == 0 {
		return fmt.Errorf("no normalized timelines under %s, run preprocess first", paths.Dir())
	}

	cutoff, err := cfg.Cutoff()
	if err != nil {
		return err
	}
	deriveOpts := derive.Options{Cutoff: cutoff, Keywords: cfg.Keywords()}

	failures, err := pipeline.DeriveAll(ctx, timelines, deriveOpts, cfg.Workers)
	if err != nil {
		return err
	}
	for _, failure := range failures {
		log.Warn("dropping pull", "number", failure.PullNumber, "error", failure.Err)
	}
	if len(failures) > 0 {
		kept := timelines[:0]
		dropped := make(map[int]bool, len(failures))
		for _, failure := range failures {
			dropped[failure.PullNumber] = true
		}
		for i := range timelines {
			if !dropped[timelines[i].PullNumber] {
				kept = append(kept, timelines[i])
			}
		}
		timelines = kept
	}
	log.Info("derived timelines", "pulls", len(timelines), "dropped", len(failures))

	if err := store.SaveTimelines(paths.Dataframe(), timelines); err != nil {
		return err
	}
	return writeCSV(paths.DataframeCSV(), func(f *os.File) error {
		return export.WriteDataframe(f, timelines, cfg.Keywords())
	})
}
