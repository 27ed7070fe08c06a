package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/collect"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/export"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/pipeline"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// NewCmdPreprocess creates the preprocess command.
func NewCmdPreprocess(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess [owner/repository ...]",
		Short: "Normalize collected timelines into canonical form",
		Long: `Rebuilds each pull request's timeline from the collected raw data:
unifies commit authorship, classifies references, unpacks review comment
batches, inserts the opening event, and orders everything chronologically.
Writes the normalized timelines store plus timelines and pulls CSV files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd, args, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent workers per repository (default: number of CPUs)")
	return cmd
}

func runPreprocess(cmd *cobra.Command, args []string, opts *Options) error {
	rt, err := setup(opts, args)
	if err != nil {
		return err
	}
	return forEachProject(cmd.Context(), rt, "preprocessing", func(ctx context.Context, _ int, _ string, paths store.Paths) error {
		return preprocessProject(ctx, paths, rt.cfg.Workers)
	})
}

func preprocessProject(ctx context.Context, paths store.Paths, workers int) error {
	inputs, err := collect.LoadInputs(paths)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no collected pulls under %s, run collect first", paths.Dir())
	}

	timelines, failures, err := pipeline.NormalizeAll(ctx, inputs, workers)
	if err != nil {
		return err
	}
	for _, failure := range failures {
		log.Warn("dropping pull", "number", failure.PullNumber, "error", failure.Err)
	}
	log.Info("normalized timelines", "pulls", len(timelines), "dropped", len(failures))

	if err := store.SaveTimelines(paths.FixedTimelines(), timelines); err != nil {
		return err
	}
	if err := writeCSV(paths.TimelinesCSV(), func(f *os.File) error {
		return export.WriteTimelines(f, timelines)
	}); err != nil {
		return err
	}
	return writeCSV(paths.PullsCSV(), func(f *os.File) error {
		return export.WritePulls(f, timelines)
	})
}

// writeCSV creates path and hands it to write, closing on the way out.
func writeCSV(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadDerived reads back the processed timelines a later stage depends on.
func loadDerived(paths store.Paths) ([]model.Timeline, error) {
	timelines, err := store.LoadTimelines(paths.Dataframe())
	if err != nil {
		return nil, err
	}
	if len(timelines) == 0 {
		return nil, fmt.Errorf("no processed timelines under %s, run process first", paths.Dir())
	}
	return timelines, nil
}
