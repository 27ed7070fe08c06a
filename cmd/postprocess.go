package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/config"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/abandon"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/collect"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/export"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/output"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// NewCmdPostprocess creates the postprocess command.
func NewCmdPostprocess(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postprocess [owner/repository ...]",
		Short: "Classify abandoned pull requests and build the dataset",
		Long: `Votes each actor's author association across the repository, marks core
contributors, classifies abandoned pull requests, and applies the dataset
inclusion filter. Writes the dataset and sample CSV files, appends each
repository to the shared statistics report, and prints the report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostprocess(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Report format (table, json, markdown)")
	return cmd
}

func runPostprocess(cmd *cobra.Command, args []string, opts *Options) error {
	rt, err := setup(opts, args)
	if err != nil {
		return err
	}

	// Per-repository slots keep the report in project order no matter how
	// the fan-out schedules them.
	slots := make([]*abandon.Statistics, len(rt.projects))
	runErr := forEachProject(cmd.Context(), rt, "postprocessing", func(_ context.Context, i int, _ string, paths store.Paths) error {
		projectStats, err := postprocessProject(rt.cfg, paths)
		if err != nil {
			return err
		}
		slots[i] = &projectStats
		return nil
	})
	if cmd.Context().Err() != nil {
		return runErr
	}

	var stats []abandon.Statistics
	for _, projectStats := range slots {
		if projectStats != nil {
			stats = append(stats, *projectStats)
		}
	}
	if len(stats) > 0 {
		if err := appendStatistics(rt.cfg, stats); err != nil {
			return err
		}
		formatter := output.NewFormatter(output.Format(rt.cfg.DefaultFormat))
		if err := formatter.Format(stats, cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return runErr
}

func postprocessProject(cfg *config.Config, paths store.Paths) (abandon.Statistics, error) {
	timelines, err := loadDerived(paths)
	if err != nil {
		return abandon.Statistics{}, err
	}

	cutoff, err := cfg.Cutoff()
	if err != nil {
		return abandon.Statistics{}, err
	}
	opts := abandon.Options{Cutoff: cutoff, Inactivity: cfg.InactivityDays()}

	modes := abandon.AssociationModes(timelines)
	abandon.FillAssociations(timelines, modes)
	summaries := abandon.Classify(timelines, modes, opts)

	meta, err := collect.Metadata(paths)
	if err != nil {
		return abandon.Statistics{}, err
	}
	stats := abandon.Summarize(meta, timelines, summaries, cfg.Keywords())

	if err := writeCSV(paths.DatasetCSV(), func(f *os.File) error {
		return export.WriteDataset(f, timelines, summaries)
	}); err != nil {
		return abandon.Statistics{}, err
	}
	if err := writeCSV(paths.SampleCSV(), func(f *os.File) error {
		return export.WriteSample(f, timelines, abandon.Sample(summaries))
	}); err != nil {
		return abandon.Statistics{}, err
	}
	return stats, nil
}

// appendStatistics adds the run's repositories to the shared statistics
// file, writing the header only when the file is new.
func appendStatistics(cfg *config.Config, stats []abandon.Statistics) error {
	path := store.NewPaths(cfg.DataDir, "statistics").StatisticsCSV()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	withHeader := false
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		withHeader = true
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if err := export.WriteStatistics(f, stats, cfg.Keywords(), withHeader); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
