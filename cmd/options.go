package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shassankhatoonabadi/abandoned-prs/config"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/pipeline"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// Options holds the shared command-line options for the mining CLI.
type Options struct {
	Format       string
	DataDir      string
	ProjectsFile string
	Workers      int
	Verbosity    int
}

// runtime bundles the loaded config with the resolved project list.
type runtime struct {
	cfg      *config.Config
	projects []string
}

// setup loads the configuration, applies command-line overrides, and
// resolves the project list from arguments, flags, and config.
func setup(opts *Options, args []string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.ProjectsFile != "" {
		cfg.ProjectsFile = opts.ProjectsFile
	}
	if opts.Workers != 0 {
		cfg.Workers = opts.Workers
	}
	if opts.Format != "" {
		cfg.DefaultFormat = opts.Format
	}

	// Positional arguments override the configured project list.
	if len(args) > 0 {
		cfg.Projects = args
		cfg.ProjectsFile = ""
		if opts.ProjectsFile != "" {
			cfg.ProjectsFile = opts.ProjectsFile
		}
	}

	projects, err := cfg.ResolveProjects()
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("no projects given. Pass owner/repository arguments, --projects-file, or configure projects")
	}

	return &runtime{cfg: cfg, projects: projects}, nil
}

// forEachProject runs fn over the resolved repositories with bounded
// parallelism. Repositories are independent, so a failure in one is logged
// and counted while the others keep going; only context cancellation stops
// the whole run. fn receives the repository's position in rt.projects so
// callers can collect per-repository results without locking.
func forEachProject(ctx context.Context, rt *runtime, stage string, fn func(ctx context.Context, i int, project string, paths store.Paths) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pipeline.Workers(rt.cfg.Workers))

	var failed atomic.Int32
	for i, project := range rt.projects {
		i, project := i, project
		g.Go(func() error {
			log.Info(stage, "project", project)
			paths := store.NewPaths(rt.cfg.DataDir, project)
			if err := fn(gctx, i, project, paths); err != nil {
				if gctx.Err() != nil {
					return err
				}
				log.Error(stage+" failed", "project", project, "error", err)
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%s failed for %d of %d projects", stage, n, len(rt.projects))
	}
	return nil
}
