package store

import (
	"path/filepath"
	"strings"
)

// Paths resolves the on-disk file layout for one repository's data under a
// shared data directory. Repository full names are flattened (slashes become
// underscores, lowercased) to form file name prefixes.
type Paths struct {
	dataDir string
	project string
}

// NewPaths creates the path resolver for a repository full name
// ("owner/repo") rooted at dataDir.
func NewPaths(dataDir, project string) Paths {
	return Paths{
		dataDir: dataDir,
		project: strings.ToLower(strings.ReplaceAll(project, "/", "_")),
	}
}

// Dir is the repository's own directory under the data directory.
func (p Paths) Dir() string {
	return filepath.Join(p.dataDir, p.project)
}

func (p Paths) file(suffix string) string {
	return filepath.Join(p.Dir(), p.project+suffix)
}

// Collection stage outputs.
func (p Paths) Checkpoint() string { return p.file("_checkpoint.db") }
func (p Paths) RawPulls() string   { return p.file("_pulls.db") }
func (p Paths) RawTimelines() string {
	return p.file("_timelines.db")
}
func (p Paths) Commits() string  { return p.file("_commits.db") }
func (p Paths) Metadata() string { return p.file(".db") }

// Preprocessing stage outputs.
func (p Paths) FixedTimelines() string { return p.file("_timelines_fixed.db") }
func (p Paths) TimelinesCSV() string   { return p.file("_timelines.csv") }
func (p Paths) PullsCSV() string       { return p.file("_pulls.csv") }

// Processing stage outputs.
func (p Paths) Dataframe() string    { return p.file("_dataframe.db") }
func (p Paths) DataframeCSV() string { return p.file("_dataframe.csv") }

// Postprocessing stage outputs.
func (p Paths) DatasetCSV() string { return p.file("_dataset.csv") }
func (p Paths) SampleCSV() string  { return p.file("_sample.csv") }

// StatisticsCSV is shared across repositories.
func (p Paths) StatisticsCSV() string {
	return filepath.Join(p.dataDir, "statistics.csv")
}
