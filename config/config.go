package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`
	DataDir       string `yaml:"data_dir,omitempty"`
	Workers       int    `yaml:"workers,omitempty"`

	// Projects are the owner/repository slugs to mine. ProjectsFile points
	// to a CSV with a "project" column; both sources are combined.
	Projects     []string `yaml:"projects,omitempty"`
	ProjectsFile string   `yaml:"projects_file,omitempty"`

	Analysis *AnalysisOverrides `yaml:"analysis,omitempty"`
}

// AnalysisOverrides allows customizing the analysis parameters
type AnalysisOverrides struct {
	// CutoffDate is the reference date in YYYY-MM-DD form.
	CutoffDate *string `yaml:"cutoff_date,omitempty"`

	// InactivityDays is the staleness threshold.
	InactivityDays *int `yaml:"inactivity_days,omitempty"`

	// Keywords replaces the built-in abandonment phrase list.
	Keywords []string `yaml:"keywords,omitempty"`
}

// DefaultConfigDir returns the per-user config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".abandoned-prs"
	}
	return filepath.Join(configDir, "abandoned-prs")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".abandoned-prs.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .abandoned-prs.yaml on top (local values take precedence).
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	merged := *global
	if local.DefaultFormat != "" {
		merged.DefaultFormat = local.DefaultFormat
	}
	if local.DataDir != "" {
		merged.DataDir = local.DataDir
	}
	if local.Workers != 0 {
		merged.Workers = local.Workers
	}
	if len(local.Projects) > 0 {
		merged.Projects = local.Projects
	}
	if local.ProjectsFile != "" {
		merged.ProjectsFile = local.ProjectsFile
	}
	merged.Analysis = mergeAnalysis(global.Analysis, local.Analysis)
	return &merged
}

func mergeAnalysis(global, local *AnalysisOverrides) *AnalysisOverrides {
	if local == nil {
		return global
	}
	if global == nil {
		return local
	}
	merged := *global
	if local.CutoffDate != nil {
		merged.CutoffDate = local.CutoffDate
	}
	if local.InactivityDays != nil {
		merged.InactivityDays = local.InactivityDays
	}
	if len(local.Keywords) > 0 {
		merged.Keywords = local.Keywords
	}
	return &merged
}

// Save writes the configuration to the global config file
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Following 12-factor app best practices, tokens are only read from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ResolveProjects combines the inline project list with the projects file.
// Duplicates are dropped; order of first appearance is preserved.
func (c *Config) ResolveProjects() ([]string, error) {
	projects := append([]string{}, c.Projects...)

	if c.ProjectsFile != "" {
		fromFile, err := readProjectsCSV(c.ProjectsFile)
		if err != nil {
			return nil, err
		}
		projects = append(projects, fromFile...)
	}

	seen := make(map[string]bool, len(projects))
	unique := projects[:0]
	for _, project := range projects {
		if project == "" || seen[project] {
			continue
		}
		seen[project] = true
		unique = append(unique, project)
	}
	return unique, nil
}

// readProjectsCSV reads the "project" column of a CSV file.
func readProjectsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open projects file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse projects file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	column := -1
	for i, name := range records[0] {
		if name == "project" {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("projects file %s has no %q column", path, "project")
	}

	var projects []string
	for _, record := range records[1:] {
		if column < len(record) {
			projects = append(projects, record[column])
		}
	}
	return projects, nil
}

// Cutoff returns the analysis reference date.
func (c *Config) Cutoff() (time.Time, error) {
	if c.Analysis == nil || c.Analysis.CutoffDate == nil {
		return constants.CutoffDate, nil
	}
	cutoff, err := time.Parse("2006-01-02", *c.Analysis.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff_date: %w", err)
	}
	return cutoff.UTC(), nil
}

// InactivityDays returns the staleness threshold.
func (c *Config) InactivityDays() int {
	if c.Analysis == nil || c.Analysis.InactivityDays == nil {
		return constants.InactivityDays
	}
	return *c.Analysis.InactivityDays
}

// Keywords returns the abandonment phrase list.
func (c *Config) Keywords() []string {
	if c.Analysis == nil || len(c.Analysis.Keywords) == 0 {
		return constants.Keywords
	}
	return c.Analysis.Keywords
}

// DefaultConfig returns a config populated with defaults
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: "table",
		DataDir:       "data",
	}
}

// ToYAML serializes the config to YAML
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
