package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "abandoned-prs",
		Short: "Mine abandoned pull requests from GitHub repositories",
		Long: `A mining tool that collects pull requests and their timelines from
GitHub repositories, reconstructs each pull request's event history, and
classifies which pull requests were abandoned by their contributors.

The stages run in order: collect, preprocess, process, postprocess.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Initialize(opts.Verbosity, os.Stderr)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	pf.StringVarP(&opts.DataDir, "data-dir", "d", "", "Directory for collected data (default from config)")
	pf.StringVar(&opts.ProjectsFile, "projects-file", "", "CSV file with a project column listing repositories")

	// Register subcommands
	rootCmd.AddCommand(NewCmdCollect(opts))
	rootCmd.AddCommand(NewCmdPreprocess(opts))
	rootCmd.AddCommand(NewCmdProcess(opts))
	rootCmd.AddCommand(NewCmdPostprocess(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
