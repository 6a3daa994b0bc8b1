package cmd

import (
	"errors"

	"github.com/huangsam/commitstat/core"
	"github.com/huangsam/commitstat/internal/contract"
	"github.com/spf13/cobra"
)

// walkUsage is printed when the positional argument is missing or repeated.
const walkUsage = "usage: commitstat walk <git_repo_path>"

// exactlyOneRepoPath rejects anything but a single repository path.
func exactlyOneRepoPath(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New(walkUsage)
	}
	return nil
}

// walkCmd walks the history of one repository.
var walkCmd = &cobra.Command{
	Use:   "walk <git_repo_path>",
	Short: "Walk the commit history and summarize it.",
	Long: `Walk every commit reachable from HEAD and aggregate statistics.

For each commit, the files changed against its first parent (or against the
empty tree for root and merge commits) are classified into components and
languages. The walk reports:
- Commit and PR counts, with PR coverage
- Commits per component and per language
- Files added, deleted and modified per component
- Commits by weekday and by month of each year

The full statistics are written as JSON to --output-file. A console summary
follows in the --output format.

Examples:
  # Summarize the current repository
  commitstat walk .

  # Use eight workers and print the summary as JSON
  commitstat walk ~/src/project --workers 8 --output json

  # Write the report elsewhere and skip the console summary
  commitstat walk . --output-file stats.json --output none`,
	Args:    exactlyOneRepoPath,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWalk(rootCtx, cfg, gitClient, cacheManager); err != nil {
			contract.LogFatal("Cannot walk repository", err)
		}
	},
}
