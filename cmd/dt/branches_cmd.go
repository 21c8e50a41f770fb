package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/format"
	"github.com/raphi011/devtools/internal/git"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/ui/progress"
)

func newBranchesCmd() *cobra.Command {
	var (
		root        string
		folderNames []string
		fetch       bool
		silent      bool
		formatFlag  string
	)

	cmd := &cobra.Command{
		Use:     "branches",
		Short:   "Show the current branch of every repository",
		Aliases: []string{"br"},
		GroupID: GroupRepos,
		Args:    cobra.NoArgs,
		Long: `Show branch, head commit and uncommitted changes of every repository
in the dev root.

A * after the branch marks uncommitted or untracked changes. With --fetch,
origin is fetched first and commits ahead of and behind origin are shown.
Repositories without commits are skipped.`,
		Example: `  dt branches                      # All repositories in the dev root
  dt branches -n api -n web        # Only these folders
  dt branches --fetch              # Compare with origin
  dt branches --format json        # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if err := git.RequireGit(); err != nil {
				return err
			}
			f, err := resolveFormat(ctx, formatFlag)
			if err != nil {
				return err
			}
			devRoot, err := resolveDevRoot(ctx, root)
			if err != nil {
				return err
			}
			repos, err := resolveRepos(devRoot, folderNames)
			if err != nil {
				return err
			}

			if !silent && f == output.FormatTable {
				out.Printf("Processing %d repositories in %s\n", len(repos), devRoot)
			}

			var sp *progress.Spinner
			if fetch && progress.Enabled() && !l.IsVerbose() {
				sp = progress.NewSpinner(fmt.Sprintf("Fetching %d repositories...", len(repos)))
				sp.Start()
			}
			statuses, warnings := git.LoadStatus(ctx, repos, fetch)
			if sp != nil {
				sp.Stop()
			}

			for _, w := range warnings {
				l.Warnf("%s: %v", w.RepoName, w.Err)
			}
			for _, st := range statuses {
				if st.FetchError != "" {
					l.Debug("fetch failed", "repo", st.Name, "error", st.FetchError)
				}
			}

			if f != output.FormatTable {
				format.SortByName(statuses)
				if statuses == nil {
					statuses = []git.Status{}
				}
				return out.Encode(f, statuses)
			}

			for _, line := range format.BranchLines(statuses) {
				out.PrintStyled(line + "\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Root folder of the repositories (default: DT_DEV_ROOT/DEVROOT)")
	cmd.Flags().StringArrayVarP(&folderNames, "folder-names", "n", nil, "Repository folder names (repeatable)")
	cmd.Flags().BoolVarP(&fetch, "fetch", "f", false, "Fetch origin and show ahead/behind counts")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Omit the header line")
	addFormatFlag(cmd, &formatFlag)

	cmd.RegisterFlagCompletionFunc("folder-names", completeRepoNames)
	cmd.MarkFlagDirname("root")

	return cmd
}
