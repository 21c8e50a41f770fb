package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/clean"
	"github.com/raphi011/devtools/internal/config"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/ui/progress"
)

func newCleanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "clean",
		Short:   "Remove temporary folders",
		GroupID: GroupClean,
		Args:    cobra.NoArgs,
		Long: `Remove temporary folders left behind by development tools.

Without a subcommand, yarn leftovers are removed. Folders that cannot be
deleted are skipped; use --verbose to see why.`,
		Example: `  dt clean                  # Same as dt clean yarn
  dt clean builder          # Build tool scratch folders
  dt clean sonar --age 7    # SonarLint work folders older than a week
  dt clean yarn --dry-run   # Show what would be deleted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			return runClean(cmd, "Yarn", cfg.ResolveTempDir(), clean.Yarn, dryRun)
		},
	}

	cmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted")

	cmd.AddCommand(&cobra.Command{
		Use:     "yarn",
		Aliases: []string{"yn"},
		Short:   "Remove yarn--* folders from the temp dir",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			return runClean(cmd, "Yarn", cfg.ResolveTempDir(), clean.Yarn, dryRun)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "builder",
		Aliases: []string{"b"},
		Short:   "Remove build tool folders named by hash or UUID from the temp dir",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			return runClean(cmd, "Builder", cfg.ResolveTempDir(), clean.Builder, dryRun)
		},
	})

	cmd.AddCommand(newCleanSonarCmd(&dryRun))

	return cmd
}

func newCleanSonarCmd(dryRun *bool) *cobra.Command {
	var (
		root string
		age  int
	)

	cmd := &cobra.Command{
		Use:   "sonar",
		Short: "Remove SonarLint work folders older than --age days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if root == "" {
				root = cfg.Clean.SonarDir
			}
			if !cmd.Flags().Changed("age") {
				age = cfg.Clean.SonarAgeDays
			}
			if age < 0 {
				return fmt.Errorf("--age must not be negative")
			}

			dir, err := config.ExpandPath(root)
			if err != nil {
				return err
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("root path not found: %s", dir)
			}
			return runClean(cmd, "Sonar", dir, clean.OlderThan(age, time.Now()), *dryRun)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Root path of the work folders (default from config)")
	cmd.Flags().IntVarP(&age, "age", "d", config.DefaultSonarAgeDays, "Age in days to retain")
	cmd.MarkFlagDirname("root")

	return cmd
}

func runClean(cmd *cobra.Command, name, root string, match clean.Matcher, dryRun bool) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	l.Printf("%s cleanup started on %s\n", name, root)

	folders, err := clean.FolderList(root, match)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		l.Println("no suitable folders found")
		return nil
	}
	if !dryRun {
		l.Printf("attempting to delete %d folders - please be patient\n", len(folders))
	}

	opts := clean.Options{DryRun: dryRun}
	var bar *progress.Bar
	if !dryRun && progress.Enabled() && !l.IsVerbose() {
		bar = progress.NewBar(len(folders), "")
		bar.Start()
		opts.Progress = func(done int, folder string) { bar.Set(done, folder) }
	}

	res := clean.Remove(ctx, root, folders, opts)
	if bar != nil {
		bar.Stop()
	}

	if !dryRun {
		out.Printf("%s cleanup completed: %d deleted, %d skipped\n", name, res.Deleted, res.Skipped)
	}
	return nil
}
