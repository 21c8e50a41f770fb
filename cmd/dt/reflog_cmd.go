package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/config"
	"github.com/raphi011/devtools/internal/git"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/reflog"
)

func newReflogCmd() *cobra.Command {
	var (
		root        string
		folderNames []string
		flags       reflog.DateFlags
		formatFlag  string
	)

	cmd := &cobra.Command{
		Use:     "reflog [days]",
		Short:   "Merge the reflogs of all repositories into one timeline",
		Aliases: []string{"grefplus"},
		GroupID: GroupRepos,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show the HEAD reflog of every repository in the dev root, merged and
sorted by date, oldest first.

Dates use the [reflog] date_format layout (M/D/YY by default). --date
covers a single day and cannot be combined with --from-date or --to-date.
A number as argument is a day offset from today, e.g. -1 for yesterday.`,
		Example: `  dt reflog                          # Everything
  dt reflog -d 10/17/26              # A single day
  dt reflog -- -1                    # Yesterday
  dt reflog -f 10/1/26 -t 10/15/26   # A period
  dt reflog -n api -n web            # Only these folders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			if len(args) == 1 {
				days, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				flags.Days = &days
			}

			period, err := reflog.ParsePeriod(flags, cfg.Reflog.DateFormat, time.Now())
			if err != nil {
				return err
			}
			f, err := resolveFormat(ctx, formatFlag)
			if err != nil {
				return err
			}
			if err := git.RequireGit(); err != nil {
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

			l.Debug("reading reflogs", "repos", len(repos), "from", period.From, "to", period.To)
			entries, warnings := reflog.Load(ctx, repos, period)

			if l.IsVerbose() {
				for _, line := range reflog.WarningLines(warnings) {
					l.Println(line)
				}
			}

			if f != output.FormatTable {
				if entries == nil {
					entries = []reflog.Entry{}
				}
				return out.Encode(f, entries)
			}
			for _, line := range reflog.Lines(entries, time.Local) {
				out.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Root folder of the repositories (default: DT_DEV_ROOT/DEVROOT)")
	cmd.Flags().StringArrayVarP(&folderNames, "folder-names", "n", nil, "Repository folder names (repeatable)")
	cmd.Flags().StringVarP(&flags.Date, "date", "d", "", "Show a single day")
	cmd.Flags().StringVarP(&flags.FromDate, "from-date", "f", "", "Show entries from this day on")
	cmd.Flags().StringVarP(&flags.ToDate, "to-date", "t", "", "Show entries up to and including this day")
	addFormatFlag(cmd, &formatFlag)

	cmd.RegisterFlagCompletionFunc("folder-names", completeRepoNames)
	cmd.MarkFlagDirname("root")

	return cmd
}
