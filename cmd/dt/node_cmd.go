package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/nodetools"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/ui/progress"
	"github.com/raphi011/devtools/internal/ui/prompt"
	"github.com/raphi011/devtools/internal/ui/styles"
)

func newNodeCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:     "node",
		Short:   "Inspect and repair nvm Node.js installations",
		Aliases: []string{"nt"},
		GroupID: GroupNode,
		Args:    cobra.NoArgs,
		Long: `Inspect and repair the Node.js versions installed with nvm (NVM_BIN) or
nvm-windows (NVM_HOME).

Without a subcommand the report is shown.`,
		Example: `  dt node                      # Report installed versions
  dt node fix --execute        # Restore missing node.exe files
  dt node remove -v 12         # Show which versions would be removed
  dt node check -r ">=16"      # Check the node on PATH`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeReport(cmd, formatFlag)
		},
	}
	addFormatFlag(cmd, &formatFlag)

	cmd.AddCommand(newNodeReportCmd())
	cmd.AddCommand(newNodeFixCmd())
	cmd.AddCommand(newNodeCleanCmd())
	cmd.AddCommand(newNodeRemoveCmd())
	cmd.AddCommand(newNodeCheckCmd())

	return cmd
}

func newNodeReportCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List installed versions and their health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeReport(cmd, formatFlag)
		},
	}
	addFormatFlag(cmd, &formatFlag)
	return cmd
}

func runNodeReport(cmd *cobra.Command, formatFlag string) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)
	e := engine.FromContext(ctx)

	f, err := resolveFormat(ctx, formatFlag)
	if err != nil {
		return err
	}
	if !e.Env().Configured() {
		return errors.New("neither NVM_HOME nor NVM_BIN is set")
	}

	r := nodetools.BuildReport(e.All(), e.Env())
	if f != output.FormatTable {
		return out.Encode(f, r)
	}

	for _, entry := range r.Entries {
		status := styles.Status(entry.OK, entry.IsLink, entry.Problem(e.Env()))
		out.PrintStyled(fmt.Sprintf(" - %-9s - %s\n", entry.Version, status))
	}
	if r.Hint != "" {
		out.Println()
		out.PrintStyled(styles.WarningStyle.Render(r.Hint) + "\n")
	}
	return nil
}

// printActions writes one line per action and fails when any action failed.
func printActions(cmd *cobra.Command, actions []nodetools.Action) error {
	out := output.FromContext(cmd.Context())
	for _, a := range actions {
		line := a.String()
		if a.Err != nil {
			line = styles.ErrorStyle.Render(line)
		}
		out.PrintStyled(line + "\n")
	}
	if n := nodetools.Failed(actions); n > 0 {
		return fmt.Errorf("%d of %d actions failed", n, len(actions))
	}
	return nil
}

func newNodeFixCmd() *cobra.Command {
	var (
		execute bool
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Restore missing node.exe files (nvm-windows)",
		Args:  cobra.NoArgs,
		Long: `For every version without a working node.exe, copy or link the newest
*.exe found in its folder to node.exe. Without --execute only the plan is
shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := engine.FromContext(ctx)

			m, err := nodetools.ParseFixMode(mode)
			if err != nil {
				return err
			}
			actions, err := nodetools.Fix(e.All(), e.Env(), m, execute)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				output.FromContext(ctx).Println("No Errors to fix")
				return nil
			}
			return printActions(cmd, actions)
		},
	}

	cmd.Flags().BoolVarP(&execute, "execute", "e", false, "Apply the fixes")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(nodetools.FixCopy), "copy or link")
	cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions([]string{"copy", "link"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func newNodeCleanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete node executables that are symbolic links (nvm-windows)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := engine.FromContext(ctx)

			actions, err := nodetools.CleanLinks(e.All(), e.Env(), dryRun)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				output.FromContext(ctx).Println("No symbolic links found")
				return nil
			}
			return printActions(cmd, actions)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted")
	return cmd
}

func newNodeRemoveCmd() *cobra.Command {
	var (
		rng     string
		execute bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Uninstall versions matching a range",
		Args:  cobra.NoArgs,
		Long: `Uninstall every installed version, usable or not, that satisfies the
range. Without --execute only the matching versions are listed.`,
		Example: `  dt node remove -v 12              # Show matching versions
  dt node remove -v "<14" --execute # Remove them, asking first
  dt node remove -v 12 -e -y        # Remove without asking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			e := engine.FromContext(ctx)

			targets, err := nodetools.PlanRemoval(e.All(), e.Env(), rng)
			if err != nil {
				return err
			}

			if !execute {
				for _, t := range targets {
					out.Println(t.Describe())
				}
				return nil
			}

			if !yes && isatty.IsTerminal(os.Stdin.Fd()) {
				items := make([]string, len(targets))
				for i, t := range targets {
					items[i] = t.Describe()
				}
				answer, err := prompt.Confirm(fmt.Sprintf("Remove %d version(s) matching %s?", len(targets), rng), items)
				if err != nil {
					return err
				}
				if answer != prompt.Accepted {
					l.Println("Aborted")
					return nil
				}
			}

			var bar *progress.Bar
			if progress.Enabled() && !l.IsVerbose() && len(targets) > 1 {
				bar = progress.NewBar(len(targets), "")
				bar.Start()
			}
			actions := make([]nodetools.Action, 0, len(targets))
			for i, t := range targets {
				actions = append(actions, nodetools.RemoveTarget(t))
				if bar != nil {
					bar.Set(i+1, t.Version)
				}
			}
			if bar != nil {
				bar.Stop()
			}
			return printActions(cmd, actions)
		},
	}

	cmd.Flags().StringVarP(&rng, "version", "v", "", "Range of versions to remove, e.g. 12 or <14")
	cmd.Flags().BoolVarP(&execute, "execute", "e", false, "Remove the versions")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.MarkFlagRequired("version")
	return cmd
}

func newNodeCheckCmd() *cobra.Command {
	var (
		rng  string
		note string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the node on PATH satisfies a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if rng == "" {
				rng = engine.FromContext(ctx).DefaultRange()
			}

			detected, err := engine.DetectNode(ctx)
			if err != nil {
				return err
			}
			if err := engine.Check(ctx, detected, rng, note); err != nil {
				return err
			}
			output.FromContext(ctx).Printf("NodeJS %s satisfies %s\n", detected, rng)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rng, "range", "r", "", "Required range (default: the configured default range)")
	cmd.Flags().StringVar(&note, "note", "", "Note shown in the error message")
	return cmd
}
