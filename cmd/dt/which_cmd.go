package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/spawn"
	"github.com/raphi011/devtools/internal/ui/static"
)

func newWhichCmd() *cobra.Command {
	var (
		path       string
		version    string
		oldest     bool
		copyPath   bool
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:     "which",
		Short:   "Show the Node.js version yarn and spawn would use",
		GroupID: GroupNode,
		Args:    cobra.NoArgs,
		Example: `  dt which                  # For the current directory
  dt which -p ~/dev/api -o  # Oldest satisfying version for api
  dt which --copy           # Copy the bin folder to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			f, err := resolveFormat(ctx, formatFlag)
			if err != nil {
				return err
			}
			dir, err := resolvePath(ctx, path)
			if err != nil {
				return err
			}

			v, err := spawn.Resolve(engine.FromContext(ctx), spawn.Options{Path: dir, Version: version, Oldest: oldest})
			if err != nil {
				return err
			}

			if copyPath {
				if err := clipboard.WriteAll(v.Path()); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Printf("Copied %s to clipboard\n", v.Path())
			}

			if f != output.FormatTable {
				return out.Encode(f, v.Info())
			}
			out.PrintStyled(static.RenderTable(
				[]string{"VERSION", "PATH"},
				[][]string{{v.Version(), v.Path()}},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Path to act on (default: current directory)")
	cmd.Flags().StringVarP(&version, "version", "v", "", "Installed Node.js version to use (M.m.p, M.m or M)")
	cmd.Flags().BoolVarP(&oldest, "oldest", "o", false, "Choose the oldest satisfying Node.js version")
	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy the version's bin folder to the clipboard")
	addFormatFlag(cmd, &formatFlag)
	cmd.RegisterFlagCompletionFunc("version", completeVersions)
	cmd.MarkFlagDirname("path")

	return cmd
}
