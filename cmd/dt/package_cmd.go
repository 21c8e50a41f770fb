package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/manifest"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/ui/static"
)

// findManifest locates the first package.json at or above path.
func findManifest(cmd *cobra.Command, path string) (*manifest.Package, string, error) {
	dir, err := resolvePath(cmd.Context(), path)
	if err != nil {
		return nil, "", err
	}
	file := manifest.FindFirst(manifest.FileName, dir)
	if file == "" {
		return nil, "", &manifest.NotFoundError{Path: dir}
	}
	pkg, err := manifest.Load(file)
	if err != nil {
		return nil, "", err
	}
	return pkg, file, nil
}

func newEnginesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:     "engines",
		Short:   "Print the Node.js range of the nearest package.json",
		GroupID: GroupNode,
		Args:    cobra.NoArgs,
		Long: `Print engines.node of the first package.json found in --path or one of
its parents. The configured default range is printed when none is declared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pkg, _, err := findManifest(cmd, path)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(pkg.NodeRange(engine.FromContext(ctx).DefaultRange()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Path to start searching from (default: current directory)")
	cmd.MarkFlagDirname("path")
	return cmd
}

func newScriptsCmd() *cobra.Command {
	var (
		path       string
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:     "scripts",
		Short:   "List the scripts of the nearest package.json",
		GroupID: GroupNode,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			f, err := resolveFormat(ctx, formatFlag)
			if err != nil {
				return err
			}
			pkg, file, err := findManifest(cmd, path)
			if err != nil {
				return err
			}

			if f != output.FormatTable {
				scripts := pkg.Scripts
				if scripts == nil {
					scripts = map[string]string{}
				}
				return out.Encode(f, scripts)
			}

			names := pkg.ScriptNames()
			if len(names) == 0 {
				return fmt.Errorf("no scripts in %s", file)
			}
			rows := make([][]string, len(names))
			for i, name := range names {
				rows[i] = []string{name + ":", pkg.Scripts[name]}
			}
			for _, line := range static.Align(rows, " ") {
				out.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Path to start searching from (default: current directory)")
	addFormatFlag(cmd, &formatFlag)
	cmd.MarkFlagDirname("path")
	return cmd
}
