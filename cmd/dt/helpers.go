package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/config"
	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/git"
	"github.com/raphi011/devtools/internal/output"
)

// addFormatFlag registers --format with shell completion.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "", "Output format: table, json or yaml (default from config)")
	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFormat returns the --format value, falling back to default_format.
func resolveFormat(ctx context.Context, flag string) (output.Format, error) {
	if flag == "" {
		if cfg := config.FromContext(ctx); cfg != nil {
			flag = cfg.DefaultFormat
		}
	}
	return output.ParseFormat(flag)
}

// resolveDevRoot returns --root, falling back to dev_root / DT_DEV_ROOT / DEVROOT.
func resolveDevRoot(ctx context.Context, flag string) (string, error) {
	root := flag
	if root == "" {
		if cfg := config.FromContext(ctx); cfg != nil {
			root = cfg.DevRoot
		}
	}
	if root == "" {
		return "", fmt.Errorf("dev root is required: use --root or set DT_DEV_ROOT (or DEVROOT)")
	}

	root, err := config.ExpandPath(root)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("unable to access dev root folder '%s'", root)
	}
	return root, nil
}

// resolveRepos lists the repositories below root, limited to names when
// given. Unknown names are an error listing close matches.
func resolveRepos(root string, names []string) ([]string, error) {
	if missing := git.MissingRepos(root, names); len(missing) > 0 {
		var hints []string
		for _, name := range missing {
			if similar := git.FindSimilarRepos(root, name); len(similar) > 0 {
				hints = append(hints, fmt.Sprintf("%s (did you mean: %s?)", name, strings.Join(similar[:min(3, len(similar))], ", ")))
			} else {
				hints = append(hints, name)
			}
		}
		return nil, fmt.Errorf("repository not found in %s: %s", root, strings.Join(hints, "; "))
	}
	return git.FindAllRepos(root, names...)
}

// completeRepoNames completes --folder-names from the dev root.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	flag, _ := cmd.Flags().GetString("root")
	cfg, err := config.Load()
	if flag == "" && err == nil {
		flag = cfg.DevRoot
	}
	root, err := config.ExpandPath(flag)
	if err != nil || root == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	repos, err := git.FindAllRepos(root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, r := range repos {
		if name := filepath.Base(r); strings.HasPrefix(name, toComplete) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeVersions completes --version from the usable Node.js versions.
func completeVersions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, v := range engine.New().Usable() {
		label := strings.TrimPrefix(v.Version(), "v")
		if strings.HasPrefix(label, strings.TrimPrefix(toComplete, "v")) {
			matches = append(matches, label)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// resolvePath returns --path made absolute, defaulting to the working directory.
func resolvePath(ctx context.Context, flag string) (string, error) {
	if flag == "" {
		return config.WorkDirFromContext(ctx), nil
	}
	p, err := config.ExpandPath(flag)
	if err != nil || !filepath.IsAbs(p) {
		p, err = filepath.Abs(flag)
	}
	return p, err
}
