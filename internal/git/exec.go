package git

import (
	"context"

	"github.com/raphi011/devtools/internal/cmd"
)

// repoArgs runs git against repo without changing the working directory.
func repoArgs(repo string, args []string) []string {
	if repo == "" {
		return args
	}
	return append([]string{"--no-pager", "-C", repo}, args...)
}

func runGit(ctx context.Context, repo string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", repoArgs(repo, args)...)
}

// outputGit returns stdout of a git command run in repo. The command line
// and its duration are logged in verbose mode.
func outputGit(ctx context.Context, repo string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", repoArgs(repo, args)...)
}
