package git

import (
	"context"
	"errors"
	"os/exec"
)

// ErrGitNotFound is returned by RequireGit when no git binary is on PATH.
var ErrGitNotFound = errors.New("git is required to inspect repositories but was not found on PATH")

// RequireGit fails with ErrGitNotFound unless git can be executed.
func RequireGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// HasCommits reports whether git log succeeds for the repository at path.
// Freshly initialized repositories have no commits and are skipped.
func HasCommits(ctx context.Context, path string) bool {
	return runGit(ctx, path, "log", "-1", "--format=%H") == nil
}
