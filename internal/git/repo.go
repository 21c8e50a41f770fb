package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GetCurrentBranch returns the current branch name
// Returns "HEAD" for detached HEAD state
func GetCurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "HEAD", nil
	}
	return branch, nil
}

// GetHeadHash returns the full commit hash of HEAD
func GetHeadHash(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsDirty returns true if the worktree has uncommitted changes or untracked files
func IsDirty(ctx context.Context, path string) bool {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false // Treat error as clean (safe default)
	}
	return strings.TrimSpace(string(output)) != ""
}

// Fetch updates remote refs from origin
func Fetch(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "fetch", "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch: %v", err)
	}
	return nil
}

// CommitsDiff counts commits between origin/<branch> and HEAD.
// With symmetric set it counts both sides (origin/<branch>...HEAD),
// otherwise only commits on HEAD missing from origin (origin/<branch>..HEAD).
func CommitsDiff(ctx context.Context, repoPath, branch string, symmetric bool) (int, error) {
	dots := ".."
	if symmetric {
		dots = "..."
	}
	output, err := outputGit(ctx, repoPath, "rev-list", "--count", "origin/"+branch+dots+"HEAD")
	if err != nil {
		return 0, fmt.Errorf("failed to count commits: %v", err)
	}
	return strconv.Atoi(strings.TrimSpace(string(output)))
}

// Divergence is how far HEAD is from its origin counterpart.
type Divergence struct {
	Ahead  int `json:"ahead" yaml:"ahead"`
	Behind int `json:"behind" yaml:"behind"`
}

// GetDivergence fetches origin and counts commits ahead of and behind
// origin/<current branch>.
func GetDivergence(ctx context.Context, repoPath string) (Divergence, error) {
	if err := Fetch(ctx, repoPath); err != nil {
		return Divergence{}, err
	}
	branch, err := GetCurrentBranch(ctx, repoPath)
	if err != nil {
		return Divergence{}, err
	}
	total, err := CommitsDiff(ctx, repoPath, branch, true)
	if err != nil {
		return Divergence{}, err
	}
	ahead, err := CommitsDiff(ctx, repoPath, branch, false)
	if err != nil {
		return Divergence{}, err
	}
	return divergence(total, ahead), nil
}

func divergence(total, ahead int) Divergence {
	d := Divergence{Ahead: ahead}
	if total > 0 {
		d.Behind = total - ahead
	}
	return d
}

// ReflogFormat separates entries with RS (0x1e) and fields with US (0x1f):
// selector, short hash, decorations, subject.
const ReflogFormat = "%gd%x1f%h%x1f%D%x1f%gs%x1e"

// GetReflog returns the raw HEAD reflog of repoPath with strict ISO dates,
// formatted with ReflogFormat.
func GetReflog(ctx context.Context, repoPath string) ([]byte, error) {
	output, err := outputGit(ctx, repoPath, "log", "--walk-reflogs", "--date=iso-strict", "--format="+ReflogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to read reflog: %v", err)
	}
	return output, nil
}
