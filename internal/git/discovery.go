package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// isGitRepo checks if a path is a git repository (has .git dir or file)
func isGitRepo(path string) bool {
	gitPath := filepath.Join(path, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return false
	}
	// .git can be a directory (regular repo) or file (worktree)
	return info.IsDir() || info.Mode().IsRegular()
}

// FindAllRepos returns paths to all git repositories in basePath (direct children only).
// When names is non-empty only folders with one of those names are returned.
func FindAllRepos(basePath string, names ...string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", basePath, err)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if len(wanted) > 0 && !wanted[entry.Name()] {
			continue
		}

		repoPath := filepath.Join(basePath, entry.Name())
		if isGitRepo(repoPath) {
			repos = append(repos, repoPath)
		}
	}

	return repos, nil
}

// MissingRepos returns the names that do not match a repository folder in basePath.
func MissingRepos(basePath string, names []string) []string {
	var missing []string
	for _, n := range names {
		if !isGitRepo(filepath.Join(basePath, n)) {
			missing = append(missing, n)
		}
	}
	return missing
}

// FindSimilarRepos returns repository folder names in basePath that fuzzy
// match search, best match first. Used for "did you mean" hints.
func FindSimilarRepos(basePath, search string) []string {
	repos, err := FindAllRepos(basePath)
	if err != nil {
		return nil
	}

	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = filepath.Base(r)
	}

	matches := fuzzy.Find(strings.ToLower(search), lower(names))
	sort.Stable(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, names[m.Index])
	}
	return out
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
