package git

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Status is the per-repository snapshot shown by "dt branches".
type Status struct {
	Name   string      `json:"name" yaml:"name"`
	Path   string      `json:"path" yaml:"path"`
	Branch string      `json:"branch" yaml:"branch"`
	Head   string      `json:"head" yaml:"head"`
	Dirty  bool        `json:"dirty" yaml:"dirty"`
	Remote *Divergence `json:"remote,omitempty" yaml:"remote,omitempty"`
	// FetchError is set when --fetch was requested but failed.
	FetchError string `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`
}

// LoadWarning represents a non-fatal error encountered while loading a repo.
type LoadWarning struct {
	RepoName string
	Err      error
}

// LoadStatus queries all repos in parallel. Repos without commits are
// skipped silently; other failures become warnings. Results keep the
// order of repoPaths.
func LoadStatus(ctx context.Context, repoPaths []string, fetch bool) ([]Status, []LoadWarning) {
	type repoResult struct {
		status  *Status
		warning *LoadWarning
	}

	results := make([]repoResult, len(repoPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i, path := range repoPaths {
		g.Go(func() error {
			st, warn := loadStatus(ctx, path, fetch)
			results[i] = repoResult{status: st, warning: warn}
			return nil // Never fail, warnings are non-fatal
		})
	}

	_ = g.Wait() // Always nil, goroutines collect errors as warnings

	var all []Status
	var warnings []LoadWarning
	for _, r := range results {
		if r.status != nil {
			all = append(all, *r.status)
		}
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
	}

	return all, warnings
}

func loadStatus(ctx context.Context, path string, fetch bool) (*Status, *LoadWarning) {
	name := filepath.Base(path)
	if !HasCommits(ctx, path) {
		return nil, nil
	}

	branch, err := GetCurrentBranch(ctx, path)
	if err != nil {
		return nil, &LoadWarning{RepoName: name, Err: err}
	}
	head, err := GetHeadHash(ctx, path)
	if err != nil {
		return nil, &LoadWarning{RepoName: name, Err: err}
	}

	st := &Status{
		Name:   name,
		Path:   path,
		Branch: branch,
		Head:   head,
		Dirty:  IsDirty(ctx, path),
	}

	if fetch {
		d, err := GetDivergence(ctx, path)
		if err != nil {
			st.FetchError = err.Error()
			d = Divergence{}
		}
		st.Remote = &d
	}

	return st, nil
}
