package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGit(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// commitFile writes name and commits it.
func commitFile(t *testing.T, repoPath, name, msg string) {
	t.Helper()
	ctx := context.Background()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(msg+"\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", name); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", msg); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

// initRepo creates an empty repo named name below dir.
func initRepo(t *testing.T, dir, name string) string {
	t.Helper()
	repoPath := filepath.Join(dir, name)
	if err := runGit(context.Background(), "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	configureTestRepo(t, repoPath)
	return repoPath
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := initRepo(t, resolveTempDir(t), "test-repo")
	commitFile(t, repoPath, "README.md", "Initial commit")
	return repoPath
}

// setupTestRepoWithOrigin creates a repo with a bare origin remote.
// Returns (repoPath, originPath).
func setupTestRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := resolveTempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	ctx := context.Background()

	// -b main ensures consistent default branch across git versions
	if err := runGit(ctx, "", "init", "--bare", "-b", "main", originPath); err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}
	if err := runGit(ctx, "", "clone", originPath, repoPath); err != nil {
		t.Fatalf("failed to clone: %v", err)
	}

	configureTestRepo(t, repoPath)
	// Cloning an empty repo leaves the unborn branch name up to the git version
	if err := runGit(ctx, repoPath, "symbolic-ref", "HEAD", "refs/heads/main"); err != nil {
		t.Fatalf("failed to set HEAD: %v", err)
	}
	commitFile(t, repoPath, "README.md", "Initial commit")
	if err := runGit(ctx, repoPath, "push", "-u", "origin", "HEAD"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}

	return repoPath, originPath
}

func TestHasCommits(t *testing.T) {
	t.Parallel()

	empty := initRepo(t, resolveTempDir(t), "empty")
	if HasCommits(context.Background(), empty) {
		t.Error("HasCommits() = true for repo without commits")
	}

	repo := setupTestRepo(t)
	if !HasCommits(context.Background(), repo) {
		t.Error("HasCommits() = false for repo with a commit")
	}
}

func TestGetCurrentBranch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupTestRepo(t)

	branch, err := GetCurrentBranch(ctx, repo)
	if err != nil {
		t.Fatalf("GetCurrentBranch() error: %v", err)
	}
	if branch != "main" {
		t.Errorf("GetCurrentBranch() = %q, want main", branch)
	}

	if err := runGit(ctx, repo, "checkout", "--detach"); err != nil {
		t.Fatalf("failed to detach: %v", err)
	}
	branch, err = GetCurrentBranch(ctx, repo)
	if err != nil {
		t.Fatalf("GetCurrentBranch() detached error: %v", err)
	}
	if branch != "HEAD" {
		t.Errorf("GetCurrentBranch() detached = %q, want HEAD", branch)
	}
}

func TestGetHeadHash(t *testing.T) {
	t.Parallel()

	hash, err := GetHeadHash(context.Background(), setupTestRepo(t))
	if err != nil {
		t.Fatalf("GetHeadHash() error: %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("GetHeadHash() = %q, want 40 hex chars", hash)
	}
}

func TestIsDirty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupTestRepo(t)

	if IsDirty(ctx, repo) {
		t.Error("IsDirty() = true for clean repo")
	}

	if err := os.WriteFile(filepath.Join(repo, "untracked.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !IsDirty(ctx, repo) {
		t.Error("IsDirty() = false with untracked file")
	}
}

func TestGetDivergence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, origin := setupTestRepoWithOrigin(t)

	d, err := GetDivergence(ctx, repo)
	if err != nil {
		t.Fatalf("GetDivergence() error: %v", err)
	}
	if d.Ahead != 0 || d.Behind != 0 {
		t.Errorf("GetDivergence() = %+v, want in sync", d)
	}

	// Push one commit to origin from a second clone, commit twice locally.
	other := filepath.Join(filepath.Dir(origin), "other")
	if err := runGit(ctx, "", "clone", origin, other); err != nil {
		t.Fatalf("failed to clone: %v", err)
	}
	configureTestRepo(t, other)
	commitFile(t, other, "remote.txt", "remote change")
	if err := runGit(ctx, other, "push", "origin", "HEAD"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	commitFile(t, repo, "local1.txt", "local change 1")
	commitFile(t, repo, "local2.txt", "local change 2")

	d, err = GetDivergence(ctx, repo)
	if err != nil {
		t.Fatalf("GetDivergence() error: %v", err)
	}
	if d.Ahead != 2 || d.Behind != 1 {
		t.Errorf("GetDivergence() = %+v, want ahead 2 behind 1", d)
	}
}

func TestGetDivergence_NoOrigin(t *testing.T) {
	t.Parallel()

	if _, err := GetDivergence(context.Background(), setupTestRepo(t)); err == nil {
		t.Error("GetDivergence() expected error without origin")
	}
}

func TestDivergence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, ahead int
		want         Divergence
	}{
		{0, 0, Divergence{}},
		{3, 1, Divergence{Ahead: 1, Behind: 2}},
		{2, 2, Divergence{Ahead: 2}},
		{0, 4, Divergence{Ahead: 4}},
	}
	for _, tt := range tests {
		if got := divergence(tt.total, tt.ahead); got != tt.want {
			t.Errorf("divergence(%d, %d) = %+v, want %+v", tt.total, tt.ahead, got, tt.want)
		}
	}
}

func TestGetReflog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupTestRepo(t)
	commitFile(t, repo, "second.txt", "second commit")

	out, err := GetReflog(ctx, repo)
	if err != nil {
		t.Fatalf("GetReflog() error: %v", err)
	}

	entries := strings.Split(strings.TrimSpace(string(out)), "\x1e")
	var count int
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("GetReflog() returned %d entries, want 2: %q", count, out)
	}
	if !strings.Contains(string(out), "second commit") {
		t.Errorf("GetReflog() = %q, want subject of latest commit", out)
	}
	if !strings.Contains(string(out), "HEAD@{") {
		t.Errorf("GetReflog() = %q, want HEAD@{date} selectors", out)
	}
}
