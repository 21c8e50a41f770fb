// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [github.com/raphi011/devtools/internal/cmd]
// so user configuration (SSH keys, credential helpers) applies and verbose
// mode shows every invocation.
//
// # Repository Discovery
//
//   - [FindAllRepos]: direct children of a folder that hold a .git entry
//   - [FindSimilarRepos]: fuzzy "did you mean" candidates
//
// # Status
//
//   - [GetCurrentBranch], [GetHeadHash], [IsDirty]
//   - [GetDivergence]: fetch, then count commits ahead of and behind origin
//   - [LoadStatus]: all of the above for many repos in parallel
//
// # Reflog
//
//   - [GetReflog]: raw HEAD reflog in [ReflogFormat]
package git
