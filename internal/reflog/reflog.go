package reflog

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/devtools/internal/git"
	"github.com/raphi011/devtools/internal/ui/static"
)

// Entry is one reflog line of a repository.
type Entry struct {
	Date time.Time `json:"date" yaml:"date"`
	Repo string    `json:"repo" yaml:"repo"`
	Body string    `json:"body" yaml:"body"`
}

// Parse splits output produced with git.ReflogFormat into entries.
// Records without a parseable date are dropped.
func Parse(repo string, raw []byte) []Entry {
	var entries []Entry
	for _, record := range strings.Split(string(raw), "\x1e") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		fields := strings.Split(record, "\x1f")
		if len(fields) != 4 {
			continue
		}
		date, ok := selectorDate(fields[0])
		if !ok {
			continue
		}

		body := fields[1]
		if fields[2] != "" {
			body += " (" + fields[2] + ")"
		}
		body += " " + fields[3]

		entries = append(entries, Entry{Date: date, Repo: repo, Body: body})
	}
	return entries
}

// selectorDate extracts the date of a "HEAD@{<iso date>}" selector.
func selectorDate(selector string) (time.Time, bool) {
	start := strings.Index(selector, "@{")
	if start < 0 || !strings.HasSuffix(selector, "}") {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, selector[start+2:len(selector)-1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Load reads the reflog of every repo in parallel and returns the entries
// within period, oldest first. Repos that fail are reported as warnings.
func Load(ctx context.Context, repoPaths []string, period Period) ([]Entry, []git.LoadWarning) {
	type repoResult struct {
		entries []Entry
		err     error
	}
	results := make([]repoResult, len(repoPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, path := range repoPaths {
		g.Go(func() error {
			raw, err := git.GetReflog(ctx, path)
			if err != nil {
				results[i] = repoResult{err: err}
				return nil
			}
			var kept []Entry
			for _, e := range Parse(filepath.Base(path), raw) {
				if period.Contains(e.Date) {
					kept = append(kept, e)
				}
			}
			results[i] = repoResult{entries: kept}
			return nil
		})
	}
	_ = g.Wait()

	var all []Entry
	var warnings []git.LoadWarning
	for i, r := range results {
		if r.err != nil {
			warnings = append(warnings, git.LoadWarning{RepoName: filepath.Base(repoPaths[i]), Err: r.err})
			continue
		}
		all = append(all, r.entries...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})
	return all, warnings
}

// Lines renders entries as "<date>  <repo>  <body>" with repo names padded
// to the longest one. Dates are shown in loc.
func Lines(entries []Entry, loc *time.Location) []string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Date.In(loc).Format(DisplayLayout), e.Repo, e.Body}
	}
	return static.Align(rows, "  ")
}

// WarningLines formats load warnings the way verbose mode lists them.
func WarningLines(warnings []git.LoadWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("Errors Reported: %d", len(warnings))}
	for i, w := range warnings {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, w.RepoName, strings.TrimSpace(w.Err.Error())))
	}
	return lines
}
