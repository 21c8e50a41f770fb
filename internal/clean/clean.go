// Package clean removes leftover temporary folders created by yarn, build
// tools and SonarLint.
package clean

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/devtools/internal/log"
)

// Matcher decides whether a folder should be removed.
type Matcher func(name string, info os.FileInfo) bool

var (
	yarnPattern    = regexp.MustCompile(`^yarn--.+`)
	builderPattern = regexp.MustCompile(`^[a-z0-9]{32}$`)
)

// Yarn matches the yarn--<id> folders yarn leaves in the temp dir.
func Yarn(name string, _ os.FileInfo) bool {
	return yarnPattern.MatchString(name)
}

// Builder matches build tool scratch folders named by a 32 character hash
// or a UUID.
func Builder(name string, _ os.FileInfo) bool {
	if builderPattern.MatchString(name) {
		return true
	}
	if len(name) != 36 {
		return false
	}
	_, err := uuid.Parse(name)
	return err == nil
}

// OlderThan matches folders last modified more than days before now.
func OlderThan(days int, now time.Time) Matcher {
	cutoff := now.AddDate(0, 0, -days)
	return func(_ string, info os.FileInfo) bool {
		return info.ModTime().Before(cutoff)
	}
}

// FolderList returns the names of the folders directly below root accepted
// by match, sorted.
func FolderList(root string, match Matcher) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var folders []string
	for _, e := range entries {
		// Stat follows links, a link to a folder counts as a folder
		info, err := os.Stat(filepath.Join(root, e.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		if match(e.Name(), info) {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// Result counts the outcome of Remove.
type Result struct {
	Deleted int `json:"deleted" yaml:"deleted"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Options tunes Remove.
type Options struct {
	DryRun bool
	// Progress is called after each folder with the number handled so far.
	// It may be called from several goroutines.
	Progress func(done int, name string)
}

// Remove deletes folders below root. Failures never abort the run: they are
// counted as skipped and logged at debug level.
func Remove(ctx context.Context, root string, folders []string, opts Options) Result {
	l := log.FromContext(ctx)

	if opts.DryRun {
		for i, name := range folders {
			l.Printf("would delete %s\n", filepath.Join(root, name))
			if opts.Progress != nil {
				opts.Progress(i+1, name)
			}
		}
		return Result{}
	}

	var (
		mu     sync.Mutex
		result Result
		done   atomic.Int32
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, name := range folders {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = os.RemoveAll(filepath.Join(root, name))
			}

			mu.Lock()
			if err != nil {
				result.Skipped++
				l.Debug("ERROR", "folder", name, "error", err)
			} else {
				result.Deleted++
			}
			mu.Unlock()

			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), name)
			}
			return nil
		})
	}

	_ = g.Wait()
	return result
}
