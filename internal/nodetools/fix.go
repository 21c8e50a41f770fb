package nodetools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/storage"
)

// FixMode selects how a missing executable is restored.
type FixMode string

const (
	FixCopy FixMode = "copy"
	FixLink FixMode = "link"
)

// ParseFixMode accepts copy, c, link and l.
func ParseFixMode(s string) (FixMode, error) {
	switch strings.ToLower(s) {
	case "", "c", "copy":
		return FixCopy, nil
	case "l", "link":
		return FixLink, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be \"copy\" or \"link\"", s)
}

// sourceExecutable returns the lexically greatest *.exe in dir, or "".
func sourceExecutable(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var exes []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".exe") {
			exes = append(exes, e.Name())
		}
	}
	if len(exes) == 0 {
		return ""
	}
	sort.Sort(sort.Reverse(sort.StringSlice(exes)))
	return exes[0]
}

// Fix restores the executable of every unusable version by copying or
// linking another executable from the same folder. Without execute it only
// describes the plan. An empty result means nothing needed fixing.
func Fix(versions []*engine.Version, env engine.Env, mode FixMode, execute bool) ([]Action, error) {
	if !env.Windows() {
		return nil, ErrWindowsOnly
	}

	target := env.ExecutableName()
	var actions []Action

	for _, v := range versions {
		if v.Usable() {
			continue
		}

		src := sourceExecutable(v.Path())
		a := Action{Version: v.Version()}
		switch {
		case src == "":
			a.Description = "no *.exe found to fix with"
			a.Err = fmt.Errorf("nothing to %s in %s", mode, v.Path())
		case !execute && mode == FixLink:
			a.Description = fmt.Sprintf("will create symbolic link from '%s' to '%s'", target, src)
		case !execute:
			a.Description = fmt.Sprintf("will copy '%s' to '%s'", src, target)
		case mode == FixLink:
			a.Description = fmt.Sprintf("created symbolic link from '%s' to '%s'", target, src)
			if err := os.Symlink(filepath.Join(v.Path(), src), filepath.Join(v.Path(), target)); err != nil {
				a.Description = fmt.Sprintf("was unable to link '%s' to '%s'", target, src)
				a.Err = err
			}
		default:
			a.Description = fmt.Sprintf("copied '%s' to '%s'", src, target)
			if err := storage.CopyFile(filepath.Join(v.Path(), src), filepath.Join(v.Path(), target), 0o755); err != nil {
				a.Description = fmt.Sprintf("was unable to copy '%s' to '%s'", src, target)
				a.Err = err
			}
		}
		actions = append(actions, a)
	}

	return actions, nil
}
