package nodetools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/devtools/internal/engine"
)

// CleanLinks deletes executables that are symbolic links, typically left
// behind by "dt node fix --mode link". With dryRun it only describes them.
func CleanLinks(versions []*engine.Version, env engine.Env, dryRun bool) ([]Action, error) {
	if !env.Windows() {
		return nil, ErrWindowsOnly
	}

	var actions []Action
	for _, v := range versions {
		if !v.IsLink() {
			continue
		}

		a := Action{Version: v.Version()}
		if dryRun {
			a.Description = "will delete " + filepath.Base(v.Bin())
		} else if err := os.Remove(v.Bin()); err != nil {
			a.Description = "unable to delete " + v.Bin()
			a.Err = err
		} else {
			a.Description = fmt.Sprintf("deleted symbolic link %s", v.Bin())
		}
		actions = append(actions, a)
	}
	return actions, nil
}
