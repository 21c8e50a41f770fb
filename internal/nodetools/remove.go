package nodetools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/raphi011/devtools/internal/engine"
)

// NoMatchError reports that no installed version matched a removal range.
type NoMatchError struct {
	Range string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matches found for range %s", e.Range)
}

// Target is an installed version scheduled for removal.
type Target struct {
	Version string `json:"version" yaml:"version"`
	Dir     string `json:"dir" yaml:"dir"` // folder deleted recursively
}

// PlanRemoval picks the installed versions, usable or not, within rng.
func PlanRemoval(versions []*engine.Version, env engine.Env, rng string) ([]Target, error) {
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return nil, fmt.Errorf("invalid version range %q: %w", rng, err)
	}

	var targets []Target
	for _, v := range versions {
		sv, err := semver.NewVersion(strings.TrimPrefix(v.Version(), "v"))
		if err != nil || !c.Check(sv) {
			continue
		}
		targets = append(targets, Target{Version: v.Version(), Dir: versionDir(v, env)})
	}

	if len(targets) == 0 {
		return nil, &NoMatchError{Range: rng}
	}
	return targets, nil
}

// versionDir is the folder owning the whole installation. With nvm the
// executable lives one level deeper, in bin.
func versionDir(v *engine.Version, env engine.Env) string {
	if !env.Windows() && filepath.Base(v.Path()) == "bin" {
		return filepath.Dir(v.Path())
	}
	return v.Path()
}

// RemoveTarget deletes the installation folder of t.
func RemoveTarget(t Target) Action {
	a := Action{Version: t.Version, Description: fmt.Sprintf("Removed %s at %s", t.Version, t.Dir)}
	if err := os.RemoveAll(t.Dir); err != nil {
		a.Description = "unable to remove " + t.Dir
		a.Err = err
	}
	return a
}

// Describe returns the dry-run line for t.
func (t Target) Describe() string {
	return fmt.Sprintf("Would remove %s at %s", t.Version, t.Dir)
}
