package engine

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/raphi011/devtools/internal/log"
)

// Discover lists the installed versions found through env, newest first.
// Broken installations are included with Err set.
//
// With NVMBin set the versions home is two levels above it and each version
// keeps its executable in a bin subfolder. With only NVMHome set the
// executable sits directly in the version folder. Without either, or when
// the versions home is not a readable folder, the result is empty.
func Discover(env Env, l *log.Logger) []*Version {
	if !env.Configured() {
		return nil
	}

	home := env.NVMHome
	if env.NVMBin != "" {
		home = filepath.Join(env.NVMBin, "..", "..")
	}
	home, err := filepath.Abs(home)
	if err != nil {
		return nil
	}

	info, err := os.Stat(home)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(home)
	if err != nil {
		return nil
	}

	var labels []string
	for _, entry := range entries {
		if entry.IsDir() {
			labels = append(labels, entry.Name())
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return Rank(labels[i]) > Rank(labels[j])
	})

	versions := make([]*Version, 0, len(labels))
	for _, label := range labels {
		path := filepath.Join(home, label)
		if env.NVMBin != "" {
			path = filepath.Join(path, "bin")
		}
		versions = append(versions, NewVersion(label, path, env, l))
	}

	if l != nil {
		l.Debug("discovered node versions", "home", home, "count", len(versions))
	}

	return versions
}
