package nodetools

import (
	"fmt"

	"github.com/raphi011/devtools/internal/engine"
)

// Entry is one line of the report.
type Entry struct {
	engine.Info `yaml:",inline"`
	OK          bool `json:"ok" yaml:"ok"`
}

// Report summarizes the discovered versions.
type Report struct {
	Entries  []Entry `json:"versions" yaml:"versions"`
	Problems int     `json:"problems" yaml:"problems"`
	Hint     string  `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// BuildReport lists every version with its health.
func BuildReport(versions []*engine.Version, env engine.Env) Report {
	r := Report{Entries: make([]Entry, 0, len(versions))}
	for _, v := range versions {
		r.Entries = append(r.Entries, Entry{Info: v.Info(), OK: v.Usable()})
		if !v.Usable() {
			r.Problems++
		}
	}

	if r.Problems > 0 {
		check := "ls -l $NVM_BIN/../../<version>"
		if env.Windows() {
			check = "ls -l $NVM_HOME/<version>"
		}
		r.Hint = fmt.Sprintf("%d errors: take a look at running '%s' for each problem version, might be as simple as running 'dt node fix'", r.Problems, check)
	}
	return r
}

// Problem is the one-line description of an unusable entry.
func (e Entry) Problem(env engine.Env) string {
	return fmt.Sprintf("Problem: '%s' not found or executable", env.ExecutableName())
}
