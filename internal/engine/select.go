package engine

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// RangeError reports that no installed version fits a repository's needs.
type RangeError struct {
	Repo      string // repository folder name
	Range     string // required range
	Requested string // explicitly requested version, if any
}

func (e *RangeError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("%s requires NodeJS version(s) '%s' but got '%s'", e.Repo, e.Range, e.Requested)
	}
	return fmt.Sprintf("%s requires NodeJS version(s) '%s' but no satisfying versions installed!", e.Repo, e.Range)
}

// Request is what the caller asks for.
type Request struct {
	Path    string // repository path, only its base name is used in errors
	Version string // optional version or prefix: "12", "12.13", "12.13.1"
	Oldest  bool   // prefer the oldest acceptable version
}

// Requirement is what the repository accepts.
type Requirement struct {
	// Engines is the repository's declared range.
	Engines string
	// NoPackage means the repository has no manifest. The requested
	// version then doubles as the acceptable range.
	NoPackage bool
}

// Select picks the version to run req with.
//
// With an explicit version, the newest (or oldest) satisfying version whose
// label starts with it wins. Without one, the oldest satisfying version is
// used when requested, falling back to the newest. When nothing fits a
// *RangeError is returned.
func (e *Engine) Select(req Request, need Requirement) (*Version, error) {
	rng := need.Engines
	if need.NoPackage {
		rng = req.Version
	}
	if rng == "" {
		rng = e.defaultRange
	}
	repo := filepath.Base(req.Path)

	if req.Version != "" {
		found := MatchPrefix(req.Version, e.SatisfyingVersions(rng), req.Oldest)
		if found == nil {
			return nil, &RangeError{Repo: repo, Range: rng, Requested: req.Version}
		}
		return found, nil
	}

	if req.Oldest {
		if v := e.MinSatisfying(rng); v != nil {
			return v, nil
		}
	}

	if v := e.MaxSatisfying(rng); v != nil {
		return v, nil
	}

	return nil, &RangeError{Repo: repo, Range: rng}
}

// MatchPrefix returns the first version in versions whose label starts with
// prefix on a component boundary, or the last one when oldest is set.
// versions must already be sorted newest first. Returns nil when none match.
//
// "2" matches v2.3.0 but not v20.1.0; "2.2" matches v2.2.1.
func MatchPrefix(prefix string, versions []*Version, oldest bool) *Version {
	prefix = strings.TrimPrefix(prefix, "v")
	rx, err := regexp.Compile(`^v?` + regexp.QuoteMeta(prefix) + `([.+-]|$)`)
	if err != nil {
		return nil
	}

	var matches []*Version
	for _, v := range versions {
		if rx.MatchString(v.Version()) {
			matches = append(matches, v)
		}
	}

	if len(matches) == 0 {
		return nil
	}
	if oldest {
		return matches[len(matches)-1]
	}
	return matches[0]
}
