// Package manifest reads the parts of a package.json that dt cares about.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileName is the manifest file looked up in repositories.
const FileName = "package.json"

// ErrNotFound is matched by errors returned when a repository has no manifest.
var ErrNotFound = errors.New("package file not found")

// NotFoundError reports a missing manifest below Path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package file not found in %s", e.Path)
}

// Is makes errors.Is(err, ErrNotFound) work.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Package is the decoded subset of a package.json.
type Package struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Engines map[string]string `json:"engines"`
	Scripts map[string]string `json:"scripts"`
}

// File returns the manifest path for repoPath. A path already pointing at
// a package.json is returned unchanged.
func File(repoPath string) string {
	if filepath.Base(repoPath) == FileName {
		return repoPath
	}
	return filepath.Join(repoPath, FileName)
}

// Exists reports whether repoPath holds a manifest file.
func Exists(repoPath string) bool {
	info, err := os.Stat(File(repoPath))
	return err == nil && info.Mode().IsRegular()
}

// Load reads and decodes the manifest of repoPath.
func Load(repoPath string) (*Package, error) {
	file := File(repoPath)

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: filepath.Dir(file)}
		}
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return &pkg, nil
}

// Engines returns the engines.node range declared by repoPath, or fallback
// when the manifest declares none.
func Engines(repoPath, fallback string) (string, error) {
	pkg, err := Load(repoPath)
	if err != nil {
		return "", err
	}
	return pkg.NodeRange(fallback), nil
}

// NodeRange returns engines.node, or fallback when it is missing or empty.
func (p *Package) NodeRange(fallback string) string {
	if r := p.Engines["node"]; r != "" {
		return r
	}
	return fallback
}

// ScriptNames returns the script keys sorted alphabetically.
func (p *Package) ScriptNames() []string {
	names := make([]string, 0, len(p.Scripts))
	for name := range p.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindFirst searches start and its parents for fileName and returns the
// absolute path of the first match. Returns "" when the root is reached
// without a match or start is not a directory.
func FindFirst(fileName, start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}

	for {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
