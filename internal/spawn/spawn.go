// Package spawn runs a command line tool with a chosen Node.js version first
// on PATH, without switching the globally active version.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/devtools/internal/cmd"
	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/manifest"
)

// ErrNodeCommand is returned when a command is given for the node binary.
var ErrNodeCommand = errors.New("node cli does not support commands")

// NotInstalledError reports a requested version that matches nothing usable.
type NotInstalledError struct {
	Version string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("The specified version '%s' is not installed", e.Version)
}

// Options describe one launch.
type Options struct {
	Name    string   // tool to run, e.g. node or yarn
	Command string   // optional sub command, e.g. install
	Path    string   // folder to run in, may point at its package.json
	Version string   // optional version or prefix
	Oldest  bool     // prefer the oldest satisfying version
	Args    []string // passed to the tool after Command

	// RequireManifest makes a missing package.json an error instead of
	// treating Version as the acceptable range.
	RequireManifest bool
}

// Dir returns the folder to run in.
func (o Options) Dir() string {
	if filepath.Base(o.Path) == manifest.FileName {
		return filepath.Dir(o.Path)
	}
	return o.Path
}

// Argv returns Command followed by Args.
func (o Options) Argv() []string {
	if o.Command == "" {
		return o.Args
	}
	return append([]string{o.Command}, o.Args...)
}

// Resolve validates opts and selects the Node.js version to launch with.
func Resolve(e *engine.Engine, opts Options) (*engine.Version, error) {
	if strings.EqualFold(opts.Name, "node") && opts.Command != "" {
		return nil, ErrNodeCommand
	}
	if opts.Version != "" && engine.MatchPrefix(opts.Version, e.Usable(), false) == nil {
		return nil, &NotInstalledError{Version: opts.Version}
	}

	var need engine.Requirement
	dir := opts.Dir()
	if !opts.RequireManifest && !manifest.Exists(dir) {
		need.NoPackage = true
	} else {
		rng, err := manifest.Engines(dir, "")
		if err != nil {
			return nil, err
		}
		need.Engines = rng
	}

	return e.Select(engine.Request{Path: dir, Version: opts.Version, Oldest: opts.Oldest}, need)
}

// Environ returns env with dir prepended to PATH.
func Environ(env []string, dir string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		key, val, _ := strings.Cut(kv, "=")
		if pathKey(key) && !found {
			found = true
			if val == "" {
				kv = key + "=" + dir
			} else {
				kv = key + "=" + dir + string(os.PathListSeparator) + val
			}
		}
		out = append(out, kv)
	}
	if !found {
		out = append(out, "PATH="+dir)
	}
	return out
}

// pathKey matches PATH, and Path as spelled on Windows.
func pathKey(key string) bool {
	return strings.EqualFold(key, "PATH")
}

// envPath returns the value of the PATH entry of env.
func envPath(env []string) string {
	for _, kv := range env {
		if key, val, ok := strings.Cut(kv, "="); ok && pathKey(key) {
			return val
		}
	}
	return ""
}

// LookPath searches pathList for an executable named name.
func LookPath(name, pathList string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(filepath.Join(dir, name)) {
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if isExecutable(info) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%s: executable file not found in PATH", name)
}

// Launch runs the tool with v first on PATH, attached to the terminal, and
// returns its exit code.
func Launch(ctx context.Context, v *engine.Version, opts Options) (int, error) {
	env := Environ(os.Environ(), v.Path())

	bin, err := LookPath(opts.Name, envPath(env))
	if err != nil {
		return -1, err
	}

	return cmd.RunAttached(ctx, cmd.Attached{
		Dir:  opts.Dir(),
		Env:  env,
		Name: bin,
		Args: opts.Argv(),
	})
}

// Describe is the message shown by --log before launching.
func Describe(v *engine.Version, opts Options) string {
	name := opts.Name
	if opts.Command != "" {
		name += " " + opts.Command
	}
	return fmt.Sprintf("launching %s with version '%s' in path '%s' %s", name, v.Version(), opts.Dir(), strings.Join(opts.Args, ", "))
}
