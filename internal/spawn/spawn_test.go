package spawn

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/manifest"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

// testEngine installs v16.15.0, v14.17.0 and v14.0.0 in an nvm layout.
func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	home := t.TempDir()
	for _, v := range []string{"v16.15.0", "v14.17.0", "v14.0.0"} {
		writeScript(t, filepath.Join(home, v, "bin", "node"), "exit 0")
	}
	return engine.New(engine.WithEnv(engine.Env{NVMBin: filepath.Join(home, "v16.15.0", "bin")}))
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	repo := t.TempDir()
	writeManifest(t, repo, `{"engines": {"node": "^14"}}`)
	bare := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr string
	}{
		{name: "manifest range newest", opts: Options{Name: "node", Path: repo}, want: "v14.17.0"},
		{name: "manifest range oldest", opts: Options{Name: "node", Path: repo, Oldest: true}, want: "v14.0.0"},
		{name: "path to package.json", opts: Options{Name: "yarn", Command: "install", Path: filepath.Join(repo, manifest.FileName)}, want: "v14.17.0"},
		{name: "explicit version", opts: Options{Name: "node", Path: repo, Version: "14.0"}, want: "v14.0.0"},
		{name: "no manifest uses version as range", opts: Options{Name: "node", Path: bare, Version: "16"}, want: "v16.15.0"},
		{name: "no manifest falls back to default", opts: Options{Name: "node", Path: bare}, want: "v16.15.0"},
		{name: "node with command", opts: Options{Name: "Node", Command: "install", Path: repo}, wantErr: ErrNodeCommand.Error()},
		{name: "version not installed", opts: Options{Name: "node", Path: repo, Version: "18"}, wantErr: "The specified version '18' is not installed"},
		{name: "installed but outside range", opts: Options{Name: "node", Path: repo, Version: "16"}, wantErr: "requires NodeJS version(s) '^14' but got '16'"},
		{name: "manifest required", opts: Options{Name: "yarn", Path: bare, RequireManifest: true}, wantErr: "package file not found in " + bare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := Resolve(e, tt.opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if v.Version() != tt.want {
				t.Errorf("Resolve() = %s, want %s", v, tt.want)
			}
		})
	}
}

func TestResolve_ErrorTypes(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	_, err := Resolve(e, Options{Name: "node", Path: t.TempDir(), Version: "9"})
	var notInstalled *NotInstalledError
	if !errors.As(err, &notInstalled) {
		t.Errorf("Resolve() error = %T, want *NotInstalledError", err)
	}

	_, err = Resolve(e, Options{Name: "yarn", Path: t.TempDir(), RequireManifest: true})
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want manifest.ErrNotFound", err)
	}
}

func TestEnviron(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)

	tests := []struct {
		name string
		env  []string
		want string
	}{
		{"prepends", []string{"HOME=/h", "PATH=/usr/bin"}, "PATH=/nvm/bin" + sep + "/usr/bin"},
		{"empty path", []string{"PATH="}, "PATH=/nvm/bin"},
		{"missing path", []string{"HOME=/h"}, "PATH=/nvm/bin"},
		{"windows spelling", []string{"Path=C:\\bin"}, "Path=/nvm/bin" + sep + "C:\\bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Environ(tt.env, "/nvm/bin")
			if envPath(got) == "" || !containsString(got, tt.want) {
				t.Errorf("Environ() = %v, want entry %q", got, tt.want)
			}
			if len(tt.env) > 0 && tt.env[0] == "HOME=/h" && got[0] != "HOME=/h" {
				t.Errorf("Environ() should keep other variables: %v", got)
			}
		})
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := Options{Name: "yarn", Command: "run", Path: "/dev/app/package.json", Args: []string{"build", "--prod"}}
	if o.Dir() != "/dev/app" {
		t.Errorf("Dir() = %q", o.Dir())
	}
	if strings.Join(o.Argv(), " ") != "run build --prod" {
		t.Errorf("Argv() = %v", o.Argv())
	}
	if len((Options{Args: nil}).Argv()) != 0 {
		t.Error("Argv() without command or args should be empty")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	v := e.MaxSatisfying("16")
	got := Describe(v, Options{Name: "yarn", Command: "run", Path: "/dev/app", Args: []string{"a", "b"}})
	want := "launching yarn run with version 'v16.15.0' in path '/dev/app' a, b"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestLookPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell scripts")
	}
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	writeScript(t, filepath.Join(second, "tool"), "exit 0")
	if err := os.WriteFile(filepath.Join(first, "tool"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LookPath("tool", first+string(os.PathListSeparator)+second)
	if err != nil {
		t.Fatalf("LookPath() error: %v", err)
	}
	if got != filepath.Join(second, "tool") {
		t.Errorf("LookPath() = %q, want the executable in the second dir", got)
	}

	if _, err := LookPath("missing", first); err == nil {
		t.Error("LookPath() should fail for unknown tools")
	}
}

func TestLaunch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell scripts")
	}
	t.Parallel()

	home := t.TempDir()
	bin := filepath.Join(home, "v16.15.0", "bin")
	writeScript(t, filepath.Join(bin, "node"), "exit 0")
	// the tool only exists next to the selected node, so PATH must have been extended
	writeScript(t, filepath.Join(bin, "fake-yarn"), `[ "$1" = "install" ] && [ "$2" = "--frozen" ] && exit 7; exit 1`)

	e := engine.New(engine.WithEnv(engine.Env{NVMBin: bin}))
	v := e.MaxSatisfying("*")
	if v == nil {
		t.Fatal("no usable version")
	}

	code, err := Launch(context.Background(), v, Options{
		Name:    "fake-yarn",
		Command: "install",
		Path:    t.TempDir(),
		Args:    []string{"--frozen"},
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if code != 7 {
		t.Errorf("Launch() exit code = %d, want 7", code)
	}
}
