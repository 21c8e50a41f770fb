package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/devtools/internal/config"
	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/output"
)

// runDT executes dt with cfg and e injected and returns stdout.
func runDT(t *testing.T, cfg config.Config, e *engine.Engine, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	ctx := output.WithPrinter(context.Background(), &buf)
	ctx = config.WithConfig(ctx, &cfg)
	if e != nil {
		ctx = engine.WithEngine(ctx, e)
	}

	root := newRootCmd()
	root.SetArgs(append([]string{"--quiet"}, args...))
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
}

// nvmHome lays out an nvm-windows home with a healthy v16 and a broken v14.
func nvmHome(t *testing.T) *engine.Engine {
	t.Helper()
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "v16.15.0", "node.exe"), "MZ", 0o755)
	writeFile(t, filepath.Join(home, "v14.17.0", "node64.exe"), "MZ", 0o755)
	return engine.New(engine.WithEnv(engine.Env{NVMHome: home}))
}

func TestEngines(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "package.json"), `{"engines": {"node": "^14 || ^16"}}`, 0o644)
	sub := filepath.Join(repo, "src", "lib")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := runDT(t, config.Default(), engine.New(engine.WithVersions()), "engines", "-p", sub)
	if err != nil {
		t.Fatalf("dt engines failed: %v", err)
	}
	if strings.TrimSpace(out) != "^14 || ^16" {
		t.Errorf("dt engines = %q", out)
	}

	bare := t.TempDir()
	writeFile(t, filepath.Join(bare, "package.json"), `{"name": "x"}`, 0o644)
	e := engine.New(engine.WithVersions(), engine.WithDefaultRange(">=18"))
	out, err = runDT(t, config.Default(), e, "engines", "-p", bare)
	if err != nil {
		t.Fatalf("dt engines failed: %v", err)
	}
	if strings.TrimSpace(out) != ">=18" {
		t.Errorf("dt engines without engines.node = %q, want default range", out)
	}
}

func TestScripts(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "package.json"), `{"scripts": {"test": "jest", "build": "tsc -p .", "lint:fix": "eslint --fix"}}`, 0o644)

	out, err := runDT(t, config.Default(), engine.New(engine.WithVersions()), "scripts", "-p", repo)
	if err != nil {
		t.Fatalf("dt scripts failed: %v", err)
	}
	want := "build:    tsc -p .\nlint:fix: eslint --fix\ntest:     jest\n"
	if out != want {
		t.Errorf("dt scripts =\n%q\nwant\n%q", out, want)
	}

	out, err = runDT(t, config.Default(), engine.New(engine.WithVersions()), "scripts", "-p", repo, "--format", "json")
	if err != nil {
		t.Fatalf("dt scripts --format json failed: %v", err)
	}
	var scripts map[string]string
	if err := json.Unmarshal([]byte(out), &scripts); err != nil || scripts["build"] != "tsc -p ." {
		t.Errorf("dt scripts json = %q (%v)", out, err)
	}
}

func TestScripts_NoManifest(t *testing.T) {
	t.Parallel()

	_, err := runDT(t, config.Default(), engine.New(engine.WithVersions()), "scripts", "-p", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "package file not found") {
		t.Errorf("dt scripts without package.json error = %v", err)
	}
}

func TestWhich(t *testing.T) {
	t.Parallel()

	e := nvmHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "package.json"), `{"engines": {"node": ">=14"}}`, 0o644)

	out, err := runDT(t, config.Default(), e, "which", "-p", repo, "--format", "json")
	if err != nil {
		t.Fatalf("dt which failed: %v", err)
	}
	var info engine.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if info.Version != "v16.15.0" {
		t.Errorf("dt which = %s, want the only usable version", info.Version)
	}

	_, err = runDT(t, config.Default(), e, "which", "-p", repo, "-v", "14")
	if err == nil || err.Error() != "The specified version '14' is not installed" {
		t.Errorf("dt which -v 14 error = %v", err)
	}
}

func TestNodeReport(t *testing.T) {
	t.Parallel()

	out, err := runDT(t, config.Default(), nvmHome(t), "node", "report")
	if err != nil {
		t.Fatalf("dt node report failed: %v", err)
	}
	for _, want := range []string{
		" - v16.15.0  - OK",
		" - v14.17.0  - Problem: 'node.exe' not found or executable",
		"1 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestNodeReport_Unconfigured(t *testing.T) {
	t.Parallel()

	e := engine.New(engine.WithEnv(engine.Env{}))
	if _, err := runDT(t, config.Default(), e, "node"); err == nil {
		t.Error("dt node without NVM_HOME or NVM_BIN should fail")
	}
}

func TestNodeFix(t *testing.T) {
	t.Parallel()

	e := nvmHome(t)
	out, err := runDT(t, config.Default(), e, "node", "fix")
	if err != nil {
		t.Fatalf("dt node fix failed: %v", err)
	}
	if !strings.Contains(out, "will copy 'node64.exe' to 'node.exe'") {
		t.Errorf("dt node fix dry run = %q", out)
	}

	if _, err := runDT(t, config.Default(), e, "node", "fix", "--execute"); err != nil {
		t.Fatalf("dt node fix --execute failed: %v", err)
	}

	fixed := engine.New(engine.WithEnv(e.Env()))
	out, err = runDT(t, config.Default(), fixed, "node", "fix")
	if err != nil {
		t.Fatalf("dt node fix failed: %v", err)
	}
	if strings.TrimSpace(out) != "No Errors to fix" {
		t.Errorf("dt node fix after fixing = %q", out)
	}
}

func TestNodeRemove(t *testing.T) {
	t.Parallel()

	e := nvmHome(t)

	out, err := runDT(t, config.Default(), e, "node", "remove", "-v", "14")
	if err != nil {
		t.Fatalf("dt node remove failed: %v", err)
	}
	dir := filepath.Join(e.Env().NVMHome, "v14.17.0")
	if strings.TrimSpace(out) != "Would remove v14.17.0 at "+dir {
		t.Errorf("dt node remove dry run = %q", out)
	}

	_, err = runDT(t, config.Default(), e, "node", "remove", "-v", "^20")
	if err == nil || !strings.Contains(err.Error(), "no matches found") {
		t.Errorf("dt node remove ^20 error = %v", err)
	}

	if _, err := runDT(t, config.Default(), e, "node", "remove", "-v", "14", "--execute", "--yes"); err != nil {
		t.Fatalf("dt node remove --execute failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("version folder still present after remove")
	}
}

func TestSpawn_NodeCommand(t *testing.T) {
	t.Parallel()

	_, err := runDT(t, config.Default(), nvmHome(t), "spawn", "-c", "install", "-p", t.TempDir())
	if err == nil || err.Error() != "node cli does not support commands" {
		t.Errorf("dt spawn -c install error = %v", err)
	}
}

func TestResolveFormat(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.DefaultFormat = "yaml"
	ctx := config.WithConfig(context.Background(), &cfg)

	if f, _ := resolveFormat(ctx, ""); f != output.FormatYAML {
		t.Errorf("resolveFormat() = %q, want config default", f)
	}
	if f, _ := resolveFormat(ctx, "json"); f != output.FormatJSON {
		t.Errorf("resolveFormat(json) = %q", f)
	}
	if _, err := resolveFormat(ctx, "xml"); err == nil {
		t.Error("resolveFormat(xml) should fail")
	}
}

func TestResolveDevRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DevRoot = dir
	ctx := config.WithConfig(context.Background(), &cfg)

	if got, err := resolveDevRoot(ctx, ""); err != nil || got != dir {
		t.Errorf("resolveDevRoot() = %q, %v", got, err)
	}
	if _, err := resolveDevRoot(ctx, filepath.Join(dir, "missing")); err == nil {
		t.Error("resolveDevRoot() with missing folder should fail")
	}
	empty := config.Default()
	if _, err := resolveDevRoot(config.WithConfig(context.Background(), &empty), ""); err == nil {
		t.Error("resolveDevRoot() without any root should fail")
	}
}

func gitInit(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	for _, args := range [][]string{
		{"init", "-b", "main", path},
		{"-C", path, "config", "user.email", "test@test.com"},
		{"-C", path, "config", "user.name", "Test User"},
		{"-C", path, "config", "commit.gpgsign", "false"},
		{"-C", path, "commit", "--allow-empty", "-m", "init"},
	} {
		if out, err := exec.Command("git", args...).CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}
	return path
}

func TestBranches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	gitInit(t, root, "web")
	api := gitInit(t, root, "Api")
	writeFile(t, filepath.Join(api, "new.txt"), "x", 0o644)

	cfg := config.Default()
	cfg.DevRoot = root

	out, err := runDT(t, cfg, engine.New(engine.WithVersions()), "branches")
	if err != nil {
		t.Fatalf("dt branches failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("dt branches =\n%s", out)
	}
	if lines[0] != "Processing 2 repositories in "+root {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Api | main* | ") || !strings.HasPrefix(lines[2], "web | main | ") {
		t.Errorf("report lines = %q", lines[1:])
	}

	out, err = runDT(t, cfg, engine.New(engine.WithVersions()), "branches", "--silent", "-n", "web")
	if err != nil {
		t.Fatalf("dt branches -n web failed: %v", err)
	}
	if !strings.HasPrefix(out, "web | main | ") || strings.Count(out, "\n") != 1 {
		t.Errorf("dt branches --silent -n web = %q", out)
	}
}

func TestBranches_UnknownFolder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	gitInit(t, root, "web-client")
	cfg := config.Default()
	cfg.DevRoot = root

	_, err := runDT(t, cfg, engine.New(engine.WithVersions()), "branches", "-n", "webclient")
	if err == nil || !strings.Contains(err.Error(), "did you mean: web-client?") {
		t.Errorf("dt branches -n webclient error = %v", err)
	}
}

func TestReflog_DateConflict(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.DevRoot = t.TempDir()

	_, err := runDT(t, cfg, engine.New(engine.WithVersions()), "reflog", "-d", "1/1/26", "-f", "1/1/26")
	if err == nil || !strings.Contains(err.Error(), "--date cannot be used with") {
		t.Errorf("dt reflog error = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Engine.DefaultRange = ">=18"

	out, err := runDT(t, cfg, engine.New(engine.WithVersions()), "config", "show")
	if err != nil {
		t.Fatalf("dt config show failed: %v", err)
	}
	if !strings.Contains(out, `default_range = ">=18"`) {
		t.Errorf("dt config show =\n%s", out)
	}
}

func TestExitCodeError(t *testing.T) {
	t.Parallel()

	err := error(&exitCodeError{code: 3})
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) || exitErr.code != 3 {
		t.Errorf("errors.As() = %v", exitErr)
	}
}
