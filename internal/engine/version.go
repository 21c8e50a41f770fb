package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/devtools/internal/log"
)

// Env holds the version manager variables that drive discovery.
type Env struct {
	// NVMHome is the nvm-windows layout: one folder per version holding node.exe.
	NVMHome string
	// NVMBin is the nvm layout: the bin folder of the active version,
	// i.e. <versions home>/<version>/bin.
	NVMBin string
}

// EnvFromOS reads NVM_HOME and NVM_BIN from the process environment.
func EnvFromOS() Env {
	return Env{
		NVMHome: os.Getenv("NVM_HOME"),
		NVMBin:  os.Getenv("NVM_BIN"),
	}
}

// Windows reports whether the nvm-windows layout is in use.
func (e Env) Windows() bool {
	return e.NVMHome != ""
}

// Configured reports whether any version manager variable is set.
func (e Env) Configured() bool {
	return e.NVMHome != "" || e.NVMBin != ""
}

// ExecutableName returns the node binary name expected in a version folder.
func (e Env) ExecutableName() string {
	if e.Windows() {
		return "node.exe"
	}
	return "node"
}

// Version describes one installed Node.js version. It is immutable once
// built; a Version with a non-nil Err is not usable.
type Version struct {
	version string
	path    string
	bin     string
	link    bool
	err     error
}

// NewVersion inspects path for the node executable and records the outcome.
// It never fails: problems are kept in Err.
//
// Link detection is best effort. IsLink is false whenever the executable
// could not be inspected.
func NewVersion(version, path string, env Env, l *log.Logger) *Version {
	v := &Version{version: version, path: path}

	name := env.ExecutableName()
	bin := filepath.Join(path, name)

	if err := checkExecutable(bin, env.Windows()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			v.err = fmt.Errorf("unable to find executable %s for version %s in %s", name, version, path)
		} else {
			v.err = errors.New(strings.TrimSpace(err.Error()))
		}
	} else {
		v.bin = bin
		if info, err := os.Lstat(bin); err == nil {
			v.link = info.Mode()&os.ModeSymlink != 0
		}
	}

	if l != nil {
		status := "is OK"
		if v.err != nil {
			status = "is rejected"
		}
		l.Debug(fmt.Sprintf("engine/version: <%s> %s", version, status))
	}

	return v
}

// checkExecutable verifies bin exists and, outside Windows, carries an execute bit.
func checkExecutable(bin string, windows bool) error {
	info, err := os.Stat(bin)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", bin)
	}
	if !windows && info.Mode().Perm()&0o111 == 0 {
		return &fs.PathError{Op: "access", Path: bin, Err: fs.ErrPermission}
	}
	return nil
}

// Version returns the version label, normally "v<major>.<minor>.<patch>".
func (v *Version) Version() string { return v.version }

// Path returns the folder holding the executable.
func (v *Version) Path() string { return v.path }

// Bin returns the executable path, empty when the version is not usable.
func (v *Version) Bin() string { return v.bin }

// IsLink reports whether Bin is a symbolic link.
func (v *Version) IsLink() bool { return v.link }

// Err returns why the version is unusable, or nil.
func (v *Version) Err() error { return v.err }

// Usable reports whether the version has a working executable.
func (v *Version) Usable() bool { return v.err == nil }

// Info is the serializable form of a Version.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
	Bin     string `json:"bin,omitempty" yaml:"bin,omitempty"`
	IsLink  bool   `json:"is_link,omitempty" yaml:"is_link,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Info returns a serializable snapshot of v.
func (v *Version) Info() Info {
	info := Info{
		Version: v.version,
		Path:    v.path,
		Bin:     v.bin,
		IsLink:  v.link,
	}
	if v.err != nil {
		info.Error = v.err.Error()
	}
	return info
}

// String returns the version label.
func (v *Version) String() string { return v.version }
