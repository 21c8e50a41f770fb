package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/raphi011/devtools/internal/storage"
)

// EngineConfig holds Node.js version selection settings
type EngineConfig struct {
	DefaultRange string `toml:"default_range" json:"default_range" yaml:"default_range"` // range used when package.json declares none
}

// CleanConfig holds settings for "dt clean"
type CleanConfig struct {
	TempDir      string `toml:"temp_dir" json:"temp_dir" yaml:"temp_dir"`                   // scanned for yarn and builder leftovers
	SonarDir     string `toml:"sonar_dir" json:"sonar_dir" yaml:"sonar_dir"`                // sonarlint work folder
	SonarAgeDays int    `toml:"sonar_age_days" json:"sonar_age_days" yaml:"sonar_age_days"` // sonar folders younger than this are kept
}

// ReflogConfig holds settings for "dt reflog"
type ReflogConfig struct {
	DateFormat string `toml:"date_format" json:"date_format" yaml:"date_format"` // layout for --date, --from-date and --to-date
}

// Config holds the dt configuration
type Config struct {
	DevRoot       string       `toml:"dev_root" json:"dev_root" yaml:"dev_root"`                   // folder holding the repositories
	DefaultFormat string       `toml:"default_format" json:"default_format" yaml:"default_format"` // table, json or yaml
	Engine        EngineConfig `toml:"engine" json:"engine" yaml:"engine"`
	Clean         CleanConfig  `toml:"clean" json:"clean" yaml:"clean"`
	Reflog        ReflogConfig `toml:"reflog" json:"reflog" yaml:"reflog"`
}

// Defaults for optional settings.
const (
	DefaultSonarDir     = "~/.sonarlint/work"
	DefaultSonarAgeDays = 2
	DefaultDateFormat   = "1/2/06"
	DefaultFormat       = "table"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		DefaultFormat: DefaultFormat,
		Clean: CleanConfig{
			SonarDir:     DefaultSonarDir,
			SonarAgeDays: DefaultSonarAgeDays,
		},
		Reflog: ReflogConfig{
			DateFormat: DefaultDateFormat,
		},
	}
}

// ResolveTempDir returns the folder scanned by "dt clean yarn|builder".
func (c *Config) ResolveTempDir() string {
	if c.Clean.TempDir != "" {
		return c.Clean.TempDir
	}
	return os.TempDir()
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location, honoring DT_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("DT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dt", "config.toml"), nil
}

// LoadEnvFile loads KEY=VALUE pairs from file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(file string) error {
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

// Load reads config from Path().
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFile(path)
}

// LoadFile reads config from path, applies environment overrides and
// validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	if err := cfg.expandPaths(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// applyEnvOverrides applies DT_DEV_ROOT (or the legacy DEVROOT) and
// DT_DEFAULT_RANGE on top of file settings.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DEVROOT"); v != "" {
		cfg.DevRoot = v
	}
	if v := os.Getenv("DT_DEV_ROOT"); v != "" {
		cfg.DevRoot = v
	}
	if v := os.Getenv("DT_DEFAULT_RANGE"); v != "" {
		cfg.Engine.DefaultRange = v
	}
	return nil
}

func (c *Config) validate() error {
	for field, path := range map[string]string{
		"dev_root":        c.DevRoot,
		"clean.temp_dir":  c.Clean.TempDir,
		"clean.sonar_dir": c.Clean.SonarDir,
	} {
		if err := ValidatePath(path, field); err != nil {
			return err
		}
	}

	if err := checkFormat(c.DefaultFormat); err != nil {
		return err
	}
	if err := checkRange(c.Engine.DefaultRange); err != nil {
		return err
	}

	if c.Clean.SonarAgeDays < 0 {
		return fmt.Errorf("clean.sonar_age_days must not be negative, got: %d", c.Clean.SonarAgeDays)
	}

	// Use defaults for empty values
	if c.DefaultFormat == "" {
		c.DefaultFormat = DefaultFormat
	}
	if c.Clean.SonarDir == "" {
		c.Clean.SonarDir = DefaultSonarDir
	}
	if c.Reflog.DateFormat == "" {
		c.Reflog.DateFormat = DefaultDateFormat
	}
	return nil
}

// expandPaths expands ~ (shell doesn't expand in config files)
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.DevRoot, &c.Clean.TempDir, &c.Clean.SonarDir} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

const defaultConfig = `# dt configuration

# Folder holding your repositories, one level deep.
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# Overridden by the DT_DEV_ROOT (or DEVROOT) environment variable.
# dev_root = "~/dev"

# Output format when --format is not given: table, json or yaml
default_format = "table"

[engine]
# Node.js range used when a repository's package.json has no engines.node.
# Overridden by DT_DEFAULT_RANGE.
# default_range = "16.15.0"

[clean]
# Folder scanned by "dt clean yarn" and "dt clean builder" (default: system temp dir)
# temp_dir = "/tmp"

# Sonarlint work folder scanned by "dt clean sonar"
sonar_dir = "~/.sonarlint/work"

# Sonar folders younger than this many days are kept
sonar_age_days = 2

[reflog]
# Go time layout for --date, --from-date and --to-date
date_format = "1/2/06"
`

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, initFile(path, force)
}

func initFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	return storage.WriteFile(path, []byte(defaultConfig), 0o644)
}
