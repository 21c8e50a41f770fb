// Package config handles loading and validation of dt configuration.
//
// Configuration is read from ~/.config/dt/config.toml (or $DT_CONFIG)
// with environment variable overrides. A .env file in the working
// directory is loaded first and never overrides variables already set.
//
// # Configuration Sources (highest priority first)
//
//   - DT_DEV_ROOT env var, then the legacy DEVROOT: repository folder
//   - DT_DEFAULT_RANGE env var: fallback Node.js range
//   - Config file settings
//   - Default values
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
