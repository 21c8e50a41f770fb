// Package prompt provides interactive terminal prompts.
//
// Prompts render on stderr and need a terminal on stdin; callers fall back
// to flags such as --yes when stdin is not interactive.
package prompt
