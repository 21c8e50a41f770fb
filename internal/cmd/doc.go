// Package cmd provides helpers for executing external commands.
//
// [RunContext] and [OutputContext] capture stderr and return it as the error
// message, which makes git failures readable. [RunAttached] hands the
// terminal to a child process (yarn, node, any CLI) and reports its exit code.
//
// Every execution is announced through the context logger in verbose mode:
//
//	[/path/to/repo] $ git status --porcelain (12ms)
package cmd
