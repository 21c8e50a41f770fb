package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/config"
	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupRepos  = "repos"
	GroupNode   = "node"
	GroupClean  = "clean"
	GroupConfig = "config"
)

// exitCodeError carries the exit code of a child process. Its message has
// already been shown by the child, so Execute only exits with it.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:   "dt",
		Short: "Developer tools for multi-repo Node.js workspaces",
		Long: `dt helps with day to day work across many Node.js repositories.

It reports branches and reflogs over every repository in your dev root,
runs yarn and other CLIs with the Node.js version a repository asks for,
keeps nvm installations healthy and cleans up temporary folders.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}

			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			cmd.SetContext(setupContext(cmd.Context(), verbose, quiet))
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show external commands and debug details")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupRepos, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupNode, Title: "Node.js Commands:"},
		&cobra.Group{ID: GroupClean, Title: "Cleanup Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Repository commands
	cmd.AddCommand(newBranchesCmd())
	cmd.AddCommand(newReflogCmd())

	// Node.js commands
	cmd.AddCommand(newYarnCmd())
	cmd.AddCommand(newSpawnCmd())
	cmd.AddCommand(newWhichCmd())
	cmd.AddCommand(newEnginesCmd())
	cmd.AddCommand(newScriptsCmd())
	cmd.AddCommand(newNodeCmd())

	// Cleanup commands
	cmd.AddCommand(newCleanCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// setupContext attaches logger, config, working directory and the Node.js
// version index. Values already present are kept so tests can inject them.
func setupContext(ctx context.Context, verbose, quiet bool) context.Context {
	l := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, l)

	if config.FromContext(ctx) == nil {
		if err := config.LoadEnvFile(".env"); err != nil {
			l.Warnf("%v", err)
		}

		cfg, err := config.Load()
		if err != nil {
			l.Warnf("%v (using defaults)", err)
			cfg = config.Default()
		}
		ctx = config.WithConfig(ctx, &cfg)
	}

	if wd, err := os.Getwd(); err == nil {
		ctx = config.WithWorkDir(ctx, wd)
	}

	if engine.FromContext(ctx) == nil {
		cfg := config.FromContext(ctx)
		ctx = engine.WithEngine(ctx, engine.New(
			engine.WithEnv(engine.EnvFromOS()),
			engine.WithDefaultRange(cfg.Engine.DefaultRange),
			engine.WithLogger(l),
		))
	}

	return ctx
}

// Execute runs the root command and exits with its status.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	root := newRootCmd()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			cancel()
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
