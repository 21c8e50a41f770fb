package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/devtools/internal/engine"
	"github.com/raphi011/devtools/internal/log"
	"github.com/raphi011/devtools/internal/output"
	"github.com/raphi011/devtools/internal/spawn"
)

// launchFlags are shared by yarn and spawn.
type launchFlags struct {
	command string
	path    string
	version string
	oldest  bool
	log     bool
}

func (f *launchFlags) register(cmd *cobra.Command, defaultCommand string) {
	cmd.Flags().StringVarP(&f.command, "command", "c", defaultCommand, "Command for CLIs that have commands, e.g. install")
	cmd.Flags().StringVarP(&f.path, "path", "p", "", "Path to act on (default: current directory)")
	cmd.Flags().StringVarP(&f.version, "version", "v", "", "Installed Node.js version to use (M.m.p, M.m or M)")
	cmd.Flags().BoolVarP(&f.oldest, "oldest", "o", false, "Choose the oldest satisfying Node.js version")
	cmd.Flags().BoolVarP(&f.log, "log", "l", false, "Show what is launched before launching")
	cmd.RegisterFlagCompletionFunc("version", completeVersions)
	cmd.MarkFlagDirname("path")
}

func (f *launchFlags) options(cmd *cobra.Command, name string, args []string) (spawn.Options, error) {
	path, err := resolvePath(cmd.Context(), f.path)
	if err != nil {
		return spawn.Options{}, err
	}
	return spawn.Options{
		Name:    name,
		Command: f.command,
		Path:    path,
		Version: f.version,
		Oldest:  f.oldest,
		Args:    args,
	}, nil
}

// runLaunch selects the Node.js version and runs the tool. A non-zero exit
// of the tool becomes the exit code of dt.
func runLaunch(cmd *cobra.Command, opts spawn.Options, announce bool) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	v, err := spawn.Resolve(engine.FromContext(ctx), opts)
	if err != nil {
		return err
	}
	l.Debug("selected version", "version", v.Version(), "path", v.Path())

	if announce {
		output.FromContext(ctx).Println(spawn.Describe(v, opts))
	}

	code, err := spawn.Launch(ctx, v, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

func newYarnCmd() *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:     "yarn [-- yarn args...]",
		Short:   "Run yarn with the Node.js version the repository requires",
		Aliases: []string{"yn"},
		GroupID: GroupNode,
		Long: `Run yarn with the Node.js version that satisfies engines.node of the
repository's package.json first on PATH.

The newest satisfying version is used unless --oldest or --version is
given. Arguments after -- are passed to yarn.`,
		Example: `  dt yarn                         # yarn install
  dt yarn -c run -- build         # yarn run build
  dt yarn -v 14 -c test           # yarn test with the newest v14
  dt yarn -p ~/dev/api --oldest   # Oldest satisfying version`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, "yarn", args)
			if err != nil {
				return err
			}
			opts.RequireManifest = true
			return runLaunch(cmd, opts, flags.log)
		},
	}

	flags.register(cmd, "install")
	return cmd
}

func newSpawnCmd() *cobra.Command {
	var (
		flags launchFlags
		name  string
	)

	cmd := &cobra.Command{
		Use:     "spawn [-- args...]",
		Short:   "Run a CLI with a chosen Node.js version without switching versions",
		Aliases: []string{"sp"},
		GroupID: GroupNode,
		Long: `Run a CLI with a Node.js version first on PATH, without changing the
globally active version.

Inside a repository the version must satisfy its engines.node range.
Without a package.json, --version alone decides.`,
		Example: `  dt spawn -- --version                 # node --version
  dt spawn -v 16 -- script.js           # node 16 runs script.js
  dt spawn -n npm -c ci                 # npm ci
  dt spawn -n npx -l -- eslint .        # Show the launch, then run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, name, args)
			if err != nil {
				return err
			}
			return runLaunch(cmd, opts, flags.log)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "node", "CLI name to spawn")
	flags.register(cmd, "")
	return cmd
}
