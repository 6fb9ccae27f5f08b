// Package cmd holds the cobra commands of the nsim CLI.
package cmd

import (
	"fmt"

	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/namespace"
	"github.com/brettbedarf/nsim/version"
	"github.com/spf13/cobra"
)

// rootOptions carries the global flags and the config they resolve to.
type rootOptions struct {
	configPath string
	verbose    int
	cfg        *config.Config // set by PersistentPreRunE
}

// NewRootCmd creates and returns the root cobra command for the nsim CLI.
// Without a subcommand it starts the interactive shell.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "nsim",
		Short: "nsim - an in-memory namespace simulator with an operation journal",
		Long: `nsim keeps a tree of named directories and files in memory and records
every successful operation in an append-only journal.

Use subcommands to choose how commands are fed in:
  - shell: read commands interactively from stdin (the default)
  - exec: run a script of commands
  - mount: also expose the tree as a read-only FUSE filesystem`,
		Version:       version.GetFullVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML or JSON config override file")
	rootCmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", config.WarnVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")

	groupSession := "session"
	groupFilesystem := "filesystem"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupSession,
		Title: "Session Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})

	shellCmd := NewShellCmd(opts)
	execCmd := NewExecCmd(opts)
	mountCmd := NewMountCmd(opts)

	shellCmd.GroupID = groupSession
	execCmd.GroupID = groupSession
	mountCmd.GroupID = groupFilesystem

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(mountCmd)

	return rootCmd
}

// load resolves the config from --config and --verbose and initializes the
// logger. An explicit --verbose wins over the file. A root_name that cannot
// name a node is rejected.
func (o *rootOptions) load(cmd *cobra.Command) error {
	override := &config.ConfigOverride{}
	if o.configPath != "" {
		var err error
		if override, err = config.LoadConfigOverrideFile(o.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("verbose") {
		override.LogLvl = &o.verbose
	}
	o.cfg = config.NewConfig(override)
	if err := namespace.ValidateName(o.cfg.RootName); err != nil {
		return fmt.Errorf("invalid root_name: %w", err)
	}

	util.InitializeLoggerTo(cmd.ErrOrStderr(), o.cfg.LogLvl)
	logger := util.GetLogger("cmd")
	logger.Debug().
		Str("config", o.configPath).
		Int("logLvl", o.cfg.LogLvl).
		Str("root", o.cfg.RootName).
		Msg("Configuration loaded")
	return nil
}
