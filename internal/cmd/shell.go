package cmd

import (
	"github.com/brettbedarf/nsim"
	"github.com/brettbedarf/nsim/shell"
	"github.com/spf13/cobra"
)

// NewShellCmd creates the shell subcommand, which reads commands from stdin
// until exit or EOF.
func NewShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive command shell",
		Long: `Read one command per line from stdin and apply it to a fresh tree.

Type "help" for the list of commands and "exit" to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	engine := nsim.New(opts.cfg)
	sh := shell.New(engine, cmd.OutOrStdout(), opts.cfg.Prompt)
	return sh.Run(cmd.Context(), cmd.InOrStdin())
}
