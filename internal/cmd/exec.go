package cmd

import (
	"fmt"
	"os"

	"github.com/brettbedarf/nsim"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/namespace"
	"github.com/brettbedarf/nsim/shell"
	"github.com/spf13/cobra"
)

// NewExecCmd creates the exec subcommand, which runs a command script
// against a fresh tree.
func NewExecCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SCRIPT",
		Short: "Run a script of shell commands",
		Long: `Run each line of SCRIPT through the shell, without a prompt.

Output is what the interactive shell would print. The script stops at its
first "exit" line or at the end of the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := nsim.New(opts.cfg)
			return execScript(cmd, engine, args[0])
		},
	}
}

// execScript feeds the file at path to a prompt-less shell over engine.
func execScript(cmd *cobra.Command, engine *namespace.Engine, path string) error {
	logger := util.GetLogger("cmd.exec")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	sh := shell.New(engine, cmd.OutOrStdout(), "")
	if err := sh.Run(cmd.Context(), f); err != nil {
		return err
	}
	logger.Debug().
		Str("script", path).
		Int("entries", engine.JournalLen()).
		Int("nodes", engine.NodeCount()).
		Msg("Script finished")
	return nil
}
