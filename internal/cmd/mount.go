package cmd

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/nsim"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/server"
	"github.com/brettbedarf/nsim/shell"
	"github.com/spf13/cobra"
)

// shutdownSignals unmount the view and end the mount command.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NewMountCmd creates the mount subcommand. It exposes the tree as a
// read-only FUSE filesystem while the shell keeps mutating it.
func NewMountCmd(opts *rootOptions) *cobra.Command {
	var (
		script string
		umount bool
	)

	mountCmd := &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount a read-only view of the tree and run the shell",
		Long: `Mount the tree read-only at MOUNTPOINT and run the interactive shell.

Changes made in the shell are visible under MOUNTPOINT immediately. The view
is unmounted on exit, EOF, SIGINT or SIGTERM.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(cmd, opts, args[0], script, umount)
		},
	}

	mountCmd.Flags().StringVarP(&script, "script", "s", "",
		"Script of shell commands to seed the tree with before mounting")
	mountCmd.Flags().BoolVarP(&umount, "umount", "u", false,
		"Unmount the mountpoint first if needed. Useful for debuggers that don't exit properly.")

	return mountCmd
}

func runMount(cmd *cobra.Command, opts *rootOptions, mnt, script string, umount bool) error {
	logger := util.GetLogger("cmd.mount")
	engine := nsim.New(opts.cfg)

	if script != "" {
		if err := execScript(cmd, engine, script); err != nil {
			return err
		}
		logger.Info().Str("script", script).Int("nodes", engine.NodeCount()).Msg("Seeded tree")
	}

	if umount {
		// ignore the error when nothing is mounted
		exec.Command("fusermount", "-u", mnt).Run() // nolint:errcheck
	}

	srv := server.New(opts.cfg, engine)
	if err := srv.Serve(mnt); err != nil {
		logger.Error().Err(err).Str("mountpoint", mnt).Msg("Failed to mount filesystem")
		return err
	}
	defer func() {
		if err := srv.Unmount(); err != nil {
			logger.Error().Err(err).Msg("Failed to unmount filesystem")
		} else {
			logger.Info().Msg("Filesystem unmounted successfully")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	sh := shell.New(engine, cmd.OutOrStdout(), opts.cfg.Prompt)
	done := make(chan error, 1)
	go func() {
		done <- sh.Run(ctx, cmd.InOrStdin())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// the shell may be blocked on stdin; don't wait for it
		logger.Info().Msg("Received signal, unmounting filesystem")
		return nil
	}
}
