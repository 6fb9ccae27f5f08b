// Package shell implements the line-oriented command interface that drives a
// namespace engine: one command per line, whitespace-separated tokens, the
// first token naming the command and the rest mapped 1:1 onto its arguments.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/namespace"
)

// Engine is the namespace API the shell drives.
type Engine interface {
	CreateFile(parentPath, name string) error
	DeleteFile(filePath string) error
	RenameFile(oldPath, newPath string) error
	CopyFile(srcPath, destDirPath string) error
	CreateDirectory(parentPath, name string) error
	DeleteDirectory(dirPath string) error
	RenameDirectory(oldPath, newPath string) error
	ListDirectory(path string) ([]string, error)
	JournalEntries() []string
}

// Shell reads command lines and dispatches them to an [Engine], writing all
// user-facing text to out.
type Shell struct {
	engine Engine
	out    io.Writer
	prompt string // written before each read; empty disables it
}

// New returns a Shell. Pass an empty prompt for scripted input.
func New(engine Engine, out io.Writer, prompt string) *Shell {
	return &Shell{engine: engine, out: out, prompt: prompt}
}

// Run executes lines from in until "exit", EOF, or ctx is done.
// Cancellation is noticed between lines.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	logger := util.GetLogger("Shell.Run")
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			logger.Debug().Msg("Input closed")
			return nil
		}
		if s.Execute(scanner.Text()) {
			logger.Debug().Msg("Exit requested")
			return nil
		}
	}
}

// Execute runs a single command line and reports whether it was "exit".
func (s *Shell) Execute(line string) (exit bool) {
	logger := util.GetLogger("Shell.Execute")

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	name, args := tokens[0], tokens[1:]
	if name == exitCommand {
		return true
	}

	cmd, ok := lookup(name)
	if !ok {
		fmt.Fprintf(s.out, "unknown command: %s\n", name)
		return false
	}
	if len(args) != len(cmd.params) {
		fmt.Fprintf(s.out, "usage: %s\n", cmd.usage())
		return false
	}

	err := cmd.run(s, args)
	switch {
	case err == nil:
	case errors.Is(err, namespace.ErrNotFound):
		// mutations stay silent when their target does not resolve
		logger.Debug().Err(err).Str("command", name).Msg("Command did nothing")
	default:
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return false
}
