package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/nsim/namespace"
)

const exitCommand = "exit"

type command struct {
	name   string
	params []string // argument placeholders shown in usage
	run    func(s *Shell, args []string) error
}

func (c command) usage() string {
	if len(c.params) == 0 {
		return c.name
	}
	return c.name + " <" + strings.Join(c.params, "> <") + ">"
}

// commands in the order help lists them. Filled by init since help reads it.
var commands []command

func init() {
	commands = []command{
		{"createFile", []string{"parentPath", "name"}, func(s *Shell, a []string) error {
			return s.engine.CreateFile(a[0], a[1])
		}},
		{"deleteFile", []string{"filePath"}, func(s *Shell, a []string) error {
			return s.engine.DeleteFile(a[0])
		}},
		{"renameFile", []string{"oldPath", "newPath"}, func(s *Shell, a []string) error {
			return s.engine.RenameFile(a[0], a[1])
		}},
		{"copyFile", []string{"srcPath", "destDirPath"}, func(s *Shell, a []string) error {
			return s.engine.CopyFile(a[0], a[1])
		}},
		{"createDirectory", []string{"parentPath", "name"}, func(s *Shell, a []string) error {
			return s.engine.CreateDirectory(a[0], a[1])
		}},
		{"deleteDirectory", []string{"dirPath"}, func(s *Shell, a []string) error {
			return s.engine.DeleteDirectory(a[0])
		}},
		{"renameDirectory", []string{"oldPath", "newPath"}, func(s *Shell, a []string) error {
			return s.engine.RenameDirectory(a[0], a[1])
		}},
		{"listDirectory", []string{"path"}, (*Shell).listDirectory},
		{"printJournal", nil, (*Shell).printJournal},
		{"help", nil, (*Shell).help},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (s *Shell) listDirectory(args []string) error {
	names, err := s.engine.ListDirectory(args[0])
	if errors.Is(err, namespace.ErrNotFound) {
		fmt.Fprintf(s.out, "directory not found: %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(s.out, name)
	}
	return nil
}

// printJournal reads the journal without recording anything.
func (s *Shell) printJournal([]string) error {
	for _, entry := range s.engine.JournalEntries() {
		fmt.Fprintln(s.out, entry)
	}
	return nil
}

func (s *Shell) help([]string) error {
	for _, c := range commands {
		fmt.Fprintln(s.out, c.usage())
	}
	fmt.Fprintln(s.out, exitCommand)
	return nil
}
