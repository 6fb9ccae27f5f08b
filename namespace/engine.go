// Package namespace implements an in-memory tree of named directories and
// files. Every successful operation of the [Engine] appends exactly one entry
// to its journal; failed operations leave both the tree and the journal
// untouched and report why through an error wrapping one of the package's
// sentinel errors.
package namespace

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/journal"
	"github.com/puzpuzpuz/xsync/v4"
)

// Engine resolves slash-delimited paths against a tree rooted at a fixed
// root directory and performs mutations on it, journaling each one.
//
// All operations are serialized: resolution, mutation and the journal append
// happen under one lock so no caller can observe a mutation without its entry.
type Engine struct {
	cfg      *config.Config
	root     *Directory
	journal  *journal.Journal
	lastIno  atomic.Uint64            // Last inode number assigned
	registry *xsync.Map[uint64, Node] // Live nodes by inode number
	mu       sync.Mutex               // Serializes tree operations
}

// NewEngine creates an engine holding only the root directory and an empty
// journal. A nil cfg uses the defaults, and so does an invalid root name.
func NewEngine(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	rootName := cfg.RootName
	if err := ValidateName(rootName); err != nil {
		logger := util.GetLogger("NewEngine")
		logger.Warn().Err(err).Str("default", config.DefaultRootName).Msg("Invalid root name; using default")
		rootName = config.DefaultRootName
	}
	root := NewDirectory(rootName, RootIno)

	e := &Engine{
		cfg:      cfg,
		root:     root,
		journal:  journal.New(),
		registry: xsync.NewMap[uint64, Node](),
	}
	e.lastIno.Store(RootIno)
	e.registry.Store(RootIno, root)
	return e
}

/* Mutating operations */

// CreateFile appends a new file named name to the directory at parentPath.
func (e *Engine) CreateFile(parentPath, name string) error {
	logger := util.GetLogger("Engine.CreateFile")
	if err := ValidateName(name); err != nil {
		logger.Debug().Err(err).Str("parent", parentPath).Msg("Rejected file name")
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dir, ok := e.resolveDir(parentPath)
	if !ok {
		return notFound(logger, parentPath)
	}
	f := NewFile(name, e.lastIno.Add(1))
	if err := dir.AddFile(f); err != nil {
		return err
	}
	e.registry.Store(f.Ino(), f)
	e.record(logger, "Create file "+joinPath(parentPath, name))
	return nil
}

// DeleteFile removes the file at filePath from its parent.
func (e *Engine) DeleteFile(filePath string) error {
	logger := util.GetLogger("Engine.DeleteFile")

	e.mu.Lock()
	defer e.mu.Unlock()

	f, dir, ok := e.resolveFile(filePath)
	if !ok {
		return notFound(logger, filePath)
	}
	dir.RemoveFile(f)
	e.registry.Delete(f.Ino())
	e.record(logger, "Delete file "+filePath)
	return nil
}

// RenameFile sets the name of the file at oldPath to the leaf of newPath.
// The file stays in its directory whatever parent newPath implies.
func (e *Engine) RenameFile(oldPath, newPath string) error {
	logger := util.GetLogger("Engine.RenameFile")

	e.mu.Lock()
	defer e.mu.Unlock()

	f, _, ok := e.resolveFile(oldPath)
	if !ok {
		return notFound(logger, oldPath)
	}
	name := leafName(newPath)
	if err := ValidateName(name); err != nil {
		logger.Debug().Err(err).Str("newPath", newPath).Msg("Rejected file name")
		return err
	}
	f.SetName(name)
	e.record(logger, "Rename file "+oldPath+" to "+newPath)
	return nil
}

// CopyFile appends a new file with the source's name to the directory at
// destDirPath. The copy is a distinct node.
func (e *Engine) CopyFile(srcPath, destDirPath string) error {
	logger := util.GetLogger("Engine.CopyFile")

	e.mu.Lock()
	defer e.mu.Unlock()

	src, _, ok := e.resolveFile(srcPath)
	if !ok {
		return notFound(logger, srcPath)
	}
	dest, ok := e.resolveDir(destDirPath)
	if !ok {
		return notFound(logger, destDirPath)
	}
	f := NewFile(src.Name(), e.lastIno.Add(1))
	if err := dest.AddFile(f); err != nil {
		return err
	}
	e.registry.Store(f.Ino(), f)
	e.record(logger, "Copy file "+srcPath+" to "+destDirPath)
	return nil
}

// CreateDirectory appends a new, empty directory named name to the directory
// at parentPath.
func (e *Engine) CreateDirectory(parentPath, name string) error {
	logger := util.GetLogger("Engine.CreateDirectory")
	if err := ValidateName(name); err != nil {
		logger.Debug().Err(err).Str("parent", parentPath).Msg("Rejected directory name")
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	parent, ok := e.resolveDir(parentPath)
	if !ok {
		return notFound(logger, parentPath)
	}
	d := NewDirectory(name, e.lastIno.Add(1))
	if err := parent.AddDirectory(d); err != nil {
		return err
	}
	e.registry.Store(d.Ino(), d)
	e.record(logger, "Create directory "+joinPath(parentPath, name))
	return nil
}

// DeleteDirectory removes the directory at dirPath, discarding its subtree.
// Only the top-level delete is journaled.
func (e *Engine) DeleteDirectory(dirPath string) error {
	logger := util.GetLogger("Engine.DeleteDirectory")

	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.resolveDir(dirPath)
	if !ok {
		return notFound(logger, dirPath)
	}
	if d == e.root {
		logger.Debug().Str("path", dirPath).Msg("Refused to delete root")
		return fmt.Errorf("delete %q: %w", dirPath, ErrRootImmutable)
	}

	removed := 0
	d.Walk(func(n Node) {
		e.registry.Delete(n.Ino())
		removed++
	})
	d.Parent().RemoveDirectory(d)
	logger.Debug().Str("path", dirPath).Int("nodes", removed).Msg("Discarded subtree")
	e.record(logger, "Delete directory "+dirPath)
	return nil
}

// RenameDirectory sets the name of the directory at oldPath to the leaf of
// newPath. Like [Engine.RenameFile] it never moves the directory.
func (e *Engine) RenameDirectory(oldPath, newPath string) error {
	logger := util.GetLogger("Engine.RenameDirectory")

	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.resolveDir(oldPath)
	if !ok {
		return notFound(logger, oldPath)
	}
	if d == e.root {
		logger.Debug().Str("path", oldPath).Msg("Refused to rename root")
		return fmt.Errorf("rename %q: %w", oldPath, ErrRootImmutable)
	}
	name := leafName(newPath)
	if err := ValidateName(name); err != nil {
		logger.Debug().Err(err).Str("newPath", newPath).Msg("Rejected directory name")
		return err
	}
	d.SetName(name)
	e.record(logger, "Rename directory "+oldPath+" to "+newPath)
	return nil
}

// ListDirectory returns the subdirectory names, each suffixed with "/", followed
// by the file names, both in insertion order. A successful listing is
// journaled like a mutation; a failed one is not.
func (e *Engine) ListDirectory(path string) ([]string, error) {
	logger := util.GetLogger("Engine.ListDirectory")

	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.resolveDir(path)
	if !ok {
		return nil, notFound(logger, path)
	}
	names := make([]string, 0, len(d.dirs)+len(d.files))
	for _, sub := range d.dirs {
		names = append(names, sub.Name()+Separator)
	}
	for _, f := range d.files {
		names = append(names, f.Name())
	}
	e.record(logger, "List directory "+path)
	return names, nil
}

/* Read accessors; none of these journal */

// Root returns a snapshot of the root directory.
func (e *Engine) Root() NodeInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root.Info()
}

// Stat returns a snapshot of the live node with inode number ino.
func (e *Engine) Stat(ino uint64) (NodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.registry.Load(ino)
	if !ok {
		return NodeInfo{}, fmt.Errorf("%w: inode %d", ErrNotFound, ino)
	}
	return n.Info(), nil
}

// ReadDir returns the children of directory ino, subdirectories first.
func (e *Engine) ReadDir(ino uint64) ([]NodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.dirByIno(ino)
	if err != nil {
		return nil, err
	}
	return d.Children(), nil
}

// LookupChild returns the first subdirectory named name in directory ino, or
// failing that its first file named name.
func (e *Engine) LookupChild(ino uint64, name string) (NodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.dirByIno(ino)
	if err != nil {
		return NodeInfo{}, err
	}
	if sub, ok := d.FindDirectory(name); ok {
		return sub.Info(), nil
	}
	if f, ok := d.FindFile(name); ok {
		return f.Info(), nil
	}
	return NodeInfo{}, fmt.Errorf("%w: %q in inode %d", ErrNotFound, name, ino)
}

// NodeCount returns the number of nodes reachable from root, root included.
func (e *Engine) NodeCount() int {
	return e.registry.Size()
}

// JournalLen returns the number of journal entries recorded so far.
func (e *Engine) JournalLen() int {
	return e.journal.Len()
}

// JournalRecords returns a copy of the journal entries with their sequence
// numbers and times.
func (e *Engine) JournalRecords() []journal.Entry {
	return e.journal.Records()
}

// JournalEntries returns the journal texts recorded so far, in order.
func (e *Engine) JournalEntries() []string {
	return e.journal.Entries()
}

/* Resolution; callers hold e.mu */

// resolveDir walks from root through subdirectories named by the non-empty
// segments of path, first match per segment.
func (e *Engine) resolveDir(path string) (*Directory, bool) {
	cur := e.root
	for _, seg := range splitPath(path) {
		next, ok := cur.FindDirectory(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// resolveFile splits path at its last separator and finds the first file
// named by the leaf in the directory named by the rest.
func (e *Engine) resolveFile(path string) (*File, *Directory, bool) {
	parentPath, leaf, ok := splitLeaf(path)
	if !ok {
		return nil, nil, false
	}
	dir, ok := e.resolveDir(parentPath)
	if !ok {
		return nil, nil, false
	}
	f, ok := dir.FindFile(leaf)
	if !ok {
		return nil, nil, false
	}
	return f, dir, true
}

func (e *Engine) dirByIno(ino uint64) (*Directory, error) {
	n, ok := e.registry.Load(ino)
	if !ok {
		return nil, fmt.Errorf("%w: inode %d", ErrNotFound, ino)
	}
	d, ok := n.(*Directory)
	if !ok {
		return nil, fmt.Errorf("%w: inode %d is not a directory", ErrNotFound, ino)
	}
	return d, nil
}

// record appends text to the journal. Callers hold e.mu and have already
// mutated the tree.
func (e *Engine) record(logger util.Logger, text string) {
	entry := e.journal.Record(text)
	logger.Debug().Uint64("seq", entry.Seq).Str("entry", text).Msg("Operation completed")
}

func notFound(logger util.Logger, path string) error {
	logger.Debug().Str("path", path).Msg("Path not found")
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}
