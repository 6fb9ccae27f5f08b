package namespace

import (
	"fmt"

	"github.com/google/uuid"
)

// RootIno is the inode number of the root directory.
const RootIno uint64 = 1

// Node is the shared abstraction of [File] and [Directory]. Identity is the
// node itself (and its ID), never its name.
type Node interface {
	ID() uuid.UUID
	Ino() uint64
	Name() string
	SetName(name string)
	Parent() *Directory
	IsDir() bool
	Path() (string, error)
	Info() NodeInfo

	setParent(d *Directory)
}

// NodeInfo is a read-only snapshot of a node handed to callers outside the engine.
type NodeInfo struct {
	ID    uuid.UUID
	Ino   uint64
	Name  string
	IsDir bool
}

// node holds the fields common to files and directories
type node struct {
	id     uuid.UUID
	ino    uint64
	name   string
	parent *Directory // nil for root and detached nodes
}

func newNode(name string, ino uint64) node {
	return node{id: uuid.New(), ino: ino, name: name}
}

func (n *node) ID() uuid.UUID {
	return n.id
}

func (n *node) Ino() uint64 {
	return n.ino
}

func (n *node) Name() string {
	return n.name
}

// SetName changes only the local name; the parent holds the node by identity.
func (n *node) SetName(name string) {
	n.name = name
}

func (n *node) Parent() *Directory {
	return n.parent
}

func (n *node) setParent(d *Directory) {
	n.parent = d
}

func (n *node) isRoot() bool {
	return n.parent == nil && n.ino == RootIno
}

// Path returns the absolute path of the node; "/" for the root.
//
// Returns an error if the node or an ancestor is detached, along with the
// path up to the first detached node.
func (n *node) Path() (string, error) {
	if n.isRoot() {
		return "/", nil
	}
	if n.parent == nil {
		return n.name, fmt.Errorf("detached node: %s", n.name)
	}
	pPath, err := n.parent.Path()
	return joinPath(pPath, n.name), err
}

// File is a metadata-only node.
type File struct {
	node
}

// NewFile returns a detached file.
func NewFile(name string, ino uint64) *File {
	return &File{node: newNode(name, ino)}
}

func (f *File) IsDir() bool {
	return false
}

func (f *File) Info() NodeInfo {
	return NodeInfo{ID: f.id, Ino: f.ino, Name: f.name}
}
