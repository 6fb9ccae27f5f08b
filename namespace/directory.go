package namespace

import (
	"fmt"
	"slices"
)

// Directory is a node owning ordered collections of child files and
// subdirectories. Names may repeat within a collection; lookups by name
// return the first match.
type Directory struct {
	node
	files []*File
	dirs  []*Directory
}

// NewDirectory returns a detached, empty directory.
func NewDirectory(name string, ino uint64) *Directory {
	return &Directory{node: newNode(name, ino)}
}

func (d *Directory) IsDir() bool {
	return true
}

func (d *Directory) Info() NodeInfo {
	return NodeInfo{ID: d.id, Ino: d.ino, Name: d.name, IsDir: true}
}

// AddFile appends f and makes d its parent.
// Fails only if f is already owned by a directory.
func (d *Directory) AddFile(f *File) error {
	if f.parent != nil {
		return fmt.Errorf("add file %q: %w", f.name, ErrAttached)
	}
	d.files = append(d.files, f)
	f.setParent(d)
	return nil
}

// AddDirectory appends sub and makes d its parent.
// Fails if sub is already owned or if sub is d or one of its ancestors.
func (d *Directory) AddDirectory(sub *Directory) error {
	for p := d; p != nil; p = p.parent {
		if p == sub {
			return fmt.Errorf("add directory %q: %w", sub.name, ErrCycle)
		}
	}
	if sub.parent != nil {
		return fmt.Errorf("add directory %q: %w", sub.name, ErrAttached)
	}
	d.dirs = append(d.dirs, sub)
	sub.setParent(d)
	return nil
}

// RemoveFile removes f by identity. No-op if f is not a child of d.
func (d *Directory) RemoveFile(f *File) {
	if i := slices.Index(d.files, f); i >= 0 {
		d.files = slices.Delete(d.files, i, i+1)
		f.setParent(nil)
	}
}

// RemoveDirectory removes sub by identity. No-op if sub is not a child of d.
func (d *Directory) RemoveDirectory(sub *Directory) {
	if i := slices.Index(d.dirs, sub); i >= 0 {
		d.dirs = slices.Delete(d.dirs, i, i+1)
		sub.setParent(nil)
	}
}

// Files returns the child files in insertion order.
func (d *Directory) Files() []*File {
	return slices.Clone(d.files)
}

// Directories returns the subdirectories in insertion order.
func (d *Directory) Directories() []*Directory {
	return slices.Clone(d.dirs)
}

// FindFile returns the first child file named name.
func (d *Directory) FindFile(name string) (*File, bool) {
	for _, f := range d.files {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// FindDirectory returns the first subdirectory named name.
func (d *Directory) FindDirectory(name string) (*Directory, bool) {
	for _, sub := range d.dirs {
		if sub.name == name {
			return sub, true
		}
	}
	return nil, false
}

// Children returns snapshots of the subdirectories followed by the files,
// each in insertion order.
func (d *Directory) Children() []NodeInfo {
	out := make([]NodeInfo, 0, len(d.dirs)+len(d.files))
	for _, sub := range d.dirs {
		out = append(out, sub.Info())
	}
	for _, f := range d.files {
		out = append(out, f.Info())
	}
	return out
}

// Walk calls fn for d and every descendant, pre-order, subdirectories before
// files.
func (d *Directory) Walk(fn func(n Node)) {
	fn(d)
	for _, sub := range d.dirs {
		sub.Walk(fn)
	}
	for _, f := range d.files {
		fn(f)
	}
}
