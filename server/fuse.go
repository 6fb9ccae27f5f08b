package server

import (
	"errors"
	"os"
	"time"

	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/namespace"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Permission bits of the read-only view
const (
	dirMode  = fuse.S_IFDIR | 0o555
	fileMode = fuse.S_IFREG | 0o444
)

// Tree is the read side of the namespace engine the view projects.
// Inode numbers are the engine's; the root is [namespace.RootIno].
type Tree interface {
	Stat(ino uint64) (namespace.NodeInfo, error)
	ReadDir(ino uint64) ([]namespace.NodeInfo, error)
	LookupChild(ino uint64, name string) (namespace.NodeInfo, error)
}

// FuseRaw implements the low-level FUSE wire protocol as a read-only view of a
// [Tree]. Every request reads the live tree, so mutations made through the
// engine show up on the next lookup or readdir.
// See https://www.man7.org/linux//man-pages/man4/fuse.4.html
type FuseRaw struct {
	fuse.RawFileSystem
	tree         Tree
	attrTimeout  time.Duration
	entryTimeout time.Duration
	mounted      time.Time // reported as every node's a/m/ctime
	owner        fuse.Owner
}

// NewFuseRaw creates the protocol adapter for tree.
func NewFuseRaw(cfg *config.Config, tree Tree) *FuseRaw {
	return &FuseRaw{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		tree:          tree,
		attrTimeout:   seconds(cfg.AttrTimeout),
		entryTimeout:  seconds(cfg.EntryTimeout),
		mounted:       time.Now(),
		owner: fuse.Owner{
			Uid: uint32(os.Getuid()),
			Gid: uint32(os.Getgid()),
		},
	}
}

func (r *FuseRaw) Init(s *fuse.Server) {
	logger := util.GetLogger("Fuse.Init")
	logger.Debug().Msg("FUSE initialized")
}

func (r *FuseRaw) OnUnmount() {
	logger := util.GetLogger("Fuse.OnUnmount")
	logger.Info().Msg("FUSE unmounted")
}

func (r *FuseRaw) String() string {
	return "nsim"
}

// Access allows everything; permission bits already make the view read-only.
func (r *FuseRaw) Access(cancel <-chan struct{}, input *fuse.AccessIn) fuse.Status {
	return fuse.OK
}

// Lookup is called by the kernel when the VFS wants to know
// about a file inside a directory.
func (r *FuseRaw) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("Fuse.Lookup")
	logger.Trace().Uint64("parent", header.NodeId).Str("name", name).Msg("Lookup called")

	info, err := r.tree.LookupChild(header.NodeId, name)
	if err != nil {
		return toStatus(err)
	}
	out.NodeId = info.Ino
	r.fillAttr(info, &out.Attr)
	out.SetEntryTimeout(r.entryTimeout)
	out.SetAttrTimeout(r.attrTimeout)
	return fuse.OK
}

// Forget is a no-op; the engine owns node lifetimes.
func (r *FuseRaw) Forget(nodeid, nlookup uint64) {}

func (r *FuseRaw) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	info, err := r.tree.Stat(input.NodeId)
	if err != nil {
		return toStatus(err)
	}
	r.fillAttr(info, &out.Attr)
	out.SetTimeout(r.attrTimeout)
	return fuse.OK
}

func (r *FuseRaw) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	info, err := r.tree.Stat(input.NodeId)
	if err != nil {
		return toStatus(err)
	}
	if !info.IsDir {
		return fuse.ENOTDIR
	}
	return fuse.OK
}

// ReadDir lists ".", "..", then subdirectories and files in stored order,
// resuming at input.Offset.
func (r *FuseRaw) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	logger := util.GetLogger("Fuse.ReadDir")
	logger.Trace().Uint64("ino", input.NodeId).Uint64("offset", input.Offset).Msg("ReadDir called")

	entries, status := r.dirEntries(input.NodeId)
	if !status.Ok() {
		return status
	}
	for i := input.Offset; i < uint64(len(entries)); i++ {
		if !out.AddDirEntry(entries[i]) {
			// Buffer full; the kernel calls again with a new offset
			break
		}
	}
	return fuse.OK
}

// ReadDirPlus is ReadDir with a lookup of each child folded in.
func (r *FuseRaw) ReadDirPlus(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	entries, status := r.dirEntries(input.NodeId)
	if !status.Ok() {
		return status
	}
	for i := input.Offset; i < uint64(len(entries)); i++ {
		e := entries[i]
		entryOut := out.AddDirLookupEntry(e)
		if entryOut == nil {
			break
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		info, err := r.tree.Stat(e.Ino)
		if err != nil {
			// removed since the listing; leave NodeId zero so the kernel skips it
			continue
		}
		entryOut.NodeId = info.Ino
		r.fillAttr(info, &entryOut.Attr)
		entryOut.SetEntryTimeout(r.entryTimeout)
		entryOut.SetAttrTimeout(r.attrTimeout)
	}
	return fuse.OK
}

// Open allows reads only. Files carry no content.
func (r *FuseRaw) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	info, err := r.tree.Stat(input.NodeId)
	if err != nil {
		return toStatus(err)
	}
	if info.IsDir {
		return fuse.EISDIR
	}
	if input.Flags&(uint32(os.O_WRONLY)|uint32(os.O_RDWR)) != 0 {
		return fuse.EROFS
	}
	out.OpenFlags = fuse.FOPEN_DIRECT_IO
	return fuse.OK
}

func (r *FuseRaw) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	return fuse.ReadResultData(nil), fuse.OK
}

// dirEntries builds the full listing of directory ino.
func (r *FuseRaw) dirEntries(ino uint64) ([]fuse.DirEntry, fuse.Status) {
	children, err := r.tree.ReadDir(ino)
	if err != nil {
		return nil, toStatus(err)
	}
	entries := make([]fuse.DirEntry, 0, len(children)+2)
	entries = append(entries,
		fuse.DirEntry{Name: ".", Mode: dirMode, Ino: ino},
		// the kernel resolves ".." itself
		fuse.DirEntry{Name: "..", Mode: dirMode, Ino: ino},
	)
	for _, ch := range children {
		entries = append(entries, fuse.DirEntry{Name: ch.Name, Mode: modeOf(ch), Ino: ch.Ino})
	}
	return entries, fuse.OK
}

func (r *FuseRaw) fillAttr(info namespace.NodeInfo, attr *fuse.Attr) {
	sec, nsec := uint64(r.mounted.Unix()), uint32(r.mounted.Nanosecond())
	*attr = fuse.Attr{
		Ino:       info.Ino,
		Mode:      modeOf(info),
		Nlink:     1,
		Owner:     r.owner,
		Atime:     sec,
		Mtime:     sec,
		Ctime:     sec,
		Atimensec: nsec,
		Mtimensec: nsec,
		Ctimensec: nsec,
		Blksize:   4096,
	}
}

func modeOf(info namespace.NodeInfo) uint32 {
	if info.IsDir {
		return dirMode
	}
	return fileMode
}

func toStatus(err error) fuse.Status {
	if errors.Is(err, namespace.ErrNotFound) {
		return fuse.ENOENT
	}
	return fuse.EIO
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
