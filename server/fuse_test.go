package server

import (
	"errors"
	"testing"

	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/mocks"
	"github.com/brettbedarf/nsim/namespace"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRaw builds a FuseRaw over a real engine holding /docs/a.txt.
func newTestRaw(t *testing.T) (*FuseRaw, *namespace.Engine) {
	t.Helper()
	e := namespace.NewEngine(nil)
	require.NoError(t, e.CreateDirectory("/", "docs"))
	require.NoError(t, e.CreateFile("/docs", "a.txt"))
	return NewFuseRaw(config.NewDefaultConfig(), e), e
}

func lookup(t *testing.T, r *FuseRaw, parent uint64, name string) (*fuse.EntryOut, fuse.Status) {
	t.Helper()
	out := &fuse.EntryOut{}
	status := r.Lookup(nil, &fuse.InHeader{NodeId: parent}, name, out)
	return out, status
}

func TestFuseRaw_Lookup(t *testing.T) {
	t.Parallel()

	r, _ := newTestRaw(t)

	docs, status := lookup(t, r, namespace.RootIno, "docs")
	require.Equal(t, fuse.OK, status)
	assert.NotZero(t, docs.NodeId)
	assert.Equal(t, uint32(dirMode), docs.Attr.Mode)

	file, status := lookup(t, r, docs.NodeId, "a.txt")
	require.Equal(t, fuse.OK, status)
	assert.Equal(t, uint32(fileMode), file.Attr.Mode)
	assert.Equal(t, file.NodeId, file.Attr.Ino)

	_, status = lookup(t, r, namespace.RootIno, "missing")
	assert.Equal(t, fuse.ENOENT, status)
}

func TestFuseRaw_GetAttr(t *testing.T) {
	t.Parallel()

	r, _ := newTestRaw(t)

	out := &fuse.AttrOut{}
	status := r.GetAttr(nil, &fuse.GetAttrIn{InHeader: fuse.InHeader{NodeId: namespace.RootIno}}, out)

	require.Equal(t, fuse.OK, status)
	assert.Equal(t, namespace.RootIno, out.Attr.Ino)
	assert.Equal(t, uint32(dirMode), out.Attr.Mode)
	assert.Equal(t, uint32(1), out.Attr.Nlink)

	status = r.GetAttr(nil, &fuse.GetAttrIn{InHeader: fuse.InHeader{NodeId: 4242}}, out)
	assert.Equal(t, fuse.ENOENT, status)
}

func TestFuseRaw_DirEntries(t *testing.T) {
	t.Parallel()

	r, e := newTestRaw(t)
	require.NoError(t, e.CreateFile("/", "z.txt"))

	entries, status := r.dirEntries(namespace.RootIno)

	require.Equal(t, fuse.OK, status)
	names := make([]string, len(entries))
	for i, ent := range entries {
		names[i] = ent.Name
	}
	assert.Equal(t, []string{".", "..", "docs", "z.txt"}, names)
	assert.Equal(t, uint32(dirMode), entries[2].Mode)
	assert.Equal(t, uint32(fileMode), entries[3].Mode)
}

// TestFuseRaw_SeesLiveTree checks that the view follows engine mutations.
func TestFuseRaw_SeesLiveTree(t *testing.T) {
	t.Parallel()

	r, e := newTestRaw(t)
	docs, status := lookup(t, r, namespace.RootIno, "docs")
	require.Equal(t, fuse.OK, status)

	require.NoError(t, e.RenameDirectory("/docs", "/papers"))
	_, status = lookup(t, r, namespace.RootIno, "docs")
	assert.Equal(t, fuse.ENOENT, status)
	renamed, status := lookup(t, r, namespace.RootIno, "papers")
	require.Equal(t, fuse.OK, status)
	assert.Equal(t, docs.NodeId, renamed.NodeId, "rename keeps the inode")

	require.NoError(t, e.DeleteDirectory("/papers"))
	_, status = r.dirEntries(docs.NodeId)
	assert.Equal(t, fuse.ENOENT, status, "stale directory inodes must vanish")
}

func TestFuseRaw_OpenDir(t *testing.T) {
	t.Parallel()

	r, _ := newTestRaw(t)
	file, status := lookup(t, r, namespace.RootIno, "docs")
	require.Equal(t, fuse.OK, status)
	file, status = lookup(t, r, file.NodeId, "a.txt")
	require.Equal(t, fuse.OK, status)

	in := &fuse.OpenIn{InHeader: fuse.InHeader{NodeId: namespace.RootIno}}
	assert.Equal(t, fuse.OK, r.OpenDir(nil, in, &fuse.OpenOut{}))

	in = &fuse.OpenIn{InHeader: fuse.InHeader{NodeId: file.NodeId}}
	assert.Equal(t, fuse.ENOTDIR, r.OpenDir(nil, in, &fuse.OpenOut{}))
}

func TestFuseRaw_Open(t *testing.T) {
	t.Parallel()

	r, _ := newTestRaw(t)
	docs, _ := lookup(t, r, namespace.RootIno, "docs")
	file, status := lookup(t, r, docs.NodeId, "a.txt")
	require.Equal(t, fuse.OK, status)

	t.Run("ReadOnly", func(t *testing.T) {
		t.Parallel()
		out := &fuse.OpenOut{}
		status := r.Open(nil, &fuse.OpenIn{InHeader: fuse.InHeader{NodeId: file.NodeId}}, out)
		assert.Equal(t, fuse.OK, status)
		assert.Equal(t, uint32(fuse.FOPEN_DIRECT_IO), out.OpenFlags)
	})
	t.Run("Write", func(t *testing.T) {
		t.Parallel()
		in := &fuse.OpenIn{InHeader: fuse.InHeader{NodeId: file.NodeId}, Flags: 1} // O_WRONLY
		assert.Equal(t, fuse.EROFS, r.Open(nil, in, &fuse.OpenOut{}))
	})
	t.Run("Directory", func(t *testing.T) {
		t.Parallel()
		in := &fuse.OpenIn{InHeader: fuse.InHeader{NodeId: docs.NodeId}}
		assert.Equal(t, fuse.EISDIR, r.Open(nil, in, &fuse.OpenOut{}))
	})
}

func TestFuseRaw_TreeErrors(t *testing.T) {
	t.Parallel()

	tree := &mocks.MockEngine{}
	tree.On("ReadDir", uint64(7)).Return(nil, errors.New("boom"))
	tree.On("LookupChild", uint64(7), "x").Return(namespace.NodeInfo{}, namespace.ErrNotFound)
	r := NewFuseRaw(config.NewDefaultConfig(), tree)

	_, status := r.dirEntries(7)
	assert.Equal(t, fuse.EIO, status)
	_, status = lookup(t, r, 7, "x")
	assert.Equal(t, fuse.ENOENT, status)
	tree.AssertExpectations(t)
}

func TestServer_UnmountWithoutServe(t *testing.T) {
	t.Parallel()

	s := New(config.NewDefaultConfig(), namespace.NewEngine(nil))

	assert.NoError(t, s.Unmount())
}
