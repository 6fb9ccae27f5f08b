// Package server mounts a read-only FUSE view of a namespace tree.
package server

import (
	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Server owns the FUSE session for one mount.
type Server struct {
	cfg    *config.Config
	raw    *FuseRaw
	server *fuse.Server
}

// New creates a Server projecting tree. Nothing is mounted until [Server.Serve].
func New(cfg *config.Config, tree Tree) *Server {
	return &Server{cfg: cfg, raw: NewFuseRaw(cfg, tree)}
}

// Serve mounts the view at mountPoint and returns once the kernel has
// acknowledged the mount. Requests are served in the background.
func (s *Server) Serve(mountPoint string) error {
	logger := util.GetLogger("Server.Serve")
	opts := s.cfg.MountOptions
	srv, err := fuse.NewServer(s.raw, mountPoint, &fuse.MountOptions{
		Name:   opts.Name,
		FsName: opts.FsName,
		Debug:  opts.Debug,
		Logger: util.NewLogLogger("FuseServer", util.DebugLevel),
	})
	if err != nil {
		return err
	}
	s.server = srv

	go srv.Serve()
	if err := srv.WaitMount(); err != nil {
		return err
	}
	logger.Info().Str("mountpoint", mountPoint).Msg("Mounted read-only view")
	return nil
}

// Unmount cleanly unmounts the view. Safe to call when not mounted.
func (s *Server) Unmount() error {
	if s.server == nil {
		return nil
	}
	return s.server.Unmount()
}
