package config

// Default mount identifiers reported to the kernel.
const (
	DefaultFsName = "nsim"
	DefaultName   = "nsim"
)

// MountOptions holds high-level settings for mounting the read-only view.
// No go-fuse types are exposed here.
type MountOptions struct {
	Debug  bool   // fuse debug logs
	FsName string // mount's FsName
	Name   string // mount's Name
}
