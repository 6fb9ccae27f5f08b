package nsim

import (
	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/namespace"
)

// New creates a namespace engine given your config.
func New(cfg *config.Config) *namespace.Engine {
	return namespace.NewEngine(cfg)
}
