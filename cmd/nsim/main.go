package main

import (
	"context"
	"os"

	"github.com/brettbedarf/nsim/internal/cmd"
	"github.com/brettbedarf/nsim/version"
	"github.com/charmbracelet/fang"
)

func main() {
	err := fang.Execute(context.Background(), cmd.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.GetCommit()),
	)
	if err != nil {
		os.Exit(1)
	}
}
