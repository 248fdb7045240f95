package main

import (
	"os"

	"github.com/baharimarine/compro/cmd/cmsctl/commands"
	"github.com/baharimarine/compro/pkg/logger"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		logger.Error().Err(err).Msg("Error executing command")
		os.Exit(1)
	}
}
