package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mohidul-hq/VIM-System/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
