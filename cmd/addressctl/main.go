package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	root := newRootCmd(configuredApp)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Debug().Err(err).Msg("addressctl failed")
		os.Exit(1)
	}
}
