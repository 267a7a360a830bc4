// Command ecslayout prints how a set of components would be packed into
// archetype chunks.
//
//	ecslayout position=12:4 velocity=12:4 flags=1:1 --chunk-bytes 4096 --entities 1000
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
