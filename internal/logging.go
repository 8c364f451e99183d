package internal

import (
	"io"
	"log"
	"os"
)

// InitLogging sends progress logs to stdout, or discards them when quiet.
func InitLogging(quiet bool) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if quiet {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stdout)
}
