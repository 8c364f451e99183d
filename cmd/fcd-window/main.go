package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/theoremus-urban-solutions/fcd-window/config"
	"github.com/theoremus-urban-solutions/fcd-window/internal"
)

func main() {
	fs := flag.NewFlagSet("fcd-window", flag.ContinueOnError)
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	internal.InitLogging(cfg.Quiet)
	if err := run(cfg, newFetcher(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
