package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/theoremus-urban-solutions/fcd-window/config"
	"github.com/theoremus-urban-solutions/fcd-window/fcd"
	"github.com/theoremus-urban-solutions/fcd-window/gtfsrt"
	"github.com/theoremus-urban-solutions/fcd-window/window"
)

// run executes read -> filter -> select -> reproject -> write. Nothing is
// written unless selection succeeds.
func run(cfg config.Config, f *fetcher, stdout io.Writer) error {
	data, err := f.fetch(cfg.InputFile)
	if err != nil {
		return &fcd.ParseError{Path: cfg.InputFile, Err: err}
	}
	trace, err := fcd.Decode(bytes.NewReader(data), cfg.InputFile)
	if err != nil {
		return err
	}
	log.Printf("loaded %d timesteps (%d vehicle records) from %s", len(trace.Timesteps), trace.VehicleCount(), cfg.InputFile)

	ids := window.FindContinuous(trace, cfg.StartTime, cfg.WindowEnd())
	log.Printf("found %d continuous vehicles in [%s, %s]", len(ids), fcd.FormatTime(cfg.StartTime), fcd.FormatTime(cfg.WindowEnd()))

	selected, err := window.Select(ids, cfg.VehicleCount)
	if err != nil {
		return err
	}

	out := window.Reproject(trace, selected, cfg.StartTime, cfg.SimulationTime)
	if err := fcd.WriteFile(cfg.OutputFile, out, fcd.WriteOptions{Indent: cfg.Output.Indent}); err != nil {
		return err
	}
	log.Printf("wrote %d timesteps to %s", len(out.Timesteps), cfg.OutputFile)

	if cfg.GTFSRT.Output != "" {
		opts := gtfsrt.Options{Epoch: cfg.GTFSRT.Epoch, Geo: cfg.GTFSRT.Geo}
		if err := gtfsrt.ExportFile(cfg.GTFSRT.Output, out, opts); err != nil {
			return err
		}
		log.Printf("wrote %d GTFS-RT vehicle positions to %s", out.VehicleCount(), cfg.GTFSRT.Output)
	}

	_, err = fmt.Fprintf(stdout, "Successfully processed XML. Selected vehicles: %s\n", strings.Join(selected, ", "))
	return err
}
