package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and decodes a YAML config file. Unknown keys are rejected.
// An empty file yields empty Params.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	var p Params
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Params{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// ParseConfig parses args into a Config. A --config file, when given, is
// loaded first; flags that were set explicitly override its values.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	vehicleCount := fs.Int("vehicleCount", 0, "number of continuously present vehicles to select (required)")
	startTime := fs.Float64("start_time", 0, "start of the selection window, inclusive (required)")
	simulationTime := fs.Float64("simulation_time", 0, "duration of the selection window (required)")
	inputFile := fs.String("input_file", "", "input FCD trace path or http(s) URL (required)")
	outputFile := fs.String("output_file", "", "output FCD trace path (required)")
	configPath := fs.String("config", "", "optional YAML config file")
	indent := fs.Bool("indent", false, "pretty print the output trace")
	gtfsrtOutput := fs.String("gtfsrt_output", "", "optional GTFS-RT VehiclePositions export path")
	gtfsrtEpoch := fs.Int64("gtfsrt_epoch", 0, "unix time of shifted time zero in the GTFS-RT export")
	gtfsrtGeo := fs.Bool("gtfsrt_geo", false, "read x/y as lon/lat in the GTFS-RT export")
	quiet := fs.Bool("quiet", false, "suppress progress logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, &ArgumentError{Err: err}
	}
	if fs.NArg() > 0 {
		return Config{}, &ArgumentError{Err: fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))}
	}

	var p Params
	if *configPath != "" {
		loaded, err := LoadFile(*configPath)
		if err != nil {
			return Config{}, &ArgumentError{Err: fmt.Errorf("load config: %w", err)}
		}
		p = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vehicleCount":
			p.VehicleCount = vehicleCount
		case "start_time":
			p.StartTime = startTime
		case "simulation_time":
			p.SimulationTime = simulationTime
		case "input_file":
			p.InputFile = *inputFile
		case "output_file":
			p.OutputFile = *outputFile
		case "indent":
			p.Output.Indent = *indent
		case "gtfsrt_output":
			p.GTFSRT.Output = *gtfsrtOutput
		case "gtfsrt_epoch":
			p.GTFSRT.Epoch = *gtfsrtEpoch
		case "gtfsrt_geo":
			p.GTFSRT.Geo = *gtfsrtGeo
		}
	})

	cfg, err := p.Resolve()
	if err != nil {
		return Config{}, err
	}
	cfg.Quiet = *quiet
	return cfg, nil
}

// Resolve validates p and returns the final Config.
func (p Params) Resolve() (Config, error) {
	if err := newValidator().Struct(p); err != nil {
		return Config{}, &ArgumentError{Err: describeValidation(err)}
	}
	return Config{
		VehicleCount:   *p.VehicleCount,
		StartTime:      *p.StartTime,
		SimulationTime: *p.SimulationTime,
		InputFile:      p.InputFile,
		OutputFile:     p.OutputFile,
		Output:         p.Output,
		GTFSRT:         p.GTFSRT,
	}, nil
}

// newValidator reports fields by their yaml names, which match the flag names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation turns validator errors into flag-oriented messages.
func describeValidation(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		name = strings.ReplaceAll(name, ".", "_")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing required value --%s", name))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid value for --%s: must satisfy %s=%s", name, fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
