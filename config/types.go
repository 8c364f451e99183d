package config

// OutputConfig contains FCD output formatting options
type OutputConfig struct {
	Indent bool `yaml:"indent"`
}

// GTFSRTConfig contains the optional GTFS-Realtime export settings
type GTFSRTConfig struct {
	Output string `yaml:"output"`
	Epoch  int64  `yaml:"epoch" validate:"gte=0"`
	// Geo treats x/y as longitude/latitude when lon/lat are absent.
	Geo bool `yaml:"geo"`
}

// Params holds raw configuration values before validation. Pointer fields
// tell a missing value apart from an explicit zero.
type Params struct {
	VehicleCount   *int         `yaml:"vehicleCount" validate:"required,min=0"`
	StartTime      *float64     `yaml:"start_time" validate:"required"`
	SimulationTime *float64     `yaml:"simulation_time" validate:"required"`
	InputFile      string       `yaml:"input_file" validate:"required"`
	OutputFile     string       `yaml:"output_file" validate:"required"`
	Output         OutputConfig `yaml:"output"`
	GTFSRT         GTFSRTConfig `yaml:"gtfsrt"`
}

// Config is the validated run configuration.
type Config struct {
	VehicleCount   int
	StartTime      float64
	SimulationTime float64
	InputFile      string
	OutputFile     string
	Quiet          bool
	Output         OutputConfig
	GTFSRT         GTFSRTConfig
}

// WindowEnd is the inclusive upper bound used for the continuity scan.
func (c Config) WindowEnd() float64 {
	return c.StartTime + c.SimulationTime
}
