// Package config builds the run configuration from command-line flags and
// an optional YAML file.
//
// Values from the YAML file are applied first and flags override them. The
// merged values are validated with struct tags and turned into an immutable
// Config that is passed by value into the pipeline.
package config
