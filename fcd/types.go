package fcd

import (
	"encoding/xml"
	"slices"
)

// Trace is a chronologically ordered list of timesteps.
type Trace struct {
	Timesteps []Timestep
}

// Timestep is one snapshot of the simulation.
type Timestep struct {
	Time     float64
	Vehicles []Vehicle
}

// Vehicle is a single <vehicle> element. Attrs includes the id attribute
// and keeps document order; Inner is the raw inner XML, if any.
type Vehicle struct {
	ID    string
	Attrs []xml.Attr
	Inner []byte
}

// Attr returns the value of the named attribute.
func (v Vehicle) Attr(name string) (string, bool) {
	return attrValue(v.Attrs, name)
}

// Clone returns a copy of v that shares no backing storage with it.
func (v Vehicle) Clone() Vehicle {
	return Vehicle{
		ID:    v.ID,
		Attrs: slices.Clone(v.Attrs),
		Inner: slices.Clone(v.Inner),
	}
}

// VehicleCount returns the total number of vehicle records in the trace.
func (t Trace) VehicleCount() int {
	n := 0
	for _, ts := range t.Timesteps {
		n += len(ts.Vehicles)
	}
	return n
}
