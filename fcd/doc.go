// Package fcd reads and writes SUMO floating car data (FCD) traces.
//
// An FCD trace is an <fcd-export> document holding an ordered list of
// <timestep time="..."> elements, each with zero or more <vehicle id="...">
// children. Vehicle elements are treated as opaque payload: every attribute
// and any inner XML is kept in document order so a vehicle can be written
// back out unchanged.
//
// # Usage
//
//	trace, err := fcd.ReadFile("fcd.xml")
//	if err != nil {
//	    var pe *fcd.ParseError
//	    if errors.As(err, &pe) { ... }
//	}
//	err = fcd.WriteFile("out.xml", trace, fcd.WriteOptions{})
package fcd
