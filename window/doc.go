// Package window selects vehicles that stay in a trace for a whole time
// window and rebuilds the trace around them.
//
// The pipeline is:
//
//	ids := window.FindContinuous(trace, start, start+duration)
//	selected, err := window.Select(ids, count)
//	out := window.Reproject(trace, selected, start, duration)
//
// Continuity is evaluated over the closed interval [start, end] while
// Reproject copies the half-open interval [start, start+duration). Both
// bounds are kept as-is for compatibility with existing outputs.
package window
