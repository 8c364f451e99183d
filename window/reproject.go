package window

import "github.com/theoremus-urban-solutions/fcd-window/fcd"

// Reproject builds a new trace from the timesteps in [start, start+duration),
// shifted so the window begins at zero, keeping only the selected vehicles.
// Vehicles are cloned; the result never aliases trace.
func Reproject(trace fcd.Trace, selected []string, start, duration float64) fcd.Trace {
	keep := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		keep[id] = struct{}{}
	}
	end := start + duration

	out := fcd.Trace{Timesteps: []fcd.Timestep{}}
	for _, ts := range trace.Timesteps {
		if !(start <= ts.Time && ts.Time < end) {
			continue
		}
		shifted := fcd.Timestep{Time: ts.Time - start, Vehicles: []fcd.Vehicle{}}
		for _, v := range ts.Vehicles {
			if _, ok := keep[v.ID]; ok {
				shifted.Vehicles = append(shifted.Vehicles, v.Clone())
			}
		}
		out.Timesteps = append(out.Timesteps, shifted)
	}
	return out
}
