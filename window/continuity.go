package window

import "github.com/theoremus-urban-solutions/fcd-window/fcd"

// Window is a closed time interval.
type Window struct {
	Start float64
	End   float64
}

// Contains reports whether Start <= t <= End.
func (w Window) Contains(t float64) bool {
	return w.Start <= t && t <= w.End
}

// presence records the in-window times at which each vehicle id was seen,
// along with the order in which ids were first encountered.
type presence struct {
	times map[string][]float64
	order []string
}

// newPresence returns an empty presence map.
func newPresence() *presence {
	return &presence{times: map[string][]float64{}}
}

// observe records id at time t.
func (p *presence) observe(id string, t float64) {
	if _, ok := p.times[id]; !ok {
		p.order = append(p.order, id)
	}
	p.times[id] = append(p.times[id], t)
}

// FindContinuous returns the ids of vehicles present in every timestep whose
// time lies in [start, end], in order of first appearance. Only ids seen at
// least once qualify, so an empty window yields no ids.
func FindContinuous(trace fcd.Trace, start, end float64) []string {
	w := Window{Start: start, End: end}
	p := newPresence()
	expected := 0
	for _, ts := range trace.Timesteps {
		if !w.Contains(ts.Time) {
			continue
		}
		expected++
		for _, v := range ts.Vehicles {
			p.observe(v.ID, ts.Time)
		}
	}

	continuous := []string{}
	for _, id := range p.order {
		if len(p.times[id]) == expected {
			continuous = append(continuous, id)
		}
	}
	return continuous
}
