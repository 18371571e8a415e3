package sim

import (
	"github.com/CodeByRiley/SpaceTime/internal/nbody"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// Snapshot is a value copy of the observable simulation state, safe to hand
// to display and telemetry goroutines while the simulation keeps stepping.
type Snapshot struct {
	SimTime   float64
	TimeScale float64
	Steps     uint64
	Workers   int
	Energy    float64
	Momentum  vmath.Vector3D
	Bodies    []nbody.Body
}

// Snapshot copies the current state. The body slice is freshly allocated,
// so mutating it never touches the live simulation.
func (s *Simulation) Snapshot() Snapshot {
	bodies := make([]nbody.Body, len(s.bodies))
	copy(bodies, s.bodies)
	return Snapshot{
		SimTime:   s.SimTime(),
		TimeScale: s.TimeScale(),
		Steps:     s.steps,
		Workers:   s.Workers(),
		Energy:    s.Energy(),
		Momentum:  s.Momentum(),
		Bodies:    bodies,
	}
}
