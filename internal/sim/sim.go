// Package sim wires bodies, worker pool, clock and stepper into one owned
// simulation context. Nothing here is process-global: construct as many
// independent simulations as needed and close each when done.
package sim

import (
	"math"

	"github.com/CodeByRiley/SpaceTime/internal/clock"
	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/nbody"
	"github.com/CodeByRiley/SpaceTime/internal/scenario"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// Simulation advances a body set by fixed Velocity-Verlet steps fed from a
// scaled wall clock. All methods belong to the goroutine driving Advance;
// hand other goroutines a Snapshot instead.
type Simulation struct {
	bodies  []nbody.Body
	acc     []vmath.Vector3D
	pool    *nbody.Pool
	clock   *clock.Clock
	stepper *clock.Stepper
	eps2    float64
	steps   uint64
	closed  bool
}

// New builds the scenario described by cfg, primes accelerations and starts
// the worker pool.
func New(cfg *config.Config) (*Simulation, error) {
	bodies, err := scenario.Build(cfg)
	if err != nil {
		return nil, err
	}

	softening := cfg.Softening
	if softening < 0 {
		softening = 0
	}

	s := &Simulation{
		bodies:  bodies,
		acc:     make([]vmath.Vector3D, len(bodies)),
		pool:    nbody.NewPool(cfg.Workers),
		clock:   clock.NewClockWithClamp(cfg.TimeScale, cfg.MaxRealDt),
		stepper: clock.NewStepper(cfg.StepSize, cfg.MaxSteps),
		eps2:    softening * softening,
	}
	s.pool.AccelInto(s.bodies, s.acc, s.eps2)
	return s, nil
}

// Advance scales one frame's wall-clock delta into simulation time and
// drains it in fixed steps through the pool. It returns the number of steps
// taken this frame; after Close it is a no-op returning 0.
func (s *Simulation) Advance(wallDt float64) int {
	if s.closed {
		return 0
	}
	simDt := s.clock.Advance(wallDt)
	return s.stepper.Drain(simDt, func(h float64) {
		s.pool.StepVerlet(s.bodies, s.acc, h, s.eps2)
		s.steps++
	})
}

// Bodies returns the live body slice. Treat it as read-only; it is rewritten
// by every Advance.
func (s *Simulation) Bodies() []nbody.Body { return s.bodies }

// SimTime reports total simulated seconds.
func (s *Simulation) SimTime() float64 { return s.clock.SimTime() }

// TimeScale reports simulation seconds per wall second.
func (s *Simulation) TimeScale() float64 { return s.clock.TimeScale() }

// SetTimeScale changes the wall-to-simulation multiplier; zero pauses.
func (s *Simulation) SetTimeScale(scale float64) { s.clock.SetTimeScale(scale) }

// StepSize reports the fixed integrator step in simulation seconds.
func (s *Simulation) StepSize() float64 { return s.stepper.StepSize() }

// Steps reports the total integrator steps taken since construction.
func (s *Simulation) Steps() uint64 { return s.steps }

// Workers reports the pool's worker count.
func (s *Simulation) Workers() int { return s.pool.Workers() }

// SetWorkers resizes the pool between frames.
func (s *Simulation) SetWorkers(n int) { s.pool.SetWorkers(n) }

// Softening reports the softening length in meters.
func (s *Simulation) Softening() float64 { return math.Sqrt(s.eps2) }

// Energy reports total mechanical energy of the current state in joules.
func (s *Simulation) Energy() float64 { return nbody.TotalEnergy(s.bodies, s.eps2) }

// Momentum reports total linear momentum of the current state.
func (s *Simulation) Momentum() vmath.Vector3D { return nbody.TotalMomentum(s.bodies) }

// Close shuts the worker pool down. Idempotent; Advance becomes a no-op.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pool.Shutdown()
}
