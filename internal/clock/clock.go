// Package clock converts wall-clock frame time into simulation time and
// drains it in fixed-size integrator steps.
package clock

// Defaults applied when a zero or negative tunable is supplied.
const (
	// DefaultMaxRealDt caps the wall-clock delta fed into a single frame.
	DefaultMaxRealDt = 0.25

	// DefaultStep is the fixed integrator step size in simulation seconds.
	DefaultStep = 60.0

	// DefaultMaxSteps bounds how many fixed steps one frame may run.
	DefaultMaxSteps = 256
)

// Clock scales wall time into simulation time. A TimeScale of zero pauses
// the simulation.
type Clock struct {
	maxRealDt float64
	timeScale float64
	simTime   float64
}

// NewClock returns a clock running at the given time scale with the default
// wall-clock clamp.
func NewClock(timeScale float64) *Clock {
	return NewClockWithClamp(timeScale, DefaultMaxRealDt)
}

// NewClockWithClamp returns a clock with an explicit wall-clock clamp.
func NewClockWithClamp(timeScale, maxRealDt float64) *Clock {
	if maxRealDt <= 0 {
		maxRealDt = DefaultMaxRealDt
	}
	c := &Clock{maxRealDt: maxRealDt}
	c.SetTimeScale(timeScale)
	return c
}

// Advance converts one frame's wall-clock delta into simulation seconds:
// sim = min(realDt, maxRealDt) * timeScale. The result is accrued onto
// SimTime and returned.
func (c *Clock) Advance(realDt float64) float64 {
	if realDt < 0 {
		realDt = 0
	}
	if realDt > c.maxRealDt {
		realDt = c.maxRealDt
	}
	simDt := realDt * c.timeScale
	c.simTime += simDt
	return simDt
}

// SimTime reports total accrued simulation seconds.
func (c *Clock) SimTime() float64 { return c.simTime }

// TimeScale reports the current simulation-seconds-per-wall-second multiplier.
func (c *Clock) TimeScale() float64 { return c.timeScale }

// SetTimeScale changes the multiplier. Zero pauses; negative values are
// treated as zero (time does not run backwards).
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// MaxRealDt reports the wall-clock clamp applied by Advance.
func (c *Clock) MaxRealDt() float64 { return c.maxRealDt }

// Stepper drains accumulated simulation time in fixed increments so the
// integrator always advances by the same step size regardless of frame rate.
//
// The wall-clock clamp in Clock and the per-frame step cap here act as one
// combined limit: Advance bounds how much simulation time a frame may accrue,
// Drain bounds how much of it is spent. Time the cap refuses is dropped, not
// queued for later frames.
type Stepper struct {
	h           float64
	maxSteps    int
	accumulated float64
}

// NewStepper returns a stepper with step size h and a per-frame cap of
// maxSteps. Non-positive values fall back to the package defaults.
func NewStepper(h float64, maxSteps int) *Stepper {
	if h <= 0 {
		h = DefaultStep
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Stepper{h: h, maxSteps: maxSteps}
}

// Drain adds simDt to the accumulator and invokes step with exactly h for
// each whole step it can afford, up to the per-frame cap. It returns the
// number of steps taken. If the cap is hit with a full step or more still
// pending, the remainder is dropped rather than carried into the next frame.
func (s *Stepper) Drain(simDt float64, step func(h float64)) int {
	s.accumulated += simDt
	steps := 0
	for s.accumulated >= s.h && steps < s.maxSteps {
		step(s.h)
		s.accumulated -= s.h
		steps++
	}
	if s.accumulated >= s.h {
		s.accumulated = 0
	}
	return steps
}

// Pending reports simulation seconds accumulated but not yet stepped,
// always less than one step size after a Drain.
func (s *Stepper) Pending() float64 { return s.accumulated }

// StepSize reports the fixed step size h.
func (s *Stepper) StepSize() float64 { return s.h }

// MaxSteps reports the per-frame step cap.
func (s *Stepper) MaxSteps() int { return s.maxSteps }
