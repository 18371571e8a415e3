package sim

import (
	"math"
	"testing"

	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/space"
)

// frameCfg returns a config where one 0.05 s frame yields exactly three
// steps: 0.05 * 3600 = 180 sim seconds = 3 * 60.
func frameCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.TimeScale = 3600
	cfg.StepSize = 60
	cfg.Workers = 2
	return cfg
}

func TestNew_SolarScenario(t *testing.T) {
	s, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	bodies := s.Bodies()
	if len(bodies) != 3 {
		t.Fatalf("len(bodies) = %d, want 3", len(bodies))
	}
	if sp := bodies[1].Speed(); math.Abs(sp-29780)/29780 > 0.01 {
		t.Errorf("earth speed = %v, want within 1%% of 29780", sp)
	}
	if s.SimTime() != 0 || s.Steps() != 0 {
		t.Errorf("fresh simulation at t=%v steps=%d, want zero", s.SimTime(), s.Steps())
	}
}

func TestNew_BadScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "never-heard-of-it"
	if _, err := New(cfg); err == nil {
		t.Fatal("New with unknown scenario succeeded")
	}
}

func TestAdvance_StepAccounting(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	total := 0
	for i := 0; i < 10; i++ {
		total += s.Advance(0.05)
	}

	if total != 30 {
		t.Errorf("steps over 10 frames = %d, want 30", total)
	}
	if s.Steps() != 30 {
		t.Errorf("Steps() = %d, want 30", s.Steps())
	}
	if math.Abs(s.SimTime()-1800) > 1e-6 {
		t.Errorf("SimTime = %v, want 1800", s.SimTime())
	}
}

func TestAdvance_MovesBodies(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	before := s.Bodies()[1].World
	for i := 0; i < 60; i++ {
		s.Advance(1.0 / 60.0)
	}

	moved := space.Delta(before, s.Bodies()[1].World).Norm()
	// One hour of sim time at ~29.78 km/s.
	want := 29780.0 * 3600
	if math.Abs(moved-want)/want > 0.01 {
		t.Errorf("earth moved %v m in an hour, want about %v", moved, want)
	}
}

func TestAdvance_PauseFreezesState(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.SetTimeScale(0)
	before := s.Bodies()[1].World
	for i := 0; i < 30; i++ {
		if n := s.Advance(1.0 / 60.0); n != 0 {
			t.Fatalf("paused frame took %d steps", n)
		}
	}
	if s.Bodies()[1].World != before {
		t.Error("bodies moved while paused")
	}
	if s.SimTime() != 0 {
		t.Errorf("SimTime = %v while paused, want 0", s.SimTime())
	}
}

func TestAdvance_StallCap(t *testing.T) {
	cfg := frameCfg()
	cfg.MaxSteps = 8
	cfg.TimeScale = 1e9 // one clamped frame accrues far more than 8 steps
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if n := s.Advance(10.0); n != 8 {
		t.Errorf("stalled frame took %d steps, want cap of 8", n)
	}
	// Debt was dropped: a tiny follow-up frame cannot owe extra steps.
	if n := s.Advance(1e-9); n != 0 {
		t.Errorf("follow-up frame took %d steps, want 0", n)
	}
}

func TestSnapshot_Isolated(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	snap := s.Snapshot()
	if len(snap.Bodies) != 3 || snap.Workers != 2 {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}
	if snap.Energy >= 0 {
		t.Errorf("solar system energy = %v, want negative", snap.Energy)
	}

	live := s.Bodies()[0].Velocity
	snap.Bodies[0].Velocity.X += 1e6
	snap.Bodies[0].Velocity = snap.Bodies[0].Velocity.Scale(2)
	if s.Bodies()[0].Velocity != live {
		t.Error("mutating a snapshot changed live state")
	}
}

func TestClose_Idempotent(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Close()
	s.Close()

	if n := s.Advance(1.0); n != 0 {
		t.Errorf("Advance after Close took %d steps", n)
	}
}

func TestSetWorkers_KeepsStepping(t *testing.T) {
	s, err := New(frameCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.Advance(0.05)
	s.SetWorkers(5)
	if got := s.Workers(); got != 5 {
		t.Fatalf("Workers = %d, want 5", got)
	}
	if n := s.Advance(0.05); n != 3 {
		t.Errorf("post-resize frame took %d steps, want 3", n)
	}
}
