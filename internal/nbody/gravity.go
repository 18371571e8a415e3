package nbody

import (
	"math"

	"github.com/CodeByRiley/SpaceTime/internal/space"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// AccelInto computes the gravitational acceleration of every body into acc,
// which must have length len(bodies) and is zeroed first. eps2 is the squared
// softening length added to each squared separation.
func AccelInto(bodies []Body, acc []vmath.Vector3D, eps2 float64) {
	for i := range acc {
		acc[i] = vmath.Vector3D{}
	}
	accelRange(bodies, acc, 0, len(bodies), eps2)
}

// accelRange accumulates pair forces for outer indices i in [i0, i1) against
// all j > i, without zeroing acc. Each unordered pair is visited exactly once
// as long as callers cover disjoint outer ranges.
func accelRange(bodies []Body, acc []vmath.Vector3D, i0, i1 int, eps2 float64) {
	n := len(bodies)
	for i := i0; i < i1; i++ {
		for j := i + 1; j < n; j++ {
			r := space.Delta(bodies[i].World, bodies[j].World)
			r2 := r.NormSq() + eps2
			f := G / (r2 * math.Sqrt(r2))
			acc[i] = acc[i].Add(r.Scale(f * bodies[j].Def.Mass))
			acc[j] = acc[j].Sub(r.Scale(f * bodies[i].Def.Mass))
		}
	}
}

// StepVerlet advances all bodies by one kick-drift-kick step of size dt
// seconds. On entry acc must hold accelerations at the bodies' current
// positions (prime it with AccelInto); on return it holds accelerations at
// the new positions, ready for the next step.
//
// The stage order is load-bearing: half-kick with the old accelerations,
// drift, recompute, half-kick with the new ones. Reordering the stages
// forfeits the integrator's energy behavior.
func StepVerlet(bodies []Body, acc []vmath.Vector3D, dt, eps2 float64) {
	half := dt / 2
	for i := range bodies {
		b := &bodies[i]
		b.Velocity = b.Velocity.Add(acc[i].Scale(half))
		b.World = b.World.AddLocal(b.Velocity.Scale(dt))
	}

	AccelInto(bodies, acc, eps2)

	for i := range bodies {
		bodies[i].Velocity = bodies[i].Velocity.Add(acc[i].Scale(half))
	}
}

// InitCircularPair adjusts the velocities of bodies[primary] and
// bodies[satellite] so the satellite is on a circular orbit about their
// common center of mass, in the plane normal to planeNormal. sign selects
// the orbit direction; only its sign is used.
//
// The velocity change is split inversely by mass, so the pair's combined
// momentum is unchanged. Only the mutual orbital terms are added: for
// chained systems (moon around planet around star) initialize parent pairs
// first and seed each satellite's velocity with its parent's established
// velocity before the call.
//
// Degenerate input (zero combined mass, zero separation, or planeNormal
// parallel to the separation) leaves both velocities unchanged.
func InitCircularPair(bodies []Body, primary, satellite int, planeNormal vmath.Vector3D, sign float64) {
	p := &bodies[primary]
	s := &bodies[satellite]

	m := p.Def.Mass + s.Def.Mass
	if m <= 0 {
		return
	}
	r := space.Delta(p.World, s.World)
	dist := r.Norm()
	if dist == 0 {
		return
	}

	tangential := planeNormal.Cross(r.Scale(1 / dist)).Normalized()
	if tangential.NormSq() == 0 {
		return
	}
	tangential = tangential.Scale(math.Copysign(1, sign))

	v := math.Sqrt(G * m / dist)
	p.Velocity = p.Velocity.Add(tangential.Scale(-v * s.Def.Mass / m))
	s.Velocity = s.Velocity.Add(tangential.Scale(v * p.Def.Mass / m))
}
