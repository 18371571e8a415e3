package nbody

import (
	"math"

	"github.com/CodeByRiley/SpaceTime/internal/space"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// TotalEnergy returns kinetic plus pairwise potential energy in joules. The
// potential uses the same softened separation as the force kernel, so a
// softened system conserves this quantity, not the unsoftened one.
func TotalEnergy(bodies []Body, eps2 float64) float64 {
	var e float64
	for i := range bodies {
		e += 0.5 * bodies[i].Def.Mass * bodies[i].Velocity.NormSq()
	}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r2 := space.Delta(bodies[i].World, bodies[j].World).NormSq() + eps2
			e -= G * bodies[i].Def.Mass * bodies[j].Def.Mass / math.Sqrt(r2)
		}
	}
	return e
}

// TotalMomentum returns the summed linear momentum in kg·m/s.
func TotalMomentum(bodies []Body) vmath.Vector3D {
	var p vmath.Vector3D
	for i := range bodies {
		p = p.Add(bodies[i].Velocity.Scale(bodies[i].Def.Mass))
	}
	return p
}

// TotalAngularMomentum returns the summed angular momentum about the world
// origin in kg·m^2/s.
func TotalAngularMomentum(bodies []Body) vmath.Vector3D {
	var l vmath.Vector3D
	origin := space.WorldPos{}
	for i := range bodies {
		r := space.Delta(origin, bodies[i].World)
		l = l.Add(r.Cross(bodies[i].Velocity).Scale(bodies[i].Def.Mass))
	}
	return l
}

// GravitationalParent returns the index of the body that binds body i: the
// strongest tidal influence m/r^3 among bodies at least as massive as i, or
// -1 when none exists. The tidal criterion picks the Earth as the Moon's
// parent even though the Sun pulls on the Moon harder.
func GravitationalParent(bodies []Body, i int) int {
	if i < 0 || i >= len(bodies) {
		return -1
	}
	best, bestTide := -1, 0.0
	for j := range bodies {
		if j == i || bodies[j].Def.Mass < bodies[i].Def.Mass {
			continue
		}
		r2 := space.Delta(bodies[i].World, bodies[j].World).NormSq()
		if r2 == 0 {
			continue
		}
		if tide := bodies[j].Def.Mass / (r2 * math.Sqrt(r2)); tide > bestTide {
			bestTide = tide
			best = j
		}
	}
	return best
}

// Barycenter returns the mass-weighted mean position. With zero total mass
// it falls back to the unweighted mean of the positions.
func Barycenter(bodies []Body) space.WorldPos {
	if len(bodies) == 0 {
		return space.WorldPos{}
	}
	origin := space.WorldPos{}
	var sum vmath.Vector3D
	var mass float64
	for i := range bodies {
		r := space.Delta(origin, bodies[i].World)
		sum = sum.Add(r.Scale(bodies[i].Def.Mass))
		mass += bodies[i].Def.Mass
	}
	if mass <= 0 {
		sum = vmath.Vector3D{}
		for i := range bodies {
			sum = sum.Add(space.Delta(origin, bodies[i].World))
		}
		return space.FromMeters(sum.Scale(1 / float64(len(bodies))))
	}
	return space.FromMeters(sum.Scale(1 / mass))
}
