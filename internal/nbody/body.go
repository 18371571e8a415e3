package nbody

import (
	"math"

	"github.com/CodeByRiley/SpaceTime/internal/space"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// G is the Newtonian gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67430e-11

// DefaultSoftening is the Plummer softening length in meters. Separations
// below this scale produce bounded force instead of a singularity.
const DefaultSoftening = 1.0e5

// Definition is the immutable identity of a body, fixed at scenario setup.
type Definition struct {
	Name    string
	Mass    float64 // kg
	Density float64 // kg/m^3
	Radius  float64 // m
}

// RadiusForMass returns the radius of a uniform sphere of the given mass and
// density, or zero when either input is non-positive.
func RadiusForMass(mass, density float64) float64 {
	if mass <= 0 || density <= 0 {
		return 0
	}
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}

// Body is one gravitating object. World and Velocity are mutated every
// integrator step; Def and Color never change during a run. Bodies are
// addressed by index into a slice, and the slice is shared read-mostly with
// pool workers during a batch.
type Body struct {
	Def      Definition
	World    space.WorldPos
	Velocity vmath.Vector3D // m/s
	Color    string         // hex such as "#ffd24a", used only by display layers
}

// Speed returns |Velocity| in m/s.
func (b *Body) Speed() float64 { return b.Velocity.Norm() }
