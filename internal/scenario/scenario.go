// Package scenario turns body specs into initialized body slices ready for
// integration.
package scenario

import (
	"errors"
	"fmt"

	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/nbody"
	"github.com/CodeByRiley/SpaceTime/internal/space"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

var (
	ErrUnknownScenario = errors.New("scenario: unknown scenario name")
	ErrNoBodies        = errors.New("scenario: no bodies defined")
	ErrUnknownParent   = errors.New("scenario: parent not defined before body")
	ErrDuplicateBody   = errors.New("scenario: duplicate body name")
)

// orbitNormal is the plane normal every scenario orbit is built in.
var orbitNormal = vmath.Vector3D{Z: 1}

// Build constructs the body set for cfg. Explicit cfg.Bodies win; otherwise
// the named scenario preset is used. Bodies are laid out along +X: a root
// sits at the origin at rest, and each satellite is placed Separation meters
// from its parent and set on a circular orbit about it.
//
// Parents must be listed before their satellites: a satellite's starting
// velocity is its parent's velocity as established so far, with the mutual
// orbital terms of nbody.InitCircularPair added on top. This ordering is
// what makes a moon carry its planet's heliocentric motion.
func Build(cfg *config.Config) ([]nbody.Body, error) {
	specs := cfg.Bodies
	if len(specs) == 0 {
		if cfg.Scenario == "" {
			return nil, ErrNoBodies
		}
		preset := config.GetPreset(cfg.Scenario)
		if preset == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, cfg.Scenario)
		}
		specs = preset.Bodies
	}
	if len(specs) == 0 {
		return nil, ErrNoBodies
	}

	bodies := make([]nbody.Body, 0, len(specs))
	index := make(map[string]int, len(specs))

	for _, spec := range specs {
		if _, dup := index[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBody, spec.Name)
		}

		radius := spec.Radius
		if radius == 0 {
			radius = nbody.RadiusForMass(spec.Mass, spec.Density)
		}
		b := nbody.Body{
			Def: nbody.Definition{
				Name:    spec.Name,
				Mass:    spec.Mass,
				Density: spec.Density,
				Radius:  radius,
			},
			Color: spec.Color,
		}

		if spec.Parent == "" {
			index[spec.Name] = len(bodies)
			bodies = append(bodies, b)
			continue
		}

		pi, ok := index[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q before %q", ErrUnknownParent, spec.Parent, spec.Name)
		}
		b.World = bodies[pi].World.AddLocal(vmath.Vector3D{X: spec.Separation})
		b.Velocity = bodies[pi].Velocity

		si := len(bodies)
		index[spec.Name] = si
		bodies = append(bodies, b)

		sign := 1.0
		if spec.Retrograde {
			sign = -1.0
		}
		nbody.InitCircularPair(bodies, pi, si, orbitNormal, sign)
	}

	return bodies, nil
}

// Find returns the index of the named body, or -1.
func Find(bodies []nbody.Body, name string) int {
	for i := range bodies {
		if bodies[i].Def.Name == name {
			return i
		}
	}
	return -1
}

// Extent returns the largest separation in meters between any body and the
// set's barycenter, used by display layers to frame the whole system.
func Extent(bodies []nbody.Body) float64 {
	center := nbody.Barycenter(bodies)
	var max float64
	for i := range bodies {
		if d := space.Delta(center, bodies[i].World).Norm(); d > max {
			max = d
		}
	}
	return max
}
