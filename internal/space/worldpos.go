package space

import (
	"fmt"
	"math"

	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

const (
	// SectorSize is the edge length of one sector cube in meters.
	SectorSize = 1.0e9

	// UnitsPerMeter converts meters to render units: one unit per sector
	// edge, which puts a 1 AU orbit at roughly 150 units from the camera.
	UnitsPerMeter = 1.0 / SectorSize

	halfSector = SectorSize / 2
)

// Sector3 identifies one coarse cubic cell of world space. Components are
// signed 64-bit so sector arithmetic cannot overflow over any plausible
// simulation duration.
type Sector3 struct {
	X, Y, Z int64
}

func (s Sector3) Sub(o Sector3) Sector3 {
	return Sector3{s.X - o.X, s.Y - o.Y, s.Z - o.Z}
}

func (s Sector3) String() string {
	return fmt.Sprintf("[%d %d %d]", s.X, s.Y, s.Z)
}

// WorldPos is an exact position in meters relative to the fixed global
// origin, split into a sector address and a bounded local offset.
type WorldPos struct {
	Sector Sector3
	Local  vmath.Vector3D
}

// FromMeters builds a normalized WorldPos from an absolute position in
// meters. Intended for scenario setup; at setup-scale magnitudes the
// float64 input still carries sub-meter resolution.
func FromMeters(m vmath.Vector3D) WorldPos {
	return WorldPos{Local: m}.Normalized()
}

// normAxis folds a local offset back into [-halfSector, +halfSector),
// carrying whole sector edges into the sector component.
func normAxis(sector int64, local float64) (int64, float64) {
	s := math.Floor((local + halfSector) / SectorSize)
	if s != 0 {
		sector += int64(s)
		local -= s * SectorSize
	}
	// Floating error on a value sitting exactly at a boundary can leave the
	// fold one cell short; a single extra carry restores the invariant.
	if local >= halfSector {
		sector++
		local -= SectorSize
	} else if local < -halfSector {
		sector--
		local += SectorSize
	}
	return sector, local
}

// Normalized returns p with every local axis folded into
// [-SectorSize/2, +SectorSize/2). Normalizing an already-normalized
// position is a bit-for-bit no-op.
func (p WorldPos) Normalized() WorldPos {
	p.Sector.X, p.Local.X = normAxis(p.Sector.X, p.Local.X)
	p.Sector.Y, p.Local.Y = normAxis(p.Sector.Y, p.Local.Y)
	p.Sector.Z, p.Local.Z = normAxis(p.Sector.Z, p.Local.Z)
	return p
}

// AddLocal moves p by delta meters and renormalizes. Every mutation of a
// WorldPos must go through here so the local invariant never erodes.
func (p WorldPos) AddLocal(delta vmath.Vector3D) WorldPos {
	p.Local = p.Local.Add(delta)
	return p.Normalized()
}

// Delta returns b - a in meters. Sector differences are taken in the
// integer domain first, so only the small local remainder is subject to
// floating subtraction.
func Delta(a, b WorldPos) vmath.Vector3D {
	ds := b.Sector.Sub(a.Sector)
	return vmath.Vector3D{
		X: float64(ds.X)*SectorSize + (b.Local.X - a.Local.X),
		Y: float64(ds.Y)*SectorSize + (b.Local.Y - a.Local.Y),
		Z: float64(ds.Z)*SectorSize + (b.Local.Z - a.Local.Z),
	}
}

// Meters returns the absolute position in meters from the global origin.
// Display and diagnostics only: far from the origin this recombination
// loses the precision the sector split exists to protect.
func (p WorldPos) Meters() vmath.Vector3D {
	return Delta(WorldPos{}, p)
}

func (p WorldPos) String() string {
	return fmt.Sprintf("%v+(%.1f %.1f %.1f)", p.Sector, p.Local.X, p.Local.Y, p.Local.Z)
}

// MetersToUnits scales a length in meters to render units, narrowing to
// float32 at this boundary only.
func MetersToUnits(m float64) float32 {
	return float32(m * UnitsPerMeter)
}

// ToRender returns obj's position relative to camera in render units. The
// camera-relative delta is computed at full precision; the float32 narrowing
// here affects visualization only, never physics state.
func ToRender(obj, camera WorldPos) [3]float32 {
	d := Delta(camera, obj)
	return [3]float32{
		MetersToUnits(d.X),
		MetersToUnits(d.Y),
		MetersToUnits(d.Z),
	}
}
