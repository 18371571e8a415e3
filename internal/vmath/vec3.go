// Package vmath provides the double-precision vector arithmetic used by the
// simulation core. All physics state (local coordinates, velocities,
// accelerations) is held in [Vector3D]; narrowing to float32 happens only at
// the render boundary in the space package.
package vmath

import "math"

// Vector3D is a 3-component double-precision vector with value semantics.
type Vector3D struct {
	X, Y, Z float64
}

func (v Vector3D) Add(o Vector3D) Vector3D {
	return Vector3D{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3D) Sub(o Vector3D) Vector3D {
	return Vector3D{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3D) Scale(s float64) Vector3D {
	return Vector3D{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3D) Dot(o Vector3D) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3D) Cross(o Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3D) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vector3D) Norm() float64 {
	return math.Sqrt(v.NormSq())
}

// Normalized returns the unit vector in the direction of v. The zero vector
// normalizes to the zero vector, not NaN.
func (v Vector3D) Normalized() Vector3D {
	n := v.Norm()
	if n == 0 {
		return Vector3D{}
	}
	return v.Scale(1 / n)
}

// IsFinite reports whether all components are finite (no NaN or Inf).
func (v Vector3D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
