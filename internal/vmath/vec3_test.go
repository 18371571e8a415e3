package vmath

import (
	"math"
	"testing"
)

func TestVector3D_Arithmetic(t *testing.T) {
	a := Vector3D{1, 2, 3}
	b := Vector3D{4, 5, 6}

	sum := a.Add(b)
	if sum != (Vector3D{5, 7, 9}) {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vector3D{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vector3D{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", scaled)
	}
}

func TestVector3D_Norm(t *testing.T) {
	tests := []struct {
		v        Vector3D
		expected float64
	}{
		{Vector3D{3, 4, 0}, 5.0},
		{Vector3D{1, 0, 0}, 1.0},
		{Vector3D{0, 0, 0}, 0.0},
		{Vector3D{2, 3, 6}, 7.0},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVector3D_Dot(t *testing.T) {
	a := Vector3D{1, 2, 3}
	b := Vector3D{4, -5, 6}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
}

func TestVector3D_Cross(t *testing.T) {
	x := Vector3D{1, 0, 0}
	y := Vector3D{0, 1, 0}
	z := Vector3D{0, 0, 1}

	if got := x.Cross(y); got != z {
		t.Errorf("x cross y = %v, want %v", got, z)
	}
	if got := y.Cross(x); got != z.Scale(-1) {
		t.Errorf("y cross x = %v, want %v", got, z.Scale(-1))
	}
	if got := z.Cross(z); got != (Vector3D{}) {
		t.Errorf("z cross z = %v, want zero", got)
	}
}

func TestVector3D_Normalized(t *testing.T) {
	v := Vector3D{3, 4, 0}
	n := v.Normalized()
	if math.Abs(n.Norm()-1.0) > 1e-12 {
		t.Errorf("normalized magnitude = %v, want 1", n.Norm())
	}

	zero := Vector3D{}.Normalized()
	if zero != (Vector3D{}) {
		t.Errorf("zero vector normalized to %v, want zero", zero)
	}
}

func TestVector3D_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector3D
		valid bool
	}{
		{"zero", Vector3D{}, true},
		{"normal", Vector3D{1, 2, 3}, true},
		{"with NaN", Vector3D{1, math.NaN(), 3}, false},
		{"with +Inf", Vector3D{math.Inf(1), 0, 0}, false},
		{"with -Inf", Vector3D{0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.valid {
				t.Errorf("IsFinite() = %v, want %v", got, tt.valid)
			}
		})
	}
}
