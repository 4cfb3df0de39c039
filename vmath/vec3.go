// Package vmath provides the float64 vector algebra used by the sphere renderer.
//
// Vec3 shares its memory layout with mgl64.Vec3 so the heavy lifting (cross,
// dot, length) is delegated to mathgl; the package adds the ray queries the
// renderer needs and reports zero-length divisors as ErrZeroLength.
package vmath

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrZeroLength is returned when a zero vector is used as a divisor
var ErrZeroLength = errors.New("vmath: zero-length vector")

// Vec3 is an immutable 3D vector; every operation returns a new value
type Vec3 mgl64.Vec3

// V3 builds a vector from components
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

// WithY returns a copy of v with the Y component replaced
func (v Vec3) WithY(y float64) Vec3 {
	return Vec3{v[0], y, v[2]}
}

// IsZero reports whether all components are exactly zero
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// IsFinite reports whether no component is NaN or Inf
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3(v) }

// FromPoints returns the vector pointing from a to b
func FromPoints(a, b Vec3) Vec3 {
	return Vec3(b.mgl().Sub(a.mgl()))
}

func Add(a, b Vec3) Vec3 {
	return Vec3(a.mgl().Add(b.mgl()))
}

func Scale(v Vec3, k float64) Vec3 {
	return Vec3(v.mgl().Mul(k))
}

func Dot(a, b Vec3) float64 {
	return a.mgl().Dot(b.mgl())
}

// Cross is the right-handed cross product; its length is the area of the
// parallelogram spanned by a and b
func Cross(a, b Vec3) Vec3 {
	return Vec3(a.mgl().Cross(b.mgl()))
}

func Length(v Vec3) float64 {
	return v.mgl().Len()
}

// Normalize returns v scaled to unit length
func Normalize(v Vec3) (Vec3, error) {
	l := Length(v)
	if l == 0 {
		return Vec3{}, ErrZeroLength
	}
	inv := 1.0 / l
	return Scale(v, inv), nil
}

// Project returns the orthogonal projection of v onto the line through onto
func Project(v, onto Vec3) (Vec3, error) {
	denom := Dot(onto, onto)
	if denom == 0 {
		return Vec3{}, ErrZeroLength
	}
	return Scale(onto, Dot(v, onto)/denom), nil
}

// ApproxEqual compares component-wise within eps
func ApproxEqual(a, b Vec3, eps float64) bool {
	return a.mgl().ApproxEqualThreshold(b.mgl(), eps)
}
