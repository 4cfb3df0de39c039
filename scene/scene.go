// Package scene holds the plain data the renderer draws: one sphere, one
// camera and a directional light.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/vt-sphere/vmath"
)

var (
	ErrInvalidSphere = errors.New("invalid sphere")
	ErrInvalidCamera = errors.New("invalid camera")
	ErrInvalidLight  = errors.New("invalid light")
)

// Sphere is static for the session
type Sphere struct {
	Center vmath.Vec3
	Radius float64
}

// Camera looks along +Y; Distance is the offset from Position to the
// projection plane
type Camera struct {
	Position vmath.Vec3
	Distance float64
}

// Advance returns the camera moved by step along the view axis
func (c Camera) Advance(step float64) Camera {
	c.Position = c.Position.WithY(c.Position.Y() + step)
	return c
}

// Light direction points from the source toward the scene, any length
type Light struct {
	Direction vmath.Vec3
}

type Scene struct {
	Sphere Sphere
	Camera Camera
	Light  Light
}

// Default returns the reference scene
func Default() Scene {
	return Scene{
		Sphere: Sphere{
			Center: vmath.V3(0, 30, 0),
			Radius: 20,
		},
		Camera: Camera{
			Position: vmath.V3(0, -5, 0),
			Distance: 5,
		},
		Light: Light{
			Direction: vmath.V3(-0.588348, 0.196116, -0.78446),
		},
	}
}

// Validate checks the invariants the renderer relies on
func (s Scene) Validate() error {
	if !s.Sphere.Center.IsFinite() {
		return fmt.Errorf("%w: center %v", ErrInvalidSphere, s.Sphere.Center)
	}
	if !(s.Sphere.Radius > 0) || math.IsInf(s.Sphere.Radius, 0) {
		return fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidSphere, s.Sphere.Radius)
	}
	if !s.Camera.Position.IsFinite() {
		return fmt.Errorf("%w: position %v", ErrInvalidCamera, s.Camera.Position)
	}
	if math.IsNaN(s.Camera.Distance) || math.IsInf(s.Camera.Distance, 0) {
		return fmt.Errorf("%w: distance %v", ErrInvalidCamera, s.Camera.Distance)
	}
	if !s.Light.Direction.IsFinite() || s.Light.Direction.IsZero() {
		return fmt.Errorf("%w: direction must be finite and non-zero, got %v", ErrInvalidLight, s.Light.Direction)
	}
	return nil
}
