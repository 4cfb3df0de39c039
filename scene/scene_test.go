package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/vt-sphere/vmath"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Expected default scene to be valid, got %v", err)
	}
}

func TestDefaultReferenceValues(t *testing.T) {
	s := Default()
	if s.Sphere.Center != vmath.V3(0, 30, 0) || s.Sphere.Radius != 20 {
		t.Errorf("Unexpected sphere %+v", s.Sphere)
	}
	if s.Camera.Position != vmath.V3(0, -5, 0) || s.Camera.Distance != 5 {
		t.Errorf("Unexpected camera %+v", s.Camera)
	}
	// Sun sits left of, slightly behind and above the viewer
	if want := vmath.V3(-0.588348, 0.196116, -0.78446); s.Light.Direction != want {
		t.Errorf("Expected light %v, got %v", want, s.Light.Direction)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		want   error
	}{
		{"zero radius", func(s *Scene) { s.Sphere.Radius = 0 }, ErrInvalidSphere},
		{"negative radius", func(s *Scene) { s.Sphere.Radius = -1 }, ErrInvalidSphere},
		{"NaN radius", func(s *Scene) { s.Sphere.Radius = math.NaN() }, ErrInvalidSphere},
		{"NaN center", func(s *Scene) { s.Sphere.Center = vmath.V3(math.NaN(), 0, 0) }, ErrInvalidSphere},
		{"Inf camera", func(s *Scene) { s.Camera.Position = vmath.V3(0, math.Inf(1), 0) }, ErrInvalidCamera},
		{"NaN distance", func(s *Scene) { s.Camera.Distance = math.NaN() }, ErrInvalidCamera},
		{"zero light", func(s *Scene) { s.Light.Direction = vmath.Vec3{} }, ErrInvalidLight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCameraAdvance(t *testing.T) {
	c := Camera{Position: vmath.V3(1, -5, 2), Distance: 5}
	next := c.Advance(0.25)

	if next.Position != vmath.V3(1, -4.75, 2) {
		t.Errorf("Expected (1,-4.75,2), got %v", next.Position)
	}
	if next.Distance != 5 {
		t.Errorf("Expected distance unchanged, got %v", next.Distance)
	}
	// Value semantics: original untouched
	if c.Position.Y() != -5 {
		t.Errorf("Expected original camera unchanged, got %v", c.Position)
	}
}
