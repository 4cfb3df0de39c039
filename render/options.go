package render

import (
	"fmt"
	"math"
)

const (
	DefaultAspect      = 0.5
	DefaultThreshold   = 1e-6
	DefaultLitGlyph    = '#'
	DefaultShadowGlyph = '\''
)

// Options tunes the projection and shading
type Options struct {
	// Aspect scales screen columns onto the plane; 0.5 keeps the sphere
	// round on cells twice as tall as wide
	Aspect float64

	// Threshold admits rays whose distance exceeds the radius by less than
	// this, filling the silhouette edge
	Threshold float64

	LitGlyph    byte
	ShadowGlyph byte
}

func DefaultOptions() Options {
	return Options{
		Aspect:      DefaultAspect,
		Threshold:   DefaultThreshold,
		LitGlyph:    DefaultLitGlyph,
		ShadowGlyph: DefaultShadowGlyph,
	}
}

// Validate rejects options that would corrupt the escape stream or the
// projection
func (o Options) Validate() error {
	if !(o.Aspect > 0) || math.IsInf(o.Aspect, 0) {
		return fmt.Errorf("render: aspect must be > 0, got %v", o.Aspect)
	}
	if math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) {
		return fmt.Errorf("render: threshold must be finite, got %v", o.Threshold)
	}
	for _, g := range []byte{o.LitGlyph, o.ShadowGlyph} {
		if g < 0x20 || g > 0x7e {
			return fmt.Errorf("render: glyph %q is not printable ASCII", g)
		}
	}
	return nil
}
