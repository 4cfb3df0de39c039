// Package render ray-casts the sphere into terminal cells.
//
// Each cell (col, row) maps to a point on a projection plane Distance ahead
// of the camera. The ray from the camera through that point is tested
// against the sphere by its perpendicular distance to the centre; hits are
// shaded by the angle between the light and an approximate surface normal.
package render

import (
	"math"

	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/vmath"
)

// Size is the drawable area in character cells
type Size struct {
	Width  int
	Height int
}

// Cell is one positioned draw command, 1-indexed terminal coordinates
type Cell struct {
	Row   int
	Col   int
	Glyph byte
}

// Stats summarises one frame
type Stats struct {
	Lit        int
	Shadowed   int
	Degenerate int // pixels skipped for zero-length geometry
}

// Cells returns the number of glyphs emitted
func (s Stats) Cells() int { return s.Lit + s.Shadowed }

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

func (r *Renderer) Options() Options { return r.opts }

// Sample returns the draw commands for one frame in row-major order
func (r *Renderer) Sample(size Size, cam scene.Camera, sph scene.Sphere, light scene.Light) ([]Cell, Stats) {
	var cells []Cell
	stats := r.walk(size, cam, sph, light, func(c Cell) {
		cells = append(cells, c)
	})
	return cells, stats
}

// Render returns the encoded frame: clear, then one positioned glyph per hit
func (r *Renderer) Render(size Size, cam scene.Camera, sph scene.Sphere, light scene.Light) (*CommandBuffer, Stats) {
	buf := NewCommandBuffer()
	buf.Clear()
	stats := r.walk(size, cam, sph, light, func(c Cell) {
		buf.Cell(c.Row, c.Col, c.Glyph)
	})
	return buf, stats
}

// walk visits columns [1, width) and rows [1, height); row 0 and column 0
// are never drawn
func (r *Renderer) walk(size Size, cam scene.Camera, sph scene.Sphere, light scene.Light, emit func(Cell)) Stats {
	var stats Stats

	// Centre column lands on x = 0; Aspect squeezes x because cells are
	// about twice as tall as wide. Half extents are whole cells, so odd
	// sizes truncate (width/4, height/2 in integers at the default aspect)
	halfW := float64(int(float64(size.Width) * r.opts.Aspect / 2))
	halfH := float64(size.Height / 2)
	planeY := cam.Position.Y() + cam.Distance
	toSphere := vmath.FromPoints(cam.Position, sph.Center)

	for sy := 1; sy < size.Height; sy++ {
		for sx := 1; sx < size.Width; sx++ {
			screenPoint := vmath.V3(float64(sx)*r.opts.Aspect-halfW, planeY, float64(sy)-halfH)
			ray := vmath.FromPoints(cam.Position, screenPoint)

			glyph, res := r.shade(ray, toSphere, sph.Radius, light.Direction)
			switch res {
			case pixelMiss:
				continue
			case pixelDegenerate:
				stats.Degenerate++
				continue
			case pixelLit:
				stats.Lit++
			case pixelShadowed:
				stats.Shadowed++
			}
			emit(Cell{Row: sy, Col: sx, Glyph: glyph})
		}
	}
	return stats
}

type pixelResult uint8

const (
	pixelMiss pixelResult = iota
	pixelLit
	pixelShadowed
	pixelDegenerate
)

// shade classifies one ray
// The contact point is approximated by stepping back from the ray point
// nearest the centre by the half-chord, not by solving the quadratic
func (r *Renderer) shade(ray, toSphere vmath.Vec3, radius float64, lightDir vmath.Vec3) (byte, pixelResult) {
	dist, err := vmath.LineMinimumDistance(ray, toSphere)
	if err != nil {
		return 0, pixelDegenerate
	}
	if dist-radius >= r.opts.Threshold {
		return 0, pixelMiss
	}
	// Admitted by the threshold but outside the sphere: no chord, hence no
	// normal. Drawn as shadow
	if dist > radius {
		return r.opts.ShadowGlyph, pixelShadowed
	}

	halfChord := math.Sqrt(radius*radius - dist*dist)

	nearest, err := vmath.Project(toSphere, ray)
	if err != nil {
		return 0, pixelDegenerate
	}
	l := vmath.Length(nearest)
	if l == 0 {
		return 0, pixelDegenerate
	}
	contact := vmath.Add(nearest, vmath.Scale(nearest, -halfChord/l))

	normal, err := vmath.Normalize(vmath.FromPoints(toSphere, contact))
	if err != nil {
		return 0, pixelDegenerate
	}

	cos, err := vmath.CosineSimilarity(lightDir, normal)
	if err != nil {
		return 0, pixelDegenerate
	}
	if cos > 0 {
		return r.opts.LitGlyph, pixelLit
	}
	return r.opts.ShadowGlyph, pixelShadowed
}
