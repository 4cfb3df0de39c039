// Package engine sequences the frame loop: render, present, advance, sleep.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vt-sphere/render"
	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/terminal"
)

const (
	DefaultStep     = 0.25
	DefaultInterval = 500 * time.Millisecond
)

// ErrTerminated is returned by Tick once Run has finished
var ErrTerminated = errors.New("engine: driver terminated")

// State of the driver; Terminated is final
type State uint32

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Options configures the frame loop
type Options struct {
	Step      float64       // camera advance along +Y per frame
	Interval  time.Duration // fixed delay after each frame
	MaxFrames int           // stop after this many frames, 0 runs until cancelled
}

func DefaultOptions() Options {
	return Options{
		Step:     DefaultStep,
		Interval: DefaultInterval,
	}
}

func (o Options) Validate() error {
	if math.IsNaN(o.Step) || math.IsInf(o.Step, 0) {
		return fmt.Errorf("engine: step must be finite, got %v", o.Step)
	}
	if o.Interval < 0 {
		return fmt.Errorf("engine: interval must be >= 0, got %v", o.Interval)
	}
	if o.MaxFrames < 0 {
		return fmt.Errorf("engine: frames must be >= 0, got %d", o.MaxFrames)
	}
	return nil
}

// Driver owns the scene and is the only writer of its camera
// Single goroutine; Frame and State may be read concurrently
type Driver struct {
	surface  terminal.Surface
	renderer *render.Renderer
	scene    scene.Scene
	size     render.Size
	opts     Options

	frame atomic.Uint64
	state atomic.Uint32
}

// New queries the surface size once; later resizes are not tracked
func New(surface terminal.Surface, renderer *render.Renderer, sc scene.Scene, opts Options) *Driver {
	w, h := surface.Size()
	return &Driver{
		surface:  surface,
		renderer: renderer,
		scene:    sc,
		size:     render.Size{Width: w, Height: h},
		opts:     opts,
	}
}

func (d *Driver) State() State      { return State(d.state.Load()) }
func (d *Driver) Frame() uint64     { return d.frame.Load() }
func (d *Driver) Size() render.Size { return d.size }

// Camera returns a copy of the current camera
func (d *Driver) Camera() scene.Camera { return d.scene.Camera }

// Tick renders the current scene, presents it with the status line in one
// write, then advances the camera
func (d *Driver) Tick() error {
	if d.State() == StateTerminated {
		return ErrTerminated
	}

	cam := d.scene.Camera
	buf, stats := d.renderer.Render(d.size, cam, d.scene.Sphere, d.scene.Light)
	buf.Status(d.statusLine(cam))

	if stats.Degenerate > 0 {
		log.Printf("frame %d: skipped %d degenerate pixels", d.Frame(), stats.Degenerate)
	}
	if buf.Grows() > 0 {
		log.Printf("frame %d: command buffer grew %d times to %d bytes", d.Frame(), buf.Grows(), buf.Cap())
	}

	if err := d.surface.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("present frame %d: %w", d.Frame(), err)
	}

	d.scene.Camera = cam.Advance(d.opts.Step)
	d.frame.Add(1)
	return nil
}

// statusLine reports the frame counter, camera height and surface size
func (d *Driver) statusLine(cam scene.Camera) string {
	return fmt.Sprintf("%d, y: %.2f, size: %d, %d", d.Frame(), cam.Position.Y(), d.size.Width, d.size.Height)
}

// Run repeats Tick and a fixed sleep until ctx is cancelled or MaxFrames is
// reached. Cancellation is a normal stop and returns nil; the caller
// restores the terminal afterwards
func (d *Driver) Run(ctx context.Context) error {
	defer d.state.Store(uint32(StateTerminated))

	log.Printf("driver: start size=%dx%d step=%v interval=%v", d.size.Width, d.size.Height, d.opts.Step, d.opts.Interval)

	for {
		if ctx.Err() != nil {
			log.Printf("driver: interrupted after %d frames", d.Frame())
			return nil
		}

		if err := d.Tick(); err != nil {
			return err
		}

		if d.opts.MaxFrames > 0 && d.Frame() >= uint64(d.opts.MaxFrames) {
			log.Printf("driver: reached %d frames", d.Frame())
			return nil
		}

		if err := d.surface.Sleep(ctx, d.opts.Interval); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Printf("driver: interrupted after %d frames", d.Frame())
				return nil
			}
			return fmt.Errorf("sleep: %w", err)
		}
	}
}
