package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/vt-sphere/render"
	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/terminal"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// recordingSurface captures writes; onSleep lets tests inject cancellation
type recordingSurface struct {
	width, height int
	writes        [][]byte
	writeErr      error
	sleeps        []time.Duration
	onSleep       func(n int)
}

func (s *recordingSurface) Init() error      { return nil }
func (s *recordingSurface) Fini()            {}
func (s *recordingSurface) Size() (int, int) { return s.width, s.height }

func (s *recordingSurface) Write(p []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, append([]byte(nil), p...))
	return nil
}

func (s *recordingSurface) Sleep(ctx context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	if s.onSleep != nil {
		s.onSleep(len(s.sleeps))
	}
	return ctx.Err()
}

func newTestDriver(surface *recordingSurface, opts Options) *Driver {
	return New(surface, render.NewRenderer(render.DefaultOptions()), scene.Default(), opts)
}

func TestTwentyFramesReachOrigin(t *testing.T) {
	surface := &recordingSurface{width: 80, height: 40}
	d := newTestDriver(surface, DefaultOptions())

	for i := 0; i < 20; i++ {
		if err := d.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	if y := d.Camera().Position.Y(); y != 0 {
		t.Fatalf("Expected camera y 0.0 after 20 frames, got %v", y)
	}
	if d.Frame() != 20 {
		t.Errorf("Expected frame 20, got %d", d.Frame())
	}

	// Rendering at y = 0 must still succeed
	if err := d.Tick(); err != nil {
		t.Fatalf("Tick at y=0: %v", err)
	}
	if len(surface.writes) != 21 {
		t.Fatalf("Expected 21 presented frames, got %d", len(surface.writes))
	}
	last := surface.writes[20]
	if !bytes.HasSuffix(last, []byte("\x1b[1;1H20, y: 0.00, size: 80, 40")) {
		t.Errorf("Unexpected status line in %q", last[max(0, len(last)-40):])
	}
}

func TestTickPresentsSingleWrite(t *testing.T) {
	surface := &recordingSurface{width: 80, height: 40}
	d := newTestDriver(surface, DefaultOptions())

	if err := d.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(surface.writes) != 1 {
		t.Fatalf("Expected one write per frame, got %d", len(surface.writes))
	}

	frame := surface.writes[0]
	if !bytes.HasPrefix(frame, terminal.SeqClear) {
		t.Error("Expected frame to start with clear")
	}
	if !bytes.HasSuffix(frame, []byte("\x1b[1;1H0, y: -5.00, size: 80, 40")) {
		t.Errorf("Expected status line for frame 0, got tail %q", frame[max(0, len(frame)-40):])
	}

	// Same bytes as a direct render plus status
	s := scene.Default()
	buf, _ := render.NewRenderer(render.DefaultOptions()).Render(render.Size{Width: 80, Height: 40}, s.Camera, s.Sphere, s.Light)
	if !bytes.HasPrefix(frame, buf.Bytes()) {
		t.Error("Expected presented frame to embed the renderer output")
	}

	if y := d.Camera().Position.Y(); y != -4.75 {
		t.Errorf("Expected camera advanced to -4.75, got %v", y)
	}
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	surface := &recordingSurface{width: 40, height: 20}
	opts := DefaultOptions()
	opts.MaxFrames = 3
	d := newTestDriver(surface, opts)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(surface.writes) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(surface.writes))
	}
	// No sleep after the final frame
	if len(surface.sleeps) != 2 {
		t.Errorf("Expected 2 sleeps, got %d", len(surface.sleeps))
	}
	for _, s := range surface.sleeps {
		if s != DefaultInterval {
			t.Errorf("Expected interval %v, got %v", DefaultInterval, s)
		}
	}
	if d.State() != StateTerminated {
		t.Errorf("Expected terminated, got %v", d.State())
	}
	if err := d.Tick(); !errors.Is(err, ErrTerminated) {
		t.Errorf("Expected ErrTerminated after Run, got %v", err)
	}
}

func TestRunInterruptedDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	surface := &recordingSurface{width: 40, height: 20}
	surface.onSleep = func(n int) {
		if n == 2 {
			cancel()
		}
	}
	d := newTestDriver(surface, DefaultOptions())

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Expected interrupt to be a clean stop, got %v", err)
	}
	if d.Frame() != 2 {
		t.Errorf("Expected 2 frames before interrupt, got %d", d.Frame())
	}
	if d.State() != StateTerminated {
		t.Errorf("Expected terminated, got %v", d.State())
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	surface := &recordingSurface{width: 40, height: 20}
	d := newTestDriver(surface, DefaultOptions())

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(surface.writes) != 0 {
		t.Errorf("Expected no frames, got %d", len(surface.writes))
	}
}

func TestRunPropagatesWriteError(t *testing.T) {
	boom := errors.New("broken pipe")
	surface := &recordingSurface{width: 40, height: 20, writeErr: boom}
	d := newTestDriver(surface, DefaultOptions())

	err := d.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped write error, got %v", err)
	}
	if d.Frame() != 0 {
		t.Errorf("Expected camera untouched on failed present, got frame %d", d.Frame())
	}
	if y := d.Camera().Position.Y(); y != -5 {
		t.Errorf("Expected camera y -5, got %v", y)
	}
}

func TestRunOnSimulationScreen(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	surface, err := terminal.NewScreenSurface(sim)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := terminal.Open(surface)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	sim.SetSize(80, 40)

	opts := DefaultOptions()
	opts.Interval = 0
	opts.MaxFrames = 4
	d := New(sess.Surface(), render.NewRenderer(render.DefaultOptions()), scene.Default(), opts)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cells, w, _ := sim.GetContents()
	at := func(x, y int) rune {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			return 0
		}
		return c.Runes[0]
	}
	// Row 20 col 40 in terminal coordinates
	if got := at(39, 19); got != '#' {
		t.Errorf("Expected lit centre, got %q", got)
	}
	// Status line of the last frame
	status := "3, y: -4.25"
	for i, r := range status {
		if got := at(i, 0); got != r {
			t.Fatalf("Status col %d: expected %q, got %q", i, r, got)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("Expected defaults valid, got %v", err)
	}
	bad := []Options{
		{Step: 0.25, Interval: -time.Second},
		{Step: 0.25, MaxFrames: -1},
	}
	for _, o := range bad {
		if err := o.Validate(); err == nil {
			t.Errorf("Expected error for %+v", o)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateRunning.String() != "running" || StateTerminated.String() != "terminated" {
		t.Error("Unexpected state names")
	}
}
