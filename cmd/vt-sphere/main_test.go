package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/vt-sphere/config"
	"github.com/lixenwraith/vt-sphere/render"
	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/terminal"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	data := "backend = \"tcell\"\n[loop]\nstep = 1.5\nframes = 10\ninterval_ms = 20\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	oldBackend, oldFrames, oldInterval := *backendFlag, *framesFlag, *intervalFlag
	defer func() { *backendFlag, *framesFlag, *intervalFlag = oldBackend, oldFrames, oldInterval }()
	*backendFlag = "ansi"
	*framesFlag = 3
	*intervalFlag = time.Second

	cfg, err := resolveConfig(path, map[string]bool{"backend": true, "frames": true, "interval": true})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != terminal.KindANSI {
		t.Errorf("Expected flag backend ansi, got %q", cfg.Backend)
	}
	if cfg.Loop.MaxFrames != 3 {
		t.Errorf("Expected flag frames 3, got %d", cfg.Loop.MaxFrames)
	}
	if cfg.Loop.Interval != time.Second {
		t.Errorf("Expected flag interval 1s, got %v", cfg.Loop.Interval)
	}
	// Not given on the command line, file value stays
	if cfg.Loop.Step != 1.5 {
		t.Errorf("Expected file step 1.5, got %v", cfg.Loop.Step)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	if _, err := resolveConfig(filepath.Join(t.TempDir(), "none.toml"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected missing file error, got %v", err)
	}

	old := *backendFlag
	defer func() { *backendFlag = old }()
	*backendFlag = "curses"
	if _, err := resolveConfig("", map[string]bool{"backend": true}); err == nil {
		t.Error("Expected unknown backend to be rejected")
	}

	oldFrames := *framesFlag
	defer func() { *framesFlag = oldFrames }()
	*framesFlag = -2
	if _, err := resolveConfig("", map[string]bool{"frames": true}); err == nil {
		t.Error("Expected negative frames to be rejected")
	}
}

func TestDumpFrame(t *testing.T) {
	var out bytes.Buffer
	r := render.NewRenderer(render.DefaultOptions())
	size := render.Size{Width: 80, Height: 40}

	if err := dumpFrame(&out, r, scene.Default(), size); err != nil {
		t.Fatal(err)
	}

	s := scene.Default()
	frame, _ := r.Render(size, s.Camera, s.Sphere, s.Light)
	want := append(frame.Bytes(), []byte("\x1b[41;1H\n")...)
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("Expected frame followed by cursor parking, got %d bytes", out.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDumpFrameWriteError(t *testing.T) {
	err := dumpFrame(failingWriter{}, render.NewRenderer(render.DefaultOptions()), scene.Default(), render.Size{Width: 10, Height: 10})
	if err == nil {
		t.Fatal("Expected write error")
	}
}

func TestExecuteDumpClosesLog(t *testing.T) {
	defer os.RemoveAll(logDir)

	oldDump, oldDebug := *dumpFlag, *debugFlag
	defer func() { *dumpFlag, *debugFlag = oldDump, oldDebug }()
	*dumpFlag = true
	*debugFlag = true

	var out bytes.Buffer
	if code := execute(&out); code != 0 {
		t.Fatalf("Expected exit status 0, got %d", code)
	}

	// Not a terminal: fixed dump size, cursor parked below row 24
	if !bytes.HasPrefix(out.Bytes(), terminal.SeqClear) || !bytes.HasSuffix(out.Bytes(), []byte("\x1b[25;1H\n")) {
		t.Errorf("Expected an 80x24 frame, got %q", out.Bytes())
	}

	// Log detached and flushed by the time execute returns
	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard after return, got %v", output)
	}
	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "dump: 80x24") {
		t.Error("Expected dump stats in log file")
	}
	if !strings.Contains(string(data), "vt-sphere exiting") {
		t.Error("Expected exit banner in log file")
	}
}

func TestExecuteConfigErrorClosesLog(t *testing.T) {
	defer os.RemoveAll(logDir)

	oldPath, oldDebug := *configPath, *debugFlag
	defer func() { *configPath, *debugFlag = oldPath, oldDebug }()
	*configPath = filepath.Join(t.TempDir(), "none.toml")
	*debugFlag = true

	var out bytes.Buffer
	if code := execute(&out); code != 1 {
		t.Fatalf("Expected exit status 1, got %d", code)
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", out.Bytes())
	}
	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard after return, got %v", output)
	}
}
