package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/lixenwraith/vt-sphere/config"
	"github.com/lixenwraith/vt-sphere/engine"
	"github.com/lixenwraith/vt-sphere/render"
	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/terminal"
)

var (
	configPath   = flag.String("config", "", "Scene file (TOML subset)")
	backendFlag  = flag.String("backend", "", "Terminal backend: ansi, tcell (overrides config)")
	framesFlag   = flag.Int("frames", 0, "Stop after N frames, 0 runs until interrupted (overrides config)")
	intervalFlag = flag.Duration("interval", engine.DefaultInterval, "Delay between frames (overrides config)")
	stepFlag     = flag.Float64("step", engine.DefaultStep, "Camera advance per frame (overrides config)")
	debugFlag    = flag.Bool("debug", false, "Write debug log to logs/"+logFileName)
	dumpFlag     = flag.Bool("dump", false, "Render a single frame to stdout and exit")
)

// Dump size when stdout is not a terminal
const (
	dumpWidth  = 80
	dumpHeight = 24
)

func main() {
	// Panic Recovery: restore the terminal before printing anything
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mVT-SPHERE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	os.Exit(execute(os.Stdout))
}

// execute runs one invocation and returns the exit status. Deferred cleanup
// here completes before main calls os.Exit
func execute(stdout io.Writer) int {
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer closeLog(logFile)
	}

	// Flags given explicitly win over the scene file
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg, err := resolveConfig(*configPath, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	renderer := render.NewRenderer(cfg.Render)

	if *dumpFlag {
		w, h := dumpSize(stdout)
		if err := dumpFrame(stdout, renderer, cfg.Scene, render.Size{Width: w, Height: h}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write frame: %v\n", err)
			return 1
		}
		return 0
	}

	return run(cfg, renderer)
}

// run owns the terminal session; the returned code is the process exit status
func run(cfg config.Config, renderer *render.Renderer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface, err := terminal.New(cfg.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	sess, err := terminal.Open(surface)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	// Normal exit terminal cleanup
	defer sess.Close()

	runCtx, cancel := sess.Watch(ctx)
	defer cancel()

	driver := engine.New(sess.Surface(), renderer, cfg.Scene, cfg.Loop)
	log.Printf("vt-sphere: backend=%s size=%dx%d", cfg.Backend, driver.Size().Width, driver.Size().Height)

	if err := driver.Run(runCtx); err != nil {
		fmt.Fprintf(os.Stderr, "vt-sphere: %v\n", err)
		return 1
	}
	log.Printf("vt-sphere: exit after %d frames", driver.Frame())
	return 0
}

// resolveConfig loads the optional scene file then applies explicitly set flags
func resolveConfig(path string, explicit map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if explicit["backend"] {
		kind, err := terminal.ParseKind(*backendFlag)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Backend = kind
	}
	if explicit["frames"] {
		cfg.Loop.MaxFrames = *framesFlag
	}
	if explicit["interval"] {
		cfg.Loop.Interval = *intervalFlag
	}
	if explicit["step"] {
		cfg.Loop.Step = *stepFlag
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// dumpSize uses the terminal size when w is a terminal, else a fixed default
func dumpSize(w io.Writer) (int, int) {
	f, ok := w.(*os.File)
	if !ok {
		return dumpWidth, dumpHeight
	}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return dumpWidth, dumpHeight
}

// dumpFrame writes one encoded frame followed by a cursor move below it, so
// a shell prompt does not land inside the picture
func dumpFrame(w io.Writer, renderer *render.Renderer, sc scene.Scene, size render.Size) error {
	start := time.Now()
	buf, stats := renderer.Render(size, sc.Camera, sc.Sphere, sc.Light)
	log.Printf("dump: %dx%d lit=%d shadow=%d degenerate=%d in %v",
		size.Width, size.Height, stats.Lit, stats.Shadowed, stats.Degenerate, time.Since(start))

	tail := terminal.AppendCursorPos(nil, size.Height+1, 1)
	tail = append(tail, '\n')
	if _, err := w.Write(append(buf.Bytes(), tail...)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
