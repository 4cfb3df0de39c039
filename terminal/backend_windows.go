//go:build windows

package terminal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

// ansiSurface enables VT processing on the console and writes the escape
// stream to stdout. Console modes are saved at Init and restored at Fini
type ansiSurface struct {
	out     *os.File
	outH    windows.Handle
	inH     windows.Handle
	outMode uint32
	inMode  uint32
	savedIn bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

func newANSISurface() (Surface, error) {
	return &ansiSurface{
		out:  os.Stdout,
		outH: windows.Stdout,
		inH:  windows.Stdin,
	}, nil
}

func (s *ansiSurface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := windows.GetConsoleMode(s.outH, &s.outMode); err != nil {
		return fmt.Errorf("%w: GetConsoleMode of stdout: %v", ErrNotTerminal, err)
	}
	outMode := s.outMode | windows.ENABLE_PROCESSED_OUTPUT | windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	if err := windows.SetConsoleMode(s.outH, outMode); err != nil {
		return fmt.Errorf("SetConsoleMode of stdout: %w", err)
	}
	// Mark before touching stdin so a failure below still restores stdout
	s.initialized = true

	if err := windows.GetConsoleMode(s.inH, &s.inMode); err != nil {
		return fmt.Errorf("GetConsoleMode of stdin: %w", err)
	}
	inMode := s.inMode | windows.ENABLE_MOUSE_INPUT | windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	if err := windows.SetConsoleMode(s.inH, inMode); err != nil {
		return fmt.Errorf("SetConsoleMode of stdin: %w", err)
	}
	s.savedIn = true

	buf := make([]byte, 0, 16)
	buf = append(buf, seqAltScreenEnter...)
	buf = append(buf, seqCursorHide...)
	_, err := s.out.Write(buf)
	return err
}

func (s *ansiSurface) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}

	buf := make([]byte, 0, 24)
	buf = append(buf, seqCursorShow...)
	buf = append(buf, seqAltScreenExit...)
	buf = append(buf, SeqSGR0...)
	s.out.Write(buf)

	windows.SetConsoleMode(s.outH, s.outMode)
	if s.savedIn {
		windows.SetConsoleMode(s.inH, s.inMode)
	}
	s.finalized = true
}

// Size reports the visible window, not the scrollback buffer
func (s *ansiSurface) Size() (int, int) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(s.outH, &info); err != nil {
		return 80, 24 // Fallback
	}
	w := int(info.Window.Right-info.Window.Left) + 1
	h := int(info.Window.Bottom-info.Window.Top) + 1
	if w <= 0 || h <= 0 {
		return int(info.Size.X), int(info.Size.Y)
	}
	return w, h
}

func (s *ansiSurface) Write(p []byte) error {
	_, err := s.out.Write(p)
	return err
}

func (s *ansiSurface) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// resetTerminalMode is a no-op: console modes are per-process on Windows
func resetTerminalMode() {}
