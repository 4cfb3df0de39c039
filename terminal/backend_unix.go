//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package terminal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ansiSurface writes the escape stream straight to stdout
// Input stays cooked for signals: only echo and line buffering are turned
// off so Ctrl-C still raises SIGINT
type ansiSurface struct {
	out     *os.File
	outFd   int
	inFd    int
	oldTerm *term.State

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

func newANSISurface() (Surface, error) {
	return &ansiSurface{
		out:   os.Stdout,
		outFd: int(os.Stdout.Fd()),
		inFd:  int(os.Stdin.Fd()),
	}, nil
}

func (s *ansiSurface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if !term.IsTerminal(s.outFd) {
		return fmt.Errorf("%w: stdout", ErrNotTerminal)
	}

	if term.IsTerminal(s.inFd) {
		old, err := term.GetState(s.inFd)
		if err != nil {
			return fmt.Errorf("save stdin state: %w", err)
		}
		s.oldTerm = old

		termios, err := unix.IoctlGetTermios(s.inFd, ioctlGetTermios)
		if err != nil {
			return fmt.Errorf("get stdin termios: %w", err)
		}
		termios.Lflag &^= unix.ECHO | unix.ICANON
		if err := unix.IoctlSetTermios(s.inFd, ioctlSetTermios, termios); err != nil {
			return fmt.Errorf("set stdin termios: %w", err)
		}
	}

	s.initialized = true

	buf := make([]byte, 0, 16)
	buf = append(buf, seqAltScreenEnter...)
	buf = append(buf, seqCursorHide...)
	if _, err := s.out.Write(buf); err != nil {
		return err
	}
	return nil
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

	if s.oldTerm != nil {
		term.Restore(s.inFd, s.oldTerm)
	}
	s.finalized = true
}

func (s *ansiSurface) Size() (int, int) {
	return getTerminalSize(s.outFd)
}

func (s *ansiSurface) Write(p []byte) error {
	_, err := s.out.Write(p)
	return err
}

func (s *ansiSurface) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24 // Fallback
	}
	return int(ws.Col), int(ws.Row)
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	// /dev/tty works even if stdin is redirected
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err == nil {
		termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
		termios.Iflag |= unix.ICRNL
		unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
	}
}
