package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotTerminal = errors.New("output is not a terminal")
	ErrUnsupported = errors.New("terminal backend not supported on this platform")
)

// Surface abstracts the display the renderer writes to
type Surface interface {
	// Init enters the alternate screen, hides the cursor and enables
	// cursor addressing. Failure is fatal for the caller
	Init() error

	// Fini restores whatever Init changed. Safe to call multiple times
	Fini()

	// Size returns the dimensions in character cells
	Size() (width, height int)

	// Write emits raw escape-sequence text
	Write(p []byte) error

	// Sleep suspends the caller for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}

// Interrupter is implemented by surfaces that receive the termination
// request themselves instead of through a process signal
type Interrupter interface {
	Interrupts() <-chan struct{}
}

// Kind selects a backend
type Kind string

const (
	KindANSI  Kind = "ansi"
	KindTcell Kind = "tcell"
)

// ParseKind resolves a backend name, case-insensitive
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindANSI:
		return KindANSI, nil
	case KindTcell:
		return KindTcell, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want %s or %s)", s, KindANSI, KindTcell)
	}
}

// New creates a Surface of the requested kind; Init is left to the caller
func New(kind Kind) (Surface, error) {
	switch kind {
	case KindANSI, "":
		return newANSISurface()
	case KindTcell:
		s, err := NewScreenSurface(nil)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
