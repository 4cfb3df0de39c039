package terminal

import (
	"context"
	"fmt"
	"sync"
)

// Session owns an initialized Surface until Close
// Close restores the terminal exactly once regardless of how many exit
// paths reach it
type Session struct {
	surface Surface
	once    sync.Once
}

// Open initializes the surface. On failure any partial state is restored
func Open(s Surface) (*Session, error) {
	if err := s.Init(); err != nil {
		s.Fini()
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	return &Session{surface: s}, nil
}

// Surface returns the wrapped surface
func (s *Session) Surface() Surface {
	return s.surface
}

// Close restores the terminal mode
func (s *Session) Close() {
	s.once.Do(s.surface.Fini)
}

// Watch derives a context that is also cancelled when the surface reports
// an interrupt of its own (raw-mode backends swallow Ctrl-C as a key)
func (s *Session) Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ir, ok := s.surface.(Interrupter)
	if !ok {
		return ctx, cancel
	}
	go func() {
		select {
		case <-ir.Interrupts():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
