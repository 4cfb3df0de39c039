package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ScreenSurface draws the escape stream onto a tcell.Screen
// tcell owns the tty (raw mode, alternate screen), so Ctrl-C and Esc arrive
// as key events and are reported through Interrupts
type ScreenSurface struct {
	screen tcell.Screen
	style  tcell.Style

	// Cursor, 0-indexed
	row, col int

	interruptCh   chan struct{}
	interruptOnce sync.Once
	doneCh        chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// NewScreenSurface wraps screen; a nil screen creates the default tcell screen
func NewScreenSurface(screen tcell.Screen) (*ScreenSurface, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("tcell screen: %w", err)
		}
		screen = s
	}
	return &ScreenSurface{
		screen:      screen,
		style:       tcell.StyleDefault,
		interruptCh: make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

func (s *ScreenSurface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.HideCursor()
	s.screen.Clear()
	s.screen.Show()

	go s.pollLoop()

	s.initialized = true
	return nil
}

// pollLoop watches for the keys that mean "stop"; everything else is ignored
func (s *ScreenSurface) pollLoop() {
	defer close(s.doneCh)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			switch key.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				s.interruptOnce.Do(func() { close(s.interruptCh) })
			}
		}
	}
}

func (s *ScreenSurface) Fini() {
	s.mu.Lock()
	if !s.initialized || s.finalized {
		s.mu.Unlock()
		return
	}
	s.finalized = true
	s.mu.Unlock()

	s.screen.Fini()
	<-s.doneCh
}

func (s *ScreenSurface) Size() (int, int) {
	return s.screen.Size()
}

// Write applies the decoded operations and presents the result
func (s *ScreenSurface) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return fmt.Errorf("tcell surface not active")
	}

	Decode(p, func(op Op) {
		switch op.Kind {
		case OpClear:
			s.screen.Clear()
		case OpMove:
			s.row, s.col = op.Row-1, op.Col-1
		case OpText:
			text := op.Text
			for len(text) > 0 {
				r, size := utf8.DecodeRune(text)
				text = text[size:]
				s.screen.SetContent(s.col, s.row, r, nil, s.style)
				s.col++
			}
		}
	})
	s.screen.Show()
	return nil
}

func (s *ScreenSurface) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Interrupts is closed once Ctrl-C or Esc is pressed
func (s *ScreenSurface) Interrupts() <-chan struct{} {
	return s.interruptCh
}
