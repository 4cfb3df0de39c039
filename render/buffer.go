package render

import (
	"github.com/lixenwraith/vt-sphere/terminal"
)

// InitialCapacity is the starting size of a frame's command buffer
const InitialCapacity = 1024

// CommandBuffer accumulates one frame of escape sequences so the frame
// reaches the terminal in a single write
// Grows by doubling; Grows reports how many reallocations happened
type CommandBuffer struct {
	buf   []byte
	grows int
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{buf: make([]byte, 0, InitialCapacity)}
}

// reserve ensures room for n more bytes
func (b *CommandBuffer) reserve(n int) {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return
	}
	newCap := cap(b.buf)
	if newCap == 0 {
		newCap = InitialCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
	b.grows++
}

// Clear appends the full-screen clear
func (b *CommandBuffer) Clear() {
	b.reserve(len(terminal.SeqClear))
	b.buf = append(b.buf, terminal.SeqClear...)
}

// Cell appends a cursor move to (row, col) followed by glyph, 1-indexed
func (b *CommandBuffer) Cell(row, col int, glyph byte) {
	b.reserve(terminal.CursorPosLen(row, col) + 1)
	b.buf = terminal.AppendCursorPos(b.buf, row, col)
	b.buf = append(b.buf, glyph)
}

// Status appends text at the top-left corner
func (b *CommandBuffer) Status(text string) {
	b.reserve(terminal.CursorPosLen(1, 1) + len(text))
	b.buf = terminal.AppendCursorPos(b.buf, 1, 1)
	b.buf = append(b.buf, text...)
}

// Bytes returns the accumulated frame; valid until the next append
func (b *CommandBuffer) Bytes() []byte { return b.buf }

func (b *CommandBuffer) Len() int   { return len(b.buf) }
func (b *CommandBuffer) Cap() int   { return cap(b.buf) }
func (b *CommandBuffer) Grows() int { return b.grows }
