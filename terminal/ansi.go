package terminal

import "strconv"

// Sequences understood by Decode and emitted by the backends
var (
	SeqClear = []byte("\x1b[2J")
	SeqHome  = []byte("\x1b[H")
	SeqSGR0  = []byte("\x1b[0m")
	seqRIS   = []byte("\x1bc") // Reset to Initial State (emergency)

	seqCursorHide = []byte("\x1b[?25l")
	seqCursorShow = []byte("\x1b[?25h")

	seqAltScreenEnter = []byte("\x1b[?1049h")
	seqAltScreenExit  = []byte("\x1b[?1049l")
)

// AppendInt appends the decimal form of n without allocating
// Terminal coordinates are small, so the common widths are unrolled
func AppendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 10:
		return append(dst, byte(n)+'0')
	case n < 100:
		return append(dst, byte(n/10)+'0', byte(n%10)+'0')
	case n < 1000:
		return append(dst, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	return strconv.AppendInt(dst, int64(n), 10)
}

// AppendCursorPos appends ESC[row;colH, 1-indexed as the terminal expects
func AppendCursorPos(dst []byte, row, col int) []byte {
	dst = append(dst, 0x1b, '[')
	dst = AppendInt(dst, row)
	dst = append(dst, ';')
	dst = AppendInt(dst, col)
	return append(dst, 'H')
}

// CursorPosLen returns the encoded length of AppendCursorPos(row, col)
func CursorPosLen(row, col int) int {
	return 4 + intLen(row) + intLen(col)
}

func intLen(n int) int {
	if n <= 0 {
		return 1
	}
	l := 0
	for n > 0 {
		l++
		n /= 10
	}
	return l
}
