package terminal

import (
	"io"
	"os"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Session.Close cannot run normally
func EmergencyReset(w io.Writer) {
	w.Write(seqCursorShow)
	w.Write(seqAltScreenExit)
	w.Write(SeqSGR0)
	w.Write(seqRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
