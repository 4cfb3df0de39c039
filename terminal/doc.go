// Package terminal is the display surface the sphere renderer draws on.
//
// The renderer emits a fixed subset of ANSI/VT sequences (clear screen,
// cursor position, printable glyphs). A Surface accepts that byte stream
// and owns the terminal mode needed to show it:
//   - ansi: writes the stream straight to stdout (termios on Unix, console
//     modes on Windows)
//   - tcell: decodes the stream into a tcell.Screen
//
// A Session wraps a Surface so mode restoration happens exactly once, from
// ordinary control flow, whatever ends the run.
package terminal
