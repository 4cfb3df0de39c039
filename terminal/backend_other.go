//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package terminal

func newANSISurface() (Surface, error) {
	return nil, ErrUnsupported
}

func resetTerminalMode() {}
