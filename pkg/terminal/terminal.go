// ABOUTME: Defines the Terminal interface for raw mode, window size, input and output.
// ABOUTME: Abstracts terminal operations so implementations can target real or virtual terminals.

package terminal

import "io"

// Terminal abstracts the low-level operations a session needs: raw mode,
// the OS window-size report, unbuffered input and output.
//
// Read follows raw-mode polling semantics: (0, nil) means the read timed out
// with no input available, it is not end of stream.
type Terminal interface {
	io.ReadWriter
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
}
