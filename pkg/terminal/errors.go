// ABOUTME: Sentinel errors for raw mode activation and geometry detection.
// ABOUTME: Callers match them with errors.Is; wrapped causes carry the detail.

package terminal

import "errors"

var (
	// ErrNotATerminal is returned when raw mode is requested on a descriptor
	// that is not an interactive terminal.
	ErrNotATerminal = errors.New("not a tty")

	// ErrAlreadyActive is returned when raw mode is already active on a
	// different descriptor.
	ErrAlreadyActive = errors.New("raw mode already active")

	// ErrGeometryUnavailable is returned when neither the window-size report
	// nor the cursor-position probe yields a screen size.
	ErrGeometryUnavailable = errors.New("screen size unavailable")

	// ErrMalformedReply is returned when the terminal's cursor-position
	// report does not parse.
	ErrMalformedReply = errors.New("malformed cursor position reply")
)
