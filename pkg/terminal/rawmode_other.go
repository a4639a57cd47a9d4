// ABOUTME: Raw-mode stubs for platforms without termios.
// ABOUTME: Activation always fails with ErrNotATerminal.

//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd

package terminal

import "errors"

// RawMode is the handle for an active raw-mode session on one descriptor.
type RawMode struct {
	fd int
}

// Activate is not supported on this platform.
func Activate(fd int, opts ...RawOption) (*RawMode, error) {
	_ = newRawConfig(opts)
	return nil, ErrNotATerminal
}

// Deactivate is a no-op on this platform.
func Deactivate() error { return nil }

// Active always reports false on this platform.
func Active() bool { return false }

// Fd returns the descriptor the handle was activated on.
func (r *RawMode) Fd() int { return r.fd }

// Deactivate is a no-op on this platform.
func (r *RawMode) Deactivate() error { return nil }

// TTYReader is unavailable on this platform.
type TTYReader struct {
	fd int
}

// NewTTYReader returns a reader over fd.
func NewTTYReader(fd int) *TTYReader {
	return &TTYReader{fd: fd}
}

// Read always fails on this platform.
func (r *TTYReader) Read(p []byte) (int, error) {
	return 0, errors.ErrUnsupported
}
