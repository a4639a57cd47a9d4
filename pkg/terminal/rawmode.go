// ABOUTME: Raw-mode controller: captures the terminal attributes once and applies the raw set.
// ABOUTME: Restoration is idempotent and registered as a process exit hook.

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package terminal

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/mauromedda/ry-go/internal/log"
)

// controller is the process-wide raw-mode state. saved is the snapshot taken
// before the first mutation. A failed restore leaves both saved and active in
// place, so raw mode still reads as active and a later Deactivate retries.
var controller struct {
	mu     sync.Mutex
	fd     int
	saved  *unix.Termios
	active *RawMode
}

var registerRestoreHook sync.Once

// RawMode is the handle for an active raw-mode session on one descriptor.
type RawMode struct {
	fd int
}

// Activate switches the terminal on fd into raw mode. If raw mode is already
// active on fd the live handle is returned unchanged.
func Activate(fd int, opts ...RawOption) (*RawMode, error) {
	cfg := newRawConfig(opts)

	if !term.IsTerminal(fd) {
		return nil, ErrNotATerminal
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.active != nil {
		if controller.fd == fd {
			return controller.active, nil
		}
		return nil, fmt.Errorf("%w on fd %d", ErrAlreadyActive, controller.fd)
	}

	registerRestoreHook.Do(func() {
		OnExit(func() { _ = Deactivate() })
	})

	if controller.saved == nil {
		orig, err := unix.IoctlGetTermios(fd, ioctlGetAttr)
		if err != nil {
			return nil, fmt.Errorf("%w: reading attributes: %w", ErrNotATerminal, err)
		}
		controller.saved = orig
	}

	raw := makeRaw(*controller.saved, cfg.vtime)
	if err := unix.IoctlSetTermios(fd, ioctlSetAttrDrain, &raw); err != nil {
		return nil, fmt.Errorf("%w: applying raw attributes: %w", ErrNotATerminal, err)
	}

	controller.fd = fd
	controller.active = &RawMode{fd: fd}
	log.Debug("terminal: raw mode on fd %d (vtime=%d)", fd, cfg.vtime)
	return controller.active, nil
}

// Deactivate restores the saved attributes if raw mode is active. It is a
// no-op otherwise.
func Deactivate() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	return deactivateLocked()
}

// Active reports whether raw mode is currently active.
func Active() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	return controller.active != nil
}

// Fd returns the descriptor the handle was activated on.
func (r *RawMode) Fd() int {
	return r.fd
}

// Deactivate restores the terminal. Calling it on a handle that is no longer
// active does nothing.
func (r *RawMode) Deactivate() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.active != r {
		return nil
	}
	return deactivateLocked()
}

func deactivateLocked() error {
	if controller.active == nil {
		return nil
	}
	fd := controller.fd

	// Stay active on failure so the exit hook tries again.
	if err := unix.IoctlSetTermios(fd, ioctlSetAttrDrain, controller.saved); err != nil {
		return fmt.Errorf("restoring attributes on fd %d: %w", fd, err)
	}
	controller.active = nil
	controller.saved = nil
	log.Debug("terminal: restored attributes on fd %d", fd)
	return nil
}

// makeRaw returns a copy of t with the raw-mode flags applied: no break
// signal, CR translation, parity check, stripping or flow control on input;
// no output post-processing; 8-bit characters; no echo, canonical mode,
// extended processing or signal characters; reads return after vtime tenths
// of a second with zero or more bytes.
func makeRaw(t unix.Termios, vtime uint8) unix.Termios {
	t.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Cflag |= unix.CS8
	t.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = vtime
	return t
}
