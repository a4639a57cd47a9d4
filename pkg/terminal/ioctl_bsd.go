// ABOUTME: BSD and Darwin termios ioctl requests used by the raw-mode controller.
// ABOUTME: TIOCSETAW commits after output drains and keeps pending input.

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetAttr      = unix.TIOCGETA
	ioctlSetAttrDrain = unix.TIOCSETAW
)
