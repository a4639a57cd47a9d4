// ABOUTME: Linux termios ioctl requests used by the raw-mode controller.
// ABOUTME: TCSETSW commits after output drains and keeps pending input.

//go:build linux

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetAttr      = unix.TCGETS
	ioctlSetAttrDrain = unix.TCSETSW
)
