// ABOUTME: Sentinel errors returned by Session operations.
// ABOUTME: ErrTerminated marks a Ctrl-C whose exit function returned.

package ry

import "errors"

// ErrTerminated is returned by NextKey and NextKeypress when Ctrl-C was read
// and the exit function returned instead of ending the process.
var ErrTerminated = errors.New("terminated by ctrl-c")
