// ABOUTME: RestoreOnPanic recovers from panics, restores the terminal, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call in the goroutine that owns the terminal.

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

const seqShowCursor = "\x1b[?25h"

// RestoreOnPanic should be deferred at the top of main (or any goroutine
// that owns the terminal). On panic it shows the cursor, exits raw mode via
// t, prints the panic value and stack trace, then exits through Exit so the
// remaining hooks run.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	restoreAfterPanic(t)
	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	Exit(1)
}

// RecoverGoroutine should be deferred at the top of background goroutines
// that run while the terminal is in raw mode. Unlike RestoreOnPanic it does
// not exit, so the main goroutine decides how to shut down.
func RecoverGoroutine(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	restoreAfterPanic(t)
	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}

// RecoverError is RecoverGoroutine for functions with an error result: defer
// it with a pointer to the named result and a panic becomes that error, so
// an errgroup reports the crash instead of a clean return.
func RecoverError(t Terminal, err *error) {
	r := recover()
	if r == nil {
		return
	}

	restoreAfterPanic(t)
	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
	*err = fmt.Errorf("panic: %v", r)
}

func restoreAfterPanic(t Terminal) {
	_, _ = t.Write([]byte(seqShowCursor))
	if err := t.ExitRawMode(); err != nil {
		fmt.Fprintf(os.Stderr, "restoring terminal: %v\n", err)
	}
}
