// ABOUTME: Unix-specific SIGWINCH handling for ProcessTerminal resize events.
// ABOUTME: WatchResize re-reads the window size on each signal until the context ends.

//go:build unix

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize calls fn with the new window size on every SIGWINCH. It blocks
// until ctx is done.
func (t *ProcessTerminal) WatchResize(ctx context.Context, fn func(width, height int)) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			w, h, err := t.Size()
			if err != nil {
				continue
			}
			fn(w, h)
		}
	}
}
