// ABOUTME: Windows stub for ProcessTerminal resize handling.
// ABOUTME: There is no SIGWINCH; WatchResize only waits for the context.

//go:build windows

package terminal

import "context"

// WatchResize blocks until ctx is done; resize events are not reported on
// Windows.
func (t *ProcessTerminal) WatchResize(ctx context.Context, _ func(width, height int)) error {
	<-ctx.Done()
	return nil
}
