// ABOUTME: WatchSignals restores the terminal and exits when a terminating signal arrives.
// ABOUTME: Covers abrupt exits that bypass deferred restoration.

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mauromedda/ry-go/internal/log"
)

// terminatingSignals are caught while a session owns the terminal. SIGINT
// only arrives before raw mode is active or when it is sent with kill.
var terminatingSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
}

// WatchSignals blocks until ctx is done or a terminating signal arrives. On a
// signal it runs the exit hooks and exits with 128+signal.
func WatchSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminatingSignals...)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return nil
	case sig := <-sigCh:
		log.Warn("terminal: caught %v, restoring terminal", sig)
		Exit(signalExitCode(sig))
		return nil
	}
}

func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
