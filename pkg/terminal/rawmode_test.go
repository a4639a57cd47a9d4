// ABOUTME: Raw-mode controller tests against real pseudo-terminals from creack/pty.
// ABOUTME: Covers applied flags, bit-for-bit restore, idempotence, timeouts and pending input.

//go:build linux || darwin

package terminal

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Tests in this file share the process-wide controller and must not run in
// parallel.

// openPTY returns the master side and the terminal side of a new pty. The
// master is drained so the terminal's output queue never blocks a drain.
func openPTY(t *testing.T) (*os.File, *os.File) {
	t.Helper()

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(io.Discard, ptmx)
	}()
	t.Cleanup(func() {
		_ = Deactivate()
		_ = tty.Close()
		_ = ptmx.Close()
		<-done
	})
	return ptmx, tty
}

func attrs(t *testing.T, fd int) unix.Termios {
	t.Helper()

	tio, err := unix.IoctlGetTermios(fd, ioctlGetAttr)
	if err != nil {
		t.Fatalf("reading attributes: %v", err)
	}
	return *tio
}

func TestActivate_AppliesRawFlags(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	if _, err := Activate(fd); err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if !Active() {
		t.Fatal("Active() = false after Activate")
	}

	got := attrs(t, fd)
	if got.Iflag&(unix.BRKINT|unix.ICRNL|unix.INPCK|unix.ISTRIP|unix.IXON) != 0 {
		t.Errorf("input flags not cleared: %#x", got.Iflag)
	}
	if got.Oflag&unix.OPOST != 0 {
		t.Errorf("OPOST still set: %#x", got.Oflag)
	}
	if got.Cflag&unix.CS8 != unix.CS8 {
		t.Errorf("CS8 not set: %#x", got.Cflag)
	}
	if got.Lflag&(unix.ECHO|unix.ICANON|unix.IEXTEN|unix.ISIG) != 0 {
		t.Errorf("local flags not cleared: %#x", got.Lflag)
	}
	if got.Cc[unix.VMIN] != 0 || got.Cc[unix.VTIME] != 1 {
		t.Errorf("VMIN/VTIME = %d/%d, want 0/1", got.Cc[unix.VMIN], got.Cc[unix.VTIME])
	}
}

func TestActivate_RoundTripRestoresAttributes(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())
	before := attrs(t, fd)

	raw, err := Activate(fd)
	if err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if err := raw.Deactivate(); err != nil {
		t.Fatalf("Deactivate() unexpected error: %v", err)
	}

	if after := attrs(t, fd); after != before {
		t.Errorf("attributes after round trip = %+v, want %+v", after, before)
	}
	if Active() {
		t.Error("Active() = true after Deactivate")
	}
}

func TestDeactivate_Idempotent(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())
	before := attrs(t, fd)

	raw, err := Activate(fd)
	if err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if err := raw.Deactivate(); err != nil {
		t.Fatalf("first Deactivate() unexpected error: %v", err)
	}
	once := attrs(t, fd)

	if err := raw.Deactivate(); err != nil {
		t.Fatalf("second Deactivate() unexpected error: %v", err)
	}
	if err := Deactivate(); err != nil {
		t.Fatalf("package Deactivate() unexpected error: %v", err)
	}

	if twice := attrs(t, fd); twice != once || twice != before {
		t.Errorf("attributes changed by a repeated Deactivate")
	}
}

func TestActivate_SameDescriptorReturnsHandle(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	first, err := Activate(fd)
	if err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	second, err := Activate(fd)
	if err != nil {
		t.Fatalf("second Activate() unexpected error: %v", err)
	}
	if first != second {
		t.Error("second Activate returned a different handle")
	}
	if first.Fd() != fd {
		t.Errorf("Fd() = %d, want %d", first.Fd(), fd)
	}
}

func TestActivate_OtherDescriptorFails(t *testing.T) {
	_, ttyA := openPTY(t)
	_, ttyB := openPTY(t)

	if _, err := Activate(int(ttyA.Fd())); err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if _, err := Activate(int(ttyB.Fd())); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("Activate() on second tty error = %v, want ErrAlreadyActive", err)
	}
}

func TestActivate_StaleHandleDoesNothing(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	stale, err := Activate(fd)
	if err != nil {
		t.Fatal(err)
	}
	if err := stale.Deactivate(); err != nil {
		t.Fatal(err)
	}
	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}

	if err := stale.Deactivate(); err != nil {
		t.Fatal(err)
	}
	if !Active() {
		t.Error("a stale handle deactivated the live session")
	}
}

func TestActivate_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := Activate(int(r.Fd())); !errors.Is(err, ErrNotATerminal) {
		t.Errorf("Activate(pipe) error = %v, want ErrNotATerminal", err)
	}
	if Active() {
		t.Error("Active() = true after a failed Activate")
	}
}

func TestActivate_ReadTimeoutOption(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	if _, err := Activate(fd, WithReadTimeout(300*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if got := attrs(t, fd).Cc[unix.VTIME]; got != 3 {
		t.Errorf("VTIME = %d, want 3", got)
	}
}

func TestTTYReader_TimeoutThenData(t *testing.T) {
	ptmx, tty := openPTY(t)
	fd := int(tty.Fd())

	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}
	r := NewTTYReader(fd)
	buf := make([]byte, 8)

	start := time.Now()
	n, err := r.Read(buf)
	if err != nil || n != 0 {
		t.Fatalf("Read() on idle tty = (%d, %v), want (0, nil)", n, err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("idle Read took %v", elapsed)
	}

	if _, err := ptmx.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if got := readAtLeast(t, r, 1); got != "x" {
		t.Errorf("Read() = %q, want %q", got, "x")
	}
}

func TestActivate_KeepsPendingInput(t *testing.T) {
	ptmx, tty := openPTY(t)
	fd := int(tty.Fd())

	if _, err := ptmx.Write([]byte("ab\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}

	if got := readAtLeast(t, NewTTYReader(fd), 3); got != "ab\n" {
		t.Errorf("pending input = %q, want %q", got, "ab\n")
	}
}

func TestExit_RestoresTerminal(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())
	before := attrs(t, fd)

	code := -1
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })

	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}
	Exit(3)

	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if Active() {
		t.Error("Active() = true after Exit")
	}
	if after := attrs(t, fd); after != before {
		t.Error("Exit did not restore the attributes")
	}
}

func TestWatchSignals_RestoresTerminalOnSIGTERM(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())
	before := attrs(t, fd)

	codes := isolateExit(t)
	OnExit(func() { _ = Deactivate() })

	// Keeps SIGTERM from killing the test binary before WatchSignals subscribes.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGTERM)
	defer signal.Stop(guard)

	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- WatchSignals(ctx) }()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	var code int
wait:
	for {
		select {
		case code = <-codes:
			break wait
		case <-ticker.C:
			if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
				t.Fatalf("sending SIGTERM: %v", err)
			}
		case <-deadline:
			t.Fatal("WatchSignals did not exit after SIGTERM")
		}
	}

	if err := <-done; err != nil {
		t.Errorf("WatchSignals() = %v, want nil", err)
	}
	if want := 128 + int(syscall.SIGTERM); code != want {
		t.Errorf("exit code = %d, want %d", code, want)
	}
	if Active() {
		t.Error("Active() = true after a terminating signal")
	}
	if after := attrs(t, fd); after != before {
		t.Error("terminating signal did not restore the attributes")
	}
}

func TestDeactivate_FailedRestoreStaysActive(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	if _, err := Activate(fd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		controller.mu.Lock()
		controller.active = nil
		controller.saved = nil
		controller.mu.Unlock()
	})

	if err := tty.Close(); err != nil {
		t.Fatal(err)
	}

	if err := Deactivate(); err == nil {
		t.Fatal("Deactivate() on a closed descriptor succeeded")
	}
	if !Active() {
		t.Error("Active() = false after a failed restore")
	}
	if err := Deactivate(); err == nil {
		t.Error("second Deactivate() did not retry the restore")
	}
}

func TestProcessTerminal_SizeAndRawMode(t *testing.T) {
	_, tty := openPTY(t)
	if err := pty.Setsize(tty, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}

	pt := NewFileTerminal(tty, tty, 0)
	if err := pt.EnterRawMode(); err != nil {
		t.Fatalf("EnterRawMode() unexpected error: %v", err)
	}

	got, err := NewProber(pt).Query()
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if got != (Size{Cols: 80, Rows: 24}) {
		t.Errorf("Query() = %+v, want 80x24", got)
	}

	for range 2 {
		if err := pt.ExitRawMode(); err != nil {
			t.Fatalf("ExitRawMode() unexpected error: %v", err)
		}
	}
	if Active() {
		t.Error("Active() = true after ExitRawMode")
	}
}

// readAtLeast reads from r until n bytes arrive or two seconds pass.
func readAtLeast(t *testing.T, r io.Reader, n int) string {
	t.Helper()

	var got []byte
	buf := make([]byte, 16)
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		m, err := r.Read(buf)
		if err != nil {
			t.Fatalf("Read() unexpected error: %v", err)
		}
		got = append(got, buf[:m]...)
	}
	return string(got)
}
