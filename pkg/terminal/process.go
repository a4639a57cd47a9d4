// ABOUTME: ProcessTerminal implements Terminal over the process's stdin and stdout.
// ABOUTME: Raw mode goes through the controller; reads bypass os.File to keep timeout semantics.

package terminal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by an input and an output file,
// normally os.Stdin and os.Stdout.
type ProcessTerminal struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	reader  *TTYReader
	timeout time.Duration

	mu  sync.Mutex
	raw *RawMode
}

// NewProcessTerminal returns a ProcessTerminal on os.Stdin and os.Stdout.
func NewProcessTerminal(timeout time.Duration) *ProcessTerminal {
	return NewFileTerminal(os.Stdin, os.Stdout, timeout)
}

// NewFileTerminal returns a ProcessTerminal on the given files. timeout is
// the raw-mode idle read timeout; zero means DefaultReadTimeout.
func NewFileTerminal(in, out *os.File, timeout time.Duration) *ProcessTerminal {
	inFd := int(in.Fd())
	return &ProcessTerminal{
		in:      in,
		out:     out,
		inFd:    inFd,
		outFd:   int(out.Fd()),
		reader:  NewTTYReader(inFd),
		timeout: timeout,
	}
}

// EnterRawMode switches the input terminal to raw mode.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := Activate(t.inFd, WithReadTimeout(t.timeout))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.raw = raw
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.raw == nil {
		return nil
	}
	if err := t.raw.Deactivate(); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.raw = nil
	return nil
}

// Size returns the window size the OS reports for the output terminal.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(t.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Read reads raw input; (0, nil) means the idle timeout elapsed.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	return t.reader.Read(p)
}

// Write sends bytes to the output file.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}
