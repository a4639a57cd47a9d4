// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Scripted input with timeouts, captured output, and cursor-position replies.

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// VirtualTerminal is a fake Terminal for unit tests. Input is scripted with
// Feed and FeedTimeout; once the script is exhausted Read returns io.EOF.
// Output is captured and the cursor movement and position-report sequences
// in it are interpreted, so the cursor-position probe can run against it.
type VirtualTerminal struct {
	mu         sync.Mutex
	out        bytes.Buffer
	input      []inputChunk
	width      int
	height     int
	row        int
	col        int
	reportSize bool
	answer     bool
	reply      string
	rawMode    bool
	enterCount int
	exitCount  int
}

type inputChunk struct {
	data    []byte
	timeout bool
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions,
// the cursor at the top-left cell, and cursor-position reports enabled.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	return &VirtualTerminal{
		width:      width,
		height:     height,
		row:        1,
		col:        1,
		reportSize: true,
		answer:     true,
	}
}

// EnterRawMode records a raw-mode entry.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = true
	v.enterCount++
	return nil
}

// ExitRawMode records a raw-mode exit. It is a no-op when raw mode is off.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.rawMode {
		return nil
	}
	v.rawMode = false
	v.exitCount++
	return nil
}

// Size returns the configured dimensions, or zeros when the size report is
// disabled.
func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.reportSize {
		return 0, 0, nil
	}
	return v.width, v.height, nil
}

// Read returns the next scripted bytes. A scripted timeout yields (0, nil).
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for len(v.input) > 0 {
		c := &v.input[0]
		if c.timeout {
			v.input = v.input[1:]
			return 0, nil
		}
		if len(c.data) == 0 {
			v.input = v.input[1:]
			continue
		}
		n := copy(p, c.data)
		c.data = c.data[n:]
		if len(c.data) == 0 {
			v.input = v.input[1:]
		}
		return n, nil
	}
	return 0, io.EOF
}

// Write captures p and interprets the control sequences in it.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	v.interpret(p)
	return n, nil
}

// --- Test helpers (not part of Terminal interface) ---

// Feed appends s to the scripted input.
func (v *VirtualTerminal) Feed(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, inputChunk{data: []byte(s)})
}

// FeedTimeout appends a read timeout to the scripted input.
func (v *VirtualTerminal) FeedTimeout() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, inputChunk{timeout: true})
}

// Pending returns the number of scripted bytes not yet read.
func (v *VirtualTerminal) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := 0
	for _, c := range v.input {
		n += len(c.data)
	}
	return n
}

// DisableSizeReport makes Size report zero dimensions, as a terminal that
// does not answer the window-size ioctl would.
func (v *VirtualTerminal) DisableSizeReport() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reportSize = false
}

// DisableCursorReport stops answering cursor-position requests.
func (v *VirtualTerminal) DisableCursorReport() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.answer = false
}

// SetCursorReply replaces every cursor-position answer with reply verbatim.
func (v *VirtualTerminal) SetCursorReply(reply string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reply = reply
}

// SetCursor moves the simulated cursor (1-based).
func (v *VirtualTerminal) SetCursor(row, col int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.row, v.col = row, col
}

// Cursor returns the simulated cursor position (1-based).
func (v *VirtualTerminal) Cursor() (row, col int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.row, v.col
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.out.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.out.Reset()
}

// IsRawMode reports whether raw mode is currently active.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.rawMode
}

// EnterCount returns how many times EnterRawMode was called.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times raw mode was actually exited.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}

// SetSize updates the terminal dimensions.
func (v *VirtualTerminal) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
}

// interpret applies the CSI sequences in p: cursor forward (C), cursor down
// (B), cursor position (H) and device status report (6n).
func (v *VirtualTerminal) interpret(p []byte) {
	for i := 0; i+1 < len(p); i++ {
		if p[i] != 0x1b || p[i+1] != '[' {
			continue
		}
		j := i + 2
		for j < len(p) && (p[j] == ';' || (p[j] >= '0' && p[j] <= '9')) {
			j++
		}
		if j >= len(p) {
			return
		}
		v.apply(p[j], string(p[i+2:j]))
		i = j
	}
}

func (v *VirtualTerminal) apply(final byte, params string) {
	switch final {
	case 'n':
		if params != "6" || !v.answer {
			return
		}
		reply := v.reply
		if reply == "" {
			reply = fmt.Sprintf("\x1b[%d;%dR", v.row, v.col)
		}
		v.input = append(v.input, inputChunk{data: []byte(reply)})
	case 'C':
		v.col = clamp(v.col+count(params), 1, v.width)
	case 'B':
		v.row = clamp(v.row+count(params), 1, v.height)
	case 'H':
		r, c, _ := strings.Cut(params, ";")
		v.row = clamp(count(r), 1, v.height)
		v.col = clamp(count(c), 1, v.width)
	}
}

// count parses a CSI numeric parameter; empty or zero means 1.
func count(param string) int {
	n, err := strconv.Atoi(param)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}
