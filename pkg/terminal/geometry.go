// ABOUTME: Geometry prober: window-size report first, cursor-position probe as fallback.
// ABOUTME: The fallback needs raw mode; it moves the cursor to 999;999 and reads the clamped position.

package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mauromedda/ry-go/internal/log"
)

const (
	seqReportCursor = "\x1b[6n"
	seqFarCorner    = "\x1b[999C\x1b[999B"

	// maxReplyLen bounds the cursor-position reply, terminator excluded.
	maxReplyLen = 31
)

// Size is a terminal geometry in character cells.
type Size struct {
	Cols int
	Rows int
}

// Prober determines the screen size of a terminal.
type Prober struct {
	// In and Out are the raw terminal streams used by the fallback path.
	In  io.Reader
	Out io.Writer

	// Winsize asks the OS for the window size. A nil Winsize, an error or a
	// zero dimension sends Query to the fallback path.
	Winsize func() (cols, rows int, err error)
}

// NewProber returns a Prober over t, using t.Size as the fast path.
func NewProber(t Terminal) *Prober {
	return &Prober{In: t, Out: t, Winsize: t.Size}
}

// Query returns the current screen size.
func (p *Prober) Query() (Size, error) {
	if p.Winsize != nil {
		cols, rows, err := p.Winsize()
		if err == nil && cols > 0 && rows > 0 {
			return Size{Cols: cols, Rows: rows}, nil
		}
		log.Debug("geometry: window size unavailable (%dx%d, err=%v), probing cursor", cols, rows, err)
	}

	size, err := p.probe()
	if err != nil {
		return Size{}, fmt.Errorf("%w: %w", ErrGeometryUnavailable, err)
	}
	return size, nil
}

func (p *Prober) probe() (Size, error) {
	origRow, origCol, err := CursorPosition(p.In, p.Out)
	if err != nil {
		return Size{}, err
	}

	if _, err := io.WriteString(p.Out, seqFarCorner); err != nil {
		return Size{}, fmt.Errorf("moving cursor: %w", err)
	}
	rows, cols, err := CursorPosition(p.In, p.Out)
	if err != nil {
		return Size{}, err
	}

	// Best effort: the size is valid even if the cursor stays in the corner.
	if _, err := fmt.Fprintf(p.Out, "\x1b[%d;%dH", origRow, origCol); err != nil {
		log.Debug("geometry: restoring cursor: %v", err)
	}
	return Size{Cols: cols, Rows: rows}, nil
}

// CursorPosition asks the terminal where the cursor is and parses the
// ESC [ row ; col R reply from in. The reply is read one byte at a time until
// the terminator, a read timeout or the length limit.
func CursorPosition(in io.Reader, out io.Writer) (row, col int, err error) {
	if _, err := io.WriteString(out, seqReportCursor); err != nil {
		return 0, 0, fmt.Errorf("requesting cursor position: %w", err)
	}

	var buf [maxReplyLen]byte
	n := 0
	terminated := false
	for n < len(buf) {
		m, rerr := in.Read(buf[n : n+1])
		if m == 1 {
			if buf[n] == 'R' {
				terminated = true
				break
			}
			n++
		}
		if m == 0 || rerr != nil {
			break
		}
	}
	return parseCursorReply(buf[:n], terminated)
}

func parseCursorReply(reply []byte, terminated bool) (row, col int, err error) {
	if !terminated {
		return 0, 0, fmt.Errorf("%w: unterminated reply %q", ErrMalformedReply, reply)
	}
	if len(reply) < 2 || reply[0] != 0x1b || reply[1] != '[' {
		return 0, 0, fmt.Errorf("%w: bad prefix in %q", ErrMalformedReply, reply)
	}

	rowStr, colStr, ok := strings.Cut(string(reply[2:]), ";")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing separator in %q", ErrMalformedReply, reply)
	}
	row, rowErr := strconv.Atoi(rowStr)
	col, colErr := strconv.Atoi(colStr)
	if rowErr != nil || colErr != nil || row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("%w: bad position in %q", ErrMalformedReply, reply)
	}
	return row, col, nil
}
