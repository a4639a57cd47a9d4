// ABOUTME: Decoder turns a raw-mode byte stream into Keys, one event per call.
// ABOUTME: A zero-byte read is a timeout: bare ESC and truncated sequences decode as Escape.

package key

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mauromedda/ry-go/internal/log"
)

// Decoder reads keys from r. r must follow raw-mode polling semantics: a
// read that returns (0, nil) means no byte arrived before the idle timeout.
// The decoder keeps no state between calls.
type Decoder struct {
	r   io.Reader
	buf [1]byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks until a key is decoded. Timeouts between keys are retried and
// ctx is checked before each poll. Unrecognized escape sequences are dropped
// and decoding resumes with the next byte. Read errors are returned as is,
// wrapped; the caller should treat them as fatal.
func (d *Decoder) Next(ctx context.Context) (Key, error) {
	for {
		b, err := d.waitByte(ctx)
		if err != nil {
			return Key{}, err
		}
		if b != esc {
			return FromByte(b), nil
		}

		k, ok, err := d.escape()
		if err != nil {
			return Key{}, err
		}
		if ok {
			return k, nil
		}
	}
}

// waitByte polls until a byte arrives.
func (d *Decoder) waitByte(ctx context.Context) (byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := d.r.Read(d.buf[:])
		if n == 1 {
			return d.buf[0], nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}
	}
}

// followByte reads one byte of an escape sequence. ok is false when the
// read timed out or the input ended.
func (d *Decoder) followByte() (b byte, ok bool, err error) {
	n, err := d.r.Read(d.buf[:])
	if n == 1 {
		return d.buf[0], true, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, false, fmt.Errorf("reading escape sequence: %w", err)
	}
	return 0, false, nil
}

// escape decodes the bytes after an ESC. ok is false when the sequence was
// consumed but not recognized.
func (d *Decoder) escape() (k Key, ok bool, err error) {
	escape := Key{Type: KeyEscape}

	first, ok, err := d.followByte()
	if err != nil || !ok {
		return escape, err == nil, err
	}
	second, ok, err := d.followByte()
	if err != nil || !ok {
		return escape, err == nil, err
	}

	switch first {
	case '[':
		if second >= '0' && second <= '9' {
			third, ok, err := d.followByte()
			if err != nil || !ok {
				return escape, err == nil, err
			}
			if t, found := csiTildeKeys[second]; found && third == '~' {
				return Key{Type: t}, true, nil
			}
			log.Debug("key: dropped sequence ESC [ %c %c", second, third)
			return Key{}, false, nil
		}
		if t, found := csiKeys[second]; found {
			return Key{Type: t}, true, nil
		}
	case 'O':
		if t, found := ss3Keys[second]; found {
			return Key{Type: t}, true, nil
		}
	}

	log.Debug("key: dropped sequence ESC %c %c", first, second)
	return Key{}, false, nil
}
