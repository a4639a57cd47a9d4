// ABOUTME: Session ties raw mode, the geometry prober and the key decoder to one terminal.
// ABOUTME: ScreenSize and NextKeypress are the primitives handed to the embedding application.

package ry

import (
	"context"
	"fmt"
	"time"

	"github.com/mauromedda/ry-go/internal/log"
	"github.com/mauromedda/ry-go/pkg/key"
	"github.com/mauromedda/ry-go/pkg/terminal"
)

// Session is an open raw-mode terminal. It is not safe for concurrent use;
// one goroutine reads keys and queries the size.
type Session struct {
	term    terminal.Terminal
	prober  *terminal.Prober
	decoder *key.Decoder
	exit    func(code int)
}

// Option configures a Session.
type Option func(*options)

type options struct {
	readTimeout time.Duration
	exit        func(code int)
}

// WithReadTimeout sets the raw-mode idle read timeout used by Open.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

// WithExitFunc replaces the function NextKeypress calls on Ctrl-C. The
// default is terminal.Exit, which restores the terminal first.
func WithExitFunc(fn func(code int)) Option {
	return func(o *options) { o.exit = fn }
}

func buildOptions(opts []Option) options {
	o := options{exit: terminal.Exit}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Open starts a session on the process's stdin and stdout.
func Open(opts ...Option) (*Session, error) {
	o := buildOptions(opts)
	return NewSession(terminal.NewProcessTerminal(o.readTimeout), opts...)
}

// NewSession enters raw mode on t and returns a session over it.
func NewSession(t terminal.Terminal, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	if err := t.EnterRawMode(); err != nil {
		return nil, err
	}
	return &Session{
		term:    t,
		prober:  terminal.NewProber(t),
		decoder: key.NewDecoder(t),
		exit:    o.exit,
	}, nil
}

// ScreenSize returns the terminal width and height in cells.
func (s *Session) ScreenSize() (width, height int, err error) {
	size, err := s.prober.Query()
	if err != nil {
		return 0, 0, fmt.Errorf("screen_size: failed to fetch screen size: %w", err)
	}
	return size.Cols, size.Rows, nil
}

// NextKey blocks until the next key. On Ctrl-C it calls the exit function;
// if that function returns, NextKey reports ErrTerminated.
func (s *Session) NextKey(ctx context.Context) (key.Key, error) {
	k, err := s.decoder.Next(ctx)
	if err != nil {
		return key.Key{}, fmt.Errorf("next_keypress: %w", err)
	}
	if k.Terminates() {
		log.Debug("ry: ctrl-c, terminating")
		s.exit(1)
		return key.Key{}, ErrTerminated
	}
	return k, nil
}

// NextKeypress returns the name of the next key: a fixed name such as "up"
// or "ctrl-d", or the raw byte as a one-byte string.
func (s *Session) NextKeypress(ctx context.Context) (string, error) {
	k, err := s.NextKey(ctx)
	if err != nil {
		return "", err
	}
	return k.Name(), nil
}

// Close leaves raw mode. It is safe to call more than once.
func (s *Session) Close() error {
	return s.term.ExitRawMode()
}
