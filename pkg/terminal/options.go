// ABOUTME: Raw-mode options: the idle read timeout applied through VTIME.
// ABOUTME: Durations are rounded to tenths of a second and clamped to 1..255.

package terminal

import "time"

// DefaultReadTimeout is the idle timeout after which a raw-mode read
// returns with no bytes.
const DefaultReadTimeout = 100 * time.Millisecond

// RawOption configures Activate.
type RawOption func(*rawConfig)

type rawConfig struct {
	vtime uint8
}

func newRawConfig(opts []RawOption) rawConfig {
	cfg := rawConfig{vtime: deciseconds(DefaultReadTimeout)}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithReadTimeout sets the raw-mode idle read timeout. A zero or negative
// duration keeps the default.
func WithReadTimeout(d time.Duration) RawOption {
	return func(c *rawConfig) {
		if d > 0 {
			c.vtime = deciseconds(d)
		}
	}
}

// deciseconds converts d to the VTIME unit.
func deciseconds(d time.Duration) uint8 {
	n := (d + 50*time.Millisecond) / (100 * time.Millisecond)
	switch {
	case n < 1:
		return 1
	case n > 255:
		return 255
	}
	return uint8(n)
}
