// ABOUTME: TTYReader reads raw terminal input straight from the descriptor.
// ABOUTME: A zero-byte read is reported as (0, nil): the raw-mode idle timeout expired.

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

// TTYReader reads from a terminal descriptor without the os.File layer, which
// would turn the raw-mode timeout into io.EOF.
type TTYReader struct {
	fd int
}

// NewTTYReader returns a reader over fd.
func NewTTYReader(fd int) *TTYReader {
	return &TTYReader{fd: fd}
}

// Read reads up to len(p) bytes. It returns (0, nil) when the idle timeout
// elapses with nothing to read.
func (r *TTYReader) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(r.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, nil
		default:
			return 0, err
		}
	}
}
