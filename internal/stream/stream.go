// Package stream wraps a PTY master file descriptor with non-blocking reads
// that surface "would-block"/EOF as distinct outcomes instead of errors, and
// maintains the lookahead buffer the expect engine peeks and consumes.
package stream

import (
	"errors"
	"io"
	"os"
	"syscall"
	"time"
)

// pollInterval bounds how long a single Read call is allowed to block before
// we re-check the deadline. Grounded on the teacher's internal/proctmux
// tty_viewer.go, which polls a PTY master with a 100ms SetReadDeadline in a
// loop; generalized here into the single primitive the expect engine needs:
// "wait until readable, EOF, or deadline, without spinning."
const pollInterval = 50 * time.Millisecond

// PullOutcome describes what happened on a call to Pull.
type PullOutcome int

const (
	// PullRead indicates one or more bytes were appended to the lookahead.
	PullRead PullOutcome = iota
	// PullEOF indicates the underlying source is closed and drained.
	PullEOF
	// PullTimedOut indicates the deadline elapsed with nothing to report.
	PullTimedOut
)

// Stream is what the expect engine needs from a byte source: a peekable,
// consumable lookahead buffer fed by deadline-bounded pulls, plus a plain
// writer for sending input.
type Stream interface {
	// Peek returns a view over the current lookahead buffer. It never
	// advances the buffer and the returned slice must not be retained past
	// the next Pull/Consume call.
	Peek() []byte

	// Consume drops the first n bytes of the lookahead buffer. n must not
	// exceed len(Peek()).
	Consume(n int)

	// Pull attempts to extend the lookahead buffer. It blocks until at
	// least one byte is available, EOF is observed, or deadline passes.
	// A zero deadline means "no deadline" — Pull blocks until a match is
	// possible, i.e. until it has something new to report.
	Pull(deadline time.Time) (PullOutcome, error)

	// Write sends bytes to the underlying sink (the child's stdin).
	Write(p []byte) (int, error)
}

// NonBlocking implements Stream over an *os.File PTY master using
// SetReadDeadline to bound each read attempt.
type NonBlocking struct {
	f        *os.File
	buf      []byte
	consumed int
	eof      bool
}

// New wraps f (expected to be a PTY master, but any *os.File supporting
// SetReadDeadline works) in a NonBlocking stream.
func New(f *os.File) *NonBlocking {
	return &NonBlocking{f: f}
}

// Peek returns the unconsumed tail of the lookahead buffer.
func (s *NonBlocking) Peek() []byte {
	return s.buf[s.consumed:]
}

// Consume drops the first n bytes of the lookahead, compacting the backing
// array once it has drained far enough to be worth it.
func (s *NonBlocking) Consume(n int) {
	if n < 0 || n > len(s.buf)-s.consumed {
		panic("stream: consume out of range")
	}
	s.consumed += n
	if s.consumed == len(s.buf) {
		s.buf = s.buf[:0]
		s.consumed = 0
	} else if s.consumed > 4096 {
		s.buf = append(s.buf[:0], s.buf[s.consumed:]...)
		s.consumed = 0
	}
}

// Pull reads more bytes into the lookahead buffer. It never returns
// PullRead(0): per the expect engine's invariant, a read that observes zero
// new bytes without EOF or timeout is an I/O bug, and Pull surfaces that as
// an error rather than spinning.
func (s *NonBlocking) Pull(deadline time.Time) (PullOutcome, error) {
	if s.eof {
		return PullEOF, nil
	}

	hasDeadline := !deadline.IsZero()

	chunk := make([]byte, 4096)
	for {
		readDeadline := time.Now().Add(pollInterval)
		if hasDeadline && deadline.Before(readDeadline) {
			readDeadline = deadline
		}
		// A read deadline already in the past makes Read fail without
		// looking at the file, so a zero-timeout pull would never pick up
		// bytes that are already waiting; give the read a moment instead.
		if now := time.Now(); !readDeadline.After(now) {
			readDeadline = now.Add(time.Millisecond)
		}
		if err := s.f.SetReadDeadline(readDeadline); err != nil {
			return PullTimedOut, err
		}

		n, err := s.f.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
			return PullRead, nil
		}

		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if hasDeadline && !time.Now().Before(deadline) {
					return PullTimedOut, nil
				}
				continue
			}
			// A PTY master reports EIO once every slave fd is closed,
			// which is its end of file.
			if errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) {
				s.eof = true
				return PullEOF, nil
			}
			return PullTimedOut, err
		}

		// n == 0, err == nil: the OS reported readiness but delivered
		// nothing. Treat as an I/O bug rather than spin-looping.
		return PullTimedOut, ErrReadZero
	}
}

// Write sends p to the PTY master (the child's stdin).
func (s *NonBlocking) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

// ErrReadZero is returned by Pull when the OS reports data ready but the
// subsequent read delivers nothing — an I/O condition the engine refuses to
// spin-retry.
var ErrReadZero = errors.New("stream: read returned 0 bytes with no error or EOF")
