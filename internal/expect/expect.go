// Package expect implements the buffered, timeout-bounded, pattern-driven
// read loop that sits on top of a stream.Stream: it pulls bytes until a
// needle matches or a deadline/EOF ends the attempt.
package expect

import (
	"context"
	"errors"
	"time"

	"github.com/nick/expectgo/internal/needle"
	"github.com/nick/expectgo/internal/stream"
)

// Kind enumerates the engine's failure modes.
type Kind int

const (
	KindIO Kind = iota
	KindTimeout
	KindEOF
)

// Error is the engine's error type, carrying a Kind plus the underlying
// cause where one exists.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "expect: timeout"
	case KindEOF:
		return "expect: eof"
	default:
		if e.Err != nil {
			return "expect: io: " + e.Err.Error()
		}
		return "expect: io error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func timeoutErr() error  { return &Error{Kind: KindTimeout} }
func eofErr() error      { return &Error{Kind: KindEOF} }
func ioErr(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

// Engine drives a needle against a stream. lastPullEOF tracks, per engine
// instance, whether the most recent Pull
// observed EOF — needed so step (b) of the algorithm gets one more chance to
// match an EOF needle before the loop gives up, exactly as spec.md §4.E
// describes.
type Engine struct {
	s          stream.Stream
	lastPullEOF bool
}

// New wraps s in an Engine.
func New(s stream.Stream) *Engine {
	return &Engine{s: s}
}

// Expect runs the blocking algorithm from spec.md §4.E: pull bytes until n
// matches, EOF ends the attempt without a match, or the deadline passes.
// A zero deadline means "no deadline" (blocks forever for a match).
func (e *Engine) Expect(ctx context.Context, n needle.Needle, deadline time.Time) (needle.Found, error) {
	for {
		buf := e.s.Peek()
		ranges := n.Check(buf, e.lastPullEOF)
		if len(ranges) > 0 {
			found := needle.Found{Buf: append([]byte(nil), buf...), Matches: ranges}
			e.s.Consume(found.ConsumeCut())
			return found, nil
		}
		if e.lastPullEOF {
			return needle.Found{}, eofErr()
		}

		select {
		case <-ctx.Done():
			return needle.Found{}, timeoutErr()
		default:
		}

		pullDeadline := deadline
		if ctxDeadline, ok := ctx.Deadline(); ok && (pullDeadline.IsZero() || ctxDeadline.Before(pullDeadline)) {
			pullDeadline = ctxDeadline
		}

		outcome, err := e.s.Pull(pullDeadline)
		if err != nil {
			return needle.Found{}, ioErr(err)
		}
		switch outcome {
		case stream.PullRead:
			continue
		case stream.PullEOF:
			e.lastPullEOF = true
			continue
		case stream.PullTimedOut:
			return needle.Found{}, timeoutErr()
		}
	}
}

// Check is the non-blocking variant: it takes in whatever is immediately
// available, repeating zero-timeout pulls until one brings nothing new or
// reports EOF, and, if nothing matches, returns an empty Found rather than
// an error. Only IO/EOF conditions surface as errors.
func (e *Engine) Check(n needle.Needle) (needle.Found, error) {
	buf := e.s.Peek()
	ranges := n.Check(buf, e.lastPullEOF)
	if len(ranges) > 0 {
		found := needle.Found{Buf: append([]byte(nil), buf...), Matches: ranges}
		e.s.Consume(found.ConsumeCut())
		return found, nil
	}
	if e.lastPullEOF {
		return needle.Found{}, eofErr()
	}

	outcome, err := e.s.Pull(time.Now())
	for err == nil && outcome == stream.PullRead {
		outcome, err = e.s.Pull(time.Now())
	}
	if err != nil {
		return needle.Found{}, ioErr(err)
	}
	if outcome == stream.PullEOF {
		e.lastPullEOF = true
		buf = e.s.Peek()
		ranges = n.Check(buf, true)
		if len(ranges) > 0 {
			found := needle.Found{Buf: append([]byte(nil), buf...), Matches: ranges}
			e.s.Consume(found.ConsumeCut())
			return found, nil
		}
		return needle.Found{}, eofErr()
	}
	if outcome == stream.PullTimedOut {
		buf = e.s.Peek()
		ranges = n.Check(buf, false)
		if len(ranges) > 0 {
			found := needle.Found{Buf: append([]byte(nil), buf...), Matches: ranges}
			e.s.Consume(found.ConsumeCut())
			return found, nil
		}
	}
	return needle.Found{Buf: append([]byte(nil), buf...)}, nil
}

// IsMatched runs n.Check against the current lookahead with no pulls and
// never consumes.
func (e *Engine) IsMatched(n needle.Needle) bool {
	return len(n.Check(e.s.Peek(), e.lastPullEOF)) > 0
}

// IsEmpty reports whether the lookahead is empty and a zero-timeout pull
// yields nothing.
func (e *Engine) IsEmpty() (bool, error) {
	if len(e.s.Peek()) > 0 {
		return false, nil
	}
	outcome, err := e.s.Pull(time.Now())
	if err != nil {
		return false, ioErr(err)
	}
	switch outcome {
	case stream.PullRead:
		return false, nil
	case stream.PullEOF:
		e.lastPullEOF = true
		return len(e.s.Peek()) == 0, nil
	default:
		return true, nil
	}
}

// IsErr reports whether err is an *Error of the given kind.
func IsErr(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
