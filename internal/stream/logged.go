package stream

import "time"

// Logged wraps a Stream and tees every byte that passes through a read or a
// write to sink, best-effort: a sink failure never fails the underlying
// operation.
//
// Grounded on internal/buffer.RingBuffer's io.Writer contract in the
// teacher ("Always returns len(p), nil... This ensures writes never fail"),
// generalized from a fixed-capacity scrollback buffer to an arbitrary sink.
type Logged struct {
	inner Stream
	sink  writer
}

type writer interface {
	Write(p []byte) (int, error)
}

// NewLogged wraps inner, teeing all read/write traffic to sink.
func NewLogged(inner Stream, sink writer) *Logged {
	return &Logged{inner: inner, sink: sink}
}

func (l *Logged) Peek() []byte { return l.inner.Peek() }

func (l *Logged) Consume(n int) { l.inner.Consume(n) }

// Pull tees any newly-appended bytes to the sink after a successful read.
func (l *Logged) Pull(deadline time.Time) (PullOutcome, error) {
	before := len(l.inner.Peek())
	outcome, err := l.inner.Pull(deadline)
	if outcome == PullRead {
		after := l.inner.Peek()
		if n := len(after) - before; n > 0 {
			l.tee(after[before:])
		}
	}
	return outcome, err
}

func (l *Logged) Write(p []byte) (int, error) {
	n, err := l.inner.Write(p)
	if n > 0 {
		l.tee(p[:n])
	}
	return n, err
}

func (l *Logged) tee(p []byte) {
	if l.sink == nil {
		return
	}
	_, _ = l.sink.Write(p)
}
