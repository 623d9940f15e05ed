//go:build unix

// Package interact implements the bridge that puts the host terminal in raw
// mode and forwards bytes between it and a child PTY until an escape code is
// typed or the child exits.
package interact

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/nick/expectgo/internal/ptyproc"
	"github.com/nick/expectgo/internal/stream"
)

// DefaultEscape is Control-], the conventional terminal escape byte and this
// bridge's default.
const DefaultEscape = 0x1D

// ErrNotATerminal is returned when host is not a real terminal; raw-mode
// ioctls on a non-tty fd are a silent no-op and would leave the user unable
// to tell interact() is even running.
var ErrNotATerminal = errors.New("interact: host is not a terminal")

// Run bridges the user's terminal with proc's PTY until the user types
// escape or proc exits: keystrokes are read from host (normally os.Stdin)
// and the child's output is written to os.Stdout. Host termios is always
// restored before Run returns, on every exit path. st is the Session's own
// stream: any bytes it already pulled into its lookahead (from a prior
// Check/Expect miss) but never consumed are flushed to os.Stdout before the
// raw-fd drain starts, so no
// byte the stream already holds is stranded or reordered (spec.md §5's
// "no byte is lost" cancellation invariant).
//
// Grounded on the teacher's internal/process/pty.go MakeRawInput/
// RestoreTerminal pair — the same termios ioctls, applied to the host's
// stdin fd instead of a child PTY master — combined with the "drain two
// directions concurrently, stop on escape or exit" loop spec.md §4.G
// describes.
func Run(ctx context.Context, host *os.File, proc *ptyproc.Process, st stream.Stream, escape byte) error {
	fd := int(host.Fd())
	if !isatty.IsTerminal(uintptr(fd)) {
		return ErrNotATerminal
	}

	oldState, err := makeRawInput(fd)
	if err != nil {
		return err
	}
	defer restoreTerminal(fd, oldState)

	if st != nil {
		if pending := st.Peek(); len(pending) > 0 {
			if _, err := os.Stdout.Write(pending); err != nil {
				return err
			}
			st.Consume(len(pending))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		errCh <- drainHostToChild(ctx, host, proc, escape)
	}()
	go func() {
		errCh <- drainChildToHost(ctx, proc)
	}()
	go func() {
		proc.Wait()
		cancel()
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && firstErr == nil && !errors.Is(err, context.Canceled) {
			firstErr = err
		}
		// Whichever drain finishes first (escape typed, EOF, or an error)
		// ends the session, so stop the other one as well.
		cancel()
	}
	return firstErr
}

func drainHostToChild(ctx context.Context, host *os.File, proc *ptyproc.Process, escape byte) error {
	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = host.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		n, err := host.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if idx := indexByte(chunk, escape); idx >= 0 {
				if idx > 0 {
					if _, werr := proc.File.Write(chunk[:idx]); werr != nil {
						return werr
					}
				}
				return nil
			}
			if _, werr := proc.File.Write(chunk); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func drainChildToHost(ctx context.Context, proc *ptyproc.Process) error {
	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = proc.File.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		n, err := proc.File.Read(buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			// EIO is how the PTY master reports that the child side closed.
			if errors.Is(err, io.EOF) || errors.Is(err, unix.EIO) {
				return nil
			}
			return err
		}
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func makeRawInput(fd int) (*unix.Termios, error) {
	oldState, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}

	newState := *oldState
	newState.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	newState.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	newState.Cflag &^= unix.CSIZE | unix.PARENB
	newState.Cflag |= unix.CS8
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &newState); err != nil {
		return nil, err
	}
	return oldState, nil
}

func restoreTerminal(fd int, oldState *unix.Termios) {
	if oldState == nil {
		return
	}
	_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, oldState)
}
