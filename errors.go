package expectgo

import (
	"errors"
	"fmt"

	"github.com/nick/expectgo/internal/expect"
)

// Kind enumerates the error taxonomy spec.md §7 defines.
type Kind int

const (
	KindIO Kind = iota
	KindExpectTimeout
	KindEOF
	KindParseControl
	KindRegexCompile
	KindWindowSize
	KindCommandParse
	KindProcessAlreadyExited
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindExpectTimeout:
		return "ExpectTimeout"
	case KindEOF:
		return "Eof"
	case KindParseControl:
		return "ParseControl"
	case KindRegexCompile:
		return "RegexCompile"
	case KindWindowSize:
		return "WindowSize"
	case KindCommandParse:
		return "CommandParse"
	case KindProcessAlreadyExited:
		return "ProcessAlreadyExited"
	default:
		return "Unknown"
	}
}

// Error is the error type every public Session operation returns on
// failure. Wrap with fmt.Errorf("...: %w", err) as usual; Kind lets callers
// branch on the taxonomy without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("expect: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("expect: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func newErr(k Kind, err error) *Error { return &Error{Kind: k, Err: err} }

// fromEngineErr translates the internal expect engine's error taxonomy
// (which only distinguishes IO/Timeout/EOF, since it knows nothing about
// command parsing or control codes) into the public Kind enum.
func fromEngineErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case expect.IsErr(err, expect.KindTimeout):
		return newErr(KindExpectTimeout, nil)
	case expect.IsErr(err, expect.KindEOF):
		return newErr(KindEOF, nil)
	default:
		return newErr(KindIO, err)
	}
}
