package expectgo

import "github.com/nick/expectgo/internal/needle"

// Needle is the pattern type Expect/Check/IsMatched accept. See internal
// needle.Needle for the single-method contract new variants must satisfy.
type Needle = needle.Needle

// Found is the immutable result of a successful match.
type Found = needle.Found

// Bytes matches every non-overlapping occurrence of a literal byte string.
func Bytes(s string) Needle { return needle.Str(s) }

// Regex compiles pattern into a regex needle, returning a RegexCompile
// error on failure.
func Regex(pattern string) (Needle, error) {
	n, err := needle.NewRegexp(pattern)
	if err != nil {
		return nil, newErr(KindRegexCompile, err)
	}
	return n, nil
}

// MustRegex is Regex but panics on a bad pattern, for constant patterns
// known at compile time.
func MustRegex(pattern string) Needle { return needle.MustRegexp(pattern) }

// NBytes matches the first n bytes of the buffer, once available.
func NBytes(n int) Needle { return needle.NBytes(n) }

// Eof matches the entire buffer once the stream has reached end of file.
var Eof Needle = needle.EOF

// Any composes sub-needles: the match set is their union, sorted by start
// with ties broken by declaration order.
func Any(ns ...Needle) Needle { return needle.Any(ns) }
