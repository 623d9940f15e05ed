// Package needle implements the polymorphic pattern matcher the expect
// engine drives against its lookahead buffer: literal bytes, byte-count
// thresholds, regular expressions, EOF, and composed alternatives.
package needle

import (
	"bytes"
	"regexp"
	"sort"
)

// Range is a half-open byte span [Start, End) into the buffer a Needle was
// checked against.
type Range struct {
	Start, End int
}

// Needle locates zero or more non-overlapping matches in buf. eof reports
// whether the stream has been fully observed (no more bytes will ever
// arrive). Implementations must not mutate buf.
//
// New needle variants are added by implementing this single method — no
// class hierarchy, composition happens through Any.
type Needle interface {
	Check(buf []byte, eof bool) []Range
}

// Bytes matches every non-overlapping occurrence of a literal byte string.
type Bytes []byte

func (b Bytes) Check(buf []byte, eof bool) []Range {
	if len(b) == 0 {
		return nil
	}
	var ranges []Range
	offset := 0
	for {
		idx := bytes.Index(buf[offset:], b)
		if idx < 0 {
			return ranges
		}
		start := offset + idx
		end := start + len(b)
		ranges = append(ranges, Range{start, end})
		offset = end
	}
}

// Str is a convenience constructor for a Bytes needle from a string.
func Str(s string) Bytes { return Bytes(s) }

// Regexp matches every non-overlapping leftmost match of a compiled regular
// expression. The stdlib regexp package's FindAllIndex already implements
// "non-overlapping leftmost matches", which is the entirety of the contract
// this needle variant requires.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles pattern into a Regexp needle.
func NewRegexp(pattern string) (Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regexp{}, err
	}
	return Regexp{re: re}, nil
}

// MustRegexp compiles pattern, panicking on error. For needles built from
// constant patterns known at compile time.
func MustRegexp(pattern string) Regexp {
	return Regexp{re: regexp.MustCompile(pattern)}
}

func (r Regexp) Check(buf []byte, eof bool) []Range {
	if r.re == nil {
		return nil
	}
	idx := r.re.FindAllIndex(buf, -1)
	if len(idx) == 0 {
		return nil
	}
	ranges := make([]Range, len(idx))
	for i, pair := range idx {
		ranges[i] = Range{pair[0], pair[1]}
	}
	return ranges
}

// NBytes matches the first n bytes of buf, once at least n bytes are
// available.
type NBytes int

func (n NBytes) Check(buf []byte, eof bool) []Range {
	if len(buf) < int(n) {
		return nil
	}
	return []Range{{0, int(n)}}
}

// EOF matches the entirety of buf, but only once the stream has reached end
// of file.
type eofNeedle struct{}

func (eofNeedle) Check(buf []byte, eof bool) []Range {
	if !eof {
		return nil
	}
	return []Range{{0, len(buf)}}
}

// EOF is the singleton needle matching the whole buffer once the stream
// ends.
var EOF Needle = eofNeedle{}

// Any composes sub-needles: the match set is the union of every sub-needle's
// matches against the same buffer, sorted by start with ties broken by
// declaration order (the sub-needle's index in the slice passed to Any).
type Any []Needle

func (a Any) Check(buf []byte, eof bool) []Range {
	type tagged struct {
		r   Range
		idx int
	}
	var all []tagged
	for i, n := range a {
		for _, r := range n.Check(buf, eof) {
			all = append(all, tagged{r, i})
		}
	}
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].r.Start != all[j].r.Start {
			return all[i].r.Start < all[j].r.Start
		}
		return all[i].idx < all[j].idx
	})
	ranges := make([]Range, len(all))
	for i, t := range all {
		ranges[i] = t.r
	}
	return ranges
}

// Found is the immutable result of a successful match.
type Found struct {
	Buf     []byte
	Matches []Range
}

// Before returns the bytes preceding the first match.
func (f Found) Before() []byte {
	if len(f.Matches) == 0 {
		return f.Buf
	}
	return f.Buf[:f.Matches[0].Start]
}

// First returns the bytes of the first match.
func (f Found) First() []byte {
	if len(f.Matches) == 0 {
		return nil
	}
	m := f.Matches[0]
	return f.Buf[m.Start:m.End]
}

// Match returns the bytes of the i-th match.
func (f Found) Match(i int) []byte {
	m := f.Matches[i]
	return f.Buf[m.Start:m.End]
}

// IsEmpty reports whether no match was found.
func (f Found) IsEmpty() bool {
	return len(f.Matches) == 0
}

// ConsumeCut is the byte offset expect() removes from the stream's
// lookahead on a successful match: matches[0].End for every needle except
// EOF, where it is len(buf) (EOF's own Check already returns {0, len(buf)},
// so this is just matches[0].End — the special case is implicit in how EOF
// constructs its range, not a branch callers need).
func (f Found) ConsumeCut() int {
	if len(f.Matches) == 0 {
		return 0
	}
	return f.Matches[0].End
}
