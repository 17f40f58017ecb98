// Package charstream implements the character stream the Mode Machine
// reads from: a thin adapter exposing a source buffer plus one-character
// lookahead, tagged with an absolute index, addressed randomly rather
// than consumed sequentially.
package charstream

// Location names a source for diagnostics. It carries only the name; the
// absolute rune index is kept by Stream (see Pos), since the Mode Machine
// addresses position by index rather than line number.
type Location struct {
	Name string
}

func (loc Location) String() string { return loc.Name }

// Stream holds the full source text as runes plus the current absolute
// index. A single trailing space is appended at construction so that
// terminal constructs whose closing transition requires "a character
// after" are always satisfied at end of file.
type Stream struct {
	Location
	runes []rune
	pos   int
}

// New returns a Stream over src, named for diagnostics.
func New(name, src string) *Stream {
	return &Stream{
		Location: Location{Name: name},
		runes:    []rune(src + " "),
	}
}

// Len returns the number of runes in the augmented buffer.
func (s *Stream) Len() int { return len(s.runes) }

// Pos returns the current absolute index.
func (s *Stream) Pos() int { return s.pos }

// SetPos repositions the stream.
func (s *Stream) SetPos(i int) { s.pos = i }

// At returns the rune at absolute index i and whether i is in range.
func (s *Stream) At(i int) (rune, bool) {
	if i < 0 || i >= len(s.runes) {
		return 0, false
	}
	return s.runes[i], true
}

// Current returns the rune at the current position.
func (s *Stream) Current() (rune, bool) { return s.At(s.pos) }

// Peek returns the rune one past the current position (used by the Mode
// Machine's NULL handler to recognize "/*").
func (s *Stream) Peek() (rune, bool) { return s.At(s.pos + 1) }

// Advance moves the current position forward by one.
func (s *Stream) Advance() { s.pos++ }

// Done reports whether the stream has been fully consumed.
func (s *Stream) Done() bool { return s.pos >= len(s.runes) }
