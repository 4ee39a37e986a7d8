// Package parsing implements an append-only LZ-End parsing store: phrases
// are appended at the tail, only the tail may be popped or replaced, and
// any suffix of the represented text can be decoded in reverse by
// following phrase links. The reverse-decode walk keeps its LIFO work
// stack as a field on the Store, reused across calls, rather than a
// package-level variable or recursion.
package parsing

import "github.com/lzend/lzend/internal/assert"

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "parsing: " + string(e) }

var (
	errEmpty        = Error("store has no phrases to pop")
	errLinkNotTail   = Error("link must reference an earlier phrase")
	errZeroLength    = Error("phrase length must be positive")
)

// Phrase is an LZ-End phrase: either a literal (Len == 1, Link unused) or
// the concatenation of the text phrase Link decodes to (truncated to
// Len-1 bytes) followed by the literal byte Last.
type Phrase struct {
	Link uint32
	Len  uint32
	Last byte
}

// Store is an append-only sequence of phrases, 1-indexed; index 0 holds
// a phantom phrase (0,0,0) that simplifies link arithmetic for phrases
// whose link has no predecessor to point to.
type Store struct {
	phrases []Phrase
	textLen uint64
	scratch []decodeTask
}

// New creates an empty store (the phantom phrase only).
func New() *Store {
	return &Store{phrases: []Phrase{{}}}
}

// Len returns the number of real phrases (excluding the phantom).
func (s *Store) Len() int { return len(s.phrases) - 1 }

// TextLen returns the total length of the text the parsing represents.
func (s *Store) TextLen() uint64 { return s.textLen }

// Phrase returns the i-th phrase, 1-based. i must be in [0, Len()].
func (s *Store) Phrase(i uint32) Phrase { return s.phrases[i] }

// Append adds a new phrase. Precondition: link < current Len()+1 (i.e.
// link references the phantom phrase or an already-appended one) and
// length > 0.
func (s *Store) Append(link uint32, length uint32, last byte) {
	assert.True(length > 0, string(errZeroLength))
	if int(link) >= len(s.phrases) {
		panic(errLinkNotTail)
	}
	s.phrases = append(s.phrases, Phrase{Link: link, Len: length, Last: last})
	s.textLen += uint64(length)
}

// PopLast removes and returns the last phrase.
func (s *Store) PopLast() Phrase {
	assert.True(len(s.phrases) > 1, string(errEmpty))
	last := s.phrases[len(s.phrases)-1]
	s.phrases = s.phrases[:len(s.phrases)-1]
	s.textLen -= uint64(last.Len)
	return last
}

// ReplaceLast pops the last phrase and appends a new one in its place.
func (s *Store) ReplaceLast(link uint32, length uint32, last byte) {
	s.PopLast()
	s.Append(link, length, last)
}

type decodeTask struct {
	p uint32
	k uint32
}

// DecodeReverseFromEndOf emits the last k bytes of the text ending at the
// end of phrase p, in reverse order, to sink. It stops early if sink
// returns false. The reverse-decode uses a LIFO stack owned by this Store
// (reused across calls), never recursion and never a package-level global.
func (s *Store) DecodeReverseFromEndOf(p uint32, k uint32, sink func(byte) bool) {
	stack := s.scratch[:0]
	stack = append(stack, decodeTask{p, k})

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p, k := t.p, t.k

		assert.True(p >= 1, "decode: phrase id must be >= 1")
		phLen := s.phrases[p].Len
		assert.True(phLen > 0, "decode: phrase length must be positive")

		if k > phLen {
			remain := k - phLen
			stack = append(stack, decodeTask{p - 1, remain})
			k = phLen
		}

		if !sink(s.phrases[p].Last) {
			s.scratch = stack[:0]
			return
		}

		if k > 1 {
			stack = append(stack, decodeTask{s.phrases[p].Link, k - 1})
		}
	}
	s.scratch = stack[:0]
}

// PhraseAt returns the id of the phrase covering text position textPos
// (0-based), by prefix-summing phrase lengths.
func (s *Store) PhraseAt(textPos uint64) uint32 {
	var sum uint64
	for i := 1; i < len(s.phrases); i++ {
		sum += uint64(s.phrases[i].Len)
		if textPos < sum {
			return uint32(i)
		}
	}
	panic("parsing: text position out of range")
}
