// Package windex implements an LZ-End window index: the composition of a
// Karp-Rabin fingerprint view, a reverse-window suffix/LCP/RMQ index, and
// a dynamic marked-position dictionary into the single query surface a
// parser driver needs: IsMarked/Mark/Unmark/MarkedLCP/MarkedLCP2/
// ReverseFP/Size.
package windex

import (
	"github.com/lzend/lzend/fp"
	"github.com/lzend/lzend/internal/assert"
	"github.com/lzend/lzend/marked"
	"github.com/lzend/lzend/suffix"
)

// bucketBits controls the marked dictionary's bucket width (2^bucketBits).
const bucketBits = 12

// Index is built fresh for each window (or double-window) and discarded
// on rotation, keeping the structure's working set proportional to the
// window rather than the whole text processed so far.
type Index struct {
	windowSize int // length of the original (non-reversed) window, without sentinel
	reversed   []byte
	sa         *suffix.Index
	rfp        *fp.View
	marks      *marked.Dict
}

// Build constructs the window index over window. window is copied into the
// reversed-plus-sentinel buffer the suffix/fingerprint structures need;
// the caller's slice is not retained.
func Build(window []byte) *Index {
	n := len(window)
	reversed := make([]byte, n+1)
	for i, c := range window {
		reversed[n-1-i] = c
	}
	reversed[n] = 0 // sentinel: forces the empty suffix to rank 0

	return &Index{
		windowSize: n,
		reversed:   reversed,
		sa:         suffix.Build(reversed),
		rfp:        fp.New(reversed),
		marks:      marked.New(n+1, bucketBits),
	}
}

// Size returns |window|+1, the size of the reversed-window-plus-sentinel
// text.
func (ix *Index) Size() int { return ix.windowSize + 1 }

// posToReverse translates a window-local position into the corresponding
// position in the reversed (sentinel-appended) text.
func (ix *Index) posToReverse(m int) int { return ix.windowSize - 1 - m }

func (ix *Index) rank(m int) int { return ix.sa.ISA[ix.posToReverse(m)] }

// IsMarked reports whether window-local position m is marked.
func (ix *Index) IsMarked(m int) bool {
	return ix.marks.Contains(uint32(ix.rank(m)))
}

// Mark records that window-local position m is the end of phraseID.
// Precondition: m is not already marked.
func (ix *Index) Mark(m int, phraseID uint32) {
	ix.marks.Insert(uint32(ix.rank(m)), phraseID)
}

// Unmark removes the mark at window-local position m.
// Precondition: m is marked.
func (ix *Index) Unmark(m int) {
	ix.marks.Remove(uint32(ix.rank(m)))
}

// MarkedLCP finds, among all marked positions, the one whose reverse-window
// suffix shares the longest common prefix with the suffix at (translated)
// position q, and returns its phrase id and the shared length. If no
// marked position exists, it returns (0, 0) — the phantom phrase 0 id,
// with a zero-length LCE, which the driver treats as "no match".
func (ix *Index) MarkedLCP(q int) (link uint32, lce int) {
	r := ix.rank(q)

	var predLCE, succLCE int
	pred := marked.None
	if r > 0 {
		pred = ix.marks.Predecessor(uint32(r - 1))
		if pred.Exists {
			predLCE = ix.sa.RMQRange(int(pred.Key)+1, r)
		}
	}
	succ := ix.marks.Successor(uint32(r + 1))
	if succ.Exists {
		succLCE = ix.sa.RMQRange(r+1, int(succ.Key))
	}

	// Tie-break toward the predecessor side, deterministically.
	link, lce, chosenRank := succ.Value, succLCE, int(succ.Key)
	if predLCE >= succLCE && pred.Exists {
		link, lce, chosenRank = pred.Value, predLCE, int(pred.Key)
	}

	// A candidate whose fingerprint doesn't confirm the LCP-array-derived
	// length indicates suffix/LCP data corruption, not an expected
	// collision; only checked in debug builds since this runs on every
	// query.
	if assert.Debug {
		assert.True(ix.verifyLCE(r, chosenRank, lce), "marked_lcp length not confirmed by fingerprint")
	}
	return link, lce
}

// verifyLCE cross-checks an LCP-array-derived common-extension length
// against the Karp-Rabin fingerprints of the two suffixes it was derived
// from, at suffix-array ranks rankA and rankB.
func (ix *Index) verifyLCE(rankA, rankB, lce int) bool {
	if lce == 0 {
		return true
	}
	posA := ix.sa.SA[rankA]
	posB := ix.sa.SA[rankB]
	return ix.rfp.SubstringFP(posA, posA+lce-1) == ix.rfp.SubstringFP(posB, posB+lce-1)
}

// MarkedLCP2 behaves like MarkedLCP but also returns a second-best pair
// that excludes any marked position whose phrase id equals exclude. If the
// best candidate on a side is the excluded phrase, that side re-queries its
// next neighbour to fill in the second-best.
func (ix *Index) MarkedLCP2(q int, exclude uint32) (link1 uint32, lce1 int, link2 uint32, lce2 int) {
	r := ix.rank(q)

	var predLCE, succLCE int
	pred := marked.None
	if r > 0 {
		pred = ix.marks.Predecessor(uint32(r - 1))
		if pred.Exists {
			predLCE = ix.sa.RMQRange(int(pred.Key)+1, r)
		}
	}
	succ := ix.marks.Successor(uint32(r + 1))
	if succ.Exists {
		succLCE = ix.sa.RMQRange(r+1, int(succ.Key))
	}

	if predLCE == 0 && succLCE == 0 {
		return 0, 0, 0, 0
	}

	// Tie-break toward the predecessor side, deterministically.
	if predLCE >= succLCE {
		link1, lce1 = pred.Value, predLCE
	} else {
		link1, lce1 = succ.Value, succLCE
	}

	pred2, predLCE2 := pred, predLCE
	if pred2.Exists && pred2.Value == exclude {
		pred2 = marked.None
		if pred.Key > 0 {
			pred2 = ix.marks.Predecessor(pred.Key - 1)
		}
		predLCE2 = 0
		if pred2.Exists {
			predLCE2 = ix.sa.RMQRange(int(pred2.Key)+1, r)
		}
	}

	succ2, succLCE2 := succ, succLCE
	if succ2.Exists && succ2.Value == exclude {
		succ2 = ix.marks.Successor(succ.Key + 1)
		succLCE2 = 0
		if succ2.Exists {
			succLCE2 = ix.sa.RMQRange(r+1, int(succ2.Key))
		}
	}

	if predLCE2 == 0 && succLCE2 == 0 {
		return link1, lce1, 0, 0
	}
	// Tie-break toward the predecessor side, deterministically.
	if predLCE2 >= succLCE2 {
		return link1, lce1, pred2.Value, predLCE2
	}
	return link1, lce1, succ2.Value, succLCE2
}

// ReverseFP returns the Karp-Rabin fingerprint of window[beg:end)
// (window-local, half-open), computed via the reverse-window fingerprint
// view. Requires 0 <= beg <= end <= windowSize.
func (ix *Index) ReverseFP(beg, end int) uint64 {
	if beg == end {
		return 0
	}
	// window[beg:end) occupies reversed[posToReverse(end-1) .. posToReverse(beg)]
	return ix.rfp.SubstringFP(ix.posToReverse(end-1), ix.posToReverse(beg))
}
