// Package suffix builds a static reverse-window index: a suffix array,
// inverse suffix array and LCP array of the reversed window (via
// internal/sais), plus a range-minimum-query structure over the LCP
// array. It is rebuilt once per window rotation and freed in its
// entirety afterward, keeping working memory proportional to the window
// rather than the whole text processed so far.
package suffix

import "github.com/lzend/lzend/internal/sais"

// Index is the static suffix/LCP/RMQ index of a reversed window (the
// window is expected to already carry its trailing 0 sentinel byte).
type Index struct {
	SA  []int
	ISA []int
	LCP []int
	rmq *RMQ
}

// Build computes the suffix array, inverse suffix array, LCP array and RMQ
// structure of reversed (which must already include its sentinel byte).
func Build(reversed []byte) *Index {
	sa, isa, lcp := sais.ComputeAll(reversed)
	return &Index{
		SA:  sa,
		ISA: isa,
		LCP: lcp,
		rmq: BuildRMQ(lcp),
	}
}

// RMQRange returns the length of the longest common prefix shared by every
// suffix whose rank lies in [l-1, r] (inclusive) — i.e. LCP[RMQ(l, r)],
// since LCP[i] compares ranks i-1 and i. l and r are ranks (suffix array
// positions / ISA values), not text positions.
func (ix *Index) RMQRange(l, r int) int {
	if l > r {
		l, r = r, l
	}
	return ix.LCP[ix.rmq.Query(l, r)]
}

// Len returns the length of the indexed (reversed) text, sentinel included.
func (ix *Index) Len() int { return len(ix.SA) }
