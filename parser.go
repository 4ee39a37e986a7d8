package lzend

import (
	"github.com/lzend/lzend/parsing"
	"github.com/lzend/lzend/windex"
)

// Parser drives an online LZ-End parse: window rotation, greedy phrase
// extension, marking discipline, and the absorb-one/absorb-two merge
// optimisations that try to fold the last two emitted phrases into one
// whenever a single longer back-reference covers the same bytes.
//
// Parser is not safe for concurrent use.
type Parser struct {
	cfg Config

	store *parsing.Store

	pending    []byte // bytes written but not yet forming a full window
	prevWindow []byte // the window most recently rotated out, kept for back-references
	base       int    // absolute text position of prevWindow[0] (or of pending[0] if prevWindow is empty)

	markPos map[uint32]int // phrase id -> absolute text position of its end, for ids still in [base, base+len(prevWindow)+len(pending))

	open     bool // whether a phrase is currently being extended
	openLink uint32
	openLen  uint32
	openLast byte

	closed bool
}

// NewParser creates a Parser using cfg.
func NewParser(cfg Config) (*Parser, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Parser{
		cfg:     cfg,
		store:   parsing.New(),
		markPos: make(map[uint32]int),
	}, nil
}

// Store returns the phrase store accumulated so far. The returned Store
// is only guaranteed complete after Close.
func (p *Parser) Store() *parsing.Store { return p.store }

// Write feeds more of the source text into the parser, processing any
// full windows it completes. It returns an error only when called after
// Close.
func (p *Parser) Write(b []byte) (int, error) {
	if p.closed {
		return 0, Error("write after Close")
	}
	n := len(b)
	p.pending = append(p.pending, b...)
	for len(p.pending) >= p.cfg.WindowSize {
		next := p.pending[:p.cfg.WindowSize]
		p.pending = append([]byte(nil), p.pending[p.cfg.WindowSize:]...)
		p.processWindow(next, false)
	}
	return n, nil
}

// Close flushes any partial window and the final in-progress phrase. The
// Parser must not be written to after Close.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.processWindow(p.pending, true)
	p.pending = nil
	return nil
}

// processWindow builds a combined (previous+next) window index, re-marks
// every phrase end still addressable within it, parses next against that
// index, and (if final) flushes the in-progress phrase.
func (p *Parser) processWindow(next []byte, final bool) {
	combinedBase := p.base
	combined := make([]byte, 0, len(p.prevWindow)+len(next))
	combined = append(combined, p.prevWindow...)
	combined = append(combined, next...)

	var idx *windex.Index
	if len(combined) > 0 {
		idx = windex.Build(combined)
		for id, pos := range p.markPos {
			local := pos - combinedBase
			if local < 0 || local >= len(combined) {
				delete(p.markPos, id)
				continue
			}
			idx.Mark(local, id)
		}
	}

	prevLen := len(p.prevWindow)
	for i, c := range next {
		q := prevLen + i
		if !p.open {
			p.startOpen(c)
			continue
		}

		// Query the position of the last byte already folded into the
		// open phrase (q-1), not q itself: a candidate link is only
		// usable if its trailing openLen bytes match text[openStart..q-1]
		// exactly; the byte at q is always appended as a fresh literal.
		// A 0 byte in the text compares equal to the reversed window's
		// sentinel, so lce can exceed the bytes the window holds; both the
		// open phrase and the source must lie inside the window.
		link, lce := idx.MarkedLCP(q - 1)
		if link != 0 && uint32(lce) >= p.openLen && int(p.openLen) <= q &&
			int(p.openLen) <= p.markPos[link]-combinedBase+1 {
			p.openLink = link
			p.openLen++
			p.openLast = c
			continue
		}

		p.emit(idx, combinedBase, q-1)
		p.startOpen(c)
	}

	if final {
		if p.open {
			endLocal := len(combined) - 1
			p.emit(idx, combinedBase, endLocal)
		}
		return
	}

	p.prevWindow = append([]byte(nil), next...)
	p.base = combinedBase + prevLen
	for id, pos := range p.markPos {
		if pos < p.base {
			delete(p.markPos, id)
		}
	}
}

func (p *Parser) startOpen(c byte) {
	p.open = true
	p.openLink = 0
	p.openLen = 1
	p.openLast = c
}

// emit appends the in-progress phrase to the store, marks its end at
// window-local position endLocal in idx, and attempts the two absorb
// optimisations before clearing the in-progress state.
func (p *Parser) emit(idx *windex.Index, combinedBase, endLocal int) {
	p.store.Append(p.openLink, p.openLen, p.openLast)
	id := uint32(p.store.Len())
	idx.Mark(endLocal, id)
	p.markPos[id] = combinedBase + endLocal
	p.attemptAbsorb(idx, combinedBase, endLocal, id)
	p.open = false
}

// attemptAbsorb tries to replace the last two phrases (q, then the
// just-emitted r) with a single phrase of length len(q)+len(r), using
// the best and, failing that, the second-best marked_lcp2 candidate that
// excludes q itself. Every candidate is re-confirmed by comparing
// fingerprints of the source and destination byte ranges before the
// merge is committed.
func (p *Parser) attemptAbsorb(idx *windex.Index, combinedBase, endLocal int, rID uint32) {
	if rID < 2 {
		return
	}
	qID := rID - 1
	qPos, ok := p.markPos[qID]
	if !ok {
		return
	}
	rLen := p.store.Phrase(rID).Len
	qLen := p.store.Phrase(qID).Len
	mergedLen := qLen + rLen
	destStart := endLocal - int(mergedLen) + 1
	if destStart < 0 {
		return
	}

	// The merged phrase copies its first mergedLen-1 bytes from the text
	// ending at its link's end, so the query is made at endLocal-1, just
	// before the final literal byte. The merged phrase takes q's id, so its
	// link must be below qID.
	link1, lce1, link2, lce2 := idx.MarkedLCP2(endLocal-1, qID)

	try := func(link uint32, lce int) bool {
		if link == 0 || link >= qID || uint32(lce) < mergedLen-1 {
			return false
		}
		srcEnd, ok := p.markPos[link]
		if !ok {
			return false
		}
		srcEndLocal := srcEnd - combinedBase
		srcStart := srcEndLocal - int(mergedLen) + 2
		if srcStart < 0 || srcEndLocal >= idx.Size()-1 {
			return false
		}
		if idx.ReverseFP(destStart, endLocal) != idx.ReverseFP(srcStart, srcEndLocal+1) {
			return false
		}

		last := p.store.Phrase(rID).Last
		idx.Unmark(qPos - combinedBase)
		idx.Unmark(endLocal)
		p.store.PopLast()
		p.store.PopLast()
		p.store.Append(link, mergedLen, last)
		mergedID := uint32(p.store.Len())
		idx.Mark(endLocal, mergedID)
		delete(p.markPos, qID)
		delete(p.markPos, rID)
		p.markPos[mergedID] = combinedBase + endLocal
		return true
	}

	if try(link1, lce1) {
		return
	}
	try(link2, lce2)
}
