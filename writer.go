package lzend

import (
	"hash/crc32"
	"io"

	"github.com/dsnet/golib/hashutil"
	"github.com/lzend/lzend/parsing"
)

const (
	flagLiteral = 0
	flagBackref = 1
	flagTrailer = 0xFF
)

// Writer encodes a byte stream as an LZ-End phrase stream: a Parser drives
// the parse, and already-final phrases (every phrase except the last two,
// which absorb-one/absorb-two may still rewrite) are flushed to the
// underlying writer as soon as they can no longer change.
//
// Unless cfg.DisableCRC is set, Writer appends a trailer record after the
// final phrase: flag byte 0xFF, a LEB128 total decoded length, and a
// little-endian CRC-32 (IEEE) of the decoded text, accumulated
// incrementally per phrase via hashutil.CombineCRC32 rather than a second
// pass over the text.
type Writer struct {
	wr  io.Writer
	cfg Config
	p   *Parser

	flushed  int // number of phrases already written to wr
	crc      uint32
	crcKnown bool
	err      error
}

// NewWriter creates a Writer with cfg. The caller must call Close when
// done to flush the final phrases and (if enabled) the integrity trailer.
func NewWriter(wr io.Writer, cfg Config) (*Writer, error) {
	p, err := NewParser(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{wr: wr, cfg: cfg, p: p, crcKnown: true}, nil
}

// Write parses more of the source text and flushes any phrases that are
// now guaranteed final.
func (w *Writer) Write(b []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, _ = w.p.Write(b)
	if err := w.flushReady(); err != nil {
		w.err = err
		return n, err
	}
	return n, nil
}

// flushReady writes every phrase up to, but not including, the last two
// (absorb-one/absorb-two can only ever rewrite those).
func (w *Writer) flushReady() error {
	store := w.p.Store()
	for w.flushed < store.Len()-2 {
		w.flushed++
		if err := w.writePhrase(store, uint32(w.flushed)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writePhrase(store *parsing.Store, id uint32) error {
	ph := store.Phrase(id)
	var buf []byte
	if ph.Len == 1 {
		buf = append(buf, flagLiteral, ph.Last)
	} else {
		buf = append(buf, flagBackref)
		buf = putUvarint(buf, uint64(ph.Link))
		buf = putUvarint(buf, uint64(ph.Len))
		buf = append(buf, ph.Last)
	}
	if _, err := w.wr.Write(buf); err != nil {
		return err
	}
	if !w.cfg.DisableCRC {
		phraseBytes := decodePhrase(store, id)
		phraseCRC := crc32.ChecksumIEEE(phraseBytes)
		w.crc = hashutil.CombineCRC32(crc32.IEEE, w.crc, phraseCRC, int64(len(phraseBytes)))
	}
	return nil
}

// Close flushes every remaining phrase, the integrity trailer (unless
// disabled), and renders the Writer unusable for further writes.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if err := w.p.Close(); err != nil {
		return err
	}
	store := w.p.Store()
	for w.flushed < store.Len() {
		w.flushed++
		if err := w.writePhrase(store, uint32(w.flushed)); err != nil {
			return err
		}
	}
	if w.cfg.DisableCRC {
		return nil
	}
	var trailer []byte
	trailer = append(trailer, flagTrailer)
	trailer = putUvarint(trailer, uint64(store.TextLen()))
	trailer = append(trailer,
		byte(w.crc), byte(w.crc>>8), byte(w.crc>>16), byte(w.crc>>24))
	_, err := w.wr.Write(trailer)
	return err
}

// decodePhrase returns the decoded bytes of phrase id alone, in forward
// order, by reverse-decoding exactly its own length and flipping the
// result.
func decodePhrase(store *parsing.Store, id uint32) []byte {
	ph := store.Phrase(id)
	out := make([]byte, 0, ph.Len)
	store.DecodeReverseFromEndOf(id, ph.Len, func(b byte) bool {
		out = append(out, b)
		return true
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
