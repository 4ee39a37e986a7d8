package lzend

import (
	"bytes"
	"testing"

	"github.com/lzend/lzend/internal/testutil"
)

func encodeDecode(t *testing.T, cfg Config, text []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, cfg)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write(text); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err := DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	return got
}

func TestRoundTripSmallWindow(t *testing.T) {
	cfg := Config{WindowSize: 8}
	text := []byte("ababbbabbabbbabbaa")
	got := encodeDecode(t, cfg, text)
	if !bytes.Equal(got, text) {
		t.Fatalf("round trip = %q, want %q", got, text)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	cfg := DefaultConfig()
	got := encodeDecode(t, cfg, nil)
	if len(got) != 0 {
		t.Fatalf("round trip of empty input = %q, want empty", got)
	}
}

func TestRoundTripSingleByte(t *testing.T) {
	cfg := Config{WindowSize: 4}
	got := encodeDecode(t, cfg, []byte("x"))
	if string(got) != "x" {
		t.Fatalf("round trip = %q, want %q", got, "x")
	}
}

func TestRoundTripAcrossWindowBoundaries(t *testing.T) {
	cfg := Config{WindowSize: 16}
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 20)
	got := encodeDecode(t, cfg, text)
	if !bytes.Equal(got, text) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(text))
	}
}

func TestRoundTripRandomInputs(t *testing.T) {
	rng := testutil.NewRand(1)
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(1024)
		text := make([]byte, n)
		for i := range text {
			text[i] = byte(rng.Intn(4)) // small alphabet maximizes repeat structure
		}
		cfg := Config{WindowSize: 32 + rng.Intn(64)}
		got := encodeDecode(t, cfg, text)
		if !bytes.Equal(got, text) {
			t.Fatalf("trial %d (n=%d, W=%d): round trip mismatch", trial, n, cfg.WindowSize)
		}
	}
}

func TestRoundTripWideAlphabetRandom(t *testing.T) {
	rng := testutil.NewRand(2)
	for trial := 0; trial < 10; trial++ {
		n := rng.Intn(1024)
		text := make([]byte, n)
		copy(text, rng.Bytes(n))
		cfg := Config{WindowSize: 64}
		got := encodeDecode(t, cfg, text)
		if !bytes.Equal(got, text) {
			t.Fatalf("trial %d (n=%d): round trip mismatch", trial, n)
		}
	}
}

func TestDecodeDetectsCRCMismatch(t *testing.T) {
	cfg := Config{WindowSize: 16}
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, cfg)
	w.Write([]byte("hello world hello world"))
	w.Close()

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF // flip a CRC byte
	_, err := DecodeAll(bytes.NewReader(corrupted))
	if err != ErrCorrupt {
		t.Fatalf("DecodeAll on corrupted trailer = %v, want ErrCorrupt", err)
	}
}

func TestWriterDisableCRCOmitsTrailer(t *testing.T) {
	cfg := Config{WindowSize: 16, DisableCRC: true}
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, cfg)
	w.Write([]byte("no trailer here"))
	w.Close()

	got, err := DecodeAll(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if string(got) != "no trailer here" {
		t.Fatalf("got %q", got)
	}
}

// TestAbsorbSafety checks that the phrases actually produced by a parse,
// once absorb-one/absorb-two have had a chance to run, still decode to
// the original input, across many random inputs up to 1KiB.
func TestAbsorbSafety(t *testing.T) {
	rng := testutil.NewRand(3)
	for trial := 0; trial < 30; trial++ {
		n := rng.Intn(1024)
		text := make([]byte, n)
		for i := range text {
			text[i] = "abc"[rng.Intn(3)]
		}
		p, err := NewParser(Config{WindowSize: 24})
		if err != nil {
			t.Fatalf("NewParser: %v", err)
		}
		p.Write(text)
		p.Close()

		store := p.Store()
		var out []byte
		if store.Len() > 0 {
			store.DecodeReverseFromEndOf(uint32(store.Len()), uint32(store.TextLen()), func(b byte) bool {
				out = append(out, b)
				return true
			})
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		if !bytes.Equal(out, text) {
			t.Fatalf("trial %d: absorb-affected decode mismatch (n=%d)", trial, n)
		}
	}
}

// TestPhraseAtCoversWholeText checks that phrase_at is a non-decreasing
// step function covering every text position exactly once, for an actual
// parse (not just the hand-built table in the parsing package's own
// tests).
func TestPhraseAtCoversWholeText(t *testing.T) {
	cfg := Config{WindowSize: 16}
	text := []byte("ababbbabbabbbabbaa")
	p, _ := NewParser(cfg)
	p.Write(text)
	p.Close()
	store := p.Store()

	var lastPhrase uint32
	for pos := 0; pos < len(text); pos++ {
		ph := store.PhraseAt(uint64(pos))
		if ph < lastPhrase {
			t.Fatalf("PhraseAt(%d) = %d, decreased from %d", pos, ph, lastPhrase)
		}
		lastPhrase = ph
	}
	if lastPhrase != uint32(store.Len()) {
		t.Fatalf("last phrase touched = %d, want %d (store.Len())", lastPhrase, store.Len())
	}
}
