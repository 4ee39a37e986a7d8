package marked

import "testing"

// TestDictionaryCorrectness checks predecessor/successor queries against
// a fixed key set: insert {5,17,19,128,900,65535,65555,131400} into a
// universe of 1,000,000 with bucket width 2^16.
func TestDictionaryCorrectness(t *testing.T) {
	d := New(1000000, 16)
	keys := []uint32{5, 17, 19, 128, 900, 65535, 65555, 131400}
	for i, k := range keys {
		d.Insert(k, uint32(i))
	}

	checkNone := func(name string, r Result) {
		t.Helper()
		if r.Exists {
			t.Errorf("%s: expected none, got key=%d", name, r.Key)
		}
	}
	checkKey := func(name string, r Result, want uint32) {
		t.Helper()
		if !r.Exists || r.Key != want {
			t.Errorf("%s: got %+v, want key=%d", name, r, want)
		}
	}

	checkNone("predecessor(4)", d.Predecessor(4))
	checkKey("predecessor(5)", d.Predecessor(5), 5)
	checkKey("predecessor(16)", d.Predecessor(16), 5)
	checkKey("predecessor(18)", d.Predecessor(18), 17)
	checkKey("predecessor(65554)", d.Predecessor(65554), 65535)
	checkKey("predecessor(U-1)", d.Predecessor(999999), 131400)

	checkKey("successor(0)", d.Successor(0), 5)
	checkKey("successor(65536)", d.Successor(65536), 65555)
	checkNone("successor(131401)", d.Successor(131401))

	d.Remove(900)
	if d.Contains(900) {
		t.Fatalf("900 should be absent after Remove")
	}
	if got := d.Predecessor(900); got.Key == 900 {
		t.Errorf("predecessor(900) should skip the removed key, got %+v", got)
	}
	if got := d.Successor(900); got.Key == 900 {
		t.Errorf("successor(900) should skip the removed key, got %+v", got)
	}
}

// TestPredecessorSuccessorCrossWordBoundary forces the summary scan across
// multiple all-zero 64-bit words, exercising the word-at-a-time
// LeadingZeros64/TrailingZeros64 search rather than just adjacent buckets
// within a single word.
func TestPredecessorSuccessorCrossWordBoundary(t *testing.T) {
	d := New(1<<20, 4) // bucket width 16, so bucket indices span widely
	occupied := []uint32{3, 70 * 16, 200 * 16}
	for _, bi := range occupied {
		d.Insert(bi, bi)
	}

	if got := d.Predecessor(200 * 16); !got.Exists || got.Key != 200*16 {
		t.Fatalf("Predecessor(200*16) = %+v, want key=%d", got, 200*16)
	}
	if got := d.Predecessor(200*16 - 1); !got.Exists || got.Key != 70*16 {
		t.Fatalf("Predecessor(200*16-1) = %+v, want key=%d (skip across empty words)", got, 70*16)
	}
	if got := d.Successor(70*16 + 1); !got.Exists || got.Key != 200*16 {
		t.Fatalf("Successor(70*16+1) = %+v, want key=%d (skip across empty words)", got, 200*16)
	}
	if got := d.Predecessor(3); !got.Exists || got.Key != 3 {
		t.Fatalf("Predecessor(3) = %+v, want key=3", got)
	}
	if got := d.Predecessor(2); got.Exists {
		t.Fatalf("Predecessor(2) = %+v, want none", got)
	}
}

func TestInsertAbsentPrecondition(t *testing.T) {
	d := New(100, 4)
	d.Insert(10, 1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic inserting an already-present key")
		}
	}()
	d.Insert(10, 2)
}

func TestRemovePresentPrecondition(t *testing.T) {
	d := New(100, 4)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic removing an absent key")
		}
	}()
	d.Remove(10)
}

func TestClearEmptiesDictionary(t *testing.T) {
	d := New(1000, 6)
	for _, k := range []uint32{1, 64, 65, 900} {
		d.Insert(k, k)
	}
	d.Clear()
	if d.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", d.Len())
	}
	for _, k := range []uint32{1, 64, 65, 900} {
		if d.Contains(k) {
			t.Errorf("Contains(%d) = true after Clear", k)
		}
	}
	checkNone := d.Predecessor(999)
	if checkNone.Exists {
		t.Errorf("Predecessor after Clear should find nothing, got %+v", checkNone)
	}
}
