package windex

import "testing"

func TestMarkAndIsMarked(t *testing.T) {
	ix := Build([]byte("ababbbabbabbbabbaa"))
	if ix.IsMarked(0) {
		t.Fatalf("position 0 should start unmarked")
	}
	ix.Mark(0, 1)
	if !ix.IsMarked(0) {
		t.Fatalf("position 0 should be marked after Mark")
	}
	ix.Unmark(0)
	if ix.IsMarked(0) {
		t.Fatalf("position 0 should be unmarked after Unmark")
	}
}

func TestMarkedLCPFindsExactSuffixMatch(t *testing.T) {
	// "ab" repeats; marking the end of the first "ab" (position 1) should
	// let a query at the end of a later "ab" find a long common extension.
	window := []byte("ababab")
	ix := Build(window)
	ix.Mark(1, 7) // end of window[0:2) == "ab"

	link, lce := ix.MarkedLCP(3) // end of window[0:4) == "abab"
	if link != 7 {
		t.Fatalf("MarkedLCP(3) link = %d, want 7", link)
	}
	if lce == 0 {
		t.Fatalf("MarkedLCP(3) lce = 0, want > 0 (suffixes share a prefix in reverse)")
	}
}

func TestMarkedLCPNoMarksReturnsZero(t *testing.T) {
	ix := Build([]byte("abcdef"))
	link, lce := ix.MarkedLCP(2)
	if link != 0 || lce != 0 {
		t.Fatalf("MarkedLCP with no marks = (%d,%d), want (0,0)", link, lce)
	}
}

// TestMarkedLCPMonotonicity checks a monotonicity property: for any
// marked position m with common-extension length l against query q,
// MarkedLCP(q)'s reported length is never less than l.
func TestMarkedLCPMonotonicity(t *testing.T) {
	window := []byte("banana banana banana")
	ix := Build(window)

	marks := []int{5, 12, 19}
	for i, m := range marks {
		ix.Mark(m, uint32(i+1))
	}

	for q := 0; q < len(window); q++ {
		if ix.IsMarked(q) {
			continue
		}
		_, gotLCE := ix.MarkedLCP(q)
		for _, m := range marks {
			l := bruteLCE(window, q, m)
			if gotLCE < l {
				t.Errorf("q=%d: MarkedLCP lce=%d < brute LCE with mark %d = %d", q, gotLCE, m, l)
			}
		}
	}
}

// bruteLCE computes the longest common extension between the reverse-window
// suffixes ending at window-local positions a and b (inclusive), by
// direct backward comparison.
func bruteLCE(window []byte, a, b int) int {
	l := 0
	for a-l >= 0 && b-l >= 0 && window[a-l] == window[b-l] {
		l++
	}
	return l
}

// TestMarkedLCPTiesFavorPredecessor constructs an exact tie between the
// predecessor and successor candidates (both sides share a common
// extension of length 2 with the query, verified by hand against the
// window's actual suffix array) and checks that MarkedLCP resolves it
// toward the predecessor side, per the documented tie-break rule.
func TestMarkedLCPTiesFavorPredecessor(t *testing.T) {
	window := []byte("axcxcxhxc")
	ix := Build(window)
	ix.Mark(2, 100) // predecessor candidate
	ix.Mark(8, 200) // successor candidate

	link, lce := ix.MarkedLCP(4)
	if lce != 2 {
		t.Fatalf("MarkedLCP(4) lce = %d, want 2 (both sides tie at 2)", lce)
	}
	if link != 100 {
		t.Fatalf("MarkedLCP(4) link = %d, want 100 (tie must favor the predecessor side)", link)
	}
}

func TestMarkedLCP2ExcludesGivenPhrase(t *testing.T) {
	window := []byte("abcabcabc")
	ix := Build(window)
	ix.Mark(2, 1) // end of first "abc"
	ix.Mark(5, 2) // end of second "abc"

	link1, lce1, link2, lce2 := ix.MarkedLCP2(8, 2)
	if link1 != 2 {
		t.Fatalf("MarkedLCP2 best link = %d, want 2 (most recent occurrence)", link1)
	}
	if lce1 == 0 {
		t.Fatalf("MarkedLCP2 best lce = 0, want > 0")
	}
	if link2 != 1 || lce2 == 0 {
		t.Fatalf("MarkedLCP2 second-best = (%d,%d), want (1,>0)", link2, lce2)
	}
}
