package marked

import (
	"testing"

	"github.com/lzend/lzend/internal/testutil"
)

func TestMaxIRstProperty(t *testing.T) {
	rng := testutil.NewRand(4)
	for trial := 0; trial < 2000; trial++ {
		x := uint64(1 + rng.Intn(1<<20))
		y := uint64(rng.Intn(int(x)))

		i := maxIRst(x, y)
		if rst(x, i) <= y {
			t.Fatalf("x=%d y=%d i=%d: rst(x,i)=%d, want > y", x, y, i, rst(x, i))
		}
		if rst(x, i+1) > y {
			t.Fatalf("x=%d y=%d i=%d: rst(x,i+1)=%d, want <= y", x, y, i, rst(x, i+1))
		}
	}
}

func TestRstClearsLowBits(t *testing.T) {
	if got := rst(0b10110, 2); got != 0b10100 {
		t.Fatalf("rst(0b10110, 2) = %b, want %b", got, 0b10100)
	}
	if got := rst(0b10110, 0); got != 0b10110 {
		t.Fatalf("rst(x, 0) must be the identity, got %b", got)
	}
}
