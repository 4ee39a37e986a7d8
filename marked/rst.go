package marked

import "math/bits"

// rst rounds x down to the nearest multiple of 2^i, clearing its low i bits.
func rst(x uint64, i uint) uint64 {
	if i >= 64 {
		return 0
	}
	return x &^ (1<<i - 1)
}

// maxIRst returns the largest i such that rst(x, i) > y, given 0 <= y < x.
// Starting from the bit where x and y first differ and walking down finds
// it directly: rounding x down past that level is the first rounding that
// drops to or below y.
func maxIRst(x, y uint64) uint {
	i := uint(bits.Len64(x ^ y))
	for i > 0 && rst(x, i) <= y {
		i--
	}
	return i
}
