// Package fp implements Karp-Rabin fingerprinting over an immutable byte
// sequence: O(1) substring-fingerprint queries after an O(n) preprocessing
// pass.
//
// Fingerprints live in Z_M for the Mersenne prime M = 2^61-1;
// multiplication reduces via the identity x mod M = ((x+1)>>61 + x) & M.
// Go has no native 128-bit integer, so the 128-bit product
// math/bits.Mul64 returns is folded back into Z_M by hand (mulmod below).
//
// Powers of the base are sampled every K-th exponent and memoized;
// intermediate powers are derived from the nearest sampled power with at
// most K-1 extra multiplications, trading a little query-time work for a
// smaller auxiliary table than memoizing every power would need.
package fp

import "math/bits"

const (
	// Prime is the Mersenne prime modulus, 2^61-1.
	Prime = (uint64(1) << 61) - 1
	// Base is the polynomial base used for fingerprinting.
	Base = 256
	// stride is K: every stride-th power of Base is sampled.
	stride = 8
)

// mulmod returns a*b mod Prime. a and b must each be < Prime.
func mulmod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	low61 := lo & Prime
	high := (hi << 3) | (lo >> 61)
	x := low61 + high // at most 2*Prime
	return (x + ((x + 1) >> 61)) & Prime
}

// addmod returns a+b mod Prime.
func addmod(a, b uint64) uint64 {
	x := a + b
	if x >= Prime {
		x -= Prime
	}
	return x
}

// submod returns a-b mod Prime.
func submod(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return Prime - (b - a)
}

// View is an immutable byte sequence augmented with Karp-Rabin prefix
// fingerprints. The zero value is not usable; use New.
type View struct {
	data   []byte
	prefix []uint64 // prefix[i] = fingerprint of data[0..=i]
	pow    []uint64 // pow[k] = Base^(k*stride) mod Prime
}

// New preprocesses data for O(1) substring fingerprint queries. data is
// not copied and must not be mutated afterward: the View borrows it and
// owns only its derived prefix-fingerprint array.
func New(data []byte) *View {
	v := &View{data: data}
	n := len(data)
	if n == 0 {
		return v
	}

	v.prefix = make([]uint64, n)
	var acc uint64
	for i, c := range data {
		acc = addmod(mulmod(acc, Base), uint64(c))
		v.prefix[i] = acc
	}

	numSamples := n/stride + 2
	v.pow = make([]uint64, numSamples)
	v.pow[0] = 1
	baseK := uint64(1)
	for i := 0; i < stride; i++ {
		baseK = mulmod(baseK, Base)
	}
	for k := 1; k < numSamples; k++ {
		v.pow[k] = mulmod(v.pow[k-1], baseK)
	}
	return v
}

// Len returns the number of bytes in the view.
func (v *View) Len() int { return len(v.data) }

// powOf returns Base^e mod Prime, e >= 0, using the sampled table plus at
// most stride-1 extra multiplications.
func (v *View) powOf(e int) uint64 {
	idx := e / stride
	rem := e % stride
	p := v.pow[idx]
	for i := 0; i < rem; i++ {
		p = mulmod(p, Base)
	}
	return p
}

// PrefixFP returns the fingerprint of data[0..=i]. i must be in [0, Len()).
func (v *View) PrefixFP(i int) uint64 {
	return v.prefix[i]
}

// SubstringFP returns the fingerprint of data[i..=j] (inclusive on both
// ends). Requires 0 <= i <= j < Len().
func (v *View) SubstringFP(i, j int) uint64 {
	if i == 0 {
		return v.prefix[j]
	}
	return submod(v.prefix[j], mulmod(v.prefix[i-1], v.powOf(j-i+1)))
}
