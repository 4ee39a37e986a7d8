// Package sais implements a linear-time suffix array construction
// (induced sorting, Nong/Zhang/Chan), plus the inverse suffix array and
// Kasai's O(n) LCP array built on top of it. ComputeAll returns SA, ISA
// and LCP for a byte slice in one call.
package sais

// ComputeSA computes the suffix array of T and places the result in SA.
// Both T and SA must be the same length. The alphabet is assumed to be
// byte-valued (0-255); this widens to an int alphabet and reuses the
// general induced-sorting core rather than carrying a separate
// byte-specialized induction path, since the dominant cost is the O(n)
// suffix-array build itself, not the int/byte widening, and this is only
// ever called once per window rotation.
func ComputeSA(T []byte, SA []int) {
	if len(SA) != len(T) {
		panic("sais: mismatching sizes")
	}
	n := len(T)
	if n == 0 {
		return
	}
	widened := make([]int, n)
	for i, b := range T {
		widened[i] = int(b)
	}
	computeSA_int(widened, SA, 0, n, 256)
}

// ComputeISA inverts a suffix array: ISA[SA[i]] = i.
func ComputeISA(SA []int, ISA []int) {
	if len(ISA) != len(SA) {
		panic("sais: mismatching sizes")
	}
	for i, p := range SA {
		ISA[p] = i
	}
}

// ComputeLCP computes the LCP array of T given its suffix array SA and
// inverse suffix array ISA, using Kasai's linear-time algorithm.
// LCP[i] is the length of the longest common prefix between the suffixes
// at SA[i-1] and SA[i]; LCP[0] is defined to be 0.
func ComputeLCP(T []byte, SA, ISA, LCP []int) {
	n := len(T)
	if len(SA) != n || len(ISA) != n || len(LCP) != n {
		panic("sais: mismatching sizes")
	}
	if n == 0 {
		return
	}
	h := 0
	for i := 0; i < n; i++ {
		if ISA[i] == 0 {
			h = 0
			continue
		}
		j := SA[ISA[i]-1]
		for i+h < n && j+h < n && T[i+h] == T[j+h] {
			h++
		}
		LCP[ISA[i]] = h
		if h > 0 {
			h--
		}
	}
	LCP[0] = 0
}

// ComputeAll computes SA, ISA and LCP of T in one call, allocating all
// three arrays.
func ComputeAll(T []byte) (SA, ISA, LCP []int) {
	n := len(T)
	SA = make([]int, n)
	ISA = make([]int, n)
	LCP = make([]int, n)
	ComputeSA(T, SA)
	ComputeISA(SA, ISA)
	ComputeLCP(T, SA, ISA, LCP)
	return
}
