package suffix

// RMQ answers range-minimum-index queries over a fixed array in O(1) time
// after an O(n log n) sparse-table preprocessing pass. A ±1-RMQ structure
// over the LCP array's restricted value range would shave the table down
// to O(n) bits, but the simpler O(n log n)-word sparse table below is
// easier to get right and cheap enough at the window sizes this runs at.
type RMQ struct {
	a     []int
	table [][]int32 // table[k][i] = argmin of a[i .. i+2^k-1]
	log2  []int32   // log2[n] = floor(log2(n)), 1-indexed lookup
}

// BuildRMQ preprocesses a for range-minimum-index queries. a is retained
// by reference, not copied; it must not change afterward.
func BuildRMQ(a []int) *RMQ {
	n := len(a)
	r := &RMQ{a: a}
	if n == 0 {
		return r
	}

	r.log2 = make([]int32, n+1)
	for i := 2; i <= n; i++ {
		r.log2[i] = r.log2[i/2] + 1
	}

	k := int(r.log2[n]) + 1
	r.table = make([][]int32, k)
	r.table[0] = make([]int32, n)
	for i := range a {
		r.table[0][i] = int32(i)
	}
	for j := 1; j < k; j++ {
		width := 1 << uint(j)
		half := width / 2
		row := make([]int32, n-width+1)
		prev := r.table[j-1]
		for i := 0; i+width <= n; i++ {
			l, rr := prev[i], prev[i+half]
			if a[l] <= a[rr] {
				row[i] = l
			} else {
				row[i] = rr
			}
		}
		r.table[j] = row
	}
	return r
}

// Query returns the index of a minimal element of a[l..r] (inclusive).
// Ties are broken toward the left. Requires 0 <= l <= r < len(a).
func (r *RMQ) Query(l, rr int) int {
	if l == rr {
		return l
	}
	j := r.log2[rr-l+1]
	row := r.table[j]
	width := 1 << uint(j)
	i1 := row[l]
	i2 := row[rr-width+1]
	if r.a[i1] <= r.a[i2] {
		return int(i1)
	}
	return int(i2)
}
