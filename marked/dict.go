// Package marked implements a dynamic predecessor/successor dictionary: a
// bucketed two-level ordered dictionary over a bounded integer universe
// [0, U), trading a recursive van Emde Boas style structure for a flatter
// bucket-width-2^b scheme suited to the modest universe sizes a single
// window produces.
//
// Within a bucket, keys are kept in a sorted slice; the non-empty-bucket
// summary is a bitmap of 64-bit words, and cross-bucket predecessor/
// successor search walks it a word at a time with math/bits.LeadingZeros64/
// TrailingZeros64 rather than one bucket at a time, giving the summary scan
// its O(U/bucketWidth / 64) cost instead of O(U/bucketWidth).
package marked

import (
	"math/bits"
	"sort"

	"github.com/dsnet/golib/errs"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "marked: " + string(e) }

var (
	errKeyPresent    = Error("key already present")
	errKeyAbsent     = Error("key not present")
	errKeyOutOfRange = Error("key out of universe range")
)

// Result is the outcome of a Predecessor/Successor query.
type Result struct {
	Exists bool
	Key    uint32
	Value  uint32
}

// None is the Result returned when no matching key exists.
var None = Result{}

type bucket struct {
	keys   []uint32
	values []uint32
}

func (b *bucket) search(k uint32) (int, bool) {
	i := sort.Search(len(b.keys), func(i int) bool { return b.keys[i] >= k })
	return i, i < len(b.keys) && b.keys[i] == k
}

// Dict is a dynamic ordered dictionary over [0, universe) keyed by 32-bit
// integers, supporting insert/remove/contains/predecessor/successor.
type Dict struct {
	universe   uint32
	bucketBits uint
	buckets    []bucket
	summary    []uint64 // one bit per bucket id: 1 = bucket non-empty
	size       int
}

// New creates a dictionary over [0, universe) with bucket width 2^bucketBits.
func New(universe int, bucketBits uint) *Dict {
	numBuckets := (universe >> bucketBits) + 1
	return &Dict{
		universe:   uint32(universe),
		bucketBits: bucketBits,
		buckets:    make([]bucket, numBuckets),
		summary:    make([]uint64, (numBuckets+63)/64),
	}
}

func (d *Dict) bucketOf(k uint32) int { return int(k >> d.bucketBits) }

func (d *Dict) summaryGet(bi int) bool {
	return d.summary[bi/64]&(uint64(1)<<uint(bi%64)) != 0
}

func (d *Dict) summarySet(bi int, v bool) {
	word, bit := bi/64, uint(bi%64)
	if v {
		d.summary[word] |= uint64(1) << bit
	} else {
		d.summary[word] &^= uint64(1) << bit
	}
}

// prevSetBit returns the highest set bit index strictly below before, or
// ok=false if none exists. It scans d.summary a word at a time, using
// LeadingZeros64 to locate the highest set bit within whichever word holds
// one, rather than testing one bucket index at a time.
func (d *Dict) prevSetBit(before int) (idx int, ok bool) {
	if before <= 0 {
		return 0, false
	}
	last := before - 1
	word := last / 64
	bitInWord := uint(last % 64)

	var mask uint64
	if bitInWord == 63 {
		mask = ^uint64(0)
	} else {
		mask = uint64(1)<<(bitInWord+1) - 1
	}

	for word >= 0 {
		w := d.summary[word] & mask
		if w != 0 {
			highest := 63 - bits.LeadingZeros64(w)
			return word*64 + highest, true
		}
		word--
		mask = ^uint64(0)
	}
	return 0, false
}

// nextSetBit returns the lowest set bit index at or above from, or
// ok=false if none exists. It scans d.summary a word at a time, using
// TrailingZeros64 to locate the lowest set bit within whichever word holds
// one, rather than testing one bucket index at a time.
func (d *Dict) nextSetBit(from int) (idx int, ok bool) {
	if from < 0 {
		from = 0
	}
	word := from / 64
	if word >= len(d.summary) {
		return 0, false
	}
	bitInWord := uint(from % 64)
	mask := ^uint64(0) << bitInWord

	for word < len(d.summary) {
		w := d.summary[word] & mask
		if w != 0 {
			lowest := bits.TrailingZeros64(w)
			return word*64 + lowest, true
		}
		word++
		mask = ^uint64(0)
	}
	return 0, false
}

// Len returns the number of keys currently stored.
func (d *Dict) Len() int { return d.size }

// Contains reports whether k is present.
func (d *Dict) Contains(k uint32) bool {
	b := &d.buckets[d.bucketOf(k)]
	_, found := b.search(k)
	return found
}

// Insert adds k with associated value v. Precondition: k is absent.
func (d *Dict) Insert(k uint32, v uint32) {
	errs.Assert(k < d.universe, errKeyOutOfRange)
	bi := d.bucketOf(k)
	b := &d.buckets[bi]
	i, found := b.search(k)
	errs.Assert(!found, errKeyPresent)

	b.keys = append(b.keys, 0)
	copy(b.keys[i+1:], b.keys[i:])
	b.keys[i] = k

	b.values = append(b.values, 0)
	copy(b.values[i+1:], b.values[i:])
	b.values[i] = v

	if len(b.keys) == 1 {
		d.summarySet(bi, true)
	}
	d.size++
}

// Remove deletes k. Precondition: k is present.
func (d *Dict) Remove(k uint32) {
	bi := d.bucketOf(k)
	b := &d.buckets[bi]
	i, found := b.search(k)
	errs.Assert(found, errKeyAbsent)

	b.keys = append(b.keys[:i], b.keys[i+1:]...)
	b.values = append(b.values[:i], b.values[i+1:]...)

	if len(b.keys) == 0 {
		d.summarySet(bi, false)
	}
	d.size--
}

// Clear empties the dictionary. It visits every bucket and every summary
// word, so its cost is proportional to the total number of buckets, not
// only to the buckets that were used.
func (d *Dict) Clear() {
	for i := range d.buckets {
		d.buckets[i].keys = d.buckets[i].keys[:0]
		d.buckets[i].values = d.buckets[i].values[:0]
	}
	for i := range d.summary {
		d.summary[i] = 0
	}
	d.size = 0
}

// Predecessor returns the entry with the largest key <= k, if any.
func (d *Dict) Predecessor(k uint32) Result {
	bi := d.bucketOf(k)
	if d.summaryGet(bi) {
		b := &d.buckets[bi]
		i, found := b.search(k)
		if found {
			return Result{true, b.keys[i], b.values[i]}
		}
		if i > 0 {
			return Result{true, b.keys[i-1], b.values[i-1]}
		}
	}
	if j, ok := d.prevSetBit(bi); ok {
		b := &d.buckets[j]
		last := len(b.keys) - 1
		return Result{true, b.keys[last], b.values[last]}
	}
	return None
}

// Successor returns the entry with the smallest key >= k, if any.
func (d *Dict) Successor(k uint32) Result {
	bi := d.bucketOf(k)
	if d.summaryGet(bi) {
		b := &d.buckets[bi]
		i, _ := b.search(k)
		if i < len(b.keys) {
			return Result{true, b.keys[i], b.values[i]}
		}
	}
	if j, ok := d.nextSetBit(bi + 1); ok {
		b := &d.buckets[j]
		return Result{true, b.keys[0], b.values[0]}
	}
	return None
}
