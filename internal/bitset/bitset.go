// Package bitset provides small fixed-width bitmasks for the powerset
// enumeration used by symbolic determinization.
package bitset

// Mask is a bitmask over up to 64 elements, enough for the label counts
// that appear on a single state's outgoing transitions in practice; callers
// enumerating larger sets should chunk or fall back to *big.Int, which this
// package intentionally does not wrap (spec.md's budget targets a compact,
// allocation-free hot path, not arbitrary-precision enumeration).
type Mask uint64

// All returns a mask with the low n bits set.
func All(n int) Mask {
	if n >= 64 {
		return ^Mask(0)
	}
	return Mask(1<<uint(n)) - 1
}

// Has reports whether bit i is set.
func (m Mask) Has(i int) bool {
	return m&(1<<uint(i)) != 0
}

// Set returns m with bit i set.
func (m Mask) Set(i int) Mask {
	return m | (1 << uint(i))
}

// PopCount returns the number of set bits.
func (m Mask) PopCount() int {
	count := 0
	for m != 0 {
		m &= m - 1
		count++
	}
	return count
}

// Iterator enumerates every mask in [0, 2^n) in increasing order, the
// search space for symbolic determinization's predicate-partitioning step
// (spec.md §4.4).
type Iterator struct {
	n    int
	cur  Mask
	done bool
}

// NewIterator returns an Iterator over 2^n masks.
func NewIterator(n int) *Iterator {
	if n > 62 {
		n = 62 // guard against overflow: bits above 62 are never set in the
		// enumerated masks.
	}
	return &Iterator{n: n}
}

// Next returns the next mask and true, or (0, false) once exhausted.
func (it *Iterator) Next() (Mask, bool) {
	if it.done {
		return 0, false
	}
	m := it.cur
	if it.cur == All(it.n) {
		it.done = true
	} else {
		it.cur++
	}
	return m, true
}
