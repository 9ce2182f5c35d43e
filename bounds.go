package ordtree

import "cmp"

// Bounds selects a key range for Container.ToArray. Every field is optional (nil means
// unset). When more than one lower (or upper) bound is set, the first one in the order
// Min, MinInclusive, MinExclusive (Max, MaxExclusive, MaxInclusive for the upper side) wins.
//
// Min and MinInclusive are synonyms and include the bound key. Max does NOT include the
// bound key, it behaves like MaxExclusive; use MaxInclusive to include it.
type Bounds[TK cmp.Ordered] struct {
	Min          *TK `json:"min,omitempty"`
	MinInclusive *TK `json:"minInclusive,omitempty"`
	MinExclusive *TK `json:"minExclusive,omitempty"`
	Max          *TK `json:"max,omitempty"`
	MaxInclusive *TK `json:"maxInclusive,omitempty"`
	MaxExclusive *TK `json:"maxExclusive,omitempty"`
}

// Key returns a pointer to k, for filling in Bounds fields.
func Key[TK any](k TK) *TK {
	return &k
}

// RankFinder locates the rank of the first key at-or-above (or the last key at-or-below)
// a bound. It returns the rank, the key found there and false if no such key exists.
type RankFinder[TK cmp.Ordered] func(key TK) (int, TK, bool)

// Window translates the bounds into an inclusive rank window [start, end] over a container
// of size entries. end < start denotes an empty selection.
func (b *Bounds[TK]) Window(size int, atOrAbove, atOrBelow RankFinder[TK]) (int, int) {
	start, end := 0, size-1
	if b == nil {
		return start, end
	}

	lowerBound := func(k TK, exclusive bool) int {
		index, found, ok := atOrAbove(k)
		if !ok {
			return size
		}
		if exclusive && found == k {
			index++
		}
		return index
	}
	upperBound := func(k TK, exclusive bool) int {
		index, found, ok := atOrBelow(k)
		if !ok {
			return -1
		}
		if exclusive && found == k {
			index--
		}
		return index
	}

	switch {
	case b.Min != nil:
		start = lowerBound(*b.Min, false)
	case b.MinInclusive != nil:
		start = lowerBound(*b.MinInclusive, false)
	case b.MinExclusive != nil:
		start = lowerBound(*b.MinExclusive, true)
	}

	switch {
	case b.Max != nil:
		end = upperBound(*b.Max, true)
	case b.MaxExclusive != nil:
		end = upperBound(*b.MaxExclusive, true)
	case b.MaxInclusive != nil:
		end = upperBound(*b.MaxInclusive, false)
	}
	return start, end
}

// Contains reports whether key passes the bounds. It is the brute-force counterpart of
// Window and is used by the reference store. Unlike Window it applies every field that is
// set, so both agree only when at most one bound per side is given.
func (b *Bounds[TK]) Contains(key TK) bool {
	if b == nil {
		return true
	}
	if b.Min != nil && key < *b.Min {
		return false
	}
	if b.MinInclusive != nil && key < *b.MinInclusive {
		return false
	}
	if b.MinExclusive != nil && key <= *b.MinExclusive {
		return false
	}
	if b.Max != nil && key >= *b.Max {
		return false
	}
	if b.MaxExclusive != nil && key >= *b.MaxExclusive {
		return false
	}
	if b.MaxInclusive != nil && key > *b.MaxInclusive {
		return false
	}
	return true
}
