// Package sortedarray contains binary search helpers over slices sorted in ascending order.
package sortedarray

import "cmp"

// NotFound is returned by the search functions when no index satisfies the query.
const NotFound = -1

// IndexAtOrBelow returns the largest i such that s[i] <= key, or NotFound if every
// element is above key.
func IndexAtOrBelow[T cmp.Ordered](s []T, key T) int {
	if len(s) == 0 || s[0] > key {
		return NotFound
	}
	if s[len(s)-1] <= key {
		return len(s) - 1
	}
	lo, _ := narrow(s, key)
	return lo
}

// IndexAtOrAbove returns the smallest i such that s[i] >= key, or NotFound if every
// element is below key. Callers appending at the end have to check for NotFound rather
// than treat it as an insert position.
func IndexAtOrAbove[T cmp.Ordered](s []T, key T) int {
	if len(s) == 0 || s[len(s)-1] < key {
		return NotFound
	}
	if s[0] >= key {
		return 0
	}
	lo, hi := narrow(s, key)
	if s[lo] == key {
		return lo
	}
	return hi
}

// IndexOf returns the index of key in s, or NotFound.
func IndexOf[T cmp.Ordered](s []T, key T) int {
	if len(s) == 0 {
		return NotFound
	}
	lo, hi := narrow(s, key)
	if s[lo] == key {
		return lo
	}
	if s[hi] == key {
		return hi
	}
	return NotFound
}

// narrow shrinks the inclusive window [0, len(s)-1] to two adjacent positions lo, hi
// (or a single one) such that s[lo] <= key < s[hi] whenever key is inside the range of s.
func narrow[T cmp.Ordered](s []T, key T) (int, int) {
	lo, hi := 0, len(s)-1
	for hi-lo > 1 {
		i := lo + (hi-lo)>>1
		if s[i] > key {
			hi = i
		} else {
			lo = i
		}
	}
	return lo, hi
}
