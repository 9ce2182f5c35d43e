// Package arraytree contains the flat sorted array container. Reads are as cheap as they
// get, inserts and deletes shift the tail of the arrays and so are O(n).
package arraytree

import (
	"cmp"
	"slices"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/sortedarray"
)

// ArrayTree keeps keys & values in two parallel slices, keys strictly ascending.
type ArrayTree[TK cmp.Ordered, TV any] struct {
	keys   []TK
	values []TV
}

var _ ordtree.Container[int, string] = (*ArrayTree[int, string])(nil)

// New creates an empty ArrayTree.
func New[TK cmp.Ordered, TV any]() *ArrayTree[TK, TV] {
	return &ArrayTree[TK, TV]{}
}

// Clear removes all entries.
func (a *ArrayTree[TK, TV]) Clear() {
	a.keys = nil
	a.values = nil
}

// Size returns the number of entries.
func (a *ArrayTree[TK, TV]) Size() int {
	return len(a.keys)
}

// Get returns the value stored under key.
func (a *ArrayTree[TK, TV]) Get(key TK) (TV, bool) {
	if i := sortedarray.IndexOf(a.keys, key); i != sortedarray.NotFound {
		return a.values[i], true
	}
	var zero TV
	return zero, false
}

// GetByIndex returns the value of the entry at rank index.
func (a *ArrayTree[TK, TV]) GetByIndex(index int) (TV, bool) {
	if index < 0 || index >= len(a.values) {
		var zero TV
		return zero, false
	}
	return a.values[index], true
}

func (a *ArrayTree[TK, TV]) indexAtOrAboveKey(key TK) (int, TK, bool) {
	i := sortedarray.IndexAtOrAbove(a.keys, key)
	if i == sortedarray.NotFound {
		var zero TK
		return len(a.keys), zero, false
	}
	return i, a.keys[i], true
}

func (a *ArrayTree[TK, TV]) indexAtOrBelowKey(key TK) (int, TK, bool) {
	i := sortedarray.IndexAtOrBelow(a.keys, key)
	if i == sortedarray.NotFound {
		var zero TK
		return -1, zero, false
	}
	return i, a.keys[i], true
}

// Set inserts key or overwrites its value.
func (a *ArrayTree[TK, TV]) Set(key TK, value TV) {
	i := sortedarray.IndexAtOrBelow(a.keys, key)
	if i != sortedarray.NotFound && a.keys[i] == key {
		a.values[i] = value
		return
	}
	// NotFound is -1 so i+1 is the insertion slot in both cases.
	a.keys = slices.Insert(a.keys, i+1, key)
	a.values = slices.Insert(a.values, i+1, value)
}

// Delete removes key if present.
func (a *ArrayTree[TK, TV]) Delete(key TK) {
	if i := sortedarray.IndexOf(a.keys, key); i != sortedarray.NotFound {
		a.keys = slices.Delete(a.keys, i, i+1)
		a.values = slices.Delete(a.values, i, i+1)
	}
}

// BulkLoad fills the empty container from items sorted by ascending key, equal keys
// collapse into one entry holding the last value.
func (a *ArrayTree[TK, TV]) BulkLoad(items []ordtree.KeyValuePair[TK, TV]) error {
	if err := ordtree.ValidateBulkLoad(a.Size(), items); err != nil {
		return err
	}
	a.keys = make([]TK, 0, len(items))
	a.values = make([]TV, 0, len(items))
	for _, it := range items {
		if last := len(a.keys) - 1; last >= 0 && a.keys[last] == it.Key {
			a.values[last] = it.Value
			continue
		}
		a.keys = append(a.keys, it.Key)
		a.values = append(a.values, it.Value)
	}
	return nil
}

// ToArray returns the entries within bounds.
func (a *ArrayTree[TK, TV]) ToArray(bounds *ordtree.Bounds[TK]) []ordtree.KeyValuePair[TK, TV] {
	start, end := bounds.Window(a.Size(), a.indexAtOrAboveKey, a.indexAtOrBelowKey)
	return a.ToArrayByIndex(start, end-start+1)
}

// ToValues returns the values of the entries within bounds.
func (a *ArrayTree[TK, TV]) ToValues(bounds *ordtree.Bounds[TK]) []TV {
	start, end := bounds.Window(a.Size(), a.indexAtOrAboveKey, a.indexAtOrBelowKey)
	return a.ToValuesByIndex(start, end-start+1)
}

// ToArrayByIndex returns up to count entries starting at rank start.
func (a *ArrayTree[TK, TV]) ToArrayByIndex(start, count int) []ordtree.KeyValuePair[TK, TV] {
	start, count, ok := ordtree.ClipWindow(start, count, a.Size())
	if !ok {
		return []ordtree.KeyValuePair[TK, TV]{}
	}
	r := make([]ordtree.KeyValuePair[TK, TV], count)
	for i := range r {
		r[i] = ordtree.KeyValuePair[TK, TV]{Key: a.keys[start+i], Value: a.values[start+i]}
	}
	return r
}

// ToValuesByIndex returns the values of up to count entries starting at rank start. The
// result is a copy, it does not alias the container.
func (a *ArrayTree[TK, TV]) ToValuesByIndex(start, count int) []TV {
	start, count, ok := ordtree.ClipWindow(start, count, a.Size())
	if !ok {
		return []TV{}
	}
	return slices.Clone(a.values[start : start+count])
}

// GetStats only reports the size, the layout has no other interesting figure.
func (a *ArrayTree[TK, TV]) GetStats() ordtree.Stats {
	return ordtree.Stats{Size: a.Size()}
}
