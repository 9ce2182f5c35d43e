// Package btree contains the B-tree ordered container. Every node caches the entry count of
// its subtree so rank lookups, rank windows and key windows are all O(log n).
package btree

import (
	"cmp"
	"log/slog"

	"github.com/sharedcode/ordtree"
)

// Btree is an in-memory B-tree of unique keys. Degree is the maximum number of children
// of a node, a node holds at most degree-1 entries and (except the root) at least
// (degree-1)/2. It is not safe for concurrent use, see ordtree.Synchronized.
type Btree[TK cmp.Ordered, TV any] struct {
	degree int
	root   *node[TK, TV]
}

var _ ordtree.Container[int, string] = (*Btree[int, string])(nil)

// New creates an empty B-tree. Degrees below ordtree.MinimumDegree fall back to ordtree.DefaultDegree.
func New[TK cmp.Ordered, TV any](degree int) *Btree[TK, TV] {
	btree := &Btree[TK, TV]{
		degree: ordtree.NormalizeDegree(degree),
	}
	btree.Clear()
	return btree
}

// Degree returns the maximum number of children per node.
func (btree *Btree[TK, TV]) Degree() int {
	return btree.degree
}

func (btree *Btree[TK, TV]) maxKeys() int {
	return btree.degree - 1
}

func (btree *Btree[TK, TV]) minKeys() int {
	return (btree.degree - 1) / 2
}

// Clear replaces the tree with a single empty leaf.
func (btree *Btree[TK, TV]) Clear() {
	btree.root = newNode[TK, TV](btree.degree, true)
}

// Size returns the number of entries.
func (btree *Btree[TK, TV]) Size() int {
	return btree.root.size
}

// Get returns the value stored under key.
func (btree *Btree[TK, TV]) Get(key TK) (TV, bool) {
	// Nodes are small, a linear scan beats the binary search here.
	for n := btree.root; ; {
		i := 0
		for ; i < len(n.keys); i++ {
			if n.keys[i] == key {
				return n.values[i], true
			}
			if n.keys[i] > key {
				break
			}
		}
		if n.isLeaf() {
			break
		}
		n = n.children[i]
	}
	var zero TV
	return zero, false
}

// GetByIndex returns the value of the entry at rank index.
func (btree *Btree[TK, TV]) GetByIndex(index int) (TV, bool) {
	if index < 0 || index >= btree.Size() {
		var zero TV
		return zero, false
	}
	offset := 0
	for n := btree.root; ; {
		if n.isLeaf() {
			return n.values[index-offset], true
		}
		i := 0
		for ; i < len(n.keys); i++ {
			childSize := n.children[i].size
			if index < offset+childSize {
				break
			}
			offset += childSize
			if index == offset {
				return n.values[i], true
			}
			offset++
		}
		n = n.children[i]
	}
}

// indexAtOrAboveKey returns the rank and key of the first entry whose key is >= key.
func (btree *Btree[TK, TV]) indexAtOrAboveKey(key TK) (int, TK, bool) {
	var candidate TK
	hasCandidate := false
	index := 0
	for n := btree.root; ; {
		i := 0
		for ; i < len(n.keys); i++ {
			k := n.keys[i]
			if k > key {
				break
			}
			if !n.isLeaf() {
				index += n.children[i].size
			}
			if k == key {
				return index, k, true
			}
			index++
		}
		if n.isLeaf() {
			if i < len(n.keys) {
				return index, n.keys[i], true
			}
			// Every key of the leaf is below key: the answer is the nearest ancestor
			// separator we passed on the way down, and index already is its rank.
			return index, candidate, hasCandidate
		}
		if i < len(n.keys) {
			candidate, hasCandidate = n.keys[i], true
		}
		n = n.children[i]
	}
}

// indexAtOrBelowKey returns the rank and key of the last entry whose key is <= key.
func (btree *Btree[TK, TV]) indexAtOrBelowKey(key TK) (int, TK, bool) {
	var candidate TK
	hasCandidate := false
	index := btree.Size() - 1
	for n := btree.root; ; {
		i := len(n.keys) - 1
		for ; i >= 0; i-- {
			k := n.keys[i]
			if k < key {
				break
			}
			if !n.isLeaf() {
				index -= n.children[i+1].size
			}
			if k == key {
				return index, k, true
			}
			index--
		}
		if n.isLeaf() {
			if i >= 0 {
				return index, n.keys[i], true
			}
			return index, candidate, hasCandidate
		}
		if i >= 0 {
			candidate, hasCandidate = n.keys[i], true
		}
		n = n.children[i+1]
	}
}

// Set inserts key or overwrites its value.
func (btree *Btree[TK, TV]) Set(key TK, value TV) {
	if promoted := btree.root.set(btree, key, value, false); promoted != nil {
		btree.root = promoted
	}
}

// BulkLoad fills the empty tree from items sorted by ascending key. Every node but the
// ones on the right spine ends up full, which makes it both faster and denser than
// calling Set in a loop. Nothing is modified if an error is returned.
func (btree *Btree[TK, TV]) BulkLoad(items []ordtree.KeyValuePair[TK, TV]) error {
	if err := ordtree.ValidateBulkLoad(btree.Size(), items); err != nil {
		return err
	}
	for i := range items {
		if promoted := btree.root.set(btree, items[i].Key, items[i].Value, true); promoted != nil {
			btree.root = promoted
		}
	}
	btree.root.completeBulkLoad(btree)
	slog.Debug("b-tree bulk load done", "items", len(items), "size", btree.Size(), "degree", btree.degree)
	return nil
}

// Delete removes key if present.
func (btree *Btree[TK, TV]) Delete(key TK) {
	btree.root.delete(btree, key)
	if !btree.root.isLeaf() && len(btree.root.keys) == 0 {
		btree.root = btree.root.children[0]
	}
}

// ToArray returns the entries within bounds.
func (btree *Btree[TK, TV]) ToArray(bounds *ordtree.Bounds[TK]) []ordtree.KeyValuePair[TK, TV] {
	start, end := bounds.Window(btree.Size(), btree.indexAtOrAboveKey, btree.indexAtOrBelowKey)
	return btree.ToArrayByIndex(start, end-start+1)
}

// ToValues returns the values of the entries within bounds.
func (btree *Btree[TK, TV]) ToValues(bounds *ordtree.Bounds[TK]) []TV {
	start, end := bounds.Window(btree.Size(), btree.indexAtOrAboveKey, btree.indexAtOrBelowKey)
	return btree.ToValuesByIndex(start, end-start+1)
}

// ToArrayByIndex returns up to count entries starting at rank start.
func (btree *Btree[TK, TV]) ToArrayByIndex(start, count int) []ordtree.KeyValuePair[TK, TV] {
	start, count, ok := ordtree.ClipWindow(start, count, btree.Size())
	if !ok {
		return []ordtree.KeyValuePair[TK, TV]{}
	}
	r := make([]ordtree.KeyValuePair[TK, TV], 0, count)
	btree.traverse(start, count, func(n *node[TK, TV], i int) {
		r = append(r, ordtree.KeyValuePair[TK, TV]{Key: n.keys[i], Value: n.values[i]})
	})
	return r
}

// ToValuesByIndex returns the values of up to count entries starting at rank start.
func (btree *Btree[TK, TV]) ToValuesByIndex(start, count int) []TV {
	start, count, ok := ordtree.ClipWindow(start, count, btree.Size())
	if !ok {
		return []TV{}
	}
	r := make([]TV, 0, count)
	btree.traverse(start, count, func(n *node[TK, TV], i int) {
		r = append(r, n.values[i])
	})
	return r
}

// GetStats walks the whole tree and reports its shape.
func (btree *Btree[TK, TV]) GetStats() ordtree.Stats {
	stats := ordtree.Stats{
		Degree: btree.degree,
		Size:   btree.Size(),
	}
	btree.root.updateStats(btree, &stats, 1)
	if stats.KeySlots > 0 {
		stats.FillFactor = float64(stats.FilledKeySlots) / float64(stats.KeySlots)
	}
	if stats.Nodes > 0 {
		stats.SaturationFactor = float64(stats.SaturatedNodes) / float64(stats.Nodes)
	}
	return stats
}

func (node *node[TK, TV]) updateStats(btree *Btree[TK, TV], stats *ordtree.Stats, depth int) {
	stats.Nodes++
	stats.KeySlots += btree.maxKeys()
	stats.FilledKeySlots += len(node.keys)
	if len(node.keys) == btree.maxKeys() {
		stats.SaturatedNodes++
	}
	if depth > stats.Depth {
		stats.Depth = depth
	}
	for _, c := range node.children {
		c.updateStats(btree, stats, depth+1)
	}
}
