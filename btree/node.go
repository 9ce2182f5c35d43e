package btree

import (
	"cmp"
	"slices"

	"github.com/sharedcode/ordtree/sortedarray"
)

// node is a B-tree node. keys & values hold the filled slots only, they are allocated with
// one spare slot so an insert can overflow the node right before it gets split.
// children is nil on a leaf, otherwise it holds len(keys)+1 exclusively owned nodes.
type node[TK cmp.Ordered, TV any] struct {
	keys     []TK
	values   []TV
	children []*node[TK, TV]
	// size is the number of entries in the subtree rooted at this node.
	size int
}

func newNode[TK cmp.Ordered, TV any](degree int, leaf bool) *node[TK, TV] {
	n := &node[TK, TV]{
		keys:   make([]TK, 0, degree),
		values: make([]TV, 0, degree),
	}
	if !leaf {
		n.children = make([]*node[TK, TV], 0, degree+1)
	}
	return n
}

func (node *node[TK, TV]) isLeaf() bool {
	return node.children == nil
}

func (node *node[TK, TV]) needsMerge(btree *Btree[TK, TV]) bool {
	return len(node.keys) < btree.minKeys()
}

// find returns the slot holding key and true, or the index of the child to descend into
// (which is also the insertion slot) and false.
func (node *node[TK, TV]) find(key TK) (int, bool) {
	i := sortedarray.IndexAtOrAbove(node.keys, key)
	if i == sortedarray.NotFound {
		return len(node.keys), false
	}
	return i, node.keys[i] == key
}

// set inserts or overwrites key in the subtree. If the node overflowed, the returned node
// is the replacement of this node in its parent: it holds the single promoted key with
// this node (now the left half) and the new right half as children.
func (node *node[TK, TV]) set(btree *Btree[TK, TV], key TK, value TV, bulkMode bool) *node[TK, TV] {
	i, found := node.find(key)
	if found {
		node.values[i] = value
		return nil
	}
	if node.isLeaf() {
		node.insertAt(i, key, value, nil)
		node.size++
		return node.splitIfOverflow(btree, bulkMode)
	}

	child := node.children[i]
	oldSize := child.size
	promoted := child.set(btree, key, value, bulkMode)
	if promoted == nil {
		node.size += child.size - oldSize
		return nil
	}
	node.size += promoted.size - oldSize
	node.insertAt(i, promoted.keys[0], promoted.values[0], promoted.children[1])
	return node.splitIfOverflow(btree, bulkMode)
}

// insertAt puts the entry at slot i. right, when given, becomes the child following the new key.
func (node *node[TK, TV]) insertAt(i int, key TK, value TV, right *node[TK, TV]) {
	node.keys = slices.Insert(node.keys, i, key)
	node.values = slices.Insert(node.values, i, value)
	if right != nil {
		node.children = slices.Insert(node.children, i+1, right)
	}
}

func (node *node[TK, TV]) splitIfOverflow(btree *Btree[TK, TV], bulkMode bool) *node[TK, TV] {
	if len(node.keys) <= btree.maxKeys() {
		return nil
	}
	return node.split(btree, bulkMode)
}

// split moves the keys after the split point to a new right sibling and returns a new
// single key parent. In bulk mode the last key is promoted so the left half stays full;
// completeBulkLoad fixes the under filled right spine this leaves behind.
func (node *node[TK, TV]) split(btree *Btree[TK, TV], bulkMode bool) *node[TK, TV] {
	splitPoint := btree.minKeys()
	if bulkMode {
		splitPoint = len(node.keys) - 1
	}

	right := newNode[TK, TV](btree.degree, node.isLeaf())
	right.keys = append(right.keys, node.keys[splitPoint+1:]...)
	right.values = append(right.values, node.values[splitPoint+1:]...)
	right.size = len(right.keys)
	if !node.isLeaf() {
		right.children = append(right.children, node.children[splitPoint+1:]...)
		for _, c := range right.children {
			right.size += c.size
		}
		node.children = slices.Delete(node.children, splitPoint+1, len(node.children))
	}

	parent := newNode[TK, TV](btree.degree, false)
	parent.keys = append(parent.keys, node.keys[splitPoint])
	parent.values = append(parent.values, node.values[splitPoint])
	parent.children = append(parent.children, node, right)
	parent.size = node.size

	node.keys = slices.Delete(node.keys, splitPoint, len(node.keys))
	node.values = slices.Delete(node.values, splitPoint, len(node.values))
	node.size -= right.size + 1
	return parent
}

// completeBulkLoad walks down the right spine, topping up every under filled last child
// from its left sibling.
func (node *node[TK, TV]) completeBulkLoad(btree *Btree[TK, TV]) {
	for n := node; !n.isLeaf(); {
		last := len(n.children) - 1
		if last > 0 && n.children[last].needsMerge(btree) {
			n.mergeChild(btree, last)
			last = len(n.children) - 1
		}
		n = n.children[last]
	}
}

// delete removes key from the subtree. Callers rebalance this node if it ends up under filled.
func (node *node[TK, TV]) delete(btree *Btree[TK, TV], key TK) {
	i, found := node.find(key)
	if found {
		if node.isLeaf() {
			node.keys = slices.Delete(node.keys, i, i+1)
			node.values = slices.Delete(node.values, i, i+1)
		} else {
			// Replace the separator with its in-order predecessor.
			child := node.children[i]
			node.keys[i], node.values[i] = child.promoteMax(btree)
			if child.needsMerge(btree) {
				node.mergeChild(btree, i)
			}
		}
		node.size--
		return
	}
	if node.isLeaf() {
		return
	}

	child := node.children[i]
	oldSize := child.size
	child.delete(btree, key)
	node.size += child.size - oldSize
	if child.needsMerge(btree) {
		node.mergeChild(btree, i)
	}
}

// promoteMax removes and returns the greatest entry of the subtree.
func (node *node[TK, TV]) promoteMax(btree *Btree[TK, TV]) (TK, TV) {
	node.size--
	if node.isLeaf() {
		last := len(node.keys) - 1
		k, v := node.keys[last], node.values[last]
		node.keys = slices.Delete(node.keys, last, last+1)
		node.values = slices.Delete(node.values, last, last+1)
		return k, v
	}
	last := len(node.children) - 1
	child := node.children[last]
	k, v := child.promoteMax(btree)
	if child.needsMerge(btree) {
		node.mergeChild(btree, last)
	}
	return k, v
}

// mergeChild restores the minimum fill of children[i], borrowing from the left sibling
// first, then from the right one, and merging with a sibling as the last resort.
func (node *node[TK, TV]) mergeChild(btree *Btree[TK, TV], i int) {
	current := node.children[i]
	minKeys := btree.minKeys()
	if i > 0 {
		left := node.children[i-1]
		for current.needsMerge(btree) && len(left.keys) > minKeys {
			node.rotateRight(i - 1)
		}
	}
	if i+1 < len(node.children) {
		right := node.children[i+1]
		for current.needsMerge(btree) && len(right.keys) > minKeys {
			node.rotateLeft(i)
		}
	}
	if !current.needsMerge(btree) {
		return
	}
	switch {
	case i > 0:
		node.mergeChildren(i - 1)
	case i+1 < len(node.children):
		node.mergeChildren(i)
	}
}

// rotateRight moves the last entry of children[j] up into separator j, and the old
// separator down to the front of children[j+1].
func (node *node[TK, TV]) rotateRight(j int) {
	left, right := node.children[j], node.children[j+1]
	last := len(left.keys) - 1

	right.keys = slices.Insert(right.keys, 0, node.keys[j])
	right.values = slices.Insert(right.values, 0, node.values[j])
	node.keys[j], node.values[j] = left.keys[last], left.values[last]
	left.keys = slices.Delete(left.keys, last, last+1)
	left.values = slices.Delete(left.values, last, last+1)

	moved := 1
	if !left.isLeaf() {
		child := left.children[last+1]
		left.children = slices.Delete(left.children, last+1, last+2)
		right.children = slices.Insert(right.children, 0, child)
		moved += child.size
	}
	left.size -= moved
	right.size += moved
}

// rotateLeft is the mirror of rotateRight.
func (node *node[TK, TV]) rotateLeft(j int) {
	left, right := node.children[j], node.children[j+1]

	left.keys = append(left.keys, node.keys[j])
	left.values = append(left.values, node.values[j])
	node.keys[j], node.values[j] = right.keys[0], right.values[0]
	right.keys = slices.Delete(right.keys, 0, 1)
	right.values = slices.Delete(right.values, 0, 1)

	moved := 1
	if !right.isLeaf() {
		child := right.children[0]
		right.children = slices.Delete(right.children, 0, 1)
		left.children = append(left.children, child)
		moved += child.size
	}
	left.size += moved
	right.size -= moved
}

// mergeChildren folds separator j and children[j+1] into children[j].
func (node *node[TK, TV]) mergeChildren(j int) {
	left, right := node.children[j], node.children[j+1]

	left.keys = append(left.keys, node.keys[j])
	left.keys = append(left.keys, right.keys...)
	left.values = append(left.values, node.values[j])
	left.values = append(left.values, right.values...)
	if !left.isLeaf() {
		left.children = append(left.children, right.children...)
	}
	left.size += right.size + 1

	node.keys = slices.Delete(node.keys, j, j+1)
	node.values = slices.Delete(node.values, j, j+1)
	node.children = slices.Delete(node.children, j+1, j+2)
}
