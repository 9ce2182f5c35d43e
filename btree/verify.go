package btree

import (
	"cmp"
	"fmt"

	"github.com/sharedcode/ordtree"
)

// Verify inspects the whole tree and returns an ordtree.Error with code StructureViolation
// describing the first broken invariant found, nil if the tree is well formed. It checks
// key ordering and bounds, node fill limits, child counts, that no node is shared,
// the cached subtree sizes and that all leaves sit at the same depth.
func Verify[TK cmp.Ordered, TV any](btree *Btree[TK, TV]) error {
	v := verifier[TK, TV]{
		btree:     btree,
		seen:      map[*node[TK, TV]]struct{}{btree.root: {}},
		leafDepth: -1,
	}
	return v.checkNode(btree.root, true, nil, nil, 1)
}

type verifier[TK cmp.Ordered, TV any] struct {
	btree     *Btree[TK, TV]
	seen      map[*node[TK, TV]]struct{}
	leafDepth int
}

func violation(format string, args ...any) error {
	return ordtree.Error{
		Code: ordtree.StructureViolation,
		Err:  fmt.Errorf("%w: %s", ordtree.ErrInvalidStructure, fmt.Sprintf(format, args...)),
	}
}

// checkNode validates n whose keys must all be strictly between lower and upper (nil means unbounded).
func (v *verifier[TK, TV]) checkNode(n *node[TK, TV], isRoot bool, lower, upper *TK, depth int) error {
	filled := len(n.keys)
	if len(n.values) != filled {
		return violation("node at depth %d has %d keys but %d values", depth, filled, len(n.values))
	}
	if filled > v.btree.maxKeys() {
		return violation("node at depth %d has %d keys, more than %d", depth, filled, v.btree.maxKeys())
	}
	if !isRoot && filled < v.btree.minKeys() {
		return violation("node at depth %d has %d keys, fewer than %d", depth, filled, v.btree.minKeys())
	}
	for i, k := range n.keys {
		if i > 0 && !(n.keys[i-1] < k) {
			return violation("keys not ascending at depth %d slot %d: %v after %v", depth, i, k, n.keys[i-1])
		}
		if lower != nil && !(*lower < k) {
			return violation("key %v at depth %d is not above its lower separator %v", k, depth, *lower)
		}
		if upper != nil && !(k < *upper) {
			return violation("key %v at depth %d is not below its upper separator %v", k, depth, *upper)
		}
	}

	size := filled
	if n.isLeaf() {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return violation("leaf at depth %d, expected all leaves at depth %d", depth, v.leafDepth)
		}
	} else {
		if len(n.children) != filled+1 {
			return violation("node at depth %d has %d keys but %d children", depth, filled, len(n.children))
		}
		for i, child := range n.children {
			if child == nil {
				return violation("nil child %d at depth %d", i, depth)
			}
			if _, ok := v.seen[child]; ok {
				return violation("child %d at depth %d is shared with another node", i, depth)
			}
			v.seen[child] = struct{}{}

			childLower, childUpper := lower, upper
			if i > 0 {
				childLower = &n.keys[i-1]
			}
			if i < filled {
				childUpper = &n.keys[i]
			}
			if err := v.checkNode(child, false, childLower, childUpper, depth+1); err != nil {
				return err
			}
			size += child.size
		}
	}
	if size != n.size {
		return violation("node at depth %d caches size %d, counted %d", depth, n.size, size)
	}
	return nil
}
