package btree

import "cmp"

// traversalFrame is a node being walked in order. Once the child at iKey has been
// handled (visited or skipped) keyPhase is set and the key at iKey is next.
type traversalFrame[TK cmp.Ordered, TV any] struct {
	node     *node[TK, TV]
	iKey     int
	keyPhase bool
}

// traverse calls visit, in key order, on the entries of ranks [start, start+count). The
// window must already be clipped to the tree size. Subtrees lying wholly before start are
// skipped using their cached sizes and the walk stops right after the last entry needed.
func (btree *Btree[TK, TV]) traverse(start, count int, visit func(n *node[TK, TV], i int)) {
	end := start + count - 1
	stack := make([]traversalFrame[TK, TV], 0, 8)
	frame := traversalFrame[TK, TV]{node: btree.root}
	index := 0

	pop := func() bool {
		if len(stack) == 0 {
			return false
		}
		frame, stack = stack[len(stack)-1], stack[:len(stack)-1]
		return true
	}

	for index <= end {
		n := frame.node
		switch {
		case n.isLeaf():
			if index+n.size <= start {
				index += n.size
			} else {
				for i := 0; i < len(n.keys) && index <= end; i++ {
					if index >= start {
						visit(n, i)
					}
					index++
				}
			}
			if !pop() {
				return
			}
		case !frame.keyPhase:
			child := n.children[frame.iKey]
			frame.keyPhase = true
			if index+child.size <= start {
				index += child.size
				continue
			}
			stack = append(stack, frame)
			frame = traversalFrame[TK, TV]{node: child}
		case frame.iKey == len(n.keys):
			if !pop() {
				return
			}
		default:
			if index >= start {
				visit(n, frame.iKey)
			}
			index++
			frame.iKey++
			frame.keyPhase = false
		}
	}
}
