// Package inmemory creates ordered containers, picking the engine from ContainerOptions.
package inmemory

import (
	"cmp"
	"fmt"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/arraytree"
	"github.com/sharedcode/ordtree/btree"
)

// New creates an empty container of the kind selected in opts. It is not safe for
// concurrent use, see NewSynchronized.
func New[TK cmp.Ordered, TV any](opts ordtree.ContainerOptions) (ordtree.Container[TK, TV], error) {
	switch opts.Kind {
	case ordtree.BTree:
		return btree.New[TK, TV](opts.NormalizedDegree()), nil
	case ordtree.SortedArray:
		return arraytree.New[TK, TV](), nil
	}
	return nil, fmt.Errorf("can't create container, unsupported kind %v", opts.Kind)
}

// NewSynchronized creates a container like New does and guards it with a read/write lock.
func NewSynchronized[TK cmp.Ordered, TV any](opts ordtree.ContainerOptions) (*ordtree.Synchronized[TK, TV], error) {
	c, err := New[TK, TV](opts)
	if err != nil {
		return nil, err
	}
	return ordtree.NewSynchronized(c), nil
}
