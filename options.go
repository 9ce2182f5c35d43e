package ordtree

import (
	"fmt"
	"strings"
)

const (
	// DefaultDegree is the B-tree degree used when none (or an invalid one) is given.
	DefaultDegree = 15
	// MinimumDegree is the smallest B-tree degree supported.
	MinimumDegree = 3
)

// ContainerKind selects the engine backing a container.
type ContainerKind int

const (
	// BTree is the balanced multiway tree engine, O(log n) everywhere.
	BTree ContainerKind = iota
	// SortedArray is the flat sorted array engine, O(n) inserts and deletes but the cheapest reads.
	SortedArray
)

// String returns the name of the kind as accepted by ParseContainerKind.
func (k ContainerKind) String() string {
	switch k {
	case BTree:
		return "btree"
	case SortedArray:
		return "array"
	default:
		return fmt.Sprintf("ContainerKind(%d)", int(k))
	}
}

// ParseContainerKind converts "btree" or "array" (case insensitive) to a ContainerKind.
func ParseContainerKind(s string) (ContainerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "btree", "b-tree":
		return BTree, nil
	case "array", "arraytree", "sortedarray":
		return SortedArray, nil
	}
	return BTree, fmt.Errorf("unknown container kind %q", s)
}

// ContainerOptions contains the configuration used when creating a container.
type ContainerOptions struct {
	// Kind selects the engine.
	Kind ContainerKind `json:"kind"`
	// Degree is the B-tree maximum number of children per node. Ignored by SortedArray.
	// Values below MinimumDegree fall back to DefaultDegree.
	Degree int `json:"degree,omitempty"`
}

// NormalizedDegree returns the degree the B-tree engine will actually use.
func (o ContainerOptions) NormalizedDegree() int {
	return NormalizeDegree(o.Degree)
}

// NormalizeDegree maps degrees below MinimumDegree to DefaultDegree.
func NormalizeDegree(degree int) int {
	if degree < MinimumDegree {
		return DefaultDegree
	}
	return degree
}

// MarshalText encodes the kind by name.
func (k ContainerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names ParseContainerKind does.
func (k *ContainerKind) UnmarshalText(text []byte) error {
	parsed, err := ParseContainerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
