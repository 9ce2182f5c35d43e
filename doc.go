// Package ordtree defines the contract, shared types and helpers of the in-memory ordered
// key/value containers. A container keeps its entries sorted by key and supports point
// lookup, range queries by key bounds or by rank (position), insert/delete in O(log n)
// and bulk construction from pre-sorted data.
//
// Two engines implement the Container interface: package btree (a balanced multiway tree
// with cached subtree sizes for rank queries) and package arraytree (a flat sorted array).
// Use package inmemory to instantiate either one from ContainerOptions.
//
// Containers are not safe for concurrent mutation. Wrap a container with NewSynchronized
// when it has to be shared across goroutines.
package ordtree
