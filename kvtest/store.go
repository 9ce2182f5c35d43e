// Package kvtest contains a brute-force, map backed implementation of ordtree.Container.
// It sorts on every query and has no business being used outside of tests, where it is
// the reference the real containers are compared against.
package kvtest

import (
	"cmp"
	"maps"
	"slices"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/devutil"
)

// Store is the reference container.
type Store[TK cmp.Ordered, TV any] struct {
	data map[TK]TV
}

var _ ordtree.Container[int, string] = (*Store[int, string])(nil)

// New creates an empty Store.
func New[TK cmp.Ordered, TV any]() *Store[TK, TV] {
	return &Store[TK, TV]{data: make(map[TK]TV)}
}

func (s *Store[TK, TV]) Clear() {
	clear(s.data)
}

func (s *Store[TK, TV]) Size() int {
	return len(s.data)
}

func (s *Store[TK, TV]) Get(key TK) (TV, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *Store[TK, TV]) GetByIndex(index int) (TV, bool) {
	r := s.ToValuesByIndex(index, 1)
	if len(r) == 0 || index < 0 {
		var zero TV
		return zero, false
	}
	return r[0], true
}

func (s *Store[TK, TV]) Set(key TK, value TV) {
	s.data[key] = value
}

func (s *Store[TK, TV]) Delete(key TK) {
	delete(s.data, key)
}

func (s *Store[TK, TV]) BulkLoad(items []ordtree.KeyValuePair[TK, TV]) error {
	if err := ordtree.ValidateBulkLoad(s.Size(), items); err != nil {
		return err
	}
	for _, it := range items {
		s.data[it.Key] = it.Value
	}
	return nil
}

func (s *Store[TK, TV]) sortedKeys() []TK {
	return slices.Sorted(maps.Keys(s.data))
}

// ToArray filters every key through Bounds.Contains.
func (s *Store[TK, TV]) ToArray(bounds *ordtree.Bounds[TK]) []ordtree.KeyValuePair[TK, TV] {
	r := []ordtree.KeyValuePair[TK, TV]{}
	for _, k := range s.sortedKeys() {
		if bounds.Contains(k) {
			r = append(r, ordtree.KeyValuePair[TK, TV]{Key: k, Value: s.data[k]})
		}
	}
	return r
}

func (s *Store[TK, TV]) ToValues(bounds *ordtree.Bounds[TK]) []TV {
	r := []TV{}
	for _, k := range s.sortedKeys() {
		if bounds.Contains(k) {
			r = append(r, s.data[k])
		}
	}
	return r
}

func (s *Store[TK, TV]) ToArrayByIndex(start, count int) []ordtree.KeyValuePair[TK, TV] {
	r := []ordtree.KeyValuePair[TK, TV]{}
	start, count, ok := ordtree.ClipWindow(start, count, s.Size())
	if !ok {
		return r
	}
	for _, k := range s.sortedKeys()[start : start+count] {
		r = append(r, ordtree.KeyValuePair[TK, TV]{Key: k, Value: s.data[k]})
	}
	return r
}

func (s *Store[TK, TV]) ToValuesByIndex(start, count int) []TV {
	r := []TV{}
	start, count, ok := ordtree.ClipWindow(start, count, s.Size())
	if !ok {
		return r
	}
	for _, k := range s.sortedKeys()[start : start+count] {
		r = append(r, s.data[k])
	}
	return r
}

func (s *Store[TK, TV]) GetStats() ordtree.Stats {
	return ordtree.Stats{Size: s.Size()}
}

// GetRandom returns a random entry, false if the store is empty.
func (s *Store[TK, TV]) GetRandom(g *devutil.Generator) (ordtree.KeyValuePair[TK, TV], bool) {
	if len(s.data) == 0 {
		return ordtree.KeyValuePair[TK, TV]{}, false
	}
	// Sorted so that the pick only depends on the generator.
	k := devutil.GetRandom(g, s.sortedKeys())
	return ordtree.KeyValuePair[TK, TV]{Key: k, Value: s.data[k]}, true
}

// DeleteRandom removes a random entry and returns it, false if the store is empty.
func (s *Store[TK, TV]) DeleteRandom(g *devutil.Generator) (ordtree.KeyValuePair[TK, TV], bool) {
	kv, ok := s.GetRandom(g)
	if ok {
		delete(s.data, kv.Key)
	}
	return kv, ok
}
