package ordtree

import (
	"cmp"
	"sync"
)

// Synchronized wraps a Container with a read/write lock. Mutations are exclusive while
// reads share the lock.
type Synchronized[TK cmp.Ordered, TV any] struct {
	mu sync.RWMutex
	c  Container[TK, TV]
}

// NewSynchronized returns c guarded by a lock. c must not be used directly afterwards.
func NewSynchronized[TK cmp.Ordered, TV any](c Container[TK, TV]) *Synchronized[TK, TV] {
	return &Synchronized[TK, TV]{c: c}
}

func (s *Synchronized[TK, TV]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Clear()
}

func (s *Synchronized[TK, TV]) Get(key TK) (TV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Get(key)
}

func (s *Synchronized[TK, TV]) GetByIndex(index int) (TV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.GetByIndex(index)
}

func (s *Synchronized[TK, TV]) Set(key TK, value TV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Set(key, value)
}

func (s *Synchronized[TK, TV]) Delete(key TK) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Delete(key)
}

// Remove deletes key and reports whether it was present, in one critical section.
func (s *Synchronized[TK, TV]) Remove(key TK) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.c.Get(key); !ok {
		return false
	}
	s.c.Delete(key)
	return true
}

func (s *Synchronized[TK, TV]) BulkLoad(items []KeyValuePair[TK, TV]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.BulkLoad(items)
}

func (s *Synchronized[TK, TV]) ToArray(bounds *Bounds[TK]) []KeyValuePair[TK, TV] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ToArray(bounds)
}

func (s *Synchronized[TK, TV]) ToValues(bounds *Bounds[TK]) []TV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ToValues(bounds)
}

func (s *Synchronized[TK, TV]) ToArrayByIndex(start, count int) []KeyValuePair[TK, TV] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ToArrayByIndex(start, count)
}

func (s *Synchronized[TK, TV]) ToValuesByIndex(start, count int) []TV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.ToValuesByIndex(start, count)
}

func (s *Synchronized[TK, TV]) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.GetStats()
}

func (s *Synchronized[TK, TV]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Size()
}
