package ordtree

import (
	"cmp"
	"fmt"
)

// Container is the contract shared by the ordered key/value engines. Keys are unique and
// kept in ascending order; "index" (or rank) is the zero-based position of a key among
// all keys of the container.
type Container[TK cmp.Ordered, TV any] interface {
	// Clear removes all entries.
	Clear()
	// Get returns the value stored under key, false if key is absent.
	Get(key TK) (TV, bool)
	// GetByIndex returns the value of the entry at rank index, false if index is outside [0, Size()).
	GetByIndex(index int) (TV, bool)
	// Set inserts the entry or overwrites the value of an existing key.
	Set(key TK, value TV)
	// Delete removes the entry with key. Deleting a missing key does nothing.
	Delete(key TK)
	// BulkLoad fills an empty container from items sorted by ascending key. Adjacent
	// duplicate keys overwrite each other (last wins). It fails with BulkLoadNotEmpty on a
	// non-empty container and with BulkLoadNotSorted on out of order input.
	BulkLoad(items []KeyValuePair[TK, TV]) error

	// ToArray returns the entries within bounds in ascending key order. Nil bounds selects everything.
	ToArray(bounds *Bounds[TK]) []KeyValuePair[TK, TV]
	// ToValues is ToArray returning the values only.
	ToValues(bounds *Bounds[TK]) []TV
	// ToArrayByIndex returns up to count entries starting at rank start. A negative start
	// shrinks count by the same amount and reads from rank 0.
	ToArrayByIndex(start, count int) []KeyValuePair[TK, TV]
	// ToValuesByIndex is ToArrayByIndex returning the values only.
	ToValuesByIndex(start, count int) []TV

	// GetStats returns diagnostic figures about the container.
	GetStats() Stats
	// Size returns the number of entries.
	Size() int
}

// ClipWindow applies the rank window rules shared by the containers: a negative start
// reduces count and is clamped to 0, and count is capped so the window ends at size.
// ok is false when the resulting window is empty. Any int inputs are accepted, extreme
// values included.
func ClipWindow(start, count, size int) (int, int, bool) {
	if count <= 0 {
		return max(start, 0), 0, false
	}
	if start < 0 {
		// count > 0 and start < 0, the sum can't overflow.
		count += start
		start = 0
		if count <= 0 {
			return 0, 0, false
		}
	}
	if start >= size {
		return start, 0, false
	}
	if count > size-start {
		count = size - start
	}
	return start, count, true
}

// ValidateBulkLoad checks the BulkLoad preconditions against a container holding size
// entries. Equal adjacent keys are accepted.
func ValidateBulkLoad[TK cmp.Ordered, TV any](size int, items []KeyValuePair[TK, TV]) error {
	if size > 0 {
		return Error{
			Code:     BulkLoadNotEmpty,
			Err:      ErrNotEmpty,
			UserData: size,
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i].Key < items[i-1].Key {
			return Error{
				Code:     BulkLoadNotSorted,
				Err:      fmt.Errorf("%w: key at position %d is lower than its predecessor", ErrNotSorted, i),
				UserData: i,
			}
		}
	}
	return nil
}
