package ordtree

// KeyValuePair is an entry of a container, i.e. - a key and the value stored under it.
type KeyValuePair[TK any, TV any] struct {
	// Key is the key part in the pair.
	Key TK `json:"key"`
	// Value is the value part in the pair.
	Value TV `json:"value"`
}

// Keys returns the keys of the pairs, in the same order.
func Keys[TK any, TV any](pairs []KeyValuePair[TK, TV]) []TK {
	r := make([]TK, len(pairs))
	for i := range pairs {
		r[i] = pairs[i].Key
	}
	return r
}
