// Package devutil generates random test data for the fuzzer, the benchmark tool and tests.
package devutil

import (
	"cmp"
	"math/rand/v2"
	"strconv"

	"github.com/sharedcode/ordtree"
)

// Generator is a seeded source of random test data. Two generators created with the same
// seed produce the same sequence, which is what makes a failing fuzz round replayable.
// A Generator is not safe for concurrent use.
type Generator struct {
	r    *rand.Rand
	seed uint64
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// RandomInteger returns a uniformly distributed integer in [lb, ub].
func (g *Generator) RandomInteger(lb, ub int) int {
	if ub <= lb {
		return lb
	}
	return lb + g.r.IntN(ub-lb+1)
}

// RandomBoolean returns true with probability pTrue.
func (g *Generator) RandomBoolean(pTrue float64) bool {
	return g.r.Float64() < pTrue
}

// RandomString returns a short random lower case alphanumeric string.
func (g *Generator) RandomString() string {
	return strconv.FormatUint(g.r.Uint64(), 36)
}

// UniqueRandomIntegers returns start, start+1, ..., start+n-1 in random order.
func (g *Generator) UniqueRandomIntegers(start, n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = start + i
	}
	ShuffleInPlace(g, r)
	return r
}

// IndexRange is a rank window, as taken by Container.ToArrayByIndex.
type IndexRange struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// GenerateIndexRanges returns n random windows of span ranks fitting in [0, size).
func (g *Generator) GenerateIndexRanges(n, span, size int) []IndexRange {
	r := make([]IndexRange, n)
	for i := range r {
		r[i] = IndexRange{Start: g.RandomInteger(0, size-span), Count: span}
	}
	return r
}

// ShuffleInPlace randomly permutes s.
func ShuffleInPlace[T any](g *Generator, s []T) {
	g.r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// GetRandom returns a random element of the non-empty s.
func GetRandom[T any](g *Generator, s []T) T {
	return s[g.RandomInteger(0, len(s)-1)]
}

// DeleteRandom removes a random element from the non-empty *s and returns it. Order of the
// remaining elements is kept.
func DeleteRandom[T any](g *Generator, s *[]T) T {
	i := g.RandomInteger(0, len(*s)-1)
	v := (*s)[i]
	*s = append((*s)[:i], (*s)[i+1:]...)
	return v
}

// GenerateKeyRanges returns n random bounds, each selecting span consecutive keys of the
// ascending keys.
func GenerateKeyRanges[TK cmp.Ordered](g *Generator, n, span int, keys []TK) []ordtree.Bounds[TK] {
	r := make([]ordtree.Bounds[TK], n)
	for i := range r {
		start := g.RandomInteger(0, len(keys)-span)
		r[i] = ordtree.Bounds[TK]{
			Min:          ordtree.Key(keys[start]),
			MaxInclusive: ordtree.Key(keys[start+span-1]),
		}
	}
	return r
}
