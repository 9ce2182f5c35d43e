package ordtree

import (
	"testing"

	"github.com/sharedcode/ordtree/sortedarray"
)

func finders(keys []int) (RankFinder[int], RankFinder[int]) {
	atOrAbove := func(key int) (int, int, bool) {
		i := sortedarray.IndexAtOrAbove(keys, key)
		if i == sortedarray.NotFound {
			return 0, 0, false
		}
		return i, keys[i], true
	}
	atOrBelow := func(key int) (int, int, bool) {
		i := sortedarray.IndexAtOrBelow(keys, key)
		if i == sortedarray.NotFound {
			return 0, 0, false
		}
		return i, keys[i], true
	}
	return atOrAbove, atOrBelow
}

func Test_BoundsWindow(t *testing.T) {
	keys := []int{10, 20, 30, 40, 50}
	above, below := finders(keys)
	cases := []struct {
		name       string
		bounds     *Bounds[int]
		start, end int
	}{
		{"nil", nil, 0, 4},
		{"empty", &Bounds[int]{}, 0, 4},
		{"min", &Bounds[int]{Min: Key(20)}, 1, 4},
		{"min between keys", &Bounds[int]{Min: Key(25)}, 2, 4},
		{"min above all", &Bounds[int]{Min: Key(51)}, 5, 4},
		{"minExclusive", &Bounds[int]{MinExclusive: Key(20)}, 2, 4},
		{"minExclusive between keys", &Bounds[int]{MinExclusive: Key(15)}, 1, 4},
		{"max is exclusive", &Bounds[int]{Max: Key(40)}, 0, 2},
		{"maxInclusive", &Bounds[int]{MaxInclusive: Key(40)}, 0, 3},
		{"maxExclusive below all", &Bounds[int]{MaxExclusive: Key(10)}, 0, -1},
		{"maxInclusive below all", &Bounds[int]{MaxInclusive: Key(5)}, 0, -1},
		{"both", &Bounds[int]{MinInclusive: Key(20), MaxExclusive: Key(50)}, 1, 3},
		{"min wins over minExclusive", &Bounds[int]{Min: Key(20), MinExclusive: Key(20)}, 1, 4},
		{"minInclusive wins over minExclusive", &Bounds[int]{MinInclusive: Key(30), MinExclusive: Key(30)}, 2, 4},
		{"max wins over maxInclusive", &Bounds[int]{Max: Key(30), MaxInclusive: Key(30)}, 0, 1},
		{"maxExclusive wins over maxInclusive", &Bounds[int]{MaxExclusive: Key(30), MaxInclusive: Key(50)}, 0, 1},
		{"crossed", &Bounds[int]{Min: Key(40), Max: Key(20)}, 3, 0},
	}
	for _, c := range cases {
		start, end := c.bounds.Window(len(keys), above, below)
		if start != c.start || end != c.end {
			t.Errorf("%s: got [%d, %d] want [%d, %d]", c.name, start, end, c.start, c.end)
		}
	}
}

func Test_BoundsWindow_EmptyContainer(t *testing.T) {
	above, below := finders(nil)
	start, end := (&Bounds[int]{Min: Key(1), MaxInclusive: Key(9)}).Window(0, above, below)
	if end >= start {
		t.Errorf("expected empty window, got [%d, %d]", start, end)
	}
}

// Window and Contains must select the same keys when at most one bound per side is set.
func Test_BoundsWindow_AgreesWithContains(t *testing.T) {
	keys := []int{2, 4, 6, 8, 10, 12}
	above, below := finders(keys)
	fields := []func(*Bounds[int], int){
		nil,
		func(b *Bounds[int], k int) { b.Min = Key(k) },
		func(b *Bounds[int], k int) { b.MinInclusive = Key(k) },
		func(b *Bounds[int], k int) { b.MinExclusive = Key(k) },
	}
	upper := []func(*Bounds[int], int){
		nil,
		func(b *Bounds[int], k int) { b.Max = Key(k) },
		func(b *Bounds[int], k int) { b.MaxInclusive = Key(k) },
		func(b *Bounds[int], k int) { b.MaxExclusive = Key(k) },
	}
	for lo := 0; lo <= 14; lo++ {
		for hi := 0; hi <= 14; hi++ {
			for _, setLo := range fields {
				for _, setHi := range upper {
					b := &Bounds[int]{}
					if setLo != nil {
						setLo(b, lo)
					}
					if setHi != nil {
						setHi(b, hi)
					}
					start, end := b.Window(len(keys), above, below)
					for i, k := range keys {
						inWindow := i >= start && i <= end
						if inWindow != b.Contains(k) {
							t.Fatalf("bounds %+v key %d: window [%d, %d] disagrees with Contains", b, k, start, end)
						}
					}
				}
			}
		}
	}
}

func Test_BoundsContains_Nil(t *testing.T) {
	var b *Bounds[string]
	if !b.Contains("anything") {
		t.Error("nil bounds must contain every key")
	}
}
