package btree

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sharedcode/ordtree"
)

func mustVerify[TK cmp.Ordered, TV any](t *testing.T, b *Btree[TK, TV]) {
	t.Helper()
	if err := Verify(b); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func keysOf[TK cmp.Ordered, TV any](b *Btree[TK, TV]) []TK {
	return ordtree.Keys(b.ToArray(nil))
}

func seq(from, to int) []int {
	r := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		r = append(r, i)
	}
	return r
}

func TestNew_NormalizesDegree(t *testing.T) {
	tests := []struct {
		degree int
		want   int
	}{
		{0, ordtree.DefaultDegree},
		{2, ordtree.DefaultDegree},
		{-5, ordtree.DefaultDegree},
		{3, 3},
		{64, 64},
	}
	for _, tc := range tests {
		b := New[int, int](tc.degree)
		if b.Degree() != tc.want {
			t.Errorf("New(%d).Degree() = %d, want %d", tc.degree, b.Degree(), tc.want)
		}
		if b.Size() != 0 {
			t.Errorf("new tree size %d", b.Size())
		}
	}
}

func TestSet_AscendingDegree3(t *testing.T) {
	b := New[int, string](3)
	for i := 1; i <= 100; i++ {
		b.Set(i, fmt.Sprint(i))
		mustVerify(t, b)
		if b.Size() != i {
			t.Fatalf("after %d inserts size is %d", i, b.Size())
		}
	}
	if got := keysOf(b); !slices.Equal(got, seq(1, 100)) {
		t.Fatalf("keys %v", got)
	}
}

func TestSet_DescendingAndOverwrite(t *testing.T) {
	b := New[int, string](4)
	for i := 50; i >= 1; i-- {
		b.Set(i, "a")
		mustVerify(t, b)
	}
	for i := 1; i <= 50; i += 2 {
		b.Set(i, "b")
	}
	mustVerify(t, b)
	if b.Size() != 50 {
		t.Fatalf("overwrite changed size to %d", b.Size())
	}
	for i := 1; i <= 50; i++ {
		want := "a"
		if i%2 == 1 {
			want = "b"
		}
		if v, ok := b.Get(i); !ok || v != want {
			t.Fatalf("Get(%d) = %q, %v, want %q", i, v, ok, want)
		}
	}
	if _, ok := b.Get(51); ok {
		t.Fatal("Get(51) found a missing key")
	}
	if _, ok := b.Get(0); ok {
		t.Fatal("Get(0) found a missing key")
	}
}

func TestDelete_AscendingDegree3(t *testing.T) {
	b := New[int, int](3)
	for i := 1; i <= 7; i++ {
		b.Set(i, i*10)
	}
	mustVerify(t, b)
	for i := 1; i <= 7; i++ {
		b.Delete(i)
		mustVerify(t, b)
		if got := keysOf(b); !slices.Equal(got, seq(i+1, 7)) {
			t.Fatalf("after deleting %d keys are %v", i, got)
		}
		if _, ok := b.Get(i); ok {
			t.Fatalf("deleted key %d still found", i)
		}
	}
	if b.Size() != 0 {
		t.Fatalf("size %d after deleting everything", b.Size())
	}
}

func TestDelete_MissingKeyIsNoop(t *testing.T) {
	b := New[int, int](3)
	for i := 0; i < 20; i += 2 {
		b.Set(i, i)
	}
	before := keysOf(b)
	b.Delete(7)
	b.Delete(-1)
	b.Delete(100)
	mustVerify(t, b)
	if got := keysOf(b); !slices.Equal(got, before) {
		t.Fatalf("keys changed to %v", got)
	}
}

func TestDelete_DescendingAndMiddle(t *testing.T) {
	for _, degree := range []int{3, 4, 5, 8} {
		t.Run(fmt.Sprintf("degree %d", degree), func(t *testing.T) {
			b := New[int, int](degree)
			for i := 1; i <= 200; i++ {
				b.Set(i, i)
			}
			// Knock out the middle first, it forces separator replacement on internal nodes.
			for i := 80; i <= 120; i++ {
				b.Delete(i)
				mustVerify(t, b)
			}
			for i := 200; i >= 1; i-- {
				b.Delete(i)
				mustVerify(t, b)
			}
			if b.Size() != 0 {
				t.Fatalf("size %d", b.Size())
			}
		})
	}
}

func TestGetByIndex(t *testing.T) {
	b := New[int, int](3)
	for _, k := range rand.Perm(300) {
		b.Set(k*2, k)
	}
	for i := 0; i < 300; i++ {
		if v, ok := b.GetByIndex(i); !ok || v != i {
			t.Fatalf("GetByIndex(%d) = %d, %v", i, v, ok)
		}
	}
	for _, i := range []int{-1, 300, 1000} {
		if _, ok := b.GetByIndex(i); ok {
			t.Fatalf("GetByIndex(%d) should not be found", i)
		}
	}
}

func TestToArray_Bounds(t *testing.T) {
	b := New[int, string](3)
	for i := 1; i <= 5; i++ {
		b.Set(i, fmt.Sprint(i))
	}
	k := ordtree.Key[int]
	tests := []struct {
		name   string
		bounds *ordtree.Bounds[int]
		want   []int
	}{
		{"nil", nil, []int{1, 2, 3, 4, 5}},
		{"empty", &ordtree.Bounds[int]{}, []int{1, 2, 3, 4, 5}},
		{"minInclusive maxExclusive", &ordtree.Bounds[int]{MinInclusive: k(2), MaxExclusive: k(5)}, []int{2, 3, 4}},
		{"minExclusive max", &ordtree.Bounds[int]{MinExclusive: k(2), Max: k(5)}, []int{3, 4}},
		{"min maxInclusive", &ordtree.Bounds[int]{Min: k(2), MaxInclusive: k(4)}, []int{2, 3, 4}},
		{"min wins over minExclusive", &ordtree.Bounds[int]{Min: k(2), MinExclusive: k(3)}, []int{2, 3, 4, 5}},
		{"max wins over maxInclusive", &ordtree.Bounds[int]{Max: k(4), MaxInclusive: k(4)}, []int{1, 2, 3}},
		{"below all", &ordtree.Bounds[int]{Max: k(0)}, []int{}},
		{"above all", &ordtree.Bounds[int]{Min: k(6)}, []int{}},
		{"inverted", &ordtree.Bounds[int]{Min: k(4), MaxInclusive: k(2)}, []int{}},
		{"outside keys", &ordtree.Bounds[int]{Min: k(-10), MaxInclusive: k(10)}, []int{1, 2, 3, 4, 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ordtree.Keys(b.ToArray(tc.bounds))
			if !slices.Equal(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			values := b.ToValues(tc.bounds)
			if len(values) != len(tc.want) {
				t.Fatalf("ToValues returned %d values, want %d", len(values), len(tc.want))
			}
			for i, v := range values {
				if v != fmt.Sprint(tc.want[i]) {
					t.Fatalf("value %d is %q", i, v)
				}
			}
		})
	}
}

// Bounds falling between keys must resolve to the separators stored in internal nodes.
func TestToArray_BoundsBetweenKeys(t *testing.T) {
	b := New[int, int](3)
	for i := 0; i <= 1000; i += 10 {
		b.Set(i, i)
	}
	all := keysOf(b)
	for lo := -5; lo <= 1005; lo += 5 {
		for _, hi := range []int{lo, lo + 5, lo + 33, lo + 500} {
			bounds := &ordtree.Bounds[int]{MinExclusive: &lo, MaxInclusive: &hi}
			want := []int{}
			for _, k := range all {
				if bounds.Contains(k) {
					want = append(want, k)
				}
			}
			if got := ordtree.Keys(b.ToArray(bounds)); !slices.Equal(got, want) {
				t.Fatalf("(%d, %d]: got %v want %v", lo, hi, got, want)
			}
		}
	}
}

func TestToArrayByIndex(t *testing.T) {
	b := New[int, int](3)
	for i := 0; i < 5; i++ {
		b.Set(i, i)
	}
	tests := []struct {
		start, count int
		want         []int
	}{
		{-2, 5, []int{0, 1, 2}},
		{0, 5, []int{0, 1, 2, 3, 4}},
		{1, 2, []int{1, 2}},
		{3, 10, []int{3, 4}},
		{5, 1, []int{}},
		{0, 0, []int{}},
		{-5, 5, []int{}},
		{2, -1, []int{}},
		{math.MaxInt, 1, []int{}},
		{2, math.MaxInt, []int{2, 3, 4}},
		{-1, math.MinInt, []int{}},
		{math.MinInt, math.MaxInt, []int{}},
	}
	for _, tc := range tests {
		got := b.ToArrayByIndex(tc.start, tc.count)
		if got == nil {
			t.Fatalf("ToArrayByIndex(%d, %d) returned nil", tc.start, tc.count)
		}
		if keys := ordtree.Keys(got); !slices.Equal(keys, tc.want) {
			t.Fatalf("ToArrayByIndex(%d, %d) = %v want %v", tc.start, tc.count, keys, tc.want)
		}
		if values := b.ToValuesByIndex(tc.start, tc.count); !slices.Equal(values, tc.want) {
			t.Fatalf("ToValuesByIndex(%d, %d) = %v want %v", tc.start, tc.count, values, tc.want)
		}
	}
}

func TestToArrayByIndex_AllWindows(t *testing.T) {
	b := New[int, int](4)
	for i := 0; i < 97; i++ {
		b.Set(i, i)
	}
	for start := 0; start < 97; start += 3 {
		for count := 1; start+count <= 97; count += 7 {
			if got := b.ToValuesByIndex(start, count); !slices.Equal(got, seq(start, start+count-1)) {
				t.Fatalf("window (%d, %d) = %v", start, count, got)
			}
		}
	}
}

func TestBulkLoad_MatchesSequentialSet(t *testing.T) {
	for _, degree := range []int{3, 4, 5, 7, 15} {
		for _, n := range []int{0, 1, 2, 3, 10, 100, 1000} {
			t.Run(fmt.Sprintf("degree %d n %d", degree, n), func(t *testing.T) {
				items := make([]ordtree.KeyValuePair[int, int], n)
				for i := range items {
					items[i] = ordtree.KeyValuePair[int, int]{Key: i * 3, Value: i}
				}
				bulk := New[int, int](degree)
				if err := bulk.BulkLoad(items); err != nil {
					t.Fatalf("bulk load: %v", err)
				}
				mustVerify(t, bulk)

				sequential := New[int, int](degree)
				for _, it := range items {
					sequential.Set(it.Key, it.Value)
				}
				if !slices.Equal(bulk.ToArray(nil), sequential.ToArray(nil)) {
					t.Fatal("bulk loaded tree differs from sequentially built one")
				}
				if n > 0 && bulk.GetStats().Nodes > sequential.GetStats().Nodes {
					t.Fatalf("bulk load used %d nodes, sequential %d", bulk.GetStats().Nodes, sequential.GetStats().Nodes)
				}
			})
		}
	}
}

func TestBulkLoad_DuplicateKeysLastWins(t *testing.T) {
	b := New[int, string](3)
	items := []ordtree.KeyValuePair[int, string]{
		{Key: 1, Value: "a"}, {Key: 1, Value: "b"}, {Key: 2, Value: "c"},
		{Key: 3, Value: "d"}, {Key: 3, Value: "e"}, {Key: 3, Value: "f"}, {Key: 4, Value: "g"},
	}
	if err := b.BulkLoad(items); err != nil {
		t.Fatal(err)
	}
	mustVerify(t, b)
	if got := b.ToValues(nil); !slices.Equal(got, []string{"b", "c", "f", "g"}) {
		t.Fatalf("values %v", got)
	}
}

func TestBulkLoad_Errors(t *testing.T) {
	b := New[int, int](3)
	b.Set(1, 1)
	err := b.BulkLoad([]ordtree.KeyValuePair[int, int]{{Key: 5, Value: 5}})
	if !ordtree.IsErrorCode(err, ordtree.BulkLoadNotEmpty) {
		t.Fatalf("expected BulkLoadNotEmpty, got %v", err)
	}

	b = New[int, int](3)
	err = b.BulkLoad([]ordtree.KeyValuePair[int, int]{{Key: 1}, {Key: 3}, {Key: 2}})
	if !ordtree.IsErrorCode(err, ordtree.BulkLoadNotSorted) {
		t.Fatalf("expected BulkLoadNotSorted, got %v", err)
	}
	if b.Size() != 0 {
		t.Fatalf("failed bulk load left %d entries", b.Size())
	}
}

func TestRandomOperations_AgainstMap(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for _, degree := range []int{3, 4, 6, 15} {
		b := New[int, int](degree)
		ref := map[int]int{}
		for step := 0; step < 3000; step++ {
			k := r.IntN(400)
			if r.IntN(3) == 0 {
				b.Delete(k)
				delete(ref, k)
			} else {
				b.Set(k, step)
				ref[k] = step
			}
			if step%97 == 0 {
				mustVerify(t, b)
			}
		}
		mustVerify(t, b)
		keys := slices.Sorted(maps.Keys(ref))
		if got := keysOf(b); !slices.Equal(got, keys) {
			t.Fatalf("degree %d: keys differ", degree)
		}
		for i, k := range keys {
			if v, ok := b.GetByIndex(i); !ok || v != ref[k] {
				t.Fatalf("degree %d: GetByIndex(%d) = %d, want %d", degree, i, v, ref[k])
			}
		}
	}
}

func TestClear(t *testing.T) {
	b := New[string, int](5)
	for i := 0; i < 100; i++ {
		b.Set(fmt.Sprintf("k%03d", i), i)
	}
	b.Clear()
	mustVerify(t, b)
	if b.Size() != 0 || len(b.ToArray(nil)) != 0 {
		t.Fatal("tree not empty after Clear")
	}
	b.Set("a", 1)
	if v, ok := b.Get("a"); !ok || v != 1 {
		t.Fatal("tree unusable after Clear")
	}
}

func TestGetStats(t *testing.T) {
	b := New[int, int](3)
	stats := b.GetStats()
	if stats.Nodes != 1 || stats.Depth != 1 || stats.Size != 0 || stats.KeySlots != 2 {
		t.Fatalf("empty tree stats %+v", stats)
	}

	items := make([]ordtree.KeyValuePair[int, int], 7)
	for i := range items {
		items[i] = ordtree.KeyValuePair[int, int]{Key: i, Value: i}
	}
	if err := b.BulkLoad(items); err != nil {
		t.Fatal(err)
	}
	stats = b.GetStats()
	if stats.Degree != 3 || stats.Size != 7 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.FilledKeySlots != 7 {
		t.Fatalf("filled key slots %d", stats.FilledKeySlots)
	}
	if stats.KeySlots != stats.Nodes*2 {
		t.Fatalf("key slots %d for %d nodes", stats.KeySlots, stats.Nodes)
	}
	if stats.FillFactor <= 0 || stats.FillFactor > 1 || stats.SaturationFactor < 0 || stats.SaturationFactor > 1 {
		t.Fatalf("factors out of range %+v", stats)
	}
}

func TestVerify_DetectsCorruption(t *testing.T) {
	build := func() *Btree[int, int] {
		b := New[int, int](3)
		for i := 1; i <= 20; i++ {
			b.Set(i, i)
		}
		return b
	}
	tests := []struct {
		name    string
		corrupt func(b *Btree[int, int])
	}{
		{"size mismatch", func(b *Btree[int, int]) { b.root.size++ }},
		{"unsorted keys", func(b *Btree[int, int]) {
			leaf := b.root
			for !leaf.isLeaf() {
				leaf = leaf.children[0]
			}
			leaf.keys[0] = 1000
		}},
		{"shared child", func(b *Btree[int, int]) { b.root.children[1] = b.root.children[0] }},
		{"under filled", func(b *Btree[int, int]) {
			c := b.root.children[0]
			for !c.isLeaf() {
				c = c.children[0]
			}
			c.keys, c.values = c.keys[:0], c.values[:0]
		}},
		{"values out of step", func(b *Btree[int, int]) { b.root.values = b.root.values[:0] }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := build()
			mustVerify(t, b)
			tc.corrupt(b)
			if err := Verify(b); !ordtree.IsErrorCode(err, ordtree.StructureViolation) {
				t.Fatalf("expected a structure violation, got %v", err)
			}
		})
	}
}
