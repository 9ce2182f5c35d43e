package kvtest

import (
	"slices"
	"testing"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/devutil"
)

func TestStore(t *testing.T) {
	s := New[int, string]()
	for _, k := range []int{4, 2, 5, 1, 3} {
		s.Set(k, string(rune('a'+k-1)))
	}
	if got := ordtree.Keys(s.ToArray(nil)); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("keys %v", got)
	}
	k := ordtree.Key[int]
	if got := s.ToValues(&ordtree.Bounds[int]{MinExclusive: k(2), Max: k(5)}); !slices.Equal(got, []string{"c", "d"}) {
		t.Fatalf("values %v", got)
	}
	if got := s.ToValuesByIndex(-2, 5); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("values %v", got)
	}
	if v, ok := s.GetByIndex(4); !ok || v != "e" {
		t.Fatalf("GetByIndex(4) = %q, %v", v, ok)
	}
	if _, ok := s.GetByIndex(5); ok {
		t.Fatal("GetByIndex(5) found")
	}
	if _, ok := s.GetByIndex(-1); ok {
		t.Fatal("GetByIndex(-1) found")
	}
	if err := s.BulkLoad(nil); !ordtree.IsErrorCode(err, ordtree.BulkLoadNotEmpty) {
		t.Fatalf("got %v", err)
	}
	s.Delete(3)
	if _, ok := s.Get(3); ok || s.Size() != 4 {
		t.Fatal("delete failed")
	}
	s.Clear()
	if s.Size() != 0 {
		t.Fatal("clear failed")
	}
}

func TestStore_Random(t *testing.T) {
	g := devutil.NewGenerator(5)
	s := New[int, int]()
	if _, ok := s.GetRandom(g); ok {
		t.Fatal("GetRandom on empty store")
	}
	for i := 0; i < 10; i++ {
		s.Set(i, i*i)
	}
	kv, ok := s.DeleteRandom(g)
	if !ok || kv.Value != kv.Key*kv.Key {
		t.Fatalf("DeleteRandom returned %+v", kv)
	}
	if _, found := s.Get(kv.Key); found || s.Size() != 9 {
		t.Fatal("entry still present")
	}
}
