package ordtree

import (
	"encoding/json"
	"testing"
)

func Test_ParseContainerKind(t *testing.T) {
	cases := map[string]ContainerKind{
		"btree":       BTree,
		"B-Tree":      BTree,
		" array ":     SortedArray,
		"ArrayTree":   SortedArray,
		"sortedarray": SortedArray,
	}
	for s, want := range cases {
		got, err := ParseContainerKind(s)
		if err != nil || got != want {
			t.Errorf("ParseContainerKind(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseContainerKind("heap"); err == nil {
		t.Error("expected error on unknown kind")
	}
}

func Test_ContainerKind_String(t *testing.T) {
	for _, k := range []ContainerKind{BTree, SortedArray} {
		parsed, err := ParseContainerKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("%v does not parse back: %v, %v", k, parsed, err)
		}
	}
	if s := ContainerKind(7).String(); s != "ContainerKind(7)" {
		t.Errorf("got %q", s)
	}
}

func Test_ContainerOptions_JSON(t *testing.T) {
	b, err := json.Marshal(ContainerOptions{Kind: SortedArray, Degree: 4})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"array","degree":4}` {
		t.Errorf("got %s", b)
	}

	var o ContainerOptions
	if err := json.Unmarshal([]byte(`{"kind":"btree"}`), &o); err != nil {
		t.Fatal(err)
	}
	if o.Kind != BTree || o.NormalizedDegree() != DefaultDegree {
		t.Errorf("got %+v", o)
	}
	if err := json.Unmarshal([]byte(`{"kind":"list"}`), &o); err == nil {
		t.Error("expected error on unknown kind")
	}
}

func Test_NormalizeDegree(t *testing.T) {
	cases := map[int]int{-1: DefaultDegree, 0: DefaultDegree, 2: DefaultDegree, 3: 3, 4: 4, 64: 64}
	for in, want := range cases {
		if got := NormalizeDegree(in); got != want {
			t.Errorf("NormalizeDegree(%d) = %d, want %d", in, got, want)
		}
	}
}
