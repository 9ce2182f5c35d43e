package fuzz

import (
	"fmt"

	"github.com/d4l3k/messagediff"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/btree"
	"github.com/sharedcode/ordtree/inmemory"
	"github.com/sharedcode/ordtree/kvtest"
)

// Mismatch is returned when the container under test disagrees with the reference store.
type Mismatch struct {
	// Step is the position of Action in the action log.
	Step   int
	Action Action
	// Diff is a pretty printed difference, reference first.
	Diff string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("step %d (%s): container differs from reference\n%s", m.Step, m.Action.Type, m.Diff)
}

// lookup is the comparable form of a (value, found) result.
type lookup struct {
	Value string
	Found bool
}

// session drives a container and the reference store through the same actions.
type session struct {
	tree ordtree.Container[int, string]
	kv   *kvtest.Store[int, string]
	log  ActionLog
}

// apply records a, executes it on both stores and checks they still agree. Mutations are
// followed by a structure check and a full comparison.
func (s *session) apply(a Action) error {
	step := len(s.log)
	s.log = append(s.log, a)

	if a.Type == ActionStart {
		kind, err := ordtree.ParseContainerKind(a.Kind)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		s.tree, err = inmemory.New[int, string](ordtree.ContainerOptions{Kind: kind, Degree: a.Degree})
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		s.kv = kvtest.New[int, string]()
		return nil
	}
	if s.tree == nil {
		return fmt.Errorf("step %d: %s before %s", step, a.Type, ActionStart)
	}

	compare := func(want, got any) error {
		if diff, equal := messagediff.PrettyDiff(want, got); !equal {
			return &Mismatch{Step: step, Action: a, Diff: diff}
		}
		return nil
	}

	switch a.Type {
	case ActionBulkLoad:
		wantErr := s.kv.BulkLoad(a.Data)
		gotErr := s.tree.BulkLoad(a.Data)
		if (wantErr == nil) != (gotErr == nil) {
			return &Mismatch{Step: step, Action: a, Diff: fmt.Sprintf("reference error: %v, container error: %v", wantErr, gotErr)}
		}
	case ActionSet:
		s.kv.Set(a.Key, a.Value)
		s.tree.Set(a.Key, a.Value)
	case ActionDelete:
		s.kv.Delete(a.Key)
		s.tree.Delete(a.Key)

	case ActionGetByIndex:
		want, wantOK := s.kv.GetByIndex(a.Index)
		got, gotOK := s.tree.GetByIndex(a.Index)
		return compare(lookup{want, wantOK}, lookup{got, gotOK})
	case ActionGetByKey:
		want, wantOK := s.kv.Get(a.Key)
		got, gotOK := s.tree.Get(a.Key)
		return compare(lookup{want, wantOK}, lookup{got, gotOK})
	case ActionQueryByIndex:
		if a.ValuesOnly {
			return compare(s.kv.ToValuesByIndex(a.Start, a.Count), s.tree.ToValuesByIndex(a.Start, a.Count))
		}
		return compare(s.kv.ToArrayByIndex(a.Start, a.Count), s.tree.ToArrayByIndex(a.Start, a.Count))
	case ActionQueryByBound:
		if a.ValuesOnly {
			return compare(s.kv.ToValues(a.Bounds), s.tree.ToValues(a.Bounds))
		}
		return compare(s.kv.ToArray(a.Bounds), s.tree.ToArray(a.Bounds))

	default:
		return fmt.Errorf("step %d: unexpected action %q", step, a.Type)
	}

	if b, ok := s.tree.(*btree.Btree[int, string]); ok {
		if err := btree.Verify(b); err != nil {
			return fmt.Errorf("step %d (%s): %w", step, a.Type, err)
		}
	}
	if s.kv.Size() != s.tree.Size() {
		return &Mismatch{Step: step, Action: a, Diff: fmt.Sprintf("size: reference %d, container %d", s.kv.Size(), s.tree.Size())}
	}
	return compare(s.kv.ToArray(nil), s.tree.ToArray(nil))
}
