// Package fuzz runs randomized differential tests of the ordtree containers against the
// brute-force reference store. Every round is recorded in an ActionLog that can be
// replayed to reproduce a failure.
package fuzz

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/devutil"
)

// DefaultQueries is the number of random query batches run after each mutation.
const DefaultQueries = 10

// Options describes a single fuzz round.
type Options struct {
	// N is the approximate number of entries. The round runs between 3N and 4N mutations
	// and uses keys 1..2N.
	N      int                   `json:"n"`
	Kind   ordtree.ContainerKind `json:"kind"`
	Degree int                   `json:"degree,omitempty"`
	// Queries is the number of query batches after each mutation, DefaultQueries if zero.
	// A batch is one of each: get by index, get by key, range by index, range by bounds.
	Queries int `json:"queries,omitempty"`
}

// Report describes a finished (or failed) round.
type Report struct {
	RunID   ordtree.UUID  `json:"runID"`
	Seed    uint64        `json:"seed"`
	Options Options       `json:"options"`
	Steps   int           `json:"steps"`
	Stats   ordtree.Stats `json:"stats"`
	Actions ActionLog     `json:"actions,omitempty"`
}

// Run executes one round driven by g. The report is returned even on failure, with the
// actions up to and including the failing one.
func Run(g *devutil.Generator, opts Options) (*Report, error) {
	if opts.N < 1 {
		return nil, fmt.Errorf("fuzz round needs N >= 1, got %d", opts.N)
	}
	if opts.Queries == 0 {
		opts.Queries = DefaultQueries
	}
	r := &Report{
		RunID:   ordtree.NewUUID(),
		Seed:    g.Seed(),
		Options: opts,
	}
	s := &session{}
	err := run(g, opts, s)
	r.Actions = s.log
	r.Steps = len(s.log)
	if s.tree != nil {
		r.Stats = s.tree.GetStats()
	}
	if err != nil {
		slog.Warn("fuzz round failed", "runID", r.RunID, "kind", opts.Kind, "n", opts.N, "degree", opts.Degree, "error", err)
		return r, err
	}
	slog.Debug("fuzz round passed", "runID", r.RunID, "kind", opts.Kind, "n", opts.N, "degree", opts.Degree, "steps", r.Steps, "size", r.Stats.Size)
	return r, nil
}

func run(g *devutil.Generator, opts Options, s *session) error {
	if err := s.apply(Action{Type: ActionStart, Kind: opts.Kind.String(), N: opts.N, Degree: opts.Degree}); err != nil {
		return err
	}

	maxLength := 2 * opts.N
	// Keys not currently in the store.
	keys := make([]int, 0, maxLength)
	for i := 1; i <= maxLength; i++ {
		keys = append(keys, i)
	}
	newItem := func() (int, string) {
		return devutil.DeleteRandom(g, &keys), g.RandomString()
	}

	iterations := g.RandomInteger(3*opts.N, 4*opts.N)
	for i := 0; i < iterations; i++ {
		var a Action
		pDelete := float64(s.kv.Size()) / float64(maxLength)
		switch {
		case i == 0 && g.RandomBoolean(0.5):
			data := make([]ordtree.KeyValuePair[int, string], opts.N)
			for j := range data {
				data[j].Key, data[j].Value = newItem()
			}
			slices.SortFunc(data, func(a, b ordtree.KeyValuePair[int, string]) int {
				return cmp.Compare(a.Key, b.Key)
			})
			a = Action{Type: ActionBulkLoad, Data: data}
		case g.RandomBoolean(pDelete):
			deleted, _ := s.kv.GetRandom(g)
			keys = append(keys, deleted.Key)
			a = Action{Type: ActionDelete, Key: deleted.Key}
		case g.RandomBoolean(pDelete):
			changed, _ := s.kv.GetRandom(g)
			a = Action{Type: ActionSet, Key: changed.Key, Value: g.RandomString()}
		default:
			k, v := newItem()
			a = Action{Type: ActionSet, Key: k, Value: v}
		}
		if err := s.apply(a); err != nil {
			return err
		}

		if s.kv.Size() == 0 {
			continue
		}
		reference := s.kv.ToArray(nil)
		for q := 0; q < opts.Queries; q++ {
			if err := query(g, s, reference); err != nil {
				return err
			}
		}
	}
	return nil
}

// query runs one batch of random reads, all anchored on the same random rank window.
func query(g *devutil.Generator, s *session, reference []ordtree.KeyValuePair[int, string]) error {
	iStart := g.RandomInteger(0, len(reference)-1)
	iEnd := g.RandomInteger(iStart, len(reference)-1)
	count := iEnd - iStart + 1

	bounds := &ordtree.Bounds[int]{}
	lo, hi := reference[iStart].Key, reference[iEnd].Key
	switch g.RandomInteger(0, 3) {
	case 1:
		bounds.Min = &lo
	case 2:
		bounds.MinInclusive = &lo
	case 3:
		bounds.MinExclusive = &lo
	}
	switch g.RandomInteger(0, 3) {
	case 1:
		bounds.Max = &hi
	case 2:
		bounds.MaxInclusive = &hi
	case 3:
		bounds.MaxExclusive = &hi
	}

	for _, a := range []Action{
		{Type: ActionGetByIndex, Index: iStart},
		{Type: ActionGetByKey, Key: reference[iStart].Key},
		{Type: ActionQueryByIndex, Start: iStart, Count: count},
		{Type: ActionQueryByIndex, Start: iStart, Count: count, ValuesOnly: true},
		{Type: ActionQueryByBound, Bounds: bounds},
		{Type: ActionQueryByBound, Bounds: bounds, ValuesOnly: true},
	} {
		if err := s.apply(a); err != nil {
			return err
		}
	}
	return nil
}

// Replay re-executes a recorded log against fresh containers and returns the first
// divergence (or structure violation), nil if the log replays cleanly.
func Replay(actions ActionLog) error {
	if len(actions) == 0 || actions[0].Type != ActionStart {
		return fmt.Errorf("action log must begin with a %q action", ActionStart)
	}
	s := &session{}
	for _, a := range actions {
		if err := s.apply(a); err != nil {
			return err
		}
	}
	return nil
}
