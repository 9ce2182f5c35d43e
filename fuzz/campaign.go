package fuzz

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/devutil"
)

const (
	DefaultApproximateN = 500
	DefaultMinDegree    = 3
	DefaultMaxDegree    = 9
)

// Campaign runs many fuzz rounds, each on a random container kind, size and degree.
type Campaign struct {
	// Rounds is the number of rounds to run, zero or less runs until the context is done.
	Rounds int
	// Parallelism bounds the number of rounds running at once, zero means unbounded.
	Parallelism int
	// Seed of round i is Seed+i, so any round can be reproduced on its own.
	Seed uint64
	// ApproximateN is the upper limit of the per round N, which is drawn from [1, ApproximateN].
	ApproximateN int
	MinDegree    int
	MaxDegree    int
	// Queries is passed on to Options.Queries.
	Queries int
}

// CampaignResult summarizes a campaign.
type CampaignResult struct {
	// Rounds is the number of rounds that passed.
	Rounds int
	// Failure is the report of the first failing round, nil if all passed.
	Failure *Report
}

func (c Campaign) withDefaults() Campaign {
	if c.ApproximateN < 1 {
		c.ApproximateN = DefaultApproximateN
	}
	if c.MinDegree < ordtree.MinimumDegree {
		c.MinDegree = DefaultMinDegree
	}
	if c.MaxDegree < c.MinDegree {
		c.MaxDegree = max(DefaultMaxDegree, c.MinDegree)
	}
	return c
}

// RoundOptions returns the generator and options of round i.
func (c Campaign) RoundOptions(i int) (*devutil.Generator, Options) {
	c = c.withDefaults()
	g := devutil.NewGenerator(c.Seed + uint64(i))
	opts := Options{
		N:       g.RandomInteger(1, c.ApproximateN),
		Kind:    devutil.GetRandom(g, []ordtree.ContainerKind{ordtree.BTree, ordtree.SortedArray}),
		Degree:  g.RandomInteger(c.MinDegree, c.MaxDegree),
		Queries: c.Queries,
	}
	return g, opts
}

// Run executes the campaign. It stops at the first failing round, whose report is
// returned in the result along with the error. A done ctx stops it early without error.
func (c Campaign) Run(ctx context.Context) (*CampaignResult, error) {
	c = c.withDefaults()
	if c.Rounds <= 0 && c.Parallelism <= 0 {
		c.Parallelism = runtime.NumCPU()
	}
	tr := ordtree.NewTaskRunner(ctx, c.Parallelism)
	result := &CampaignResult{}
	var passed atomic.Int64
	var once sync.Once

	slog.Info("fuzz campaign started", "rounds", c.Rounds, "parallelism", c.Parallelism, "seed", c.Seed)
	for i := 0; c.Rounds <= 0 || i < c.Rounds; i++ {
		if tr.GetContext().Err() != nil {
			break
		}
		tr.Go(func() error {
			if tr.GetContext().Err() != nil {
				return nil
			}
			g, opts := c.RoundOptions(i)
			slog.Debug("fuzz round started", "round", i, "seed", g.Seed(), "kind", opts.Kind, "n", opts.N, "degree", opts.Degree)
			r, err := Run(g, opts)
			if err != nil {
				once.Do(func() { result.Failure = r })
				return err
			}
			passed.Add(1)
			return nil
		})
	}
	err := tr.Wait()
	result.Rounds = int(passed.Load())
	slog.Info("fuzz campaign done", "passed", result.Rounds, "failed", result.Failure != nil)
	return result, err
}
