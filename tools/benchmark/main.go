package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/devutil"
	"github.com/sharedcode/ordtree/inmemory"
)

type workload struct {
	startData  []ordtree.KeyValuePair[string, string]
	deleteKeys []string
	addData    []ordtree.KeyValuePair[string, string]

	randomKeys    []string
	randomIndexes []int
	keyRanges     map[int][]ordtree.Bounds[string]
	indexRanges   map[int][]devutil.IndexRange
}

func main() {
	sizes := flag.String("n", "10000,100000,1000000", "Comma separated item counts to benchmark")
	ranges := flag.Int("ranges", 1000, "Number of lookups/range queries per measurement")
	degree := flag.Int("degree", ordtree.DefaultDegree, "B-Tree degree")
	seed := flag.Uint64("seed", 1, "Random seed of the generated data")
	flag.Parse()

	g := devutil.NewGenerator(*seed)
	for _, s := range strings.Split(*sizes, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 2 {
			fmt.Printf("Invalid item count %q\n", s)
			os.Exit(1)
		}
		w := newWorkload(g, n, *ranges)
		fmt.Printf("Benchmarking %d items, %d queries per measurement\n", n, *ranges)
		for _, kind := range []ordtree.ContainerKind{ordtree.BTree, ordtree.SortedArray} {
			c, err := inmemory.New[string, string](ordtree.ContainerOptions{Kind: kind, Degree: *degree})
			if err != nil {
				fmt.Printf("Failed to create %v container: %v\n", kind, err)
				os.Exit(1)
			}
			if err := run(kind, c, w, *ranges); err != nil {
				fmt.Printf("Benchmark of %v failed: %v\n", kind, err)
				os.Exit(1)
			}
		}
	}
}

func newWorkload(g *devutil.Generator, n, nRanges int) *workload {
	startKeys := make([]string, n)
	for i := range startKeys {
		startKeys[i] = fmt.Sprintf("K-%s-%d", g.RandomString(), i)
	}
	slices.Sort(startKeys)
	w := &workload{
		startData:   make([]ordtree.KeyValuePair[string, string], n),
		keyRanges:   map[int][]ordtree.Bounds[string]{},
		indexRanges: map[int][]devutil.IndexRange{},
	}
	for i, k := range startKeys {
		w.startData[i] = ordtree.KeyValuePair[string, string]{Key: k, Value: "V" + g.RandomString()}
	}

	devutil.ShuffleInPlace(g, startKeys)
	nToKeep := n / 2
	w.deleteKeys = startKeys[nToKeep:]
	endKeys := slices.Clone(startKeys[:nToKeep])
	for i := n; i < n+len(w.deleteKeys); i++ {
		k := fmt.Sprintf("K-%s-%d", g.RandomString(), i)
		w.addData = append(w.addData, ordtree.KeyValuePair[string, string]{Key: k, Value: "V" + g.RandomString()})
		endKeys = append(endKeys, k)
	}
	slices.Sort(endKeys)

	for _, span := range []int{100, 1000} {
		if span > len(endKeys) {
			continue
		}
		w.keyRanges[span] = devutil.GenerateKeyRanges(g, nRanges, span, endKeys)
		w.indexRanges[span] = g.GenerateIndexRanges(nRanges, span, len(endKeys))
	}
	for _, b := range devutil.GenerateKeyRanges(g, nRanges, 1, endKeys) {
		w.randomKeys = append(w.randomKeys, *b.Min)
	}
	for _, r := range g.GenerateIndexRanges(nRanges, 1, len(endKeys)) {
		w.randomIndexes = append(w.randomIndexes, r.Start)
	}
	return w
}

func run(kind ordtree.ContainerKind, c ordtree.Container[string, string], w *workload, nRanges int) error {
	start := time.Now()
	c.Clear()
	if err := c.BulkLoad(w.startData); err != nil {
		return err
	}
	for i, k := range w.deleteKeys {
		c.Delete(k)
		c.Set(w.addData[i].Key, w.addData[i].Value)
	}
	report(fmt.Sprintf("Bulk load %d items, add/delete %d items in %v", len(w.startData), len(w.deleteKeys), kind), len(w.startData)+2*len(w.deleteKeys), time.Since(start))

	start = time.Now()
	for _, k := range w.randomKeys {
		if _, ok := c.Get(k); !ok {
			return fmt.Errorf("key %q not found", k)
		}
	}
	report(fmt.Sprintf("Get %d values by key", nRanges), nRanges, time.Since(start))

	start = time.Now()
	for _, i := range w.randomIndexes {
		if _, ok := c.GetByIndex(i); !ok {
			return fmt.Errorf("index %d not found", i)
		}
	}
	report(fmt.Sprintf("Get %d values by index", nRanges), nRanges, time.Since(start))

	for _, span := range []int{100, 1000} {
		if _, ok := w.keyRanges[span]; !ok {
			continue
		}
		start = time.Now()
		for _, b := range w.keyRanges[span] {
			if got := len(c.ToValues(&b)); got != span {
				return fmt.Errorf("range by key returned %d values, expected %d", got, span)
			}
		}
		report(fmt.Sprintf("Query %d value ranges of size %d by key", nRanges, span), nRanges, time.Since(start))

		start = time.Now()
		for _, r := range w.indexRanges[span] {
			if got := len(c.ToValuesByIndex(r.Start, r.Count)); got != span {
				return fmt.Errorf("range by index returned %d values, expected %d", got, span)
			}
		}
		report(fmt.Sprintf("Query %d value ranges of size %d by index", nRanges, span), nRanges, time.Since(start))
	}
	return nil
}

func report(name string, ops int, d time.Duration) {
	fmt.Printf("%s: %v (%.2f ops/sec)\n", name, d, float64(ops)/d.Seconds())
}
