// Command fuzzer runs randomized differential test campaigns against the ordtree
// containers and replays recorded failures.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/fuzz"
)

type cli struct {
	LogLevel slog.Level `help:"Log level: DEBUG, INFO, WARN or ERROR" default:"INFO" env:"ORDTREE_LOG_LEVEL"`

	Run    runCmd    `cmd:"" default:"1" help:"Run a fuzz campaign"`
	Replay replayCmd `cmd:"" help:"Replay a recorded action log"`
}

type runCmd struct {
	Rounds      int    `help:"Number of rounds, 0 runs until interrupted" default:"100" env:"ORDTREE_FUZZ_ROUNDS"`
	Parallelism int    `help:"Rounds running at once, 0 uses every CPU" default:"0"`
	Seed        uint64 `help:"Seed of the first round, 0 derives one from the clock" default:"0"`
	N           int    `help:"Upper limit of the per round item count" default:"500"`
	MinDegree   int    `help:"Smallest B-tree degree drawn" default:"3"`
	MaxDegree   int    `help:"Largest B-tree degree drawn" default:"9"`
	Queries     int    `help:"Query batches after each mutation" default:"10"`
	Dump        string `help:"Write the report of a failing round to this file" type:"path"`
}

type replayCmd struct {
	Path string `arg:"" help:"Report or action log written by a failing run" type:"existingfile"`
}

func main() {
	ordtree.ConfigureLogging()
	var params cli
	ctx := kong.Parse(&params, kong.Description("Differential fuzzer for the ordtree containers."))
	ordtree.SetLogLevel(params.LogLevel)
	if err := ctx.Run(); err != nil {
		slog.Error("fuzzer failed", "error", err)
		os.Exit(1)
	}
}

func (c *runCmd) Run() error {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	parallelism := c.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	campaign := fuzz.Campaign{
		Rounds:       c.Rounds,
		Parallelism:  parallelism,
		Seed:         seed,
		ApproximateN: c.N,
		MinDegree:    c.MinDegree,
		MaxDegree:    c.MaxDegree,
		Queries:      c.Queries,
	}
	result, err := campaign.Run(ctx)
	if err == nil {
		fmt.Printf("%d rounds passed, seed %d\n", result.Rounds, seed)
		return nil
	}
	if result.Failure != nil {
		r := result.Failure
		fmt.Printf("Round with seed %d failed after %d steps (kind %v, n %d, degree %d)\n",
			r.Seed, r.Steps, r.Options.Kind, r.Options.N, r.Options.Degree)
		if c.Dump != "" {
			if derr := writeReport(c.Dump, r); derr != nil {
				slog.Error("can't write report", "path", c.Dump, "error", derr)
			} else {
				fmt.Printf("Report written to %s\n", c.Dump)
			}
		}
	}
	return err
}

func writeReport(path string, r *fuzz.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Run accepts both a full report and a bare action log.
func (c *replayCmd) Run() error {
	b, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	var actions fuzz.ActionLog
	if len(b) > 0 && b[0] == '[' {
		err = json.Unmarshal(b, &actions)
	} else {
		var r fuzz.Report
		err = json.Unmarshal(b, &r)
		actions = r.Actions
	}
	if err != nil {
		return fmt.Errorf("can't decode %s: %w", c.Path, err)
	}
	if err := fuzz.Replay(actions); err != nil {
		return err
	}
	fmt.Printf("%d actions replayed without divergence\n", len(actions))
	return nil
}
