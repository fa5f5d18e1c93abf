/* main.go - maze invoker
 *
 * Dispatches to one of four subcommands: generate, solve, replay,
 * benchmark. Each has its own flag.FlagSet with paired long/short
 * flags, matching the way this codebase has always parsed options.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Jason-Hoford/maze-engine/internal/bench"
	"github.com/Jason-Hoford/maze-engine/internal/config"
	"github.com/Jason-Hoford/maze-engine/internal/events"
	"github.com/Jason-Hoford/maze-engine/internal/generate"
	"github.com/Jason-Hoford/maze-engine/internal/logging"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/metrics"
	"github.com/Jason-Hoford/maze-engine/internal/serialize"
	"github.com/Jason-Hoford/maze-engine/internal/solve"
	"github.com/Jason-Hoford/maze-engine/maze"
)

const utsSignOn = "maze - maze generation and solving console utility\n\n"

var logger = logging.New()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(mazeerr.ExitUsage)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "solve":
		err = runSolve(os.Args[2:])
	case "replay":
		err = runReplay(os.Args[2:])
	case "benchmark":
		err = runBenchmark(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		os.Exit(mazeerr.ExitOK)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(mazeerr.ExitUsage)
	}

	if err != nil {
		logger.Error("%v", err)
		os.Exit(mazeerr.ExitCode(err))
	}
}

func usage() {
	fmt.Fprint(os.Stderr, utsSignOn+
		"Usage: maze <subcommand> [options]\n\n"+
		"Subcommands:\n"+
		"  generate   carve a new maze to a .maze file\n"+
		"  solve      find a path through an existing .maze file\n"+
		"  replay     replay a recorded .events stream against a base .maze file\n"+
		"  benchmark  time every generator and solver at a given size\n")
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var c config.GenerateConfig
	var eventsPath string

	fs.IntVar(&c.Width, "width", 0, "maze width in cells")
	fs.IntVar(&c.Width, "w", 0, "maze width in cells (shorthand)")
	fs.IntVar(&c.Height, "height", 0, "maze height in cells")
	fs.IntVar(&c.Height, "h", 0, "maze height in cells (shorthand)")
	fs.StringVar(&c.Algorithm, "algo", "dfs", "generation algorithm: dfs, prim, fractal, organic")
	fs.StringVar(&c.Algorithm, "a", "dfs", "generation algorithm (shorthand)")
	fs.Int64Var(&c.Seed, "seed", 0, "PRNG seed")
	fs.Int64Var(&c.Seed, "r", 0, "PRNG seed (shorthand)")
	fs.Float64Var(&c.Braid, "braid", 0, "fraction of dead ends to braid open, in [0,1]")
	fs.Float64Var(&c.Braid, "b", 0, "braid fraction (shorthand)")
	fs.StringVar(&c.Out, "out", "", "output .maze path")
	fs.StringVar(&c.Out, "o", "", "output .maze path (shorthand)")
	fs.IntVar(&c.BlockSide, "block-side", 0, "fractal generator block side length")
	fs.IntVar(&c.AgentCount, "agents", 0, "organic generator agent count")
	fs.StringVar(&eventsPath, "events", "", "optional .events output path to record the carve sequence")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, utsSignOn+"Usage: maze generate -w WIDTH -h HEIGHT -o OUT.maze [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return mazeerr.Usage("%v", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	gen, err := generate.ByName(c.Algorithm)
	if err != nil {
		return err
	}

	var recorder *events.Recorder
	var sink maze.EventSink
	if eventsPath != "" {
		recorder = events.NewRecorder()
		sink = recorder
	}

	res, err := gen.Generate(context.Background(), generate.Options{
		Width:      c.Width,
		Height:     c.Height,
		Seed:       c.Seed,
		Braid:      c.Braid,
		BlockSide:  c.BlockSide,
		AgentCount: c.AgentCount,
		Sink:       sink,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return mazeerr.IO("generate: create output", err)
	}
	defer f.Close()

	md := serialize.Metadata{
		Algorithm:   c.Algorithm,
		Seed:        res.Seed,
		Braid:       c.Braid,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := serialize.Write(f, res.Grid, md, nil); err != nil {
		return err
	}

	if recorder != nil {
		ef, err := os.Create(eventsPath)
		if err != nil {
			return mazeerr.IO("generate: create events output", err)
		}
		defer ef.Close()
		if err := events.Write(ef, recorder.Events(), recorder.Len() > (1<<16)); err != nil {
			return err
		}
	}

	sx, sy := res.Grid.Start()
	ex, ey := res.Grid.Exit()
	stats := metrics.Compute(res.Grid, maze.Coord{X: sx, Y: sy}, maze.Coord{X: ex, Y: ey})
	logger.Info("wrote %s: %dx%d, seed=%d, dead_ends=%d, branching_factor=%.3f",
		c.Out, c.Width, c.Height, res.Seed, stats.DeadEndCount, stats.BranchingFactor)
	return nil
}

func runSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	var c config.SolveConfig
	var eventsPath string

	fs.StringVar(&c.Algorithm, "algo", "bfs", "solve algorithm")
	fs.StringVar(&c.Algorithm, "a", "bfs", "solve algorithm (shorthand)")
	fs.StringVar(&eventsPath, "events", "", "optional .events output path to record the solution path (PATH events only)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, utsSignOn+"Usage: maze solve -a ALGO INPUT.maze [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return mazeerr.Usage("%v", err)
	}
	if fs.NArg() < 1 {
		return mazeerr.Usage("an input .maze file is required")
	}
	c.InputPath = fs.Arg(0)
	if err := c.Validate(); err != nil {
		return err
	}

	f, err := os.Open(c.InputPath)
	if err != nil {
		return mazeerr.IO("solve: open input", err)
	}
	defer f.Close()

	g, _, err := serialize.Read(f)
	if err != nil {
		return err
	}

	solver, err := solve.ByName(c.Algorithm)
	if err != nil {
		return err
	}

	var recorder *events.Recorder
	if eventsPath != "" {
		recorder = events.NewRecorder()
	}

	sx, sy := g.Start()
	ex, ey := g.Exit()
	start, exit := maze.Coord{X: sx, Y: sy}, maze.Coord{X: ex, Y: ey}

	res, err := solver.Solve(context.Background(), g, start, exit)
	if err != nil {
		return err
	}
	if recorder != nil {
		for _, c := range res.Path {
			recorder.OnEvent(maze.Event{Kind: maze.EventPath, X: c.X, Y: c.Y})
		}
		ef, err := os.Create(eventsPath)
		if err != nil {
			return mazeerr.IO("solve: create events output", err)
		}
		defer ef.Close()
		if err := events.Write(ef, recorder.Events(), false); err != nil {
			return err
		}
	}

	if !res.Found {
		logger.Warn("%s found no path from %v to %v", c.Algorithm, start, exit)
		return mazeerr.Algorithm("%s found no path from %v to %v", c.Algorithm, start, exit)
	}
	logger.Info("found path: length=%d visited=%d", len(res.Path), res.VisitedCount)
	return nil
}

func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	var c config.ReplayConfig
	fs.StringVar(&c.MazePath, "maze", "", "base .maze file the events were recorded against")
	fs.StringVar(&c.MazePath, "m", "", "base .maze file (shorthand)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, utsSignOn+"Usage: maze replay -m BASE.maze INPUT.events\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return mazeerr.Usage("%v", err)
	}
	if fs.NArg() < 1 {
		return mazeerr.Usage("an input .events file is required")
	}
	c.EventsPath = fs.Arg(0)
	if err := c.Validate(); err != nil {
		return err
	}

	mf, err := os.Open(c.MazePath)
	if err != nil {
		return mazeerr.IO("replay: open maze", err)
	}
	defer mf.Close()
	g, _, err := serialize.Read(mf)
	if err != nil {
		return err
	}

	ef, err := os.Open(c.EventsPath)
	if err != nil {
		return mazeerr.IO("replay: open events", err)
	}
	defer ef.Close()
	evts, err := events.Read(ef)
	if err != nil {
		return err
	}

	player := events.NewPlayer(evts)
	printer := replayPrinter{}
	player.ReplayAll(printer)
	fmt.Printf("replayed %d events against %dx%d maze\n", len(evts), g.Width, g.Height)
	return nil
}

// replayPrinter is a trivial maze.EventSink that prints each event as
// it is replayed; a real renderer would draw instead.
type replayPrinter struct{}

func (replayPrinter) OnEvent(evt maze.Event) {
	fmt.Printf("%s (%d,%d) aux=%d\n", evt.Kind, evt.X, evt.Y, evt.Aux)
}

func runBenchmark(args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	var c config.BenchmarkConfig
	var seed int64
	fs.IntVar(&c.Size, "size", 64, "maze side length to benchmark")
	fs.IntVar(&c.Size, "n", 64, "maze side length (shorthand)")
	fs.Int64Var(&seed, "seed", 1, "PRNG seed for the benchmark run")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, utsSignOn+"Usage: maze benchmark -n SIZE [options]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return mazeerr.Usage("%v", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	results, err := bench.Run(context.Background(), c.Size, seed)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "kind\talgo\trun_id\tduration\tvisited\tpath\tdeadends")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n", r.Kind, r.Algorithm, r.RunID, r.Duration, r.VisitedCount, r.PathLength, r.DeadEnds)
	}
	return tw.Flush()
}
