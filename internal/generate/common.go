// Package generate implements the maze generation family: recursive
// backtracker, Prim's, fractal (data-parallel divide & conquer), and
// organic (data-parallel multi-agent), plus the braiding post-process
// shared by all of them.
package generate

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Options parameterizes a single generation run. Sink is optional; a
// nil Sink means the generator emits no events, only the final grid.
type Options struct {
	Width, Height int
	Seed          int64
	Braid         float64
	BlockSide     int // fractal only; 0 selects the default (32).
	AgentCount    int // organic only; 0 selects the default.
	Sink          maze.EventSink
}

// Result is what a generator run produces.
type Result struct {
	Grid *grid.Grid
	Seed int64
}

// Generator produces a valid maze into a fresh grid for the given
// options, honoring ctx for cooperative cancellation.
type Generator interface {
	Name() string
	Generate(ctx context.Context, opts Options) (*Result, error)
}

// ByName resolves one of "dfs", "prim", "fractal", "organic" to its
// Generator. An unrecognized name is a UsageError.
func ByName(name string) (Generator, error) {
	switch name {
	case "dfs":
		return DFS{}, nil
	case "prim":
		return Prim{}, nil
	case "fractal":
		return Fractal{}, nil
	case "organic":
		return Organic{}, nil
	default:
		return nil, mazeerr.Usage("unknown generation algorithm %q", name)
	}
}

func validateDims(opts Options) error {
	if opts.Width < 2 || opts.Height < 2 {
		return mazeerr.Usage("width and height must each be at least 2, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Braid < 0 || opts.Braid > 1 {
		return mazeerr.Usage("braid must be in [0,1], got %v", opts.Braid)
	}
	return nil
}

func emitCarve(sink maze.EventSink, x, y int, dir maze.Direction) {
	if sink == nil {
		return
	}
	sink.OnEvent(maze.Event{Kind: maze.EventCarveCell, X: x, Y: y, Aux: uint32(dir)})
}

func emitVisit(sink maze.EventSink, x, y int) {
	if sink == nil {
		return
	}
	sink.OnEvent(maze.Event{Kind: maze.EventVisit, X: x, Y: y})
}

// emitConnect records a stitch between two already-carved regions,
// distinct from an ordinary carve into a fresh cell.
func emitConnect(sink maze.EventSink, x, y int, dir maze.Direction) {
	if sink == nil {
		return
	}
	sink.OnEvent(maze.Event{Kind: maze.EventConnectCells, X: x, Y: y, Aux: uint32(dir)})
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return mazeerr.Cancelled(ctx.Err().Error())
	default:
		return nil
	}
}

// finalizeAndBraid applies the braiding post-process (if opts.Braid >
// 0) using a Stream seeded independently from the generator's own
// stream, so braid probability draws never perturb the underlying
// generation sequence at a fixed seed.
func finalizeAndBraid(g *grid.Grid, opts Options, rng *rngsrc.Stream) error {
	if opts.Braid <= 0 {
		return nil
	}
	return Braid(g, opts.Braid, rng, opts.Sink)
}
