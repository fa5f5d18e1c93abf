package generate

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// DFS is the recursive backtracker: long corridors, low branching,
// carved with an explicit stack rather than call-stack recursion so
// it terminates safely on grids far larger than any stack limit.
type DFS struct{}

func (DFS) Name() string { return "dfs" }

func (DFS) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := validateDims(opts); err != nil {
		return nil, err
	}
	g, err := grid.New(opts.Width, opts.Height)
	if err != nil {
		return nil, mazeerr.Usage("%v", err)
	}
	g.FillWalls()

	rng := rngsrc.New(opts.Seed)
	if err := carveDFS(ctx, g, 0, 0, rng, opts.Sink); err != nil {
		return nil, err
	}
	if err := finalizeAndBraid(g, opts, rng.Child(1)); err != nil {
		return nil, err
	}
	return &Result{Grid: g, Seed: opts.Seed}, nil
}

// carveDFS runs the recursive backtracker starting at (sx, sy),
// shared by the plain DFS generator and the fractal generator's
// per-block and macro-lattice passes.
func carveDFS(ctx context.Context, g *grid.Grid, sx, sy int, rng *rngsrc.Stream, sink maze.EventSink) error {
	g.SetFlag(sx, sy, grid.VisitedGen, true)
	emitVisit(sink, sx, sy)

	stack := []maze.Coord{{X: sx, Y: sy}}
	for len(stack) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		top := stack[len(stack)-1]

		unvisited := make([]grid.Neighbor, 0, 4)
		for _, n := range g.Neighbors(top.X, top.Y) {
			if !g.GetFlag(n.X, n.Y, grid.VisitedGen) {
				unvisited = append(unvisited, n)
			}
		}

		if len(unvisited) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := unvisited[rng.Intn(len(unvisited))]
		if err := g.Carve(top.X, top.Y, next.Dir); err != nil {
			return mazeerr.Invariant("dfs carve failed at (%d,%d)->%s: %v", top.X, top.Y, next.Dir, err)
		}
		g.SetFlag(next.X, next.Y, grid.VisitedGen, true)
		emitCarve(sink, top.X, top.Y, next.Dir)
		emitVisit(sink, next.X, next.Y)
		stack = append(stack, maze.Coord{X: next.X, Y: next.Y})
	}
	return nil
}
