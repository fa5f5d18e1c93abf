package generate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
	"github.com/Jason-Hoford/maze-engine/maze"
)

const defaultBlockSide = 32

// Fractal is the data-parallel divide-and-conquer generator: a macro
// lattice of blocks is carved into a perfect macro-maze, then every
// block is carved independently and in parallel, and finally adjacent
// blocks are stitched together wherever the macro-maze marked them
// connected.
type Fractal struct{}

func (Fractal) Name() string { return "fractal" }

func (Fractal) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := validateDims(opts); err != nil {
		return nil, err
	}
	g, err := grid.New(opts.Width, opts.Height)
	if err != nil {
		return nil, mazeerr.Usage("%v", err)
	}
	g.FillWalls()

	blockSide := opts.BlockSide
	if blockSide <= 0 {
		blockSide = defaultBlockSide
	}

	wb := ceilDiv(opts.Width, blockSide)
	hb := ceilDiv(opts.Height, blockSide)

	rng := rngsrc.New(opts.Seed)

	// Step 1: macro-maze over the block lattice. Every block, even a
	// residual one smaller than blockSide, is one macro-cell.
	macro := carveMacroLattice(wb, hb, rng.Child(0))

	// Step 2: parallel per-block recursive backtracker. Blocks own
	// disjoint rectangles of the grid, so no two goroutines ever write
	// the same byte.
	eg, egCtx := errgroup.WithContext(ctx)
	blockIdx := 0
	for by := 0; by < hb; by++ {
		for bx := 0; bx < wb; bx++ {
			bx, by, idx := bx, by, blockIdx
			blockIdx++
			eg.Go(func() error {
				x0, y0, w, h := blockRect(bx, by, opts.Width, opts.Height, blockSide)
				blockRng := rng.Child(idx + 1)
				return carveRegion(egCtx, g, x0, y0, w, h, x0, y0, blockRng, opts.Sink)
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Step 3: stitch every carved macro-edge, in parallel over edges;
	// each edge touches exactly two cells, and every block carve of
	// step 2 has finished before any stitch runs.
	// Each stitch joins two already-carved block interiors rather than
	// discovering a fresh cell, so it is recorded as EventConnectCells
	// rather than the ordinary EventCarveCell a within-block carve uses.
	stitchJobs := collectStitchJobs(macro, wb, hb, opts.Width, opts.Height, blockSide)
	eg2, egCtx2 := errgroup.WithContext(ctx)
	for _, job := range stitchJobs {
		job := job
		eg2.Go(func() error {
			if err := checkCancelled(egCtx2); err != nil {
				return err
			}
			if err := g.Carve(job.x, job.y, job.dir); err != nil {
				return err
			}
			emitConnect(opts.Sink, job.x, job.y, job.dir)
			return nil
		})
	}
	if err := eg2.Wait(); err != nil {
		return nil, mazeerr.Invariant("fractal stitch failed: %v", err)
	}

	if err := finalizeAndBraid(g, opts, rng.Child(blockIdx+len(stitchJobs)+2)); err != nil {
		return nil, err
	}
	return &Result{Grid: g, Seed: opts.Seed}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// blockRect returns the pixel rectangle owned by macro-cell (bx, by):
// full blockSide squares except the last row/column of blocks, which
// take whatever remains — the residual-strip policy, so a dimension
// that doesn't divide evenly never produces a degenerate zero-size
// block.
func blockRect(bx, by, width, height, blockSide int) (x0, y0, w, h int) {
	x0 = bx * blockSide
	y0 = by * blockSide
	w = blockSide
	if x0+w > width {
		w = width - x0
	}
	h = blockSide
	if y0+h > height {
		h = height - y0
	}
	return x0, y0, w, h
}

// macroCell records which of its four sides are carved open toward
// the adjacent macro-cell.
type macroCell struct {
	visited                    bool
	openN, openS, openE, openW bool
}

// carveMacroLattice runs a recursive backtracker over a wb x hb
// lattice of macro-cells, independent of the grid.Grid abstraction
// (which requires both dimensions >= 2) since a fractal generator on
// a grid smaller than two blocks wide or tall is still valid.
func carveMacroLattice(wb, hb int, rng *rngsrc.Stream) [][]macroCell {
	macro := make([][]macroCell, hb)
	for y := range macro {
		macro[y] = make([]macroCell, wb)
	}
	if wb*hb <= 1 {
		if wb > 0 && hb > 0 {
			macro[0][0].visited = true
		}
		return macro
	}

	type mcoord struct{ x, y int }
	macro[0][0].visited = true
	stack := []mcoord{{0, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		type cand struct {
			x, y int
			dir  maze.Direction
		}
		var candidates []cand
		for _, d := range []maze.Direction{maze.North, maze.East, maze.South, maze.West} {
			dx, dy := d.Delta()
			nx, ny := top.x+dx, top.y+dy
			if nx < 0 || nx >= wb || ny < 0 || ny >= hb {
				continue
			}
			if !macro[ny][nx].visited {
				candidates = append(candidates, cand{nx, ny, d})
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		pick := candidates[rng.Intn(len(candidates))]
		markMacroOpen(macro, top.x, top.y, pick.dir)
		macro[pick.y][pick.x].visited = true
		stack = append(stack, mcoord{pick.x, pick.y})
	}
	return macro
}

func markMacroOpen(macro [][]macroCell, x, y int, dir maze.Direction) {
	switch dir {
	case maze.North:
		macro[y][x].openN = true
		macro[y-1][x].openS = true
	case maze.South:
		macro[y][x].openS = true
		macro[y+1][x].openN = true
	case maze.East:
		macro[y][x].openE = true
		macro[y][x+1].openW = true
	case maze.West:
		macro[y][x].openW = true
		macro[y][x-1].openE = true
	}
}

type stitchJob struct {
	x, y int
	dir  maze.Direction
}

// collectStitchJobs converts every carved macro-edge into a concrete
// grid-cell carve at the midpoint of the shared block boundary,
// rounded down, per the deterministic stitch coordinate rule.
func collectStitchJobs(macro [][]macroCell, wb, hb, width, height, blockSide int) []stitchJob {
	var jobs []stitchJob
	for by := 0; by < hb; by++ {
		for bx := 0; bx < wb; bx++ {
			x0, y0, w, h := blockRect(bx, by, width, height, blockSide)
			cell := macro[by][bx]
			if cell.openE && bx+1 < wb {
				my := y0 + h/2
				jobs = append(jobs, stitchJob{x: x0 + w - 1, y: my, dir: maze.East})
			}
			if cell.openS && by+1 < hb {
				mx := x0 + w/2
				jobs = append(jobs, stitchJob{x: mx, y: y0 + h - 1, dir: maze.South})
			}
		}
	}
	return jobs
}

// carveRegion runs a recursive backtracker restricted to the
// rectangle [x0, x0+w) x [y0, y0+h), starting at (startX, startY).
// Neighbor candidates outside the rectangle are never considered, so
// concurrent callers on disjoint rectangles never race.
func carveRegion(ctx context.Context, g *grid.Grid, x0, y0, w, h, startX, startY int, rng *rngsrc.Stream, sink maze.EventSink) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	inRect := func(x, y int) bool {
		return x >= x0 && x < x0+w && y >= y0 && y < y0+h
	}

	g.SetFlag(startX, startY, grid.VisitedGen, true)
	emitVisit(sink, startX, startY)

	stack := []maze.Coord{{X: startX, Y: startY}}
	for len(stack) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		top := stack[len(stack)-1]

		var unvisited []grid.Neighbor
		for _, n := range g.Neighbors(top.X, top.Y) {
			if inRect(n.X, n.Y) && !g.GetFlag(n.X, n.Y, grid.VisitedGen) {
				unvisited = append(unvisited, n)
			}
		}
		if len(unvisited) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := unvisited[rng.Intn(len(unvisited))]
		if err := g.Carve(top.X, top.Y, next.Dir); err != nil {
			return mazeerr.Invariant("fractal block carve failed at (%d,%d)->%s: %v", top.X, top.Y, next.Dir, err)
		}
		g.SetFlag(next.X, next.Y, grid.VisitedGen, true)
		emitCarve(sink, top.X, top.Y, next.Dir)
		emitVisit(sink, next.X, next.Y)
		stack = append(stack, maze.Coord{X: next.X, Y: next.Y})
	}
	return nil
}
