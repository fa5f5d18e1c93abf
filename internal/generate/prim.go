package generate

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
)

// Prim is randomized Prim's algorithm: short, spiky branches grown
// outward from a frontier set of candidate walls.
type Prim struct{}

func (Prim) Name() string { return "prim" }

// frontierEdge names a wall between a visited cell and one of its
// neighbors, which may or may not still be unvisited by the time it
// is drawn.
type frontierEdge struct {
	from grid.Neighbor // neighbor view carries (nx, ny, dir) of the *unvisited* side
	fromX, fromY int
}

func (Prim) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := validateDims(opts); err != nil {
		return nil, err
	}
	g, err := grid.New(opts.Width, opts.Height)
	if err != nil {
		return nil, mazeerr.Usage("%v", err)
	}
	g.FillWalls()

	rng := rngsrc.New(opts.Seed)
	sink := opts.Sink

	g.SetFlag(0, 0, grid.VisitedGen, true)
	emitVisit(sink, 0, 0)

	frontier := make([]frontierEdge, 0, 4)
	addFrontier := func(x, y int) {
		for _, n := range g.Neighbors(x, y) {
			if !g.GetFlag(n.X, n.Y, grid.VisitedGen) {
				frontier = append(frontier, frontierEdge{from: n, fromX: x, fromY: y})
			}
		}
	}
	addFrontier(0, 0)

	for len(frontier) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		i := rng.Intn(len(frontier))
		edge := frontier[i]
		frontier[i] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if g.GetFlag(edge.from.X, edge.from.Y, grid.VisitedGen) {
			continue // already claimed by another frontier edge since being enqueued
		}

		if err := g.Carve(edge.fromX, edge.fromY, edge.from.Dir); err != nil {
			return nil, mazeerr.Invariant("prim carve failed at (%d,%d)->%s: %v", edge.fromX, edge.fromY, edge.from.Dir, err)
		}
		g.SetFlag(edge.from.X, edge.from.Y, grid.VisitedGen, true)
		emitCarve(sink, edge.fromX, edge.fromY, edge.from.Dir)
		emitVisit(sink, edge.from.X, edge.from.Y)
		addFrontier(edge.from.X, edge.from.Y)
	}

	if err := finalizeAndBraid(g, opts, rng.Child(1)); err != nil {
		return nil, err
	}
	return &Result{Grid: g, Seed: opts.Seed}, nil
}
