package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// DeadEndFiller is a cellular automaton: it repeatedly "fills" any
// non-terminal cell with at most one unfilled neighbor, using
// MARK_AUX as the filled bit, until a sweep changes nothing. What's
// left unfilled is the solution corridor. It only guarantees
// optimality on a perfect maze — a braided maze can leave a small
// surviving loop that this solver does not resolve further.
type DeadEndFiller struct{ Sink maze.EventSink }

func (DeadEndFiller) Name() string { return "deadend" }

func (d DeadEndFiller) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	startIdx := start.Y*g.Width + start.X
	exitIdx := exit.Y*g.Width + exit.X

	neighborsOf := make([][]int, cells)
	unfilledDegree := make([]int, cells)
	filled := make([]bool, cells)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := y*g.Width + x
			for _, n := range g.OpenNeighbors(x, y) {
				neighborsOf[i] = append(neighborsOf[i], n.Y*g.Width+n.X)
			}
			unfilledDegree[i] = len(neighborsOf[i])
		}
	}

	// This is the queue-based equivalent of iterating sweeps to a
	// fixed point: a cell becomes a fill candidate exactly when its
	// unfilled-neighbor count first drops to <= 1, which is precisely
	// when some future sweep would fill it.
	queue := make([]int, 0, cells)
	inQueue := make([]bool, cells)
	for i := 0; i < cells; i++ {
		if i == startIdx || i == exitIdx {
			continue
		}
		if unfilledDegree[i] <= 1 {
			queue = append(queue, i)
			inQueue[i] = true
		}
	}

	for len(queue) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		i := queue[0]
		queue = queue[1:]
		inQueue[i] = false
		if filled[i] || i == startIdx || i == exitIdx {
			continue
		}
		if unfilledDegree[i] > 1 {
			continue
		}
		filled[i] = true
		x, y := i%g.Width, i/g.Width
		g.SetFlag(x, y, grid.MarkAux, true)

		for _, j := range neighborsOf[i] {
			if filled[j] {
				continue
			}
			unfilledDegree[j]--
			if unfilledDegree[j] <= 1 && j != startIdx && j != exitIdx && !inQueue[j] {
				queue = append(queue, j)
				inQueue[j] = true
			}
		}
	}

	// Walk the surviving unfilled subgraph from start to exit.
	visited := make([]bool, cells)
	parentDir := make([]maze.Direction, cells)
	hasParent := make([]bool, cells)
	visited[startIdx] = true
	g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
	emitVisit(d.Sink, start)
	visitedCount := 1

	bfsQueue := []maze.Coord{start}
	found := start == exit
	for len(bfsQueue) > 0 && !found {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		cur := bfsQueue[0]
		bfsQueue = bfsQueue[1:]
		for _, n := range g.OpenNeighbors(cur.X, cur.Y) {
			nidx := n.Y*g.Width + n.X
			if filled[nidx] || visited[nidx] {
				continue
			}
			visited[nidx] = true
			parentDir[nidx] = n.Dir
			hasParent[nidx] = true
			g.SetFlag(n.X, n.Y, grid.VisitedSolve, true)
			emitVisit(d.Sink, maze.Coord{X: n.X, Y: n.Y})
			visitedCount++
			nc := maze.Coord{X: n.X, Y: n.Y}
			if nc == exit {
				found = true
				break
			}
			bfsQueue = append(bfsQueue, nc)
		}
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	path := reconstructPath(g, parentDir, hasParent, start, exit)
	emitPathAndMark(g, d.Sink, path)
	return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
}
