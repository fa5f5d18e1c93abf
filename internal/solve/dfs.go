package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// DFSSolve walks a LIFO stack, expanding neighbors in fixed N,E,S,W
// order. It reaches the exit but gives no optimality guarantee.
type DFSSolve struct{ Sink maze.EventSink }

func (DFSSolve) Name() string { return "dfs_solve" }

func (d DFSSolve) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	visited := make([]bool, cells)
	parentDir := make([]maze.Direction, cells)
	hasParent := make([]bool, cells)

	startIdx := start.Y*g.Width + start.X
	visited[startIdx] = true
	g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
	emitVisit(d.Sink, start)
	visitedCount := 1

	stack := []maze.Coord{start}
	found := false

	for len(stack) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == exit {
			found = true
			break
		}
		for _, n := range g.OpenNeighbors(cur.X, cur.Y) {
			idx := n.Y*g.Width + n.X
			if visited[idx] {
				continue
			}
			visited[idx] = true
			parentDir[idx] = n.Dir
			hasParent[idx] = true
			g.SetFlag(n.X, n.Y, grid.VisitedSolve, true)
			emitVisit(d.Sink, maze.Coord{X: n.X, Y: n.Y})
			visitedCount++
			stack = append(stack, maze.Coord{X: n.X, Y: n.Y})
		}
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	path := reconstructPath(g, parentDir, hasParent, start, exit)
	emitPathAndMark(g, d.Sink, path)
	return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
}
