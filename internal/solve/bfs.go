package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// BFS finds the shortest path in steps using a FIFO queue, expanding
// neighbors in fixed N,E,S,W order.
type BFS struct{ Sink maze.EventSink }

func (BFS) Name() string { return "bfs" }

func (b BFS) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	visited := make([]bool, cells)
	parentDir := make([]maze.Direction, cells)
	hasParent := make([]bool, cells)

	startIdx := start.Y*g.Width + start.X
	visited[startIdx] = true
	g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
	emitVisit(b.Sink, start)
	visitedCount := 1

	queue := []maze.Coord{start}
	found := false

	for len(queue) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		cur := queue[0]
		queue = queue[1:]
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
			emitVisit(b.Sink, maze.Coord{X: n.X, Y: n.Y})
			visitedCount++
			queue = append(queue, maze.Coord{X: n.X, Y: n.Y})
		}
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	path := reconstructPath(g, parentDir, hasParent, start, exit)
	emitPathAndMark(g, b.Sink, path)
	return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
}
