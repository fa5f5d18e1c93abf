// Package metrics computes the maze complexity statistics: dead-end
// count, branching factor, and shortest-path length, in one grid pass
// plus one BFS.
package metrics

import (
	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Stats summarizes a generated grid's structural properties.
type Stats struct {
	DeadEndCount    int
	BranchingFactor float64
	PathLength      int // -1 if start and exit are not connected
}

// Compute runs the single grid pass (dead ends, branching factor) and
// the one BFS (path length) spec's complexity metrics require.
func Compute(g *grid.Grid, start, exit maze.Coord) Stats {
	deadEnds := 0
	nonDeadEndDegreeSum := 0
	nonDeadEndCount := 0

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			d := g.Degree(x, y)
			if d == 1 {
				deadEnds++
				continue
			}
			nonDeadEndDegreeSum += d - 1
			nonDeadEndCount++
		}
	}

	branching := 0.0
	if nonDeadEndCount > 0 {
		branching = float64(nonDeadEndDegreeSum) / float64(nonDeadEndCount)
	}

	return Stats{
		DeadEndCount:    deadEnds,
		BranchingFactor: branching,
		PathLength:      shortestPathLength(g, start, exit),
	}
}

// shortestPathLength runs a plain BFS over open edges and returns the
// number of steps from start to exit, or -1 if unreachable.
func shortestPathLength(g *grid.Grid, start, exit maze.Coord) int {
	if start == exit {
		return 0
	}
	cells := g.Width * g.Height
	dist := make([]int, cells)
	visited := make([]bool, cells)

	startIdx := start.Y*g.Width + start.X
	visited[startIdx] = true
	queue := []maze.Coord{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curIdx := cur.Y*g.Width + cur.X
		if cur == exit {
			return dist[curIdx]
		}
		for _, n := range g.OpenNeighbors(cur.X, cur.Y) {
			idx := n.Y*g.Width + n.X
			if visited[idx] {
				continue
			}
			visited[idx] = true
			dist[idx] = dist[curIdx] + 1
			queue = append(queue, maze.Coord{X: n.X, Y: n.Y})
		}
	}
	return -1
}
