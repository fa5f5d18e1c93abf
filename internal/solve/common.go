// Package solve implements the pathfinding solver family: BFS,
// Dijkstra/A*, bidirectional A*, DFS, wall-followers, the dead-end
// filler, Trémaux, and swarm BFS, all sharing one deterministic
// (found, path, visited_count) contract.
package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Result is the outcome every solver reports.
type Result struct {
	Found        bool
	Path         []maze.Coord
	VisitedCount int
}

// Solver finds a path from start to exit on g, honoring ctx for
// cooperative cancellation.
type Solver interface {
	Name() string
	Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error)
}

// ByName resolves one of the ten solver names to its Solver. An
// unrecognized name is a UsageError.
func ByName(name string) (Solver, error) {
	switch name {
	case "bfs":
		return BFS{}, nil
	case "dijkstra":
		return Dijkstra{}, nil
	case "astar":
		return AStar{}, nil
	case "biastar":
		return BiAStar{}, nil
	case "dfs_solve":
		return DFSSolve{}, nil
	case "left":
		return WallFollower{Hand: HandLeft}, nil
	case "right":
		return WallFollower{Hand: HandRight}, nil
	case "deadend":
		return DeadEndFiller{}, nil
	case "tremaux":
		return Tremaux{}, nil
	case "swarm":
		return Swarm{}, nil
	default:
		return nil, mazeerr.Usage("unknown solve algorithm %q", name)
	}
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return mazeerr.Cancelled(ctx.Err().Error())
	default:
		return nil
	}
}

func emitVisit(sink maze.EventSink, c maze.Coord) {
	if sink != nil {
		sink.OnEvent(maze.Event{Kind: maze.EventVisit, X: c.X, Y: c.Y})
	}
}

func emitPathAndMark(g *grid.Grid, sink maze.EventSink, path []maze.Coord) {
	for _, c := range path {
		g.SetFlag(c.X, c.Y, grid.OnPath, true)
		if sink != nil {
			sink.OnEvent(maze.Event{Kind: maze.EventPath, X: c.X, Y: c.Y})
		}
	}
}

// manhattan is the admissible, consistent heuristic every
// heuristic-driven solver uses on this unit-cost grid.
func manhattan(a, b maze.Coord) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// reconstructPath walks a parent-direction array back from end to
// start. parent[i] holds the direction that was taken *into* cell i;
// walking backwards therefore takes the opposite direction each step.
// This mirrors the array-of-directions technique used by the solvers
// that need O(cells) parent storage instead of a map.
func reconstructPath(g *grid.Grid, parentDir []maze.Direction, hasParent []bool, start, end maze.Coord) []maze.Coord {
	path := []maze.Coord{end}
	cur := end
	for cur != start {
		idx := cur.Y*g.Width + cur.X
		if !hasParent[idx] {
			return nil
		}
		dir := parentDir[idx].Opposite()
		dx, dy := dir.Delta()
		cur = maze.Coord{X: cur.X + dx, Y: cur.Y + dy}
		path = append(path, cur)
	}
	reverse(path)
	return path
}

func reverse(cs []maze.Coord) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}
