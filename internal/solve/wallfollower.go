package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Hand picks which wall the follower keeps a hand on.
type Hand int

const (
	HandLeft Hand = iota
	HandRight
)

// WallFollower has no memory beyond its current position and facing
// direction. It is fragile: on a braided maze with an isolated loop
// it can circle forever, so it is bounded at 4*cells steps and then
// reports failure rather than looping indefinitely.
type WallFollower struct {
	Hand Hand
	Sink maze.EventSink
}

func (w WallFollower) Name() string {
	if w.Hand == HandLeft {
		return "left"
	}
	return "right"
}

// turnLeft and turnRight walk the compass in the physical
// counter-clockwise / clockwise cycle N->W->S->E->N, distinct from
// maze.Direction's declaration order.
func turnLeft(d maze.Direction) maze.Direction {
	switch d {
	case maze.North:
		return maze.West
	case maze.West:
		return maze.South
	case maze.South:
		return maze.East
	default: // East
		return maze.North
	}
}

func turnRight(d maze.Direction) maze.Direction {
	switch d {
	case maze.North:
		return maze.East
	case maze.East:
		return maze.South
	case maze.South:
		return maze.West
	default: // West
		return maze.North
	}
}

func (w WallFollower) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	visited := make([]bool, cells)

	cur := start
	facing := maze.East

	visited[start.Y*g.Width+start.X] = true
	g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
	emitVisit(w.Sink, start)
	visitedCount := 1

	path := []maze.Coord{start}
	maxSteps := 4 * cells

	if start == exit {
		emitPathAndMark(g, w.Sink, path)
		return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
	}

	// Priority order to try turning, tightest-hand-side first.
	var order func(facing maze.Direction) [4]maze.Direction
	if w.Hand == HandLeft {
		order = func(f maze.Direction) [4]maze.Direction {
			return [4]maze.Direction{turnLeft(f), f, turnRight(f), f.Opposite()}
		}
	} else {
		order = func(f maze.Direction) [4]maze.Direction {
			return [4]maze.Direction{turnRight(f), f, turnLeft(f), f.Opposite()}
		}
	}

	for step := 0; step < maxSteps; step++ {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		moved := false
		for _, dir := range order(facing) {
			if g.HasWall(cur.X, cur.Y, dir) {
				continue
			}
			dx, dy := dir.Delta()
			nx, ny := cur.X+dx, cur.Y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			facing = dir
			cur = maze.Coord{X: nx, Y: ny}
			idx := cur.Y*g.Width + cur.X
			if !visited[idx] {
				visited[idx] = true
				g.SetFlag(cur.X, cur.Y, grid.VisitedSolve, true)
				emitVisit(w.Sink, cur)
				visitedCount++
			}
			path = append(path, cur)
			moved = true
			break
		}
		if !moved {
			// Walled in on all four sides: cannot happen on a
			// connected grid with degree >= 1, but guards against a
			// corrupted grid rather than looping forever.
			return Result{Found: false, VisitedCount: visitedCount}, nil
		}
		if cur == exit {
			emitPathAndMark(g, w.Sink, path)
			return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
		}
	}
	return Result{Found: false, VisitedCount: visitedCount}, nil
}
