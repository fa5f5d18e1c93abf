package solve

import (
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Tremaux is the physical corridor-marking robot: it must begin at
// start and walk, never teleporting. Visit count per cell (0, 1, or
// >=2) is packed into two bits, VisitedSolve for "seen once" and
// MarkAux for "seen twice", exactly as many marks as the protocol
// needs to prefer unmarked corridors, then once-marked ones, and to
// know when it must turn back.
type Tremaux struct{ Sink maze.EventSink }

func (Tremaux) Name() string { return "tremaux" }

func markCount(g *grid.Grid, x, y int) int {
	if g.GetFlag(x, y, grid.MarkAux) {
		return 2
	}
	if g.GetFlag(x, y, grid.VisitedSolve) {
		return 1
	}
	return 0
}

func markVisit(g *grid.Grid, x, y int) {
	switch markCount(g, x, y) {
	case 0:
		g.SetFlag(x, y, grid.VisitedSolve, true)
	default:
		g.SetFlag(x, y, grid.MarkAux, true)
	}
}

func (t Tremaux) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	visitedOnce := make([]bool, cells)

	markVisit(g, start.X, start.Y)
	visitedOnce[start.Y*g.Width+start.X] = true
	emitVisit(t.Sink, start)
	visitedCount := 1

	stack := []maze.Coord{start}
	maxSteps := 4 * cells

	for step := 0; step < maxSteps; step++ {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		cur := stack[len(stack)-1]
		if cur == exit {
			break
		}

		type cand struct {
			c maze.Coord
			v int
		}
		var candidates []cand
		for _, n := range g.OpenNeighbors(cur.X, cur.Y) {
			v := markCount(g, n.X, n.Y)
			if v < 2 {
				candidates = append(candidates, cand{c: maze.Coord{X: n.X, Y: n.Y}, v: v})
			}
		}
		// Stable partition: unmarked corridors before once-marked
		// ones, preserving the fixed N,E,S,W order within each group.
		best := -1
		for i, c := range candidates {
			if best == -1 || c.v < candidates[best].v {
				best = i
			}
		}

		if best == -1 {
			if len(stack) <= 1 {
				break // stuck at start with nowhere left to go
			}
			stack = stack[:len(stack)-1]
			continue
		}

		target := candidates[best].c
		markVisit(g, target.X, target.Y)
		idx := target.Y*g.Width + target.X
		if !visitedOnce[idx] {
			visitedOnce[idx] = true
			emitVisit(t.Sink, target)
			visitedCount++
		}
		// Moving back into the cell the walker just came from is a
		// backtrack, not forward progress: pop the current top instead
		// of pushing a duplicate, so the stack stays the simple path
		// from start to the walker's actual position.
		if len(stack) >= 2 && target == stack[len(stack)-2] {
			stack = stack[:len(stack)-1]
		} else {
			stack = append(stack, target)
		}
	}

	if len(stack) == 0 || stack[len(stack)-1] != exit {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	if len(stack) == 0 {
		return Result{}, mazeerr.Invariant("tremaux: empty path reported as found")
	}
	emitPathAndMark(g, t.Sink, stack)
	return Result{Found: true, Path: stack, VisitedCount: visitedCount}, nil
}
