package solve

import (
	"container/heap"
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// BiAStar runs two A* searches — forward from start, backward from
// exit — alternating one expansion each, and stops the instant either
// side is about to expand a cell the other side has already closed.
type BiAStar struct{ Sink maze.EventSink }

func (BiAStar) Name() string { return "biastar" }

type biSide struct {
	target    maze.Coord
	pq        *priorityQueue
	seq       int
	best      []int
	closed    []bool
	parentDir []maze.Direction
	hasParent []bool
}

func newBiSide(g *grid.Grid, from, target maze.Coord) *biSide {
	cells := g.Width * g.Height
	s := &biSide{
		target:    target,
		pq:        &priorityQueue{},
		best:      make([]int, cells),
		closed:    make([]bool, cells),
		parentDir: make([]maze.Direction, cells),
		hasParent: make([]bool, cells),
	}
	for i := range s.best {
		s.best[i] = -1
	}
	heap.Init(s.pq)
	idx := from.Y*g.Width + from.X
	s.best[idx] = 0
	h := manhattan(from, target)
	heap.Push(s.pq, &pqItem{coord: from, gCost: 0, f: h, h: h, seq: s.seq})
	s.seq++
	return s
}

// expandOne pops the next cell on this side; if it's already closed on
// the other side, that cell is the meeting point (ok=true, met=true).
// Otherwise it is expanded normally and (coord, true, false) is
// returned, or ok=false if this side's frontier is exhausted.
func (s *biSide) expandOne(g *grid.Grid, other *biSide, sink maze.EventSink) (coord maze.Coord, ok bool, met bool) {
	for s.pq.Len() > 0 {
		item := heap.Pop(s.pq).(*pqItem)
		idx := item.coord.Y*g.Width + item.coord.X
		if s.closed[idx] {
			continue
		}
		if other.closed[idx] {
			return item.coord, true, true
		}
		s.closed[idx] = true
		g.SetFlag(item.coord.X, item.coord.Y, grid.VisitedSolve, true)
		emitVisit(sink, item.coord)

		for _, n := range g.OpenNeighbors(item.coord.X, item.coord.Y) {
			nidx := n.Y*g.Width + n.X
			if s.closed[nidx] {
				continue
			}
			ng := item.gCost + 1
			if s.best[nidx] != -1 && ng >= s.best[nidx] {
				continue
			}
			s.best[nidx] = ng
			s.parentDir[nidx] = n.Dir
			s.hasParent[nidx] = true
			nc := maze.Coord{X: n.X, Y: n.Y}
			nh := manhattan(nc, s.target)
			heap.Push(s.pq, &pqItem{coord: nc, gCost: ng, f: ng + nh, h: nh, seq: s.seq})
			s.seq++
		}
		return item.coord, true, false
	}
	return maze.Coord{}, false, false
}

func (b BiAStar) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	if start == exit {
		g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
		path := []maze.Coord{start}
		emitPathAndMark(g, b.Sink, path)
		return Result{Found: true, Path: path, VisitedCount: 1}, nil
	}

	fwd := newBiSide(g, start, exit)
	bwd := newBiSide(g, exit, start)

	visitedCount := 0
	var meeting maze.Coord
	found := false

	for {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		if fwd.pq.Len() == 0 && bwd.pq.Len() == 0 {
			break
		}

		if fwd.pq.Len() > 0 {
			c, ok, met := fwd.expandOne(g, bwd, b.Sink)
			if ok {
				visitedCount++
				if met {
					meeting = c
					found = true
					break
				}
			}
		}
		if bwd.pq.Len() > 0 {
			c, ok, met := bwd.expandOne(g, fwd, b.Sink)
			if ok {
				visitedCount++
				if met {
					meeting = c
					found = true
					break
				}
			}
		}
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}

	forwardHalf := reconstructPath(g, fwd.parentDir, fwd.hasParent, start, meeting)
	backwardHalf := reconstructPath(g, bwd.parentDir, bwd.hasParent, exit, meeting)
	reverse(backwardHalf)

	var full []maze.Coord
	full = append(full, forwardHalf...)
	if len(backwardHalf) > 0 {
		full = append(full, backwardHalf[1:]...)
	}
	emitPathAndMark(g, b.Sink, full)
	return Result{Found: true, Path: full, VisitedCount: visitedCount}, nil
}
