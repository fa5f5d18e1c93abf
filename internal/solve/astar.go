package solve

import (
	"container/heap"
	"context"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// AStar finds an optimal path using f = g + Manhattan(h), breaking
// ties by lower h then by insertion order.
type AStar struct{ Sink maze.EventSink }

func (AStar) Name() string { return "astar" }

func (a AStar) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	return runAStar(ctx, g, start, exit, a.Sink, true)
}

// Dijkstra is AStar with the heuristic pinned to zero, matching
// spec's "Dijkstra = A* with h=0" equivalence exactly rather than
// reimplementing a separate priority-queue expansion.
type Dijkstra struct{ Sink maze.EventSink }

func (Dijkstra) Name() string { return "dijkstra" }

func (d Dijkstra) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	return runAStar(ctx, g, start, exit, d.Sink, false)
}

type pqItem struct {
	coord maze.Coord
	gCost int
	f     int
	h     int
	seq   int // insertion order, for the tie-break
	idx   int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].h != pq[j].h {
		return pq[i].h < pq[j].h
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].idx, pq[j].idx = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.idx = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

func runAStar(ctx context.Context, g *grid.Grid, start, exit maze.Coord, sink maze.EventSink, heuristic bool) (Result, error) {
	g.ResetSolverFlags()

	cells := g.Width * g.Height
	best := make([]int, cells)
	for i := range best {
		best[i] = -1
	}
	closed := make([]bool, cells)
	parentDir := make([]maze.Direction, cells)
	hasParent := make([]bool, cells)

	h := func(c maze.Coord) int {
		if !heuristic {
			return 0
		}
		return manhattan(c, exit)
	}

	startIdx := start.Y*g.Width + start.X
	best[startIdx] = 0
	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &pqItem{coord: start, gCost: 0, f: h(start), h: h(start), seq: seq})
	seq++

	visitedCount := 0
	found := false

	for pq.Len() > 0 {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		item := heap.Pop(pq).(*pqItem)
		idx := item.coord.Y*g.Width + item.coord.X
		if closed[idx] {
			continue
		}
		closed[idx] = true
		g.SetFlag(item.coord.X, item.coord.Y, grid.VisitedSolve, true)
		emitVisit(sink, item.coord)
		visitedCount++

		if item.coord == exit {
			found = true
			break
		}

		for _, n := range g.OpenNeighbors(item.coord.X, item.coord.Y) {
			nidx := n.Y*g.Width + n.X
			if closed[nidx] {
				continue
			}
			ng := item.gCost + 1
			if best[nidx] != -1 && ng >= best[nidx] {
				continue
			}
			best[nidx] = ng
			parentDir[nidx] = n.Dir
			hasParent[nidx] = true
			nc := maze.Coord{X: n.X, Y: n.Y}
			nh := h(nc)
			heap.Push(pq, &pqItem{coord: nc, gCost: ng, f: ng + nh, h: nh, seq: seq})
			seq++
		}
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	path := reconstructPath(g, parentDir, hasParent, start, exit)
	emitPathAndMark(g, sink, path)
	return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
}
