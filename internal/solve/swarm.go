package solve

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Swarm is level-synchronized BFS whose frontier is split across a
// fixed number of concurrent shards each level; every shard expands
// its slice of the frontier independently and claims destination
// cells with a compare-and-swap, then all shards' discoveries are
// unioned into the next frontier. Because every claim is a one-time
// 0->1 transition and merging happens only after every shard for the
// level finishes, each level is exactly BFS's level, so the returned
// path is a shortest path in steps. The search stops after the level
// in which exit is claimed, without expanding that level, so its
// visited count can be lower than BFS's. Where a cell is reachable
// from two frontier cells of one level (a maze with loops), which
// shard claims it depends on goroutine scheduling.
type Swarm struct {
	Sink   maze.EventSink
	Shards int // 0 selects the default.
}

func (Swarm) Name() string { return "swarm" }

const defaultSwarmShards = 8

func (s Swarm) Solve(ctx context.Context, g *grid.Grid, start, exit maze.Coord) (Result, error) {
	g.ResetSolverFlags()

	shards := s.Shards
	if shards <= 0 {
		shards = defaultSwarmShards
	}

	cells := g.Width * g.Height
	claimed := make([]int32, cells)
	parentDir := make([]maze.Direction, cells)
	hasParent := make([]bool, cells)

	startIdx := start.Y*g.Width + start.X
	atomic.StoreInt32(&claimed[startIdx], 1)
	g.SetFlag(start.X, start.Y, grid.VisitedSolve, true)
	emitVisit(s.Sink, start)
	visitedCount := 1

	frontier := []maze.Coord{start}
	found := start == exit

	for len(frontier) > 0 && !found {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}

		n := shards
		if n > len(frontier) {
			n = len(frontier)
		}
		chunks := splitFrontier(frontier, n)
		nextByChunk := make([][]maze.Coord, len(chunks))

		var wg sync.WaitGroup
		for ci, chunk := range chunks {
			ci, chunk := ci, chunk
			wg.Add(1)
			go func() {
				defer wg.Done()
				var local []maze.Coord
				for _, cur := range chunk {
					for _, nb := range g.OpenNeighbors(cur.X, cur.Y) {
						nidx := nb.Y*g.Width + nb.X
						if !atomic.CompareAndSwapInt32(&claimed[nidx], 0, 1) {
							continue
						}
						parentDir[nidx] = nb.Dir
						hasParent[nidx] = true
						local = append(local, maze.Coord{X: nb.X, Y: nb.Y})
					}
				}
				nextByChunk[ci] = local
			}()
		}
		wg.Wait()

		var next []maze.Coord
		for _, chunk := range nextByChunk {
			for _, c := range chunk {
				g.SetFlag(c.X, c.Y, grid.VisitedSolve, true)
				emitVisit(s.Sink, c)
				visitedCount++
				next = append(next, c)
				if c == exit {
					found = true
				}
			}
		}
		frontier = next
	}

	if !found {
		return Result{Found: false, VisitedCount: visitedCount}, nil
	}
	path := reconstructPath(g, parentDir, hasParent, start, exit)
	emitPathAndMark(g, s.Sink, path)
	return Result{Found: true, Path: path, VisitedCount: visitedCount}, nil
}

// splitFrontier divides frontier into up to n contiguous, roughly
// equal shards, preserving order within each shard so the merge step
// stays deterministic.
func splitFrontier(frontier []maze.Coord, n int) [][]maze.Coord {
	if n <= 0 {
		n = 1
	}
	chunks := make([][]maze.Coord, 0, n)
	base := len(frontier) / n
	rem := len(frontier) % n
	i := 0
	for c := 0; c < n; c++ {
		size := base
		if c < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, frontier[i:i+size])
		i += size
	}
	return chunks
}
