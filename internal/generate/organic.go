package generate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Organic is the data-parallel multi-agent generator: a fixed swarm of
// agents advances in ticks, each attempting to claim one random
// neighbor cell; a killed agent respawns adjacent to already-carved
// territory, which keeps every carved region connected to start
// without ever needing to trace a path back to it.
type Organic struct{}

func (Organic) Name() string { return "organic" }

func defaultAgentCount(cells int) int {
	n := cells / 64
	if n > 16384 {
		n = 16384
	}
	if n < 1 {
		n = 1
	}
	return n
}

// organicAgent tracks one slot in the swarm. A dead agent (Alive ==
// false) is respawned right after the tick's commit phase if the
// frontier pool has a candidate for it; otherwise it stays dead and
// the respawn is tried again after the next tick.
type organicAgent struct {
	X, Y  int
	Alive bool
	rng   *rngsrc.Stream
}

func (Organic) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := validateDims(opts); err != nil {
		return nil, err
	}
	g, err := grid.New(opts.Width, opts.Height)
	if err != nil {
		return nil, mazeerr.Usage("%v", err)
	}
	g.FillWalls()

	cells := opts.Width * opts.Height
	agentCount := opts.AgentCount
	if agentCount <= 0 {
		agentCount = defaultAgentCount(cells)
	}

	rng := rngsrc.New(opts.Seed)
	sink := opts.Sink

	g.SetFlag(0, 0, grid.VisitedGen, true)
	emitVisit(sink, 0, 0)
	unvisitedCount := cells - 1

	fp := newFrontierPool(cells)
	fp.noteVisited(g, 0, 0)

	agents := make([]*organicAgent, 0, agentCount)
	spawnRng := rng.Child(0)
	for i := 0; i < agentCount && unvisitedCount > 0; i++ {
		cand, ok := fp.take(g, spawnRng)
		if !ok {
			break
		}
		if err := g.Carve(cand.fromX, cand.fromY, cand.dir); err != nil {
			return nil, mazeerr.Invariant("organic spawn carve failed at (%d,%d)->%s: %v", cand.fromX, cand.fromY, cand.dir, err)
		}
		g.SetFlag(cand.x, cand.y, grid.VisitedGen, true)
		emitCarve(sink, cand.fromX, cand.fromY, cand.dir)
		emitVisit(sink, cand.x, cand.y)
		unvisitedCount--
		fp.noteVisited(g, cand.x, cand.y)
		agents = append(agents, &organicAgent{X: cand.x, Y: cand.y, Alive: true, rng: rng.Child(i + 1)})
	}

	type pick struct {
		valid bool
		nb    grid.Neighbor
	}

	for unvisitedCount > 0 && anyAlive(agents) {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		// Read phase: every live agent independently samples its next
		// candidate move off its own RNG stream, so the fan-out below
		// can run genuinely concurrently without perturbing any other
		// agent's random sequence.
		picks := make([]pick, len(agents))
		eg, _ := errgroup.WithContext(ctx)
		for i, a := range agents {
			if !a.Alive {
				continue
			}
			i, a := i, a
			eg.Go(func() error {
				nbs := g.Neighbors(a.X, a.Y)
				if len(nbs) == 0 {
					return nil
				}
				picks[i] = pick{valid: true, nb: nbs[a.rng.Intn(len(nbs))]}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		// Commit claims in fixed agent-slot order: this is what makes
		// the final grid byte-for-byte reproducible at a fixed seed
		// regardless of how the read phase above was scheduled, while
		// still modeling "first successful compare-and-swap wins".
		for i, a := range agents {
			if !a.Alive || !picks[i].valid {
				continue
			}
			nb := picks[i].nb
			if g.GetFlag(nb.X, nb.Y, grid.VisitedGen) || !g.AtomicClaimCell(nb.X, nb.Y) {
				a.Alive = false
				continue
			}
			if err := g.Carve(a.X, a.Y, nb.Dir); err != nil {
				return nil, mazeerr.Invariant("organic carve failed at (%d,%d)->%s: %v", a.X, a.Y, nb.Dir, err)
			}
			g.SetFlag(nb.X, nb.Y, grid.VisitedGen, true)
			emitCarve(sink, a.X, a.Y, nb.Dir)
			emitVisit(sink, nb.X, nb.Y)
			unvisitedCount--
			fp.noteVisited(g, nb.X, nb.Y)
			a.X, a.Y = nb.X, nb.Y
		}

		for _, a := range agents {
			if a.Alive || unvisitedCount == 0 {
				continue
			}
			cand, ok := fp.take(g, a.rng)
			if !ok {
				continue // no reachable frontier cell left for this slot; it stays dead
			}
			if err := g.Carve(cand.fromX, cand.fromY, cand.dir); err != nil {
				return nil, mazeerr.Invariant("organic respawn carve failed at (%d,%d)->%s: %v", cand.fromX, cand.fromY, cand.dir, err)
			}
			g.SetFlag(cand.x, cand.y, grid.VisitedGen, true)
			emitCarve(sink, cand.fromX, cand.fromY, cand.dir)
			emitVisit(sink, cand.x, cand.y)
			unvisitedCount--
			fp.noteVisited(g, cand.x, cand.y)
			a.X, a.Y = cand.x, cand.y
			a.Alive = true
		}
	}

	if err := finalizeAndBraid(g, opts, rng.Child(len(agents)+1)); err != nil {
		return nil, err
	}
	return &Result{Grid: g, Seed: opts.Seed}, nil
}

func anyAlive(agents []*organicAgent) bool {
	for _, a := range agents {
		if a.Alive {
			return true
		}
	}
	return false
}

// frontierCandidate is one unvisited cell adjacent to already-visited
// territory, together with the visited cell and direction that must
// be carved to connect it in.
type frontierCandidate struct {
	x, y         int
	fromX, fromY int
	dir          maze.Direction
}

// frontierPool tracks unvisited cells known to be adjacent to at least
// one visited cell — the pool respawns draw from, implementing the
// "respawn adjacent to already-visited territory" policy so every
// spawned agent starts connected to the growing maze rather than in
// an isolated pocket. Each pooled candidate remembers the specific
// visited neighbor (and direction) that discovered it, so taking a
// candidate out of the pool carries everything needed to carve the
// connecting wall as part of the claim.
type frontierPool struct {
	candidates []frontierCandidate
	inPool     []bool
	width      int
}

func newFrontierPool(cells int) *frontierPool {
	return &frontierPool{inPool: make([]bool, cells)}
}

// noteVisited enqueues every unvisited neighbor of a just-visited cell
// that is not already in the pool, recording (x, y) as the visited
// cell that will be carved into it if it is later taken.
func (fp *frontierPool) noteVisited(g *grid.Grid, x, y int) {
	if fp.width == 0 {
		fp.width = g.Width
	}
	for _, n := range g.Neighbors(x, y) {
		if g.GetFlag(n.X, n.Y, grid.VisitedGen) {
			continue
		}
		i := n.Y*fp.width + n.X
		if fp.inPool[i] {
			continue
		}
		fp.inPool[i] = true
		fp.candidates = append(fp.candidates, frontierCandidate{x: n.X, y: n.Y, fromX: x, fromY: y, dir: n.Dir})
	}
}

// take draws one candidate uniformly from the pool, skipping entries
// that were claimed elsewhere since being enqueued. Returns ok=false
// once the pool is exhausted.
func (fp *frontierPool) take(g *grid.Grid, rng *rngsrc.Stream) (frontierCandidate, bool) {
	for len(fp.candidates) > 0 {
		i := rng.Intn(len(fp.candidates))
		c := fp.candidates[i]
		last := len(fp.candidates) - 1
		fp.candidates[i] = fp.candidates[last]
		fp.candidates = fp.candidates[:last]
		pi := c.y*fp.width + c.x
		if !fp.inPool[pi] {
			continue
		}
		fp.inPool[pi] = false
		if g.GetFlag(c.x, c.y, grid.VisitedGen) {
			continue
		}
		return c, true
	}
	return frontierCandidate{}, false
}
