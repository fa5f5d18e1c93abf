package generate

import (
	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/rngsrc"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Braid enumerates dead ends (cells with exactly three walls) and,
// independently with probability braidFrac, knocks out one random
// wall bordering an in-bounds neighbor, turning the perfect maze into
// a braided one with a controlled loop density. It never guarantees
// an exact fraction removed — only that the expectation is braidFrac.
// Every wall it removes is emitted to sink as a carve event, so a
// recorded .events stream stays a complete, replayable record of the
// final grid even when braiding is enabled.
func Braid(g *grid.Grid, braidFrac float64, rng *rngsrc.Stream, sink maze.EventSink) error {
	if braidFrac <= 0 {
		return nil
	}
	deadEnds := make([]maze.Coord, 0)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.IsDeadEnd(x, y) {
				deadEnds = append(deadEnds, maze.Coord{X: x, Y: y})
			}
		}
	}

	for _, c := range deadEnds {
		if rng.Float64() >= braidFrac {
			continue
		}
		candidates := wallCandidates(g, c.X, c.Y)
		if len(candidates) == 0 {
			continue
		}
		dir := candidates[rng.Intn(len(candidates))]
		if err := g.Carve(c.X, c.Y, dir); err != nil {
			continue
		}
		emitCarve(sink, c.X, c.Y, dir)
	}
	return nil
}

// wallCandidates returns the directions of (x,y) that currently hold
// a wall and have an in-bounds neighbor — a border wall is never a
// candidate since carving it would breach the maze boundary.
func wallCandidates(g *grid.Grid, x, y int) []maze.Direction {
	out := make([]maze.Direction, 0, 3)
	for _, n := range g.Neighbors(x, y) {
		if g.HasWall(x, y, n.Dir) {
			out = append(out, n.Dir)
		}
	}
	return out
}
