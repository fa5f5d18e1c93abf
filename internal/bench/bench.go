// Package bench runs every generator and solver at a fixed size and
// collects raw timing and outcome data. Formatting that data into a
// human-facing report is an external collaborator's job; this package
// only produces the numbers.
package bench

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jason-Hoford/maze-engine/internal/generate"
	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/metrics"
	"github.com/Jason-Hoford/maze-engine/internal/solve"
	"github.com/Jason-Hoford/maze-engine/maze"
)

// Result is one row of the benchmark table: either a generator run
// (Kind == "generate") or a solver run (Kind == "solve") at a given
// size.
type Result struct {
	RunID        string
	Algorithm    string
	Kind         string
	Duration     time.Duration
	VisitedCount int
	PathLength   int
	DeadEnds     int
}

var generateAlgorithms = []string{"dfs", "prim", "fractal", "organic"}
var solveAlgorithms = []string{"bfs", "dijkstra", "astar", "biastar", "dfs_solve", "left", "right", "deadend", "tremaux", "swarm"}

// Run generates a maze with every generator at size x size, then
// solves the first successfully generated one with every solver,
// returning one Result per algorithm exercised. Every run is tagged
// with a fresh UUID so results from repeated benchmark invocations
// can be correlated externally without relying on wall-clock time.
func Run(ctx context.Context, size int, seed int64) ([]Result, error) {
	var results []Result
	var solveGrid *grid.Grid
	var solveStart, solveExit maze.Coord

	for _, name := range generateAlgorithms {
		gen, err := generate.ByName(name)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		res, err := gen.Generate(ctx, generate.Options{Width: size, Height: size, Seed: seed})
		elapsed := time.Since(start)
		if err != nil {
			return nil, err
		}
		gsx, gsy := res.Grid.Start()
		gex, gey := res.Grid.Exit()
		stats := metrics.Compute(res.Grid, maze.Coord{X: gsx, Y: gsy}, maze.Coord{X: gex, Y: gey})
		results = append(results, Result{
			RunID:      uuid.NewString(),
			Algorithm:  name,
			Kind:       "generate",
			Duration:   elapsed,
			PathLength: stats.PathLength,
			DeadEnds:   stats.DeadEndCount,
		})
		if solveGrid == nil {
			solveGrid = res.Grid
			sx, sy := res.Grid.Start()
			ex, ey := res.Grid.Exit()
			solveStart = maze.Coord{X: sx, Y: sy}
			solveExit = maze.Coord{X: ex, Y: ey}
		}
	}

	for _, name := range solveAlgorithms {
		solver, err := solve.ByName(name)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		res, err := solver.Solve(ctx, solveGrid, solveStart, solveExit)
		elapsed := time.Since(start)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			RunID:        uuid.NewString(),
			Algorithm:    name,
			Kind:         "solve",
			Duration:     elapsed,
			VisitedCount: res.VisitedCount,
			PathLength:   len(res.Path),
		})
	}

	return results, nil
}
