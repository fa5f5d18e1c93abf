// Package config resolves and validates the settings the maze
// invoker accepts on its command line: dimensions, algorithm choice,
// seed, braid strength, and terminal geometry for anything that needs
// to size its output to the user's window.
package config

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
)

// GenerateAlgorithms and SolveAlgorithms are the closed sets a
// UsageError check validates against.
var (
	GenerateAlgorithms = []string{"dfs", "prim", "fractal", "organic"}
	SolveAlgorithms    = []string{"bfs", "dijkstra", "astar", "biastar", "dfs_solve", "left", "right", "deadend", "tremaux", "swarm"}
)

// GenerateConfig is the fully validated input to a generation run.
type GenerateConfig struct {
	Width, Height int
	Algorithm     string
	Seed          int64
	Braid         float64
	Out           string
	RecordEvents  bool
	BlockSide     int
	AgentCount    int
}

// Validate checks GenerateConfig against the same bounds the core
// generators enforce, so a bad flag combination is reported as a
// UsageError before any grid is allocated.
func (c GenerateConfig) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return mazeerr.Usage("--width and --height must each be at least 2, got %dx%d", c.Width, c.Height)
	}
	if int64(c.Width)*int64(c.Height) > 400_000_000 {
		return mazeerr.Usage("%dx%d exceeds the 4e8 cell budget", c.Width, c.Height)
	}
	if !contains(GenerateAlgorithms, c.Algorithm) {
		return mazeerr.Usage("--algo must be one of %v, got %q", GenerateAlgorithms, c.Algorithm)
	}
	if c.Braid < 0 || c.Braid > 1 {
		return mazeerr.Usage("--braid must be in [0,1], got %v", c.Braid)
	}
	if c.Out == "" {
		return mazeerr.Usage("--out is required")
	}
	return nil
}

// SolveConfig is the fully validated input to a solve run.
type SolveConfig struct {
	InputPath string
	Algorithm string
}

func (c SolveConfig) Validate() error {
	if c.InputPath == "" {
		return mazeerr.Usage("an input .maze file is required")
	}
	if !contains(SolveAlgorithms, c.Algorithm) {
		return mazeerr.Usage("--algo must be one of %v, got %q", SolveAlgorithms, c.Algorithm)
	}
	return nil
}

// ReplayConfig is the fully validated input to a replay run.
type ReplayConfig struct {
	EventsPath string
	MazePath   string
}

func (c ReplayConfig) Validate() error {
	if c.EventsPath == "" {
		return mazeerr.Usage("an input .events file is required")
	}
	if c.MazePath == "" {
		return mazeerr.Usage("--maze is required")
	}
	return nil
}

// BenchmarkConfig is the fully validated input to a benchmark run.
type BenchmarkConfig struct {
	Size int
}

func (c BenchmarkConfig) Validate() error {
	if c.Size < 2 {
		return mazeerr.Usage("--size must be at least 2, got %d", c.Size)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// TerminalSize reports the current terminal's (columns, rows) if
// stdout is a terminal, or ok=false otherwise (piped output,
// redirected to a file, non-interactive CI run). Renderer
// collaborators use this to size their output; the core never calls
// it itself.
func TerminalSize() (cols, rows int, ok bool) {
	fd := int(os.Stdout.Fd())
	if !terminal.IsTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := terminal.GetSize(fd)
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
