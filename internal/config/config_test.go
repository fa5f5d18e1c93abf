package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateConfigValidateAccepts(t *testing.T) {
	c := GenerateConfig{Width: 10, Height: 10, Algorithm: "dfs", Braid: 0.5, Out: "out.maze"}
	assert.NoError(t, c.Validate())
}

func TestGenerateConfigRejectsBadAlgorithm(t *testing.T) {
	c := GenerateConfig{Width: 10, Height: 10, Algorithm: "bogus", Out: "out.maze"}
	assert.Error(t, c.Validate())
}

func TestGenerateConfigRejectsTooSmall(t *testing.T) {
	c := GenerateConfig{Width: 1, Height: 10, Algorithm: "dfs", Out: "out.maze"}
	assert.Error(t, c.Validate())
}

func TestGenerateConfigRejectsOverBudget(t *testing.T) {
	c := GenerateConfig{Width: 30000, Height: 30000, Algorithm: "dfs", Out: "out.maze"}
	assert.Error(t, c.Validate())
}

func TestGenerateConfigRejectsBadBraid(t *testing.T) {
	c := GenerateConfig{Width: 10, Height: 10, Algorithm: "dfs", Braid: 1.5, Out: "out.maze"}
	assert.Error(t, c.Validate())
}

func TestGenerateConfigRequiresOut(t *testing.T) {
	c := GenerateConfig{Width: 10, Height: 10, Algorithm: "dfs"}
	assert.Error(t, c.Validate())
}

func TestSolveConfigValidate(t *testing.T) {
	assert.NoError(t, SolveConfig{InputPath: "in.maze", Algorithm: "bfs"}.Validate())
	assert.Error(t, SolveConfig{InputPath: "", Algorithm: "bfs"}.Validate())
	assert.Error(t, SolveConfig{InputPath: "in.maze", Algorithm: "bogus"}.Validate())
}

func TestReplayConfigValidate(t *testing.T) {
	assert.NoError(t, ReplayConfig{EventsPath: "run.events", MazePath: "base.maze"}.Validate())
	assert.Error(t, ReplayConfig{EventsPath: "", MazePath: "base.maze"}.Validate())
	assert.Error(t, ReplayConfig{EventsPath: "run.events", MazePath: ""}.Validate())
}

func TestBenchmarkConfigValidate(t *testing.T) {
	assert.NoError(t, BenchmarkConfig{Size: 100}.Validate())
	assert.Error(t, BenchmarkConfig{Size: 1}.Validate())
}
