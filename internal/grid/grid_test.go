package grid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jason-Hoford/maze-engine/maze"
)

func TestNewRejectsTooSmall(t *testing.T) {
	_, err := New(1, 5)
	assert.Error(t, err)
}

func TestNewRejectsOverBudget(t *testing.T) {
	_, err := New(30000, 30000)
	assert.Error(t, err)
}

func TestFillWallsAllClosed(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	g.FillWalls()
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, 0, g.Degree(x, y), "cell (%d,%d) should be fully walled", x, y)
		}
	}
}

func TestCarveOpensBothSides(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	g.FillWalls()

	require.NoError(t, g.Carve(0, 0, maze.East))
	assert.False(t, g.HasWall(0, 0, maze.East))
	assert.False(t, g.HasWall(1, 0, maze.West))
	assert.Equal(t, 1, g.Degree(0, 0))
	assert.Equal(t, 1, g.Degree(1, 0))
}

func TestCarveOutOfBoundsErrors(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	err = g.Carve(2, 2, maze.East)
	assert.Error(t, err)
}

func TestSetWallSymmetric(t *testing.T) {
	g, err := New(4, 4)
	require.NoError(t, err)

	g.SetWall(1, 1, maze.South, true)
	assert.True(t, g.HasWall(1, 1, maze.South))
	assert.True(t, g.HasWall(1, 2, maze.North))

	g.SetWall(1, 1, maze.South, false)
	assert.False(t, g.HasWall(1, 1, maze.South))
	assert.False(t, g.HasWall(1, 2, maze.North))
}

func TestCheckWallSymmetryDetectsCorruption(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	require.NoError(t, g.CheckWallSymmetry())

	// Directly corrupt one side of an edge, bypassing SetWall/Carve.
	g.cells[g.index(0, 0)] |= WallE
	assert.Error(t, g.CheckWallSymmetry())
}

func TestNeighborsFixedOrder(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	ns := g.Neighbors(1, 1)
	require.Len(t, ns, 4)
	assert.Equal(t, maze.North, ns[0].Dir)
	assert.Equal(t, maze.East, ns[1].Dir)
	assert.Equal(t, maze.South, ns[2].Dir)
	assert.Equal(t, maze.West, ns[3].Dir)
}

func TestNeighborsAtCornerClipped(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	ns := g.Neighbors(0, 0)
	require.Len(t, ns, 2)
	assert.Equal(t, maze.East, ns[0].Dir)
	assert.Equal(t, maze.South, ns[1].Dir)
}

func TestIsDeadEnd(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	g.FillWalls()
	require.NoError(t, g.Carve(0, 0, maze.East))
	assert.True(t, g.IsDeadEnd(0, 0))
	require.NoError(t, g.Carve(1, 0, maze.South))
	assert.False(t, g.IsDeadEnd(1, 0))
}

func TestResetSolverFlagsPreservesWallsAndGenFlag(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	g.FillWalls()
	require.NoError(t, g.Carve(0, 0, maze.East))
	g.SetFlag(0, 0, VisitedGen, true)
	g.SetFlag(0, 0, VisitedSolve, true)
	g.SetFlag(0, 0, OnPath, true)
	g.SetFlag(0, 0, MarkAux, true)

	g.ResetSolverFlags()

	assert.True(t, g.GetFlag(0, 0, VisitedGen))
	assert.False(t, g.GetFlag(0, 0, VisitedSolve))
	assert.False(t, g.GetFlag(0, 0, OnPath))
	assert.False(t, g.GetFlag(0, 0, MarkAux))
	assert.False(t, g.HasWall(0, 0, maze.East))
}

func TestAtomicClaimCellOnlyOneWinnerUnderContention(t *testing.T) {
	g, err := New(5, 5)
	require.NoError(t, err)

	const racers = 64
	var wg sync.WaitGroup
	wins := make([]bool, racers)
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			wins[i] = g.AtomicClaimCell(2, 2)
		}(i)
	}
	wg.Wait()

	winCount := 0
	for _, w := range wins {
		if w {
			winCount++
		}
	}
	assert.Equal(t, 1, winCount)
	assert.True(t, g.IsClaimed(2, 2))
}

func TestSetBytesRoundTrip(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	g.FillWalls()
	original := append([]byte(nil), g.Bytes()...)

	g2, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, g2.SetBytes(original))
	assert.Equal(t, original, g2.Bytes())
}

func TestSetBytesWrongLength(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	assert.Error(t, g.SetBytes([]byte{1, 2, 3}))
}
