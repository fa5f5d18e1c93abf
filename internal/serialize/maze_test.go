package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/maze"
)

func sampleGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(6, 4)
	require.NoError(t, err)
	g.FillWalls()
	require.NoError(t, g.Carve(0, 0, maze.East))
	require.NoError(t, g.Carve(1, 0, maze.South))
	g.SetFlag(0, 0, grid.VisitedGen, true)
	return g
}

func TestWriteReadRoundTripUncompressed(t *testing.T) {
	g := sampleGrid(t)
	md := Metadata{Algorithm: "dfs", Seed: 42, Braid: 0.25, GeneratedAt: "2026-08-06T00:00:00Z"}

	var buf bytes.Buffer
	no := false
	require.NoError(t, Write(&buf, g, md, &no))

	g2, md2, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Bytes(), g2.Bytes())
	assert.Equal(t, "dfs", md2.Algorithm)
	assert.Equal(t, int64(42), md2.Seed)
	assert.InDelta(t, 0.25, md2.Braid, 1e-9)
	assert.Equal(t, "2026-08-06T00:00:00Z", md2.GeneratedAt)
}

func TestWriteReadRoundTripCompressed(t *testing.T) {
	g := sampleGrid(t)
	md := Metadata{Algorithm: "prim", Seed: 7}

	var buf bytes.Buffer
	yes := true
	require.NoError(t, Write(&buf, g, md, &yes))

	g2, md2, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Bytes(), g2.Bytes())
	assert.Equal(t, "prim", md2.Algorithm)
}

func TestWriteAutoCompressesLargeGrids(t *testing.T) {
	g, err := grid.New(1024, 1025) // just over 2^20 cells
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, Metadata{}, nil))

	uncompressed := g.Width * g.Height
	assert.Less(t, buf.Len(), uncompressed, "auto-compression should shrink an all-zero large grid substantially")
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("NOPE\x01\x00")))
	assert.Error(t, err)
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	g := sampleGrid(t)
	var buf bytes.Buffer
	no := false
	require.NoError(t, Write(&buf, g, Metadata{}, &no))

	truncated := buf.Bytes()[:buf.Len()-3]
	_, _, err := Read(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestMetadataExtraFieldsRoundTrip(t *testing.T) {
	g := sampleGrid(t)
	md := Metadata{Algorithm: "organic", Extra: map[string]string{"agents": "16", "block_side": "32"}}

	var buf bytes.Buffer
	no := false
	require.NoError(t, Write(&buf, g, md, &no))

	_, md2, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "16", md2.Extra["agents"])
	assert.Equal(t, "32", md2.Extra["block_side"])
}
