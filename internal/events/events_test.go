package events

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jason-Hoford/maze-engine/maze"
)

func sampleEvents() []maze.Event {
	return []maze.Event{
		{Kind: maze.EventCarveCell, X: 0, Y: 0, Aux: uint32(maze.East)},
		{Kind: maze.EventCarveCell, X: 1, Y: 0, Aux: uint32(maze.South)},
		{Kind: maze.EventVisit, X: 0, Y: 0},
		{Kind: maze.EventPath, X: 1, Y: 0},
	}
}

func TestRecorderCollectsInOrder(t *testing.T) {
	rec := NewRecorder()
	for _, evt := range sampleEvents() {
		rec.OnEvent(evt)
	}
	assert.Equal(t, sampleEvents(), rec.Events())
	assert.Equal(t, 4, rec.Len())
}

func TestPlayerReplaysInOrderAndExhausts(t *testing.T) {
	p := NewPlayer(sampleEvents())
	rec := NewRecorder()
	p.ReplayAll(rec)
	assert.Equal(t, sampleEvents(), rec.Events())

	_, ok := p.Next()
	assert.False(t, ok)
}

func TestPlayerReset(t *testing.T) {
	p := NewPlayer(sampleEvents())
	_, _ = p.Next()
	_, _ = p.Next()
	assert.Equal(t, 2, p.Remaining())
	p.Reset()
	assert.Equal(t, 4, p.Remaining())
}

func TestWriteReadRoundTripUncompressed(t *testing.T) {
	var buf bytes.Buffer
	evts := sampleEvents()
	require.NoError(t, Write(&buf, evts, false))

	decoded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, evts, decoded)
}

func TestWriteReadRoundTripCompressed(t *testing.T) {
	var buf bytes.Buffer
	evts := sampleEvents()
	require.NoError(t, Write(&buf, evts, true))

	decoded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, evts, decoded)
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("XXXX\x00\x01")))
	assert.Error(t, err)
}

func TestReadRejectsTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEvents(), false))
	truncated := buf.Bytes()[:buf.Len()-5]

	_, err := Read(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestWriteEmptySequence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, false))

	decoded, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
