// Package events implements the generation/solve event stream: an
// append-only, finite, restartable sequence of carve/visit records
// that lets a headless replay or a renderer reproduce a producer's
// observable output without touching the grid concurrently.
package events

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
	"github.com/Jason-Hoford/maze-engine/maze"
)

const (
	magic         = "MEVT"
	version       = uint16(1)
	terminatorTag = 0xFF
)

var (
	errBadMagic        = errors.New("bad magic: not an events stream")
	errVersionMismatch = errors.New("unsupported events stream version")
	errTruncated       = errors.New("truncated events stream")
)

// Recorder accumulates events pushed by a producer and implements
// maze.EventSink, so a generator or solver can be handed one directly
// without knowing whether the caller wants a file, a replay buffer, or
// both. Safe for concurrent OnEvent calls: the fractal generator hands
// a single Recorder to every parallel per-block carve goroutine.
type Recorder struct {
	mu     sync.Mutex
	events []maze.Event
}

// NewRecorder returns an empty Recorder ready to accept events.
func NewRecorder() *Recorder { return &Recorder{} }

// OnEvent implements maze.EventSink.
func (r *Recorder) OnEvent(evt maze.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// Events returns the recorded sequence in emission order. The caller
// must not mutate the returned slice.
func (r *Recorder) Events() []maze.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

// Len reports how many events have been recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Player replays a fixed event sequence to any maze.EventSink, one
// record at a time, matching spec's "producers push one at a time,
// consumers pull, no callback re-entry" contract: Next returns
// (event, true) until the sequence is exhausted, then (zero, false).
// A Player can be Reset and walked again.
type Player struct {
	events []maze.Event
	pos    int
}

// NewPlayer wraps a recorded or decoded event sequence for stepped or
// bulk replay.
func NewPlayer(evts []maze.Event) *Player {
	return &Player{events: evts}
}

// Next returns the next event and true, or a zero Event and false once
// the sequence is exhausted.
func (p *Player) Next() (maze.Event, bool) {
	if p.pos >= len(p.events) {
		return maze.Event{}, false
	}
	evt := p.events[p.pos]
	p.pos++
	return evt, true
}

// Reset rewinds the player to the start of its sequence.
func (p *Player) Reset() { p.pos = 0 }

// Remaining reports how many events are left to replay.
func (p *Player) Remaining() int { return len(p.events) - p.pos }

// ReplayAll drains the player, feeding every remaining event to sink
// in order.
func (p *Player) ReplayAll(sink maze.EventSink) {
	for {
		evt, ok := p.Next()
		if !ok {
			return
		}
		sink.OnEvent(evt)
	}
}

// Write serializes evts to w in the ".events" wire format: magic
// "MEVT", version u16, a one-byte compression flag, then one (u8 kind,
// u32 x, u32 y, u32 aux) record per event, terminated by kind=0xFF.
// When compress is true the entire record stream (excluding magic,
// version and flag byte) is wrapped in zlib.
func Write(w io.Writer, evts []maze.Event, compress bool) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return mazeerr.IO("events.Write", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, version); err != nil {
		return mazeerr.IO("events.Write", err)
	}
	if _, err := bw.Write([]byte{boolByte(compress)}); err != nil {
		return mazeerr.IO("events.Write", err)
	}

	var recordDst io.Writer = bw
	var zw *zlib.Writer
	if compress {
		zw = zlib.NewWriter(bw)
		recordDst = zw
	}

	if err := writeRecords(recordDst, evts); err != nil {
		return mazeerr.IO("events.Write", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return mazeerr.IO("events.Write", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return mazeerr.IO("events.Write", err)
	}
	return nil
}

func writeRecords(w io.Writer, evts []maze.Event) error {
	buf := make([]byte, 13)
	for _, evt := range evts {
		buf[0] = byte(evt.Kind)
		binary.LittleEndian.PutUint32(buf[1:5], uint32(evt.X))
		binary.LittleEndian.PutUint32(buf[5:9], uint32(evt.Y))
		binary.LittleEndian.PutUint32(buf[9:13], evt.Aux)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{terminatorTag, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	return err
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Read parses a ".events" stream from r and returns the decoded
// sequence in emission order.
func Read(r io.Reader) ([]maze.Event, error) {
	br := bufio.NewReader(r)

	hdr := make([]byte, len(magic))
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, mazeerr.IO("events.Read", err)
	}
	if string(hdr) != magic {
		return nil, mazeerr.IO("events.Read", errBadMagic)
	}
	var ver uint16
	if err := binary.Read(br, binary.LittleEndian, &ver); err != nil {
		return nil, mazeerr.IO("events.Read", err)
	}
	if ver != version {
		return nil, mazeerr.IO("events.Read", errVersionMismatch)
	}
	compressedFlag, err := br.ReadByte()
	if err != nil {
		return nil, mazeerr.IO("events.Read", err)
	}

	var recordSrc io.Reader = br
	if compressedFlag != 0 {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, mazeerr.IO("events.Read", err)
		}
		defer zr.Close()
		recordSrc = zr
	}

	return readRecords(recordSrc)
}

func readRecords(r io.Reader) ([]maze.Event, error) {
	var out []maze.Event
	buf := make([]byte, 13)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, mazeerr.IO("events.readRecords", errTruncated)
			}
			return nil, mazeerr.IO("events.readRecords", err)
		}
		if buf[0] == terminatorTag {
			return out, nil
		}
		out = append(out, maze.Event{
			Kind: maze.EventKind(buf[0]),
			X:    int(binary.LittleEndian.Uint32(buf[1:5])),
			Y:    int(binary.LittleEndian.Uint32(buf[5:9])),
			Aux:  binary.LittleEndian.Uint32(buf[9:13]),
		})
	}
}
