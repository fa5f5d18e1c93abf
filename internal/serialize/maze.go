// Package serialize implements the ".maze" binary file format: a
// compact header, advisory key=value metadata, and the grid's raw
// bytes, optionally zlib-compressed.
package serialize

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/Jason-Hoford/maze-engine/internal/grid"
	"github.com/Jason-Hoford/maze-engine/internal/mazeerr"
)

const (
	magic   = "MAZE"
	version = uint16(1)

	flagCompressed uint32 = 1 << 0

	// compressAtCells is the cell count at which Write follows the
	// "writer SHOULD set the compression flag" recommendation.
	compressAtCells = 1 << 20
)

var (
	errBadMagic        = errors.New("bad magic: not a maze file")
	errVersionMismatch = errors.New("unsupported maze file version")
)

// Metadata is the advisory information carried alongside a grid. The
// grid bytes are always the source of truth; a reader must work
// correctly even with Metadata zeroed out.
type Metadata struct {
	Algorithm   string
	Seed        int64
	Braid       float64
	GeneratedAt string // RFC 3339; caller stamps this, serialize never calls time.Now itself
	Extra       map[string]string
}

func (m Metadata) encode() string {
	var b strings.Builder
	writeKV := func(k, v string) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte(';')
	}
	if m.Algorithm != "" {
		writeKV("algorithm", m.Algorithm)
	}
	writeKV("seed", strconv.FormatInt(m.Seed, 10))
	writeKV("braid", strconv.FormatFloat(m.Braid, 'g', -1, 64))
	if m.GeneratedAt != "" {
		writeKV("generated_at", m.GeneratedAt)
	}
	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeKV(k, m.Extra[k])
	}
	return b.String()
}

func decodeMetadata(raw string) Metadata {
	m := Metadata{Extra: map[string]string{}}
	for _, pair := range strings.Split(raw, ";") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		k, v := kv[0], kv[1]
		switch k {
		case "algorithm":
			m.Algorithm = v
		case "seed":
			m.Seed, _ = strconv.ParseInt(v, 10, 64)
		case "braid":
			m.Braid, _ = strconv.ParseFloat(v, 64)
		case "generated_at":
			m.GeneratedAt = v
		default:
			m.Extra[k] = v
		}
	}
	return m
}

// Write serializes g and its metadata to w. Compress, when nil, is
// resolved automatically per the writer recommendation: compress once
// the grid reaches 2^20 cells.
func Write(w io.Writer, g *grid.Grid, md Metadata, compress *bool) error {
	useCompression := g.Width*g.Height >= compressAtCells
	if compress != nil {
		useCompression = *compress
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, version); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(g.Width)); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(g.Height)); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	var flags uint32
	if useCompression {
		flags |= flagCompressed
	}
	if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	sx, sy := g.Start()
	ex, ey := g.Exit()
	for _, v := range []uint32{uint32(sx), uint32(sy), uint32(ex), uint32(ey)} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return mazeerr.IO("serialize.Write", err)
		}
	}

	metaBytes := []byte(md.encode())
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(metaBytes))); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if _, err := bw.Write(metaBytes); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}

	payload := g.Bytes()
	if useCompression {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return mazeerr.IO("serialize.Write", err)
		}
		if err := zw.Close(); err != nil {
			return mazeerr.IO("serialize.Write", err)
		}
		payload = buf.Bytes()
	}

	if err := binary.Write(bw, binary.LittleEndian, uint64(len(payload))); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if _, err := bw.Write(payload); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	if err := bw.Flush(); err != nil {
		return mazeerr.IO("serialize.Write", err)
	}
	return nil
}

// Read parses a ".maze" file from r into a fresh grid and its
// metadata.
func Read(r io.Reader) (*grid.Grid, Metadata, error) {
	br := bufio.NewReader(r)

	hdr := make([]byte, len(magic))
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	if string(hdr) != magic {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", errBadMagic)
	}

	var ver uint16
	if err := binary.Read(br, binary.LittleEndian, &ver); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	if ver != version {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", errVersionMismatch)
	}

	var width, height uint32
	if err := binary.Read(br, binary.LittleEndian, &width); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &height); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}

	var flags uint32
	if err := binary.Read(br, binary.LittleEndian, &flags); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}

	var sx, sy, ex, ey uint32
	for _, dst := range []*uint32{&sx, &sy, &ex, &ey} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
		}
	}

	var metaLen uint32
	if err := binary.Read(br, binary.LittleEndian, &metaLen); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	metaBytes := make([]byte, metaLen)
	if _, err := io.ReadFull(br, metaBytes); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	md := decodeMetadata(string(metaBytes))

	var payloadLen uint64
	if err := binary.Read(br, binary.LittleEndian, &payloadLen); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}

	if flags&flagCompressed != 0 {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
		}
		decompressed, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
		}
		payload = decompressed
	}

	g, err := grid.New(int(width), int(height))
	if err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", fmt.Errorf("invalid dimensions %dx%d: %w", width, height, err))
	}
	if err := g.SetBytes(payload); err != nil {
		return nil, Metadata{}, mazeerr.IO("serialize.Read", err)
	}

	// start_x/start_y/exit_x/exit_y are carried for forward
	// compatibility with a non-canonical start/exit, but this format
	// version always derives them canonically from width/height, so
	// the header's values are read and discarded rather than trusted.
	_, _, _, _ = sx, sy, ex, ey

	return g, md, nil
}
