package packet

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// Writer provides methods for writing Bancho packet payload data.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
}

// writerPool reduces allocations by reusing Writers.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 256)),
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteUint16 writes a uint16 (2 bytes, LE).
func (w *Writer) WriteUint16(v uint16) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
}

// WriteInt16 writes an int16 (2 bytes, LE).
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUint32(v uint32) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 24))
}

// WriteInt32 writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 writes a uint64 (8 bytes, LE).
func (w *Writer) WriteUint64(v uint64) {
	w.WriteUint32(uint32(v))
	w.WriteUint32(uint32(v >> 32))
}

// WriteInt64 writes an int64 (8 bytes, LE).
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteFloat32 writes an IEEE-754 float32 (4 bytes, LE).
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteUleb128 writes an unsigned LEB128-encoded integer.
func (w *Writer) WriteUleb128(v uint64) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteString writes a Bancho string: 0x00 for empty, else 0x0B
// followed by a uleb128 byte length and the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.buf.WriteByte(stringEmpty)
		return
	}
	w.buf.WriteByte(stringExists)
	w.WriteUleb128(uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteIntList writes a u16 count followed by each id as int32.
func (w *Writer) WriteIntList(ids []int32) {
	w.WriteUint16(uint16(len(ids)))
	for _, id := range ids {
		w.WriteInt32(id)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated payload data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the payload.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Finish produces a complete frame for the given packet id:
// header (u16 id, u8 pad, u32 length) followed by the payload
// accumulated so far. The Writer can be reused after Finish.
func (w *Writer) Finish(id ServerID) []byte {
	payload := w.buf.Bytes()
	frame := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint16(frame, id)
	frame[2] = 0 // pad
	binary.LittleEndian.PutUint32(frame[3:], uint32(len(payload)))
	copy(frame[HeaderSize:], payload)
	return frame
}

// Frame builds a complete frame in one call: id plus a payload writer
// callback. Convenience wrapper used by the serverpackets package.
func Frame(id ServerID, fill func(w *Writer)) []byte {
	w := Get()
	defer w.Put()
	if fill != nil {
		fill(w)
	}
	return w.Finish(id)
}

// EmptyFrame builds a frame with no payload.
func EmptyFrame(id ServerID) []byte {
	return Frame(id, nil)
}
