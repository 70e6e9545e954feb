package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

// HeaderSize is the length of a Bancho frame header:
// u16 packet id, u8 pad, u32 payload length.
const HeaderSize = 7

// String discriminator bytes on the wire.
const (
	stringEmpty  = 0x00
	stringExists = 0x0B
)

// Reader provides methods for reading Bancho packet data.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Empty reports whether the cursor is at the end of the data.
func (r *Reader) Empty() bool {
	return r.pos >= len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}

// ReadHeader reads a frame header and returns the packet id and the
// payload length that follows.
func (r *Reader) ReadHeader() (id uint16, length uint32, err error) {
	if r.pos+HeaderSize > len(r.data) {
		return 0, 0, fmt.Errorf("ReadHeader: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	id = binary.LittleEndian.Uint16(r.data[r.pos:])
	// r.data[r.pos+2] is the pad byte, always written as 0 and
	// ignored on read.
	length = binary.LittleEndian.Uint32(r.data[r.pos+3:])
	r.pos += HeaderSize
	return id, length, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadUint16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadInt16 reads an int16 (2 bytes, LE).
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadInt32 reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a uint64 (8 bytes, LE).
func (r *Reader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadUint64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return val, nil
}

// ReadInt64 reads an int64 (8 bytes, LE).
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE-754 float32 (4 bytes, LE).
func (r *Reader) ReadFloat32() (float32, error) {
	bits, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadUleb128 reads an unsigned LEB128-encoded integer.
func (r *Reader) ReadUleb128() (uint64, error) {
	var val uint64
	var shift uint
	for {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("ReadUleb128: unexpected end of data (pos=%d)", r.pos)
		}
		if shift > 63 {
			return 0, fmt.Errorf("ReadUleb128: value overflows uint64")
		}
		b := r.data[r.pos]
		r.pos++
		val |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return val, nil
		}
		shift += 7
	}
}

// ReadString reads a Bancho string: a discriminator byte (0x00 empty,
// 0x0B present), then a uleb128 length and that many UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	switch flag {
	case stringEmpty:
		return "", nil
	case stringExists:
	default:
		return "", fmt.Errorf("ReadString: invalid discriminator 0x%02X", flag)
	}

	length, err := r.ReadUleb128()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	if uint64(r.Remaining()) < length {
		return "", fmt.Errorf("ReadString: declared length %d exceeds remaining %d", length, r.Remaining())
	}
	s := string(r.data[r.pos : r.pos+int(length)])
	r.pos += int(length)
	return s, nil
}

// ReadIntList reads a u16 count followed by that many int32 values.
func (r *Reader) ReadIntList() ([]int32, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("ReadIntList: %w", err)
	}
	out := make([]int32, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("ReadIntList: element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadBytes reads n bytes (ZERO-COPY, returns a subslice of the
// internal data). The caller must not modify the returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRemaining consumes and returns all unread bytes (zero-copy).
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

// Skip advances the cursor by n bytes, clamped to the end of data.
// Used to recover from malformed payloads using the frame length.
func (r *Reader) Skip(n int) {
	r.pos += n
	if r.pos > len(r.data) {
		r.pos = len(r.data)
	}
}
