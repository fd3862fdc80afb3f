// Package endian provides byte order engines and a bounds-checked reader
// for the binary setup payload.
//
// Setup payloads are always little-endian:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = endian.AppendFloat64(engine, buf, 93.38)
//
//	r := endian.NewReader(engine, buf)
//	v := r.Float64()
//	if err := r.Err(); err != nil {
//		return err
//	}
//
// All functions are safe for concurrent use. A Reader is not.
package endian

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// ErrShortBuffer is returned by a Reader that ran past the end of its input.
var ErrShortBuffer = errors.New("endian: short buffer")

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// AppendFloat64 appends the IEEE 754 bits of v to buf.
func AppendFloat64(engine EndianEngine, buf []byte, v float64) []byte {
	return engine.AppendUint64(buf, math.Float64bits(v))
}

// Reader decodes fixed-width values from a byte slice. The first out of
// bounds read records an error; later reads return zero values.
type Reader struct {
	engine EndianEngine
	buf    []byte
	off    int
	err    error
}

// NewReader returns a Reader over buf.
func NewReader(engine EndianEngine, buf []byte) *Reader {
	return &Reader{engine: engine, buf: buf}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, r.off, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

// Uint8 reads one byte.
func (r *Reader) Uint8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}

	return b[0]
}

// Uint16 reads a 16-bit unsigned integer.
func (r *Reader) Uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}

	return r.engine.Uint16(b)
}

// Uint32 reads a 32-bit unsigned integer.
func (r *Reader) Uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

// Float64 reads an IEEE 754 double.
func (r *Reader) Float64() float64 {
	b := r.next(8)
	if b == nil {
		return 0
	}

	return math.Float64frombits(r.engine.Uint64(b))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}
