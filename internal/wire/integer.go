package wire

import (
	"fmt"
	"math"

	"github.com/AndrewDonelson/wirepack/internal/convert"
)

// Integer is a fixed-width big-endian integer codec. Signed values are stored
// offset-binary: biased by 2^(8W-1) so every value is written as a
// non-negative magnitude.
type Integer struct {
	name   string
	width  int
	signed bool
}

// Integer codecs. Values are carried as int64 regardless of width so that
// out-of-range inputs can be reported instead of silently wrapping.
var (
	Int8   = Integer{name: "int8", width: 1, signed: true}
	Uint8  = Integer{name: "uint8", width: 1}
	Int16  = Integer{name: "int16", width: 2, signed: true}
	Uint16 = Integer{name: "uint16", width: 2}
	Int32  = Integer{name: "int32", width: 4, signed: true}
	Uint32 = Integer{name: "uint32", width: 4}
)

var _ Codec[int64] = Integer{}

// Name returns the codec name.
func (c Integer) Name() string { return c.name }

// Width is the constant encoded size in bytes.
func (c Integer) Width() int { return c.width }

// Range returns the inclusive minimum and exclusive maximum of the codec.
func (c Integer) Range() (lo, hi int64) {
	bits := uint(8 * c.width)
	if c.signed {
		return -(1 << (bits - 1)), 1 << (bits - 1)
	}
	return 0, 1 << bits
}

// Length is always Width.
func (c Integer) Length(int64) int { return c.width }

// Validate checks that Width bytes remain at off.
func (c Integer) Validate(buf []byte, off int) bool { return fits(buf, off, c.width) }

// Encode writes v big-endian, biased when signed.
func (c Integer) Encode(v int64) ([]byte, error) {
	lo, hi := c.Range()
	if v < lo || v >= hi {
		return nil, fmt.Errorf("%w: %d out of range for %s", ErrOutOfRange, v, c.name)
	}
	return convert.ToBase(uint64(v-lo), 256, c.width)
}

// Decode reads Width bytes at off and removes the bias.
func (c Integer) Decode(buf []byte, off int) (int64, error) {
	if !c.Validate(buf, off) {
		return 0, short(c.name, buf, off, c.width)
	}
	lo, _ := c.Range()
	return int64(convert.FromBase(buf[off:off+c.width], 256)) + lo, nil
}

// EncodeValue accepts any Go integer type.
func (c Integer) EncodeValue(v any) ([]byte, error) {
	n, err := toInt64(c.name, v)
	if err != nil {
		return nil, err
	}
	return c.Encode(n)
}

// DecodeValue decodes an int64.
func (c Integer) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, c.width, nil
}

func toInt64(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return uintToInt64(name, uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return uintToInt64(name, n)
	}
	return 0, mismatch(name, v)
}

func uintToInt64(name string, n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d out of range for %s", ErrOutOfRange, n, name)
	}
	return int64(n), nil
}
