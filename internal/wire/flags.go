package wire

import (
	"fmt"

	"github.com/AndrewDonelson/wirepack/internal/convert"
)

// Boolean is a one-byte codec storing 0 or 1.
type Boolean struct{}

// Bool is the boolean codec.
var Bool = Boolean{}

var _ Codec[bool] = Boolean{}

// Name returns "bool".
func (Boolean) Name() string { return "bool" }

// Length is always 1.
func (Boolean) Length(bool) int { return 1 }

// Validate checks that one byte remains at off.
func (Boolean) Validate(buf []byte, off int) bool { return fits(buf, off, 1) }

// Encode writes 1 for true and 0 for false.
func (Boolean) Encode(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// Decode rejects any byte other than 0 or 1.
func (c Boolean) Decode(buf []byte, off int) (bool, error) {
	if !c.Validate(buf, off) {
		return false, short("bool", buf, off, 1)
	}
	switch buf[off] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: bool byte 0x%02x at offset %d", ErrValidation, buf[off], off)
}

// EncodeValue accepts a bool.
func (c Boolean) EncodeValue(v any) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, mismatch("bool", v)
	}
	return c.Encode(b)
}

// DecodeValue decodes a bool.
func (c Boolean) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, 1, nil
}

// FlagArray packs up to 255 booleans: a Uint8 count followed by the flags
// packed eight to a byte, least significant bit first.
type FlagArray struct{}

// Flags is the flag array codec.
var Flags = FlagArray{}

var _ Codec[[]bool] = FlagArray{}

// Name returns "flags".
func (FlagArray) Name() string { return "flags" }

// Length is the count byte plus the packed bytes.
func (FlagArray) Length(v []bool) int { return 1 + (len(v)+7)/8 }

// Validate checks the count byte and the packed bytes it implies.
func (FlagArray) Validate(buf []byte, off int) bool {
	n, err := Uint8.Decode(buf, off)
	if err != nil {
		return false
	}
	return fits(buf, off+1, (int(n)+7)/8)
}

// Encode packs v.
func (FlagArray) Encode(v []bool) ([]byte, error) {
	hdr, err := Uint8.Encode(int64(len(v)))
	if err != nil {
		return nil, fmt.Errorf("%w: %d flags exceed maximum for flags", ErrOutOfRange, len(v))
	}
	bits := make([]byte, (len(v)+7)/8*8)
	for i, f := range v {
		if f {
			bits[i] = 1
		}
	}
	packed, err := convert.BitsToBytes(bits)
	if err != nil {
		return nil, err
	}
	return append(hdr, packed...), nil
}

// Decode unpacks the flags at off.
func (c FlagArray) Decode(buf []byte, off int) ([]bool, error) {
	if !c.Validate(buf, off) {
		if !Uint8.Validate(buf, off) {
			return nil, short("flags", buf, off, 1)
		}
		return nil, short("flags", buf, off+1, (int(buf[off])+7)/8)
	}
	n := int(buf[off])
	bits := convert.BytesToBits(buf[off+1 : off+1+(n+7)/8])
	out := make([]bool, n)
	for i := range out {
		out[i] = bits[i] == 1
	}
	return out, nil
}

// EncodeValue accepts a []bool.
func (c FlagArray) EncodeValue(v any) ([]byte, error) {
	b, ok := v.([]bool)
	if !ok {
		return nil, mismatch("flags", v)
	}
	return c.Encode(b)
}

// DecodeValue decodes a []bool.
func (c FlagArray) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, c.Length(v), nil
}
