package wire

import "fmt"

// PacketList carries a sequence of independently packed sub-packets as one
// field: a Uint16 element count followed by each element as a Raw16 blob.
// Decoded elements are views into the source buffer.
type PacketList struct{}

// List16 is the sub-packet list codec.
var List16 = PacketList{}

var _ Codec[[][]byte] = PacketList{}

// Name returns "list16".
func (PacketList) Name() string { return "list16" }

// Length is the count prefix plus every framed element.
func (PacketList) Length(v [][]byte) int {
	n := Uint16.width
	for _, e := range v {
		n += Raw16.Length(e)
	}
	return n
}

// Validate walks every element frame.
func (c PacketList) Validate(buf []byte, off int) bool {
	_, _, err := c.walk(buf, off)
	return err == nil
}

// walk returns the element views and the total encoded size at off.
func (PacketList) walk(buf []byte, off int) ([][]byte, int, error) {
	count, err := Uint16.Decode(buf, off)
	if err != nil {
		return nil, 0, short("list16", buf, off, Uint16.width)
	}
	pos := off + Uint16.width
	out := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		e, err := Raw16.Decode(buf, pos)
		if err != nil {
			return nil, 0, fmt.Errorf("list16 element %d: %w", i, err)
		}
		out = append(out, e)
		pos += Raw16.Length(e)
	}
	return out, pos - off, nil
}

// Encode frames each element.
func (PacketList) Encode(v [][]byte) ([]byte, error) {
	out, err := Uint16.Encode(int64(len(v)))
	if err != nil {
		return nil, fmt.Errorf("%w: %d elements exceed maximum for list16", ErrOutOfRange, len(v))
	}
	for i, e := range v {
		b, err := Raw16.Encode(e)
		if err != nil {
			return nil, fmt.Errorf("list16 element %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Decode returns the element views at off.
func (c PacketList) Decode(buf []byte, off int) ([][]byte, error) {
	v, _, err := c.walk(buf, off)
	return v, err
}

// EncodeValue accepts a [][]byte.
func (c PacketList) EncodeValue(v any) ([]byte, error) {
	l, ok := v.([][]byte)
	if !ok {
		return nil, mismatch("list16", v)
	}
	return c.Encode(l)
}

// DecodeValue decodes a [][]byte.
func (c PacketList) DecodeValue(buf []byte, off int) (any, int, error) {
	v, n, err := c.walk(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}
