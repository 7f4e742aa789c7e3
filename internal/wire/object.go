package wire

import (
	"fmt"
	"reflect"

	"github.com/AndrewDonelson/wirepack/internal/codec"
)

// ObjectCodec carries values of type T serialized by an object codec (JSON,
// MessagePack, CBOR) inside a Raw16 frame.
type ObjectCodec[T any] struct {
	ser codec.Codec
}

// Object returns an object codec for T using ser.
func Object[T any](ser codec.Codec) ObjectCodec[T] {
	return ObjectCodec[T]{ser: ser}
}

var _ Codec[struct{}] = ObjectCodec[struct{}]{}

// Name is the serializer name, e.g. "msgpack".
func (c ObjectCodec[T]) Name() string { return c.ser.Name() }

// Length serializes v to measure it; it reports 0 when v cannot be serialized.
func (c ObjectCodec[T]) Length(v T) int {
	b, err := c.ser.Marshal(v)
	if err != nil {
		return 0
	}
	return Raw16.Length(b)
}

// Validate checks the Raw16 frame at off.
func (c ObjectCodec[T]) Validate(buf []byte, off int) bool { return Raw16.Validate(buf, off) }

// Encode serializes and frames v.
func (c ObjectCodec[T]) Encode(v T) ([]byte, error) {
	b, err := c.ser.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFieldType, c.Name(), err)
	}
	return Raw16.Encode(b)
}

// Decode deserializes the framed value at off.
func (c ObjectCodec[T]) Decode(buf []byte, off int) (T, error) {
	var out T
	raw, err := Raw16.Decode(buf, off)
	if err != nil {
		return out, err
	}
	if err := c.ser.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s payload at offset %d: %v", ErrValidation, c.Name(), off, err)
	}
	return out, nil
}

// EncodeValue accepts a T.
func (c ObjectCodec[T]) EncodeValue(v any) ([]byte, error) {
	t, ok := v.(T)
	if !ok {
		return nil, mismatch(c.Name(), v)
	}
	return c.Encode(t)
}

// DecodeValue decodes a T and reports the frame size.
func (c ObjectCodec[T]) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	start, end, _ := frame(Uint16, buf, off)
	return v, Uint16.width + end - start, nil
}

// ObjectOf is the reflection counterpart of Object, used when the value type
// is only known at run time (struct models, config files). A nil typ decodes
// into the serializer's generic representation.
func ObjectOf(ser codec.Codec, typ reflect.Type) Field {
	return objectField{ser: ser, typ: typ}
}

type objectField struct {
	ser codec.Codec
	typ reflect.Type
}

func (f objectField) Name() string { return f.ser.Name() }

func (f objectField) Validate(buf []byte, off int) bool { return Raw16.Validate(buf, off) }

func (f objectField) EncodeValue(v any) ([]byte, error) {
	if f.typ != nil && (v == nil || reflect.TypeOf(v) != f.typ) {
		return nil, mismatch(f.Name(), v)
	}
	b, err := f.ser.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFieldType, f.Name(), err)
	}
	return Raw16.Encode(b)
}

func (f objectField) DecodeValue(buf []byte, off int) (any, int, error) {
	raw, err := Raw16.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	n := Raw16.Length(raw)
	if f.typ == nil {
		var out any
		if err := f.ser.Unmarshal(raw, &out); err != nil {
			return nil, 0, fmt.Errorf("%w: %s payload at offset %d: %v", ErrValidation, f.Name(), off, err)
		}
		return out, n, nil
	}
	ptr := reflect.New(f.typ)
	if err := f.ser.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, 0, fmt.Errorf("%w: %s payload at offset %d: %v", ErrValidation, f.Name(), off, err)
	}
	return ptr.Elem().Interface(), n, nil
}
