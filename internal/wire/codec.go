// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// codec.go - the codec contract shared by every wire type, and the
// type-erased Field view that schemas are built from.

// Package wire implements the wire codecs: fixed-width integers, the
// software floating point codec, length-prefixed strings and raw bytes, and
// the composite codecs built on top of them.
package wire

import (
	"errors"
	"fmt"

	"github.com/AndrewDonelson/wirepack/internal/convert"
)

// Re-exported so codec callers need only this package.
var (
	ErrOutOfRange = convert.ErrOutOfRange
	ErrValidation = convert.ErrValidation
)

// ErrFieldType is returned by EncodeValue when the value's Go type cannot be
// carried by the codec.
var ErrFieldType = errors.New("wirepack: value type does not match field codec")

// Codec converts values of type V to and from their wire encoding.
// Codecs are immutable and safe to share.
type Codec[V any] interface {
	// Name is the codec's wire type name, e.g. "uint16".
	Name() string
	// Length reports the encoded size of v in bytes.
	Length(v V) int
	// Validate reports whether buf holds a complete encoding at off.
	Validate(buf []byte, off int) bool
	// Encode returns the encoding of v, or ErrOutOfRange.
	Encode(v V) ([]byte, error)
	// Decode reads one value at off, or returns ErrValidation.
	Decode(buf []byte, off int) (V, error)
}

// Field is the type-erased form of a codec used for schema fields, whose
// value types differ from one position to the next.
type Field interface {
	Name() string
	Validate(buf []byte, off int) bool
	// EncodeValue encodes v after checking that its dynamic type suits the
	// codec; a mismatch yields ErrFieldType.
	EncodeValue(v any) ([]byte, error)
	// DecodeValue decodes one value at off and reports how many bytes it
	// consumed.
	DecodeValue(buf []byte, off int) (any, int, error)
}

func short(name string, buf []byte, off, need int) error {
	have := len(buf) - off
	if have < 0 {
		have = 0
	}
	return fmt.Errorf("%w: %s needs %d bytes at offset %d, have %d", ErrValidation, name, need, off, have)
}

func mismatch(name string, v any) error {
	return fmt.Errorf("%w: %s cannot encode %T", ErrFieldType, name, v)
}

// fits reports whether buf holds n bytes starting at off.
func fits(buf []byte, off, n int) bool {
	return off >= 0 && off <= len(buf) && len(buf)-off >= n
}
