// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// codecs.go - the wire codecs and object serializers, re-exported so callers
// only import this package.

package wirepack

import (
	"fmt"
	"strings"

	"github.com/AndrewDonelson/wirepack/internal/codec"
	"github.com/AndrewDonelson/wirepack/internal/wire"
)

// Field is one schema position: a codec whose value type is checked at pack
// time.
type Field = wire.Field

// Serializer marshals Object field values.
type Serializer = codec.Codec

// Scalar codecs.
var (
	Int8     = wire.Int8
	Uint8    = wire.Uint8
	Int16    = wire.Int16
	Uint16   = wire.Uint16
	Int32    = wire.Int32
	Uint32   = wire.Uint32
	Float32  = wire.Float32
	Float64  = wire.Float64
	String8  = wire.String8
	String16 = wire.String16
	Raw8     = wire.Raw8
	Raw16    = wire.Raw16
)

// Composite codecs.
var (
	Bool   = wire.Bool
	Flags  = wire.Flags
	List16 = wire.List16
)

// Object serializers.
var (
	JSON    Serializer = codec.JSON{}
	MsgPack Serializer = codec.MsgPack{}
	CBOR    Serializer = codec.CBOR{}
)

// Object returns a field carrying values of type T serialized with ser.
func Object[T any](ser Serializer) wire.ObjectCodec[T] {
	return wire.Object[T](ser)
}

// Sealed returns a field whose inner encoding travels encrypted with enc.
func Sealed(enc Encryptor, inner Field) Field {
	return wire.Sealed(enc, inner)
}

// Lookup resolves a field by wire name, e.g. "uint16" or "msgpack".
func Lookup(name string) (Field, bool) {
	return wire.Lookup(name)
}

// sealedPrefix marks a field name whose codec is wrapped with the packer's
// encryptor, e.g. "sealed:string16".
const sealedPrefix = "sealed:"

// fieldByName resolves a field name, including sealed names, for config files
// and struct tags.
func (p *Packer) fieldByName(name string) (Field, error) {
	name = strings.TrimSpace(name)
	inner, sealed := strings.CutPrefix(name, sealedPrefix)
	f, ok := wire.Lookup(inner)
	if !ok {
		return nil, fmt.Errorf("%w: unknown field type %q", ErrInvalidSchema, name)
	}
	if !sealed {
		return f, nil
	}
	if p.encryptor == nil {
		return nil, fmt.Errorf("%w: field %q needs an encryption key", ErrInvalidSchema, name)
	}
	return wire.Sealed(p.encryptor, f), nil
}
