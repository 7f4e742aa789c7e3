package wire

import (
	"github.com/AndrewDonelson/wirepack/internal/codec"
)

var builtin = map[string]Field{
	"int8":     Int8,
	"uint8":    Uint8,
	"int16":    Int16,
	"uint16":   Uint16,
	"int32":    Int32,
	"uint32":   Uint32,
	"float32":  Float32,
	"float":    Float32,
	"float64":  Float64,
	"double":   Float64,
	"string8":  String8,
	"string16": String16,
	"raw8":     Raw8,
	"raw16":    Raw16,
	"bool":     Bool,
	"flags":    Flags,
	"list16":   List16,
}

// Lookup resolves a codec by wire name. Object serializer names ("json",
// "msgpack", "cbor") resolve to fields decoding into generic values.
func Lookup(name string) (Field, bool) {
	if f, ok := builtin[name]; ok {
		return f, true
	}
	if ser, ok := codec.ByName(name); ok {
		return ObjectOf(ser, nil), true
	}
	return nil, false
}
