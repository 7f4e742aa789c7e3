// Package codec provides the object serializers that back Object fields:
// values that have no fixed wire layout are serialized with one of these and
// carried inside a length-prefixed frame.
package codec

// Codec encodes and decodes arbitrary Go values.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier, also used as its wire codec name.
	Name() string
}

// ByName returns the built-in codec with the given name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "msgpack":
		return MsgPack{}, true
	case "cbor":
		return CBOR{}, true
	}
	return nil, false
}
