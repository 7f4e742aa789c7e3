package codec

import (
	cbor "github.com/fxamacker/cbor/v2"
)

// Canonical CBOR (RFC 8949 core deterministic encoding). Both modes are
// built from static options, so construction cannot fail.
var (
	cborEnc, _ = cbor.CanonicalEncOptions().EncMode()
	cborDec, _ = cbor.DecOptions{}.DecMode()
)

// CBOR is a deterministic CBOR codec.
type CBOR struct{}

// Marshal serializes v to canonical CBOR bytes.
func (CBOR) Marshal(v any) ([]byte, error) { return cborEnc.Marshal(v) }

// Unmarshal deserializes CBOR bytes into v.
func (CBOR) Unmarshal(data []byte, v any) error { return cborDec.Unmarshal(data, v) }

// Name returns "cbor".
func (CBOR) Name() string { return "cbor" }
