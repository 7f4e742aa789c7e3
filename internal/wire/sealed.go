package wire

import "fmt"

// Encryptor seals and opens field payloads.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Sealed wraps inner so that its encoding travels encrypted inside a Raw16
// frame. The inner encoding must fill the decrypted payload exactly.
func Sealed(enc Encryptor, inner Field) Field {
	return sealedField{enc: enc, inner: inner}
}

type sealedField struct {
	enc   Encryptor
	inner Field
}

func (f sealedField) Name() string { return "sealed:" + f.inner.Name() }

func (f sealedField) Validate(buf []byte, off int) bool { return Raw16.Validate(buf, off) }

func (f sealedField) EncodeValue(v any) ([]byte, error) {
	plain, err := f.inner.EncodeValue(v)
	if err != nil {
		return nil, err
	}
	ct, err := f.enc.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("%s: encrypt: %w", f.Name(), err)
	}
	return Raw16.Encode(ct)
}

func (f sealedField) DecodeValue(buf []byte, off int) (any, int, error) {
	ct, err := Raw16.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	plain, err := f.enc.Decrypt(ct)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s at offset %d: %v", ErrValidation, f.Name(), off, err)
	}
	v, n, err := f.inner.DecodeValue(plain, 0)
	if err != nil {
		return nil, 0, err
	}
	if n != len(plain) {
		return nil, 0, fmt.Errorf("%w: %s has %d trailing bytes", ErrValidation, f.Name(), len(plain)-n)
	}
	return v, Raw16.Length(ct), nil
}
