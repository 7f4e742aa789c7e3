// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// bits.go - flat 0/1 bit sequences to packed bytes and back. Bits are
// assigned least significant first within each byte.

package convert

import "fmt"

// BitsToBytes packs each run of 8 bits into one byte, the first bit of the
// run landing in the least significant position. Any non-zero element counts
// as a set bit. The length of bits must be a multiple of 8.
func BitsToBytes(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: bit count %d is not a multiple of 8", ErrValidation, len(bits))
	}
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i*8+j] != 0 {
				b |= 1 << j
			}
		}
		out[i] = b
	}
	return out, nil
}

// BytesToBits is the inverse of BitsToBytes.
func BytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for j := 0; j < 8; j++ {
			bits = append(bits, (b>>j)&1)
		}
	}
	return bits
}
