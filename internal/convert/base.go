// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// base.go - non-negative integer to digit sequence conversion in any base up
// to 256, most significant digit first.

package convert

import (
	"fmt"
	"math"
)

// MaxBase is the largest base whose digits still fit in a byte.
const MaxBase = 256

func checkBase(base int) error {
	if base < 2 || base > MaxBase {
		return fmt.Errorf("%w: base %d outside [2, %d]", ErrValidation, base, MaxBase)
	}
	return nil
}

// ToBase returns the digits of value in the given base, most significant
// first. A positive width pads the result with leading zeros and fails with
// ErrOutOfRange when value needs more digits than width. A width of zero
// returns the natural length, which is a single zero digit for value 0.
func ToBase(value uint64, base, width int) ([]byte, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}
	b := uint64(base)

	// least significant digit first, reversed below
	digits := make([]byte, 0, max(width, 8))
	for value > 0 {
		digits = append(digits, byte(value%b))
		value /= b
	}
	if len(digits) == 0 && width == 0 {
		digits = append(digits, 0)
	}
	if width > 0 {
		if len(digits) > width {
			return nil, fmt.Errorf("%w: value needs %d base-%d digits, width is %d",
				ErrOutOfRange, len(digits), base, width)
		}
		for len(digits) < width {
			digits = append(digits, 0)
		}
	}
	reverse(digits)
	return digits, nil
}

// FromBase interprets digits (most significant first) in the given base.
func FromBase(digits []byte, base int) uint64 {
	var v uint64
	for _, d := range digits {
		v = v*uint64(base) + uint64(d)
	}
	return v
}

// WholeToBase is ToBase for an integral, non-negative float64 that may be
// larger than any uint64, such as the integer part of a large double. It uses
// exact float remainder and floor operations, so every digit is exact.
func WholeToBase(value float64, base int) []byte {
	value = math.Floor(math.Abs(value))
	if value == 0 {
		return []byte{0}
	}
	fb := float64(base)
	var digits []byte
	for value > 0 {
		digits = append(digits, byte(math.Mod(value, fb)))
		value = math.Floor(value / fb)
	}
	reverse(digits)
	return digits
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
