// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// float.go - binary floating point built from base conversion and binary
// fraction expansion. The layout is sign, biased exponent, mantissa with an
// implicit leading one. Fraction bits are truncated, never rounded, and the
// subnormal, infinity and NaN encodings are not interpreted.

package wire

import (
	"fmt"
	"math"

	"github.com/AndrewDonelson/wirepack/internal/convert"
)

// Float is a sign/exponent/mantissa floating point codec.
type Float struct {
	name     string
	expBits  int
	fracBits int
	bias     int
}

// Float codecs.
var (
	Float32 = Float{name: "float32", expBits: 8, fracBits: 23, bias: 127}
	Float64 = Float{name: "float64", expBits: 11, fracBits: 52, bias: 1023}
)

var _ Codec[float64] = Float{}

// Name returns the codec name.
func (c Float) Name() string { return c.name }

// Width is the encoded size in bytes.
func (c Float) Width() int { return (1 + c.expBits + c.fracBits) / 8 }

// Length is always Width.
func (c Float) Length(float64) int { return c.Width() }

// Validate checks that Width bytes remain at off.
func (c Float) Validate(buf []byte, off int) bool { return fits(buf, off, c.Width()) }

// Encode converts v to its bit layout.
func (c Float) Encode(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s cannot represent %v", ErrOutOfRange, c.name, v)
	}

	bits := make([]byte, 1, 1+c.expBits+c.fracBits)
	if math.Signbit(v) {
		bits[0] = 1
	}

	whole, frac := math.Modf(math.Abs(v))
	intBits := convert.WholeToBase(whole, 2)
	joined := append(intBits, c.fractionBits(frac, intBits)...)

	lead := -1
	for i, b := range joined {
		if b == 1 {
			lead = i
			break
		}
	}

	exp := len(intBits) - lead - 1 + c.bias
	if lead < 0 || exp < 1 {
		// zero, or below the smallest normal: signed zero
		bits = append(bits, make([]byte, c.expBits+c.fracBits)...)
		return convert.BitsToBytes(bits)
	}

	expDigits, err := convert.ToBase(uint64(exp), 2, c.expBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v exceeds the exponent range of %s", ErrOutOfRange, v, c.name)
	}
	bits = append(bits, expDigits...)

	mantissa := joined[lead+1:]
	if len(mantissa) > c.fracBits {
		mantissa = mantissa[:c.fracBits]
	}
	bits = append(bits, mantissa...)
	for len(bits) < 1+c.expBits+c.fracBits {
		bits = append(bits, 0)
	}
	return convert.BitsToBytes(bits)
}

// fractionBits expands frac (in [0, 1)) into binary digits by repeated
// doubling. Expansion stops once fracBits digits follow the leading one, when
// the fraction terminates, or when a leading one could no longer produce a
// normal exponent.
func (c Float) fractionBits(frac float64, intBits []byte) []byte {
	// digits after the leading one already supplied by the integer part
	after := -1
	for i, b := range intBits {
		if b == 1 {
			after = len(intBits) - i - 1
			break
		}
	}

	limit := c.bias - 1
	var out []byte
	for frac > 0 && len(out) < limit+c.fracBits {
		if after >= c.fracBits {
			break
		}
		if after < 0 && len(out) >= limit {
			break
		}
		frac *= 2
		bit := byte(0)
		if frac >= 1 {
			bit = 1
			frac--
		}
		out = append(out, bit)
		if after >= 0 {
			after++
		} else if bit == 1 {
			after = 0
		}
	}
	return out
}

// Decode reads Width bytes at off.
func (c Float) Decode(buf []byte, off int) (float64, error) {
	if !c.Validate(buf, off) {
		return 0, short(c.name, buf, off, c.Width())
	}
	bits := convert.BytesToBits(buf[off : off+c.Width()])

	sign := 1.0
	if bits[0] == 1 {
		sign = -1
	}
	rawExp := convert.FromBase(bits[1:1+c.expBits], 2)
	mbits := bits[1+c.expBits : 1+c.expBits+c.fracBits]

	if rawExp == 0 && isZero(mbits) {
		return math.Copysign(0, sign), nil
	}

	mantissa := 1.0
	for i, b := range mbits {
		if b == 1 {
			mantissa += math.Ldexp(1, -i-1)
		}
	}
	return sign * math.Ldexp(mantissa, int(rawExp)-c.bias), nil
}

// EncodeValue accepts any Go integer or float type.
func (c Float) EncodeValue(v any) ([]byte, error) {
	switch n := v.(type) {
	case float64:
		return c.Encode(n)
	case float32:
		return c.Encode(float64(n))
	}
	n, err := toInt64(c.name, v)
	if err != nil {
		return nil, err
	}
	return c.Encode(float64(n))
}

// DecodeValue decodes a float64.
func (c Float) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, c.Width(), nil
}

func isZero(bits []byte) bool {
	for _, b := range bits {
		if b != 0 {
			return false
		}
	}
	return true
}
