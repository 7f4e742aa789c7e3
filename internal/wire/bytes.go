// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// bytes.go - length-prefixed payload codecs: single-byte text and raw bytes,
// each with an 8-bit or 16-bit unsigned length prefix.

package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// frame reads the length prefix at off and reports the payload bounds.
func frame(prefix Integer, buf []byte, off int) (start, end int, ok bool) {
	n, err := prefix.Decode(buf, off)
	if err != nil {
		return 0, 0, false
	}
	start = off + prefix.width
	end = start + int(n)
	return start, end, end <= len(buf)
}

func frameHeader(name string, prefix Integer, n int) ([]byte, error) {
	hdr, err := prefix.Encode(int64(n))
	if err != nil {
		return nil, fmt.Errorf("%w: length %d exceeds maximum for %s", ErrOutOfRange, n, name)
	}
	return hdr, nil
}

func frameError(name string, prefix Integer, buf []byte, off int) error {
	if !prefix.Validate(buf, off) {
		return short(name, buf, off, prefix.width)
	}
	start, end, _ := frame(prefix, buf, off)
	return short(name, buf, start, end-start)
}

// Text is a length-prefixed single-byte string codec. Each rune is stored as
// one byte (its code point truncated to 8 bits) and decoded as the rune of
// the same value, so only text in the U+0000..U+00FF range round-trips.
type Text struct {
	name   string
	prefix Integer
}

// String codecs.
var (
	String8  = Text{name: "string8", prefix: Uint8}
	String16 = Text{name: "string16", prefix: Uint16}
)

var _ Codec[string] = Text{}

// Name returns the codec name.
func (c Text) Name() string { return c.name }

// Length is the prefix width plus one byte per rune.
func (c Text) Length(v string) int { return c.prefix.width + utf8.RuneCountInString(v) }

// Validate checks that the prefix and the payload it announces are present.
func (c Text) Validate(buf []byte, off int) bool {
	_, _, ok := frame(c.prefix, buf, off)
	return ok
}

// Encode writes the rune count followed by one byte per rune.
func (c Text) Encode(v string) ([]byte, error) {
	n := utf8.RuneCountInString(v)
	out, err := frameHeader(c.name, c.prefix, n)
	if err != nil {
		return nil, err
	}
	for _, r := range v {
		out = append(out, byte(r))
	}
	return out, nil
}

// Decode reads one string at off.
func (c Text) Decode(buf []byte, off int) (string, error) {
	start, end, ok := frame(c.prefix, buf, off)
	if !ok {
		return "", frameError(c.name, c.prefix, buf, off)
	}
	var sb strings.Builder
	sb.Grow(end - start)
	for _, b := range buf[start:end] {
		sb.WriteRune(rune(b))
	}
	return sb.String(), nil
}

// EncodeValue accepts a string.
func (c Text) EncodeValue(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, mismatch(c.name, v)
	}
	return c.Encode(s)
}

// DecodeValue decodes a string.
func (c Text) DecodeValue(buf []byte, off int) (any, int, error) {
	start, end, ok := frame(c.prefix, buf, off)
	if !ok {
		return nil, 0, frameError(c.name, c.prefix, buf, off)
	}
	s, _ := c.Decode(buf, off)
	return s, c.prefix.width + end - start, nil
}

// Raw is a length-prefixed byte string codec. Decoded values are views into
// the source buffer and are only valid while it is left unmodified.
type Raw struct {
	name   string
	prefix Integer
}

// Raw byte codecs.
var (
	Raw8  = Raw{name: "raw8", prefix: Uint8}
	Raw16 = Raw{name: "raw16", prefix: Uint16}
)

var _ Codec[[]byte] = Raw{}

// Name returns the codec name.
func (c Raw) Name() string { return c.name }

// Length is the prefix width plus the payload length.
func (c Raw) Length(v []byte) int { return c.prefix.width + len(v) }

// Validate checks that the prefix and the payload it announces are present.
func (c Raw) Validate(buf []byte, off int) bool {
	_, _, ok := frame(c.prefix, buf, off)
	return ok
}

// Encode writes the length followed by v.
func (c Raw) Encode(v []byte) ([]byte, error) {
	hdr, err := frameHeader(c.name, c.prefix, len(v))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(hdr)+len(v))
	out = append(out, hdr...)
	return append(out, v...), nil
}

// Decode returns the payload at off as a capacity-limited view of buf.
func (c Raw) Decode(buf []byte, off int) ([]byte, error) {
	start, end, ok := frame(c.prefix, buf, off)
	if !ok {
		return nil, frameError(c.name, c.prefix, buf, off)
	}
	return buf[start:end:end], nil
}

// EncodeValue accepts a []byte.
func (c Raw) EncodeValue(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch(c.name, v)
	}
	return c.Encode(b)
}

// DecodeValue decodes a []byte view.
func (c Raw) DecodeValue(buf []byte, off int) (any, int, error) {
	v, err := c.Decode(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return v, c.Length(v), nil
}
