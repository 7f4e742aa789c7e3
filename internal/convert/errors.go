// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go - the two failure kinds shared by every layer of the codec stack.

// Package convert provides the digit and bit level conversions the wire codecs
// are built on: integer base conversion and LSB-first bit packing.
package convert

import "errors"

var (
	// ErrOutOfRange is returned at encode time when a value does not fit the
	// target width.
	ErrOutOfRange = errors.New("wirepack: value out of range")

	// ErrValidation is returned at decode time for truncated or malformed input.
	ErrValidation = errors.New("wirepack: validation failed")
)
