// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go - sentinel error variables returned by the public wirepack API,
// covering codec failures, schema registration, packing and the relay.

// Package wirepack provides compact binary packets: fixed-contract codecs for
// integers, floats, strings and raw bytes, a registry that prefixes every
// packet with a one-byte schema ID, and a dispatcher routing received packets
// to per-schema handlers.
package wirepack

import (
	"errors"

	"github.com/AndrewDonelson/wirepack/internal/wire"
)

// Codec errors
var (
	ErrOutOfRange = wire.ErrOutOfRange
	ErrValidation = wire.ErrValidation
	ErrFieldType  = wire.ErrFieldType
)

// Schema errors
var (
	ErrSchemaNotFound  = errors.New("wirepack: schema not registered")
	ErrSchemaDuplicate = errors.New("wirepack: schema already registered")
	ErrIDTaken         = errors.New("wirepack: schema id already in use")
	ErrRegistryFull    = errors.New("wirepack: all 256 schema ids are in use")
	ErrInvalidSchema   = errors.New("wirepack: invalid schema definition")
	ErrInvalidModel    = errors.New("wirepack: model must be a struct or pointer to struct")
)

// Packing errors
var (
	ErrFieldCount = errors.New("wirepack: value count does not match schema")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("wirepack: invalid configuration")
)

// Relay errors
var (
	ErrRelayClosed = errors.New("wirepack: relay closed")
)

// errorKind names the sentinel behind err for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSchemaNotFound):
		return "not_found"
	case errors.Is(err, ErrFieldCount), errors.Is(err, ErrFieldType):
		return "field"
	}
	return "other"
}
