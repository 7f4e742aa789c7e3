// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// schema.go - the packet registry: named schemas, their one-byte wire IDs,
// and the lookups used by Pack and Unpack.

package wirepack

import (
	"fmt"
	"sort"
	"sync"
)

// maxSchemas is the number of distinct IDs a one-byte prefix can carry.
const maxSchemas = 256

// Schema is a registered packet layout.
type Schema struct {
	Name   string
	ID     uint8
	Fields []Field
}

// FieldNames returns the wire name of every field, in order.
func (s Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name()
	}
	return out
}

// compiledSchema is the internal representation of a registered Schema.
type compiledSchema struct {
	Schema
	model *modelLayout // nil unless registered with RegisterModel
}

// snapshot returns the schema with its own copy of the field list.
func (cs *compiledSchema) snapshot() Schema {
	s := cs.Schema
	s.Fields = append([]Field(nil), cs.Fields...)
	return s
}

// schemaRegistry holds all registered schemas. It only grows.
type schemaRegistry struct {
	mu     sync.RWMutex
	byName map[string]*compiledSchema
	byID   [maxSchemas]*compiledSchema
}

func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{byName: make(map[string]*compiledSchema)}
}

func validateSchema(name string, fields []Field) error {
	if name == "" {
		return fmt.Errorf("%w: empty schema name", ErrInvalidSchema)
	}
	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("%w: schema %q field %d is nil", ErrInvalidSchema, name, i)
		}
	}
	return nil
}

// register adds a schema under id, or under the lowest unused ID when id is
// negative.
func (r *schemaRegistry) register(id int, name string, fields []Field, model *modelLayout) (*compiledSchema, error) {
	if err := validateSchema(name, fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrSchemaDuplicate, name)
	}
	if id < 0 {
		id = r.freeID()
		if id < 0 {
			return nil, fmt.Errorf("%w: cannot register %q", ErrRegistryFull, name)
		}
	} else if other := r.byID[id]; other != nil {
		return nil, fmt.Errorf("%w: id %d belongs to %q", ErrIDTaken, id, other.Name)
	}

	cs := &compiledSchema{
		Schema: Schema{Name: name, ID: uint8(id), Fields: append([]Field(nil), fields...)},
		model:  model,
	}
	r.byName[name] = cs
	r.byID[id] = cs
	return cs, nil
}

// freeID returns the lowest unused ID, or -1. Callers hold mu.
func (r *schemaRegistry) freeID() int {
	for id, cs := range r.byID {
		if cs == nil {
			return id
		}
	}
	return -1
}

func (r *schemaRegistry) get(name string) (*compiledSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cs, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return cs, nil
}

func (r *schemaRegistry) getID(id uint8) (*compiledSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cs := r.byID[id]
	if cs == nil {
		return nil, fmt.Errorf("%w: id %d", ErrSchemaNotFound, id)
	}
	return cs, nil
}

// all returns every schema ordered by ID.
func (r *schemaRegistry) all() []*compiledSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*compiledSchema, 0, len(r.byName))
	for _, cs := range r.byName {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *schemaRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
