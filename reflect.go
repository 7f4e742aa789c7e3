// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// reflect.go - struct models: schema derivation from `wire` struct tags,
// embedded struct flattening, and the struct <-> value list conversions
// behind PackModel and UnpackModel.

package wirepack

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/AndrewDonelson/wirepack/internal/codec"
	"github.com/AndrewDonelson/wirepack/internal/wire"
)

// modelLayout maps schema positions to struct fields.
var (
	bytesType = reflect.TypeOf([]byte(nil))
	flagsType = reflect.TypeOf([]bool(nil))
	listType  = reflect.TypeOf([][]byte(nil))
)

type modelLayout struct {
	typ    reflect.Type
	fields []modelField
}

type modelField struct {
	name   string
	index  []int // for reflect.Value.FieldByIndex
	object bool  // serializer-backed; packed as the field's own type
}

// RegisterModel derives a schema from the exported fields of a struct (or
// pointer to struct) and registers it under the lowest unused ID. An empty
// name defaults to the snake_case type name.
//
// Fields are taken in declaration order with embedded structs flattened. The
// `wire` tag names the codec, e.g. `wire:"uint8"`, `wire:"msgpack"` or
// `wire:"sealed:string16"`; `wire:"-"` skips the field. Untagged fields use
// the codec matching their kind: string16, bool, int8/16/32, uint8/16/32,
// float32/64, raw16 for []byte, flags for []bool and list16 for [][]byte
// (int and uint map to int32 and uint32).
func (p *Packer) RegisterModel(name string, model any) (uint8, error) {
	layout, fields, err := p.reflectModel(model)
	if err != nil {
		return 0, err
	}
	if name == "" {
		name = toSnakeCase(layout.typ.Name())
	}
	cs, err := p.registry.register(-1, name, fields, layout)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("wirepack: model registered", "schema", name, "id", cs.ID, "type", layout.typ.String())
	return cs.ID, nil
}

// PackModel packs the struct v (or pointer to it) with the model schema
// called name.
func (p *Packer) PackModel(name string, v any) ([]byte, error) {
	cs, err := p.registry.get(name)
	if err != nil {
		return nil, p.fail("pack", err)
	}
	if cs.model == nil {
		return nil, p.fail("pack", fmt.Errorf("%w: schema %q was not registered from a model", ErrInvalidModel, name))
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != cs.model.typ {
		return nil, p.fail("pack", fmt.Errorf("%w: schema %q packs %s, got %T", ErrInvalidModel, name, cs.model.typ, v))
	}
	values := make([]any, len(cs.model.fields))
	for i, mf := range cs.model.fields {
		fv := rv.FieldByIndex(mf.index)
		if mf.object {
			values[i] = fv.Interface()
		} else {
			values[i] = plainValue(fv)
		}
	}
	return p.Pack(name, values...)
}

// UnpackModel unpacks buf into dest, a pointer to the struct type the
// packet's schema was registered from, and returns the schema name.
// Byte slices are copied out of buf.
func (p *Packer) UnpackModel(buf []byte, dest any) (string, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: dest must be a non-nil pointer to a struct, got %T", ErrInvalidModel, dest)
	}
	pkt, err := p.Unpack(buf)
	if err != nil {
		return "", err
	}
	cs, err := p.registry.get(pkt.Name)
	if err != nil {
		return "", err
	}
	if cs.model == nil || cs.model.typ != rv.Elem().Type() {
		return "", fmt.Errorf("%w: packet schema %q does not unpack into %T", ErrInvalidModel, pkt.Name, dest)
	}
	sv := rv.Elem()
	for i, mf := range cs.model.fields {
		if err := setField(sv.FieldByIndex(mf.index), pkt.Data[i]); err != nil {
			return "", fmt.Errorf("wirepack: schema %q field %s: %w", pkt.Name, mf.name, err)
		}
	}
	return pkt.Name, nil
}

// reflectModel derives the layout and fields of a struct model.
func (p *Packer) reflectModel(model any) (*modelLayout, []Field, error) {
	t := reflect.TypeOf(model)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: got %T", ErrInvalidModel, model)
	}
	layout := &modelLayout{typ: t}
	var fields []Field
	if err := p.flattenStruct(t, nil, layout, &fields); err != nil {
		return nil, nil, err
	}
	return layout, fields, nil
}

func (p *Packer) flattenStruct(t reflect.Type, prefix []int, layout *modelLayout, fields *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		tag := strings.TrimSpace(f.Tag.Get("wire"))
		if f.Anonymous && f.Type.Kind() == reflect.Struct && tag == "" {
			if err := p.flattenStruct(f.Type, index, layout, fields); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}
		field, object, err := p.modelField(tag, f.Type)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidModel, t.Name(), f.Name, err)
		}
		layout.fields = append(layout.fields, modelField{name: f.Name, index: index, object: object})
		*fields = append(*fields, field)
	}
	return nil
}

// modelField resolves the codec for one struct field and reports whether it
// is serializer-backed.
func (p *Packer) modelField(tag string, typ reflect.Type) (Field, bool, error) {
	if tag == "" {
		if f := kindField(typ); f != nil {
			return f, false, nil
		}
		return nil, false, fmt.Errorf("no default codec for %s, add a wire tag", typ)
	}
	inner, sealed := strings.CutPrefix(tag, sealedPrefix)
	var f Field
	ser, object := codec.ByName(inner)
	if object {
		f = wire.ObjectOf(ser, typ)
	} else {
		var ok bool
		if f, ok = wire.Lookup(inner); !ok {
			return nil, false, fmt.Errorf("unknown codec %q", inner)
		}
		if !kindFits(f, typ) {
			return nil, false, fmt.Errorf("codec %s cannot carry %s", f.Name(), typ)
		}
	}
	if !sealed {
		return f, object, nil
	}
	if p.encryptor == nil {
		return nil, false, fmt.Errorf("codec %q needs an encryption key", tag)
	}
	return wire.Sealed(p.encryptor, f), object, nil
}

// kindField returns the default codec for typ, or nil.
func kindField(typ reflect.Type) Field {
	switch typ.Kind() {
	case reflect.String:
		return wire.String16
	case reflect.Bool:
		return wire.Bool
	case reflect.Int8:
		return wire.Int8
	case reflect.Int16:
		return wire.Int16
	case reflect.Int32, reflect.Int:
		return wire.Int32
	case reflect.Uint8:
		return wire.Uint8
	case reflect.Uint16:
		return wire.Uint16
	case reflect.Uint32, reflect.Uint:
		return wire.Uint32
	case reflect.Float32:
		return wire.Float32
	case reflect.Float64:
		return wire.Float64
	case reflect.Slice:
		switch elem := typ.Elem(); {
		case elem.Kind() == reflect.Uint8:
			return wire.Raw16
		case elem.Kind() == reflect.Bool:
			return wire.Flags
		case elem.Kind() == reflect.Slice && elem.Elem().Kind() == reflect.Uint8:
			return wire.List16
		}
	}
	return nil
}

// kindFits reports whether values decoded by f can be stored in typ.
func kindFits(f Field, typ reflect.Type) bool {
	k := typ.Kind()
	switch f.(type) {
	case wire.Integer:
		return k >= reflect.Int && k <= reflect.Uint64
	case wire.Float:
		return k == reflect.Float32 || k == reflect.Float64
	case wire.Text:
		return k == reflect.String
	case wire.Boolean:
		return k == reflect.Bool
	case wire.Raw:
		return k == reflect.Slice && typ.Elem().Kind() == reflect.Uint8
	case wire.FlagArray:
		return k == reflect.Slice && typ.Elem().Kind() == reflect.Bool
	case wire.PacketList:
		return k == reflect.Slice && typ.Elem().Kind() == reflect.Slice && typ.Elem().Elem().Kind() == reflect.Uint8
	}
	return false
}

// plainValue unwraps named types to the builtin kinds the codecs accept.
func plainValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Slice:
		for _, t := range []reflect.Type{bytesType, flagsType, listType} {
			if v.Type() != t && v.Type().ConvertibleTo(t) {
				return v.Convert(t).Interface()
			}
		}
	}
	return v.Interface()
}

// setField stores a decoded value in fv, converting between named and
// builtin types and rejecting integers the field cannot hold.
func setField(fv reflect.Value, val any) error {
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	rv := reflect.ValueOf(val)
	switch x := val.(type) {
	case int64:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if fv.OverflowInt(x) {
				return fmt.Errorf("%w: %d overflows %s", ErrValidation, x, fv.Type())
			}
			fv.SetInt(x)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if x < 0 || fv.OverflowUint(uint64(x)) {
				return fmt.Errorf("%w: %d overflows %s", ErrValidation, x, fv.Type())
			}
			fv.SetUint(uint64(x))
			return nil
		}
	case []byte:
		rv = reflect.ValueOf(bytes.Clone(x))
	case [][]byte:
		cp := make([][]byte, len(x))
		for i, e := range x {
			cp[i] = bytes.Clone(e)
		}
		rv = reflect.ValueOf(cp)
	}
	switch {
	case rv.Type().AssignableTo(fv.Type()):
		fv.Set(rv)
	case rv.Type().ConvertibleTo(fv.Type()):
		fv.Set(rv.Convert(fv.Type()))
	default:
		return fmt.Errorf("%w: cannot store %T in %s", ErrFieldType, val, fv.Type())
	}
	return nil
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + 32)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
