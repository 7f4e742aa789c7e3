package wirepack

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/AndrewDonelson/wirepack/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── toSnakeCase ───────────────────────────────────────────────────────────────

func TestToSnakeCase_Internal(t *testing.T) {
	tests := []struct{ in, want string }{
		{"PlayerState", "player_state"},
		{"Move", "move"},
		{"simplevalue", "simplevalue"},
		{"", ""},
		{"A", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toSnakeCase(tt.in), "toSnakeCase(%q)", tt.in)
	}
}

// ── schemaRegistry ────────────────────────────────────────────────────────────

func TestSchemaRegistry_FreeIDFillsGaps(t *testing.T) {
	r := newSchemaRegistry()
	_, err := r.register(0, "a", nil, nil)
	require.NoError(t, err)
	_, err = r.register(2, "c", nil, nil)
	require.NoError(t, err)

	cs, err := r.register(-1, "b", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), cs.ID)

	cs, err = r.register(-1, "d", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), cs.ID)
	assert.Equal(t, 4, r.len())
}

func TestSchemaRegistry_GetByNameAndID(t *testing.T) {
	r := newSchemaRegistry()
	_, err := r.register(-1, "x", []Field{wire.Uint8}, nil)
	require.NoError(t, err)

	byName, err := r.get("x")
	require.NoError(t, err)
	byID, err := r.getID(0)
	require.NoError(t, err)
	assert.Same(t, byName, byID)

	_, err = r.getID(1)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
	_, err = r.get("y")
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestSchemaRegistry_FieldsCopied(t *testing.T) {
	r := newSchemaRegistry()
	fields := []Field{wire.Uint8, wire.Uint16}
	cs, err := r.register(-1, "x", fields, nil)
	require.NoError(t, err)
	fields[0] = wire.String8
	assert.Equal(t, "uint8", cs.Fields[0].Name())
}

// ── errorKind ─────────────────────────────────────────────────────────────────

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "out_of_range", errorKind(fmt.Errorf("x: %w", ErrOutOfRange)))
	assert.Equal(t, "validation", errorKind(fmt.Errorf("x: %w", ErrValidation)))
	assert.Equal(t, "not_found", errorKind(ErrSchemaNotFound))
	assert.Equal(t, "field", errorKind(ErrFieldCount))
	assert.Equal(t, "field", errorKind(ErrFieldType))
	assert.Equal(t, "other", errorKind(errors.New("boom")))
}

// ── model helpers ─────────────────────────────────────────────────────────────

func TestKindFits(t *testing.T) {
	assert.True(t, kindFits(wire.Uint8, reflect.TypeOf(int64(0))))
	assert.True(t, kindFits(wire.Float32, reflect.TypeOf(float64(0))))
	assert.False(t, kindFits(wire.Float32, reflect.TypeOf(0)))
	assert.True(t, kindFits(wire.String8, reflect.TypeOf("")))
	assert.True(t, kindFits(wire.Raw8, reflect.TypeOf([]byte(nil))))
	assert.False(t, kindFits(wire.Raw8, reflect.TypeOf("")))
	assert.True(t, kindFits(wire.List16, reflect.TypeOf([][]byte(nil))))
	assert.True(t, kindFits(wire.Flags, reflect.TypeOf([]bool(nil))))
	assert.False(t, kindFits(wire.Bool, reflect.TypeOf(0)))
}

func TestPlainValue_NamedTypes(t *testing.T) {
	type Name string
	type Blob []byte
	type Bits []bool
	assert.Equal(t, "x", plainValue(reflect.ValueOf(Name("x"))))
	assert.Equal(t, []byte{1}, plainValue(reflect.ValueOf(Blob{1})))
	assert.Equal(t, []bool{true}, plainValue(reflect.ValueOf(Bits{true})))
	assert.Equal(t, int64(-3), plainValue(reflect.ValueOf(int8(-3))))
	assert.Equal(t, uint64(3), plainValue(reflect.ValueOf(uint16(3))))
}

func TestSetField_Overflow(t *testing.T) {
	var s struct {
		I int8
		U uint8
	}
	v := reflect.ValueOf(&s).Elem()
	assert.ErrorIs(t, setField(v.Field(0), int64(200)), ErrValidation)
	assert.ErrorIs(t, setField(v.Field(1), int64(-1)), ErrValidation)
	require.NoError(t, setField(v.Field(0), int64(-100)))
	assert.Equal(t, int8(-100), s.I)
	assert.ErrorIs(t, setField(v.Field(1), "nope"), ErrFieldType)
}
