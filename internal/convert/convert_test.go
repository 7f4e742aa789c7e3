package convert_test

import (
	"math"
	"testing"

	"github.com/AndrewDonelson/wirepack/internal/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBase_Natural(t *testing.T) {
	d, err := convert.ToBase(300, 256, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2C}, d)

	d, err = convert.ToBase(6, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0}, d)
}

func TestToBase_ZeroWithoutWidth(t *testing.T) {
	d, err := convert.ToBase(0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, d)
}

func TestToBase_ZeroWithWidth(t *testing.T) {
	d, err := convert.ToBase(0, 256, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, d)
}

func TestToBase_Padding(t *testing.T) {
	d, err := convert.ToBase(5, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 1, 0, 1}, d)
}

func TestToBase_TooWide(t *testing.T) {
	_, err := convert.ToBase(256, 256, 1)
	assert.ErrorIs(t, err, convert.ErrOutOfRange)

	_, err = convert.ToBase(1<<11, 2, 11)
	assert.ErrorIs(t, err, convert.ErrOutOfRange)
}

func TestToBase_BadBase(t *testing.T) {
	_, err := convert.ToBase(1, 1, 0)
	assert.ErrorIs(t, err, convert.ErrValidation)
	_, err = convert.ToBase(1, 257, 0)
	assert.ErrorIs(t, err, convert.ErrValidation)
}

func TestFromBase(t *testing.T) {
	assert.Equal(t, uint64(300), convert.FromBase([]byte{0x01, 0x2C}, 256))
	assert.Equal(t, uint64(127), convert.FromBase([]byte{0, 1, 1, 1, 1, 1, 1, 1}, 2))
	assert.Equal(t, uint64(0), convert.FromBase(nil, 2))
}

func TestBase_RoundTrip(t *testing.T) {
	for _, base := range []int{2, 3, 10, 16, 255, 256} {
		for _, v := range []uint64{0, 1, 2, 254, 255, 256, 65535, 1 << 32, 1<<63 + 12345} {
			d, err := convert.ToBase(v, base, 0)
			require.NoError(t, err)
			assert.Equal(t, v, convert.FromBase(d, base), "base %d value %d", base, v)
		}
	}
}

func TestWholeToBase(t *testing.T) {
	assert.Equal(t, []byte{0}, convert.WholeToBase(0, 2))
	assert.Equal(t, []byte{1, 0, 1}, convert.WholeToBase(5, 2))
	assert.Equal(t, []byte{1, 0, 1}, convert.WholeToBase(5.75, 2))

	// 2^70 is beyond uint64 but exact as a float64.
	bits := convert.WholeToBase(math.Ldexp(1, 70), 2)
	require.Len(t, bits, 71)
	assert.Equal(t, byte(1), bits[0])
	for _, b := range bits[1:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestBitsToBytes(t *testing.T) {
	b, err := convert.BitsToBytes([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x80}, b)
}

func TestBitsToBytes_BadLength(t *testing.T) {
	_, err := convert.BitsToBytes([]byte{1, 0, 1})
	assert.ErrorIs(t, err, convert.ErrValidation)
}

func TestBytesToBits(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1, 1, 1, 1, 1, 1}, convert.BytesToBits([]byte{0xFC}))
	assert.Empty(t, convert.BytesToBits(nil))
}

func TestBits_RoundTrip(t *testing.T) {
	in := []byte{0x00, 0xFF, 0x5A, 0xA5, 0x01, 0x80}
	out, err := convert.BitsToBytes(convert.BytesToBits(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
