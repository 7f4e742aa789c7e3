package codec_test

import (
	"testing"

	"github.com/AndrewDonelson/wirepack/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id" msgpack:"id" cbor:"id"`
	Name string `json:"name" msgpack:"name" cbor:"name"`
}

func TestJSONCodec(t *testing.T) {
	c := codec.JSON{}
	orig := item{ID: 1, Name: "test"}
	b, err := c.Marshal(orig)
	require.NoError(t, err)

	var got item
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "json", c.Name())
}

func TestMsgPackCodec(t *testing.T) {
	c := codec.MsgPack{}
	orig := item{ID: 42, Name: "pack"}
	b, err := c.Marshal(orig)
	require.NoError(t, err)

	var got item
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "msgpack", c.Name())
}

func TestMsgPackCodec_SortedMaps(t *testing.T) {
	c := codec.MsgPack{}
	m := map[string]any{"z": "1", "a": "2", "m": "3"}
	b, err := c.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x83,
		0xa1, 'a', 0xa1, '2',
		0xa1, 'm', 0xa1, '3',
		0xa1, 'z', 0xa1, '1',
	}, b)

	for i := 0; i < 20; i++ {
		again, err := c.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, b, again)
	}
}

func TestMsgPackCodec_SortedStringMaps(t *testing.T) {
	c := codec.MsgPack{}
	b, err := c.Marshal(map[string]string{"b": "x", "a": "y"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0xa1, 'a', 0xa1, 'y', 0xa1, 'b', 0xa1, 'x'}, b)

	b, err = c.Marshal(map[string]bool{"b": true, "a": false})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0xa1, 'a', 0xc2, 0xa1, 'b', 0xc3}, b)
}

func TestCBORCodec(t *testing.T) {
	c := codec.CBOR{}
	orig := item{ID: 7, Name: "cbor"}
	b, err := c.Marshal(orig)
	require.NoError(t, err)

	var got item
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "cbor", c.Name())
}

func TestCodec_UnmarshalGarbage(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.MsgPack{}, codec.CBOR{}} {
		var got item
		assert.Error(t, c.Unmarshal([]byte{0xc1, 0xff, 0x00}, &got), c.Name())
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "cbor"} {
		c, ok := codec.ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := codec.ByName("xml")
	assert.False(t, ok)
}
