package wirepack_test

import (
	"sync"
	"testing"
	"time"

	"github.com/AndrewDonelson/wirepack"
	"github.com/AndrewDonelson/wirepack/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newPacker(t *testing.T) *wirepack.Packer {
	t.Helper()
	return wirepack.New(wirepack.Config{})
}

func registerPlayer(t *testing.T, p *wirepack.Packer) uint8 {
	t.Helper()
	id, err := p.Register("player",
		wirepack.String8, // name
		wirepack.Uint8,   // level
		wirepack.Int16,   // hp delta
		wirepack.Float32, // x
		wirepack.Float64, // y
		wirepack.Raw16,   // avatar
	)
	require.NoError(t, err)
	return id
}

var playerValues = []any{"alice", 7, -20, 1.5, 3.25, []byte{1, 2, 3}}

var playerDecoded = []any{"alice", int64(7), int64(-20), 1.5, 3.25, []byte{1, 2, 3}}

// recorder captures metric calls.
type recorder struct {
	mu        sync.Mutex
	packs     map[string]int
	unpacks   map[string]int
	dispatch  map[string][]bool
	latencies map[string][]time.Duration
	errors    map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		packs:     map[string]int{},
		unpacks:   map[string]int{},
		dispatch:  map[string][]bool{},
		latencies: map[string][]time.Duration{},
		errors:    map[string]int{},
	}
}

func (r *recorder) RecordPack(schema string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs[schema] += size
}

func (r *recorder) RecordUnpack(schema string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unpacks[schema] += size
}

func (r *recorder) RecordDispatch(schema string, handled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatch[schema] = append(r.dispatch[schema], handled)
}

func (r *recorder) RecordLatency(op string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies[op] = append(r.latencies[op], d)
}

func (r *recorder) RecordError(op, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[op+"/"+kind]++
}

// ── pack / unpack ────────────────────────────────────────────────────────────

func TestPackUnpack_RoundTrip(t *testing.T) {
	p := newPacker(t)
	_, err := p.Register("A", wirepack.Uint8)
	require.NoError(t, err)
	id := registerPlayer(t, p)
	assert.Equal(t, uint8(1), id)

	buf, err := p.Pack("player", playerValues...)
	require.NoError(t, err)
	assert.Equal(t, byte(1), buf[0])

	pkt, err := p.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), pkt.ID)
	assert.Equal(t, "player", pkt.Name)
	assert.Equal(t, playerDecoded, pkt.Data)
}

func TestPack_Layout(t *testing.T) {
	p := newPacker(t)
	_, err := p.Register("pos", wirepack.Uint16, wirepack.Int8, wirepack.String8)
	require.NoError(t, err)

	buf, err := p.Pack("pos", 300, -1, "ok")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0x01, 0x2C, 0x7F, 2, 'o', 'k'}, buf)
}

func TestPack_Errors(t *testing.T) {
	p := newPacker(t)
	registerPlayer(t, p)

	_, err := p.Pack("ghost")
	assert.ErrorIs(t, err, wirepack.ErrSchemaNotFound)

	_, err = p.Pack("player", "alice")
	assert.ErrorIs(t, err, wirepack.ErrFieldCount)

	_, err = p.Pack("player", "alice", 256, -20, 1.5, 3.25, []byte{})
	assert.ErrorIs(t, err, wirepack.ErrOutOfRange)
	assert.Contains(t, err.Error(), "field 1")

	_, err = p.Pack("player", "alice", "7", -20, 1.5, 3.25, []byte{})
	assert.ErrorIs(t, err, wirepack.ErrFieldType)

	assert.Equal(t, int64(4), p.Stats().Errors)
	assert.Equal(t, int64(0), p.Stats().Packed)
}

func TestUnpack_Truncated(t *testing.T) {
	p := newPacker(t)
	registerPlayer(t, p)
	buf, err := p.Pack("player", playerValues...)
	require.NoError(t, err)

	for n := 0; n < len(buf); n++ {
		_, err := p.Unpack(buf[:n])
		assert.ErrorIs(t, err, wirepack.ErrValidation, "truncated to %d bytes", n)
	}
}

func TestUnpack_TrailingBytes(t *testing.T) {
	p := newPacker(t)
	registerPlayer(t, p)
	buf, err := p.Pack("player", playerValues...)
	require.NoError(t, err)

	_, err = p.Unpack(append(buf, 0))
	assert.ErrorIs(t, err, wirepack.ErrValidation)
}

func TestUnpack_UnknownID(t *testing.T) {
	p := newPacker(t)
	_, err := p.Unpack([]byte{200, 1, 2})
	assert.ErrorIs(t, err, wirepack.ErrSchemaNotFound)
}

func TestUnpack_RawIsView(t *testing.T) {
	p := newPacker(t)
	_, err := p.Register("blob", wirepack.Raw8)
	require.NoError(t, err)
	buf, err := p.Pack("blob", []byte("abc"))
	require.NoError(t, err)

	pkt, err := p.Unpack(buf)
	require.NoError(t, err)
	buf[2] = 'X'
	assert.Equal(t, []byte("aXc"), pkt.Data[0])
}

func TestPackUnpack_Composite(t *testing.T) {
	type Loadout struct {
		Weapon string `msgpack:"weapon" json:"weapon" cbor:"weapon"`
		Ammo   int    `msgpack:"ammo" json:"ammo" cbor:"ammo"`
	}
	enc, err := wirepack.NewAES256GCM(testKey())
	require.NoError(t, err)

	p := newPacker(t)
	_, err = p.Register("child", wirepack.Uint8)
	require.NoError(t, err)
	_, err = p.Register("state",
		wirepack.Bool,
		wirepack.Flags,
		wirepack.Object[Loadout](wirepack.MsgPack),
		wirepack.Sealed(enc, wirepack.String16),
		wirepack.List16,
	)
	require.NoError(t, err)

	c1, err := p.Pack("child", 1)
	require.NoError(t, err)
	c2, err := p.Pack("child", 2)
	require.NoError(t, err)

	flags := []bool{true, false, true}
	buf, err := p.Pack("state", true, flags, Loadout{Weapon: "bow", Ammo: 12}, "token", [][]byte{c1, c2})
	require.NoError(t, err)

	pkt, err := p.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, true, pkt.Data[0])
	assert.Equal(t, flags, pkt.Data[1])
	assert.Equal(t, Loadout{Weapon: "bow", Ammo: 12}, pkt.Data[2])
	assert.Equal(t, "token", pkt.Data[3])

	children := pkt.Data[4].([][]byte)
	require.Len(t, children, 2)
	child, err := p.Unpack(children[1])
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2)}, child.Data)
}

func TestSealed_WrongKey(t *testing.T) {
	enc1, _ := wirepack.NewAES256GCM(testKey())
	enc2, _ := wirepack.NewAES256GCM(make([]byte, 32))

	a := newPacker(t)
	_, err := a.Register("secret", wirepack.Sealed(enc1, wirepack.Uint32))
	require.NoError(t, err)
	b := newPacker(t)
	_, err = b.Register("secret", wirepack.Sealed(enc2, wirepack.Uint32))
	require.NoError(t, err)

	buf, err := a.Pack("secret", 99)
	require.NoError(t, err)
	_, err = b.Unpack(buf)
	assert.ErrorIs(t, err, wirepack.ErrValidation)
}

// ── stats / metrics ──────────────────────────────────────────────────────────

func TestStatsAndMetrics(t *testing.T) {
	rec := newRecorder()
	clk := clock.NewMock(time.Time{})
	clk.Step(time.Millisecond)
	p := wirepack.New(wirepack.Config{Metrics: rec, Clock: clk})
	registerPlayer(t, p)

	buf, err := p.Pack("player", playerValues...)
	require.NoError(t, err)
	_, err = p.Unpack(buf)
	require.NoError(t, err)
	_, err = p.Unpack(buf[:3])
	require.Error(t, err)

	s := p.Stats()
	assert.Equal(t, int64(1), s.Packed)
	assert.Equal(t, int64(1), s.Unpacked)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, 1, s.Schemas)

	assert.Equal(t, len(buf), rec.packs["player"])
	assert.Equal(t, len(buf), rec.unpacks["player"])
	assert.Equal(t, 1, rec.errors["unpack/validation"])
	assert.Equal(t, []time.Duration{time.Millisecond}, rec.latencies["pack"])
	assert.Len(t, rec.latencies["unpack"], 2)
}

func TestPacker_ConcurrentUse(t *testing.T) {
	p := newPacker(t)
	registerPlayer(t, p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf, err := p.Pack("player", playerValues...)
				if !assert.NoError(t, err) {
					return
				}
				_, err = p.Unpack(buf)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), p.Stats().Packed)
}
