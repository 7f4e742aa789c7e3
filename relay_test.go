package wirepack_test

import (
	"context"
	"testing"
	"time"

	"github.com/AndrewDonelson/wirepack"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRelay runs a relay for p against mr until the test ends.
func startRelay(t *testing.T, mr *miniredis.Miniredis, p *wirepack.Packer) *wirepack.Relay {
	t.Helper()
	r, err := wirepack.DialRelay(p, wirepack.RelayConfig{Addr: mr.Addr(), ReconnectDelay: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = r.Close()
	})

	select {
	case <-r.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("relay never subscribed")
	}
	return r
}

func TestRelay_DeliversToHandler(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	sender := newPacker(t)
	registerPlayer(t, sender)
	receiver := newPacker(t)
	registerPlayer(t, receiver)

	got := make(chan []any, 1)
	receiver.On("player", func(_ string, data []any) { got <- data })

	startRelay(t, mr, receiver)
	out, err := wirepack.DialRelay(sender, wirepack.RelayConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })
	assert.Equal(t, wirepack.DefaultRelayChannel, out.Channel())

	require.NoError(t, out.Publish(context.Background(), "player", playerValues...))

	select {
	case data := <-got:
		assert.Equal(t, playerDecoded, data)
	case <-time.After(2 * time.Second):
		t.Fatal("packet not delivered")
	}
}

func TestRelay_SkipsGarbage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	p := newPacker(t)
	_, err = p.Register("chat", wirepack.String8)
	require.NoError(t, err)
	got := make(chan string, 1)
	p.On("chat", func(_ string, data []any) { got <- data[0].(string) })
	startRelay(t, mr, p)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	pub := wirepack.NewRelay(p, client, "")

	ctx := context.Background()
	require.NoError(t, pub.PublishPacket(ctx, []byte{0, 9, 'x'}))
	require.NoError(t, pub.Publish(ctx, "chat", "still here"))

	select {
	case s := <-got:
		assert.Equal(t, "still here", s)
	case <-time.After(2 * time.Second):
		t.Fatal("relay stopped after a bad packet")
	}
	assert.Eventually(t, func() bool { return p.Stats().Errors >= 1 }, time.Second, 10*time.Millisecond)

	// closing a relay over a shared client leaves the client usable
	require.NoError(t, pub.Close())
	assert.ErrorIs(t, pub.Publish(ctx, "chat", "late"), wirepack.ErrRelayClosed)
	assert.NoError(t, client.Ping(ctx).Err())
}

func TestRelay_PublishErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	p := newPacker(t)
	r, err := wirepack.DialRelay(p, wirepack.RelayConfig{Addr: mr.Addr(), Channel: "c"})
	require.NoError(t, err)
	defer r.Close()

	err = r.Publish(context.Background(), "unknown")
	assert.ErrorIs(t, err, wirepack.ErrSchemaNotFound)
}

func TestDialRelay_NoAddr(t *testing.T) {
	_, err := wirepack.DialRelay(newPacker(t), wirepack.RelayConfig{})
	assert.ErrorIs(t, err, wirepack.ErrInvalidConfig)
}

func TestRelay_RunAfterClose(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	r, err := wirepack.DialRelay(newPacker(t), wirepack.RelayConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Run(context.Background()), wirepack.ErrRelayClosed)
}
