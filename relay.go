// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// relay.go - Redis pub/sub transport: packets published on a channel are fed
// to Packer.Receive on every subscribed peer.

package wirepack

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRelayChannel is the channel used when none is configured.
const DefaultRelayChannel = "wirepack:packets"

const defaultReconnectDelay = 500 * time.Millisecond

// RelayConfig configures a Redis relay.
type RelayConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
	// ReconnectDelay is the pause before resubscribing after a dropped
	// subscription. Zero means 500ms.
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// Relay carries packets between Packers over one Redis pub/sub channel.
// Each message payload is exactly one packet.
type Relay struct {
	p          *Packer
	client     redis.UniversalClient
	ownsClient bool
	channel    string
	delay      time.Duration

	ready     chan struct{}
	readyOnce sync.Once
	closed    atomic.Bool
}

// NewRelay wraps an existing client. Close leaves the client open.
func NewRelay(p *Packer, client redis.UniversalClient, channel string) *Relay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &Relay{
		p:       p,
		client:  client,
		channel: channel,
		delay:   defaultReconnectDelay,
		ready:   make(chan struct{}),
	}
}

// DialRelay creates a Redis client from cfg and wraps it. Close closes the
// client.
func DialRelay(p *Packer, cfg RelayConfig) (*Relay, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: relay.addr is empty", ErrInvalidConfig)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	r := NewRelay(p, client, cfg.Channel)
	r.ownsClient = true
	if cfg.ReconnectDelay > 0 {
		r.delay = cfg.ReconnectDelay
	}
	return r, nil
}

// Channel returns the pub/sub channel name.
func (r *Relay) Channel() string { return r.channel }

// Ready is closed once Run's first subscription is confirmed.
func (r *Relay) Ready() <-chan struct{} { return r.ready }

// Publish packs values with the schema called name and publishes the packet.
func (r *Relay) Publish(ctx context.Context, name string, values ...any) error {
	buf, err := r.p.Pack(name, values...)
	if err != nil {
		return err
	}
	return r.PublishPacket(ctx, buf)
}

// PublishPacket publishes an already packed packet.
func (r *Relay) PublishPacket(ctx context.Context, buf []byte) error {
	if r.closed.Load() {
		return ErrRelayClosed
	}
	if err := r.client.Publish(ctx, r.channel, buf).Err(); err != nil {
		return fmt.Errorf("wirepack: relay publish: %w", err)
	}
	return nil
}

// Run subscribes to the channel and passes every message to Receive,
// serially, until ctx is cancelled or the relay is closed. A dropped
// subscription is re-established after the reconnect delay. Undecodable
// messages are logged and skipped.
func (r *Relay) Run(ctx context.Context) error {
	for {
		if r.closed.Load() {
			return ErrRelayClosed
		}
		err := r.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !r.closed.Load() {
			r.p.logger.Warn("wirepack: relay subscription lost", "channel", r.channel, "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.delay):
		}
	}
}

func (r *Relay) listen(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.readyOnce.Do(func() { close(r.ready) })
	r.p.logger.Debug("wirepack: relay subscribed", "channel", r.channel)

	msgCh := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgCh:
			if !ok {
				return errors.New("subscription channel closed")
			}
			if err := r.p.Receive([]byte(msg.Payload)); err != nil {
				r.p.logger.Warn("wirepack: relay dropped undecodable packet",
					"channel", r.channel, "bytes", len(msg.Payload), "err", err)
			}
		}
	}
}

// Close stops publishing and, for relays created by DialRelay, closes the
// Redis client. Cancel Run's context to stop receiving.
func (r *Relay) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.ownsClient {
		return r.client.Close()
	}
	return nil
}
