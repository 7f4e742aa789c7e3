// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// wirepack.go - the Packer: configuration, schema registration, and the
// Pack/Unpack pair that turns value lists into ID-prefixed packets.

package wirepack

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/AndrewDonelson/wirepack/internal/clock"
	"github.com/AndrewDonelson/wirepack/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.Recorder
type Clock = clock.Clock

// NewPrometheusRecorder returns a MetricsRecorder whose collectors live under
// namespace and are registered with reg (nil skips registration).
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) MetricsRecorder {
	return metrics.NewPrometheus(reg, namespace)
}

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

// Config contains all Packer configuration. The zero value is usable.
type Config struct {
	// Encryptor backs "sealed:" field names in struct tags and config
	// files. nil disables them.
	Encryptor Encryptor

	// Optional overrideable components
	Clock   clock.Clock
	Metrics metrics.Recorder
	Logger  Logger
}

func (c *Config) defaults() {
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

type packerStats struct {
	Packed     atomic.Int64
	Unpacked   atomic.Int64
	Dispatched atomic.Int64
	Dropped    atomic.Int64
	Errors     atomic.Int64
}

// Stats is the snapshot returned by Packer.Stats().
type Stats struct {
	Packed     int64
	Unpacked   int64
	Dispatched int64
	Dropped    int64 // received packets with no handler
	Errors     int64
	Schemas    int
}

// ────────────────────────────────────────────────────────────────────────────
// Packer
// ────────────────────────────────────────────────────────────────────────────

// Packet is a decoded packet.
type Packet struct {
	ID   uint8
	Name string
	// Data holds one value per schema field. Raw and list values are views
	// into the buffer passed to Unpack.
	Data []any
}

// Packer owns a schema registry and the handlers that receive its packets.
// Register schemas during setup; packing, unpacking and dispatch are safe for
// concurrent use afterwards.
type Packer struct {
	cfg       Config
	registry  *schemaRegistry
	hmu       sync.RWMutex
	handlers  map[string]Handler
	stats     packerStats
	metrics   metrics.Recorder
	logger    Logger
	encryptor Encryptor
}

// New creates a Packer from cfg.
func New(cfg Config) *Packer {
	cfg.defaults()
	return &Packer{
		cfg:       cfg,
		registry:  newSchemaRegistry(),
		handlers:  make(map[string]Handler),
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		encryptor: cfg.Encryptor,
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Schema registration
// ────────────────────────────────────────────────────────────────────────────

// Register adds a schema under the lowest unused ID and returns that ID.
// When every schema goes through Register the IDs follow registration order,
// so peers must register the same schemas in the same order.
func (p *Packer) Register(name string, fields ...Field) (uint8, error) {
	cs, err := p.registry.register(-1, name, fields, nil)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("wirepack: schema registered", "schema", name, "id", cs.ID, "fields", len(fields))
	return cs.ID, nil
}

// RegisterID adds a schema under a caller-chosen ID.
func (p *Packer) RegisterID(id uint8, name string, fields ...Field) error {
	_, err := p.registry.register(int(id), name, fields, nil)
	if err != nil {
		return err
	}
	p.logger.Debug("wirepack: schema registered", "schema", name, "id", id, "fields", len(fields))
	return nil
}

// Schema returns the registered schema called name.
func (p *Packer) Schema(name string) (Schema, error) {
	cs, err := p.registry.get(name)
	if err != nil {
		return Schema{}, err
	}
	return cs.snapshot(), nil
}

// Schemas returns every registered schema ordered by ID.
func (p *Packer) Schemas() []Schema {
	all := p.registry.all()
	out := make([]Schema, len(all))
	for i, cs := range all {
		out[i] = cs.snapshot()
	}
	return out
}

// ────────────────────────────────────────────────────────────────────────────
// Pack / Unpack
// ────────────────────────────────────────────────────────────────────────────

// Pack encodes values with the schema called name. The result is the schema
// ID followed by each field encoding; nothing is returned on error.
func (p *Packer) Pack(name string, values ...any) ([]byte, error) {
	start := p.cfg.Clock.Now()
	cs, err := p.registry.get(name)
	if err != nil {
		return nil, p.fail("pack", err)
	}
	out, err := p.pack(cs, values)
	p.metrics.RecordLatency("pack", p.cfg.Clock.Now().Sub(start))
	if err != nil {
		return nil, p.fail("pack", err)
	}
	p.stats.Packed.Add(1)
	p.metrics.RecordPack(name, len(out))
	return out, nil
}

func (p *Packer) pack(cs *compiledSchema, values []any) ([]byte, error) {
	if len(values) != len(cs.Fields) {
		return nil, fmt.Errorf("%w: schema %q has %d fields, got %d values",
			ErrFieldCount, cs.Name, len(cs.Fields), len(values))
	}
	out := []byte{cs.ID}
	for i, f := range cs.Fields {
		b, err := f.EncodeValue(values[i])
		if err != nil {
			return nil, fmt.Errorf("wirepack: schema %q field %d (%s): %w", cs.Name, i, f.Name(), err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Unpack decodes a packet produced by Pack. The buffer must hold exactly one
// packet: truncated buffers and trailing bytes are ErrValidation. Decoders
// that stop after the last field and ignore the rest accept buffers that
// Unpack rejects, so peers must not append padding or a second packet.
func (p *Packer) Unpack(buf []byte) (*Packet, error) {
	start := p.cfg.Clock.Now()
	pkt, err := p.unpack(buf)
	p.metrics.RecordLatency("unpack", p.cfg.Clock.Now().Sub(start))
	if err != nil {
		return nil, p.fail("unpack", err)
	}
	p.stats.Unpacked.Add(1)
	p.metrics.RecordUnpack(pkt.Name, len(buf))
	return pkt, nil
}

func (p *Packer) unpack(buf []byte) (*Packet, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty packet", ErrValidation)
	}
	cs, err := p.registry.getID(buf[0])
	if err != nil {
		return nil, err
	}
	data := make([]any, len(cs.Fields))
	off := 1
	for i, f := range cs.Fields {
		v, n, err := f.DecodeValue(buf, off)
		if err != nil {
			return nil, fmt.Errorf("wirepack: schema %q field %d (%s): %w", cs.Name, i, f.Name(), err)
		}
		data[i] = v
		off += n
	}
	if off != len(buf) {
		return nil, fmt.Errorf("%w: schema %q packet has %d trailing bytes", ErrValidation, cs.Name, len(buf)-off)
	}
	return &Packet{ID: cs.ID, Name: cs.Name, Data: data}, nil
}

// fail counts err and returns it unchanged.
func (p *Packer) fail(op string, err error) error {
	p.stats.Errors.Add(1)
	p.metrics.RecordError(op, errorKind(err))
	return err
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

// Stats returns a snapshot of operational counters.
func (p *Packer) Stats() Stats {
	return Stats{
		Packed:     p.stats.Packed.Load(),
		Unpacked:   p.stats.Unpacked.Load(),
		Dispatched: p.stats.Dispatched.Load(),
		Dropped:    p.stats.Dropped.Load(),
		Errors:     p.stats.Errors.Load(),
		Schemas:    p.registry.len(),
	}
}
