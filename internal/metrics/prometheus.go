package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records packer metrics as Prometheus collectors.
type Prometheus struct {
	packets  *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	dispatch *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg. A nil reg registers nothing, which suits tests that read the
// collectors directly. When reg already holds collectors with the same
// names, from an earlier recorder on the same registerer, those are reused
// so both recorders feed one set of series.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	p := &Prometheus{
		packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Packets packed or unpacked, by direction and schema.",
		}, []string{"direction", "schema"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packet_bytes_total",
			Help:      "Encoded packet bytes, by direction and schema.",
		}, []string{"direction", "schema"}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Received packets by schema and outcome (handled or dropped).",
		}, []string{"schema", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations by op and error kind.",
		}, []string{"op", "kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Duration of pack, unpack and receive calls.",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
		}, []string{"op"}),
	}
	if reg != nil {
		p.packets = register(reg, p.packets)
		p.bytes = register(reg, p.bytes)
		p.dispatch = register(reg, p.dispatch)
		p.errors = register(reg, p.errors)
		p.latency = register(reg, p.latency)
	}
	return p
}

// register adds c to reg, returning the collector already registered under
// the same descriptor if there is one. Any other registration error is a
// programming mistake and panics, as MustRegister would.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// Collectors returns every collector, for callers registering them manually.
func (p *Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.packets, p.bytes, p.dispatch, p.errors, p.latency}
}

func (p *Prometheus) RecordPack(schema string, size int) {
	p.packets.WithLabelValues("pack", schema).Inc()
	p.bytes.WithLabelValues("pack", schema).Add(float64(size))
}

func (p *Prometheus) RecordUnpack(schema string, size int) {
	p.packets.WithLabelValues("unpack", schema).Inc()
	p.bytes.WithLabelValues("unpack", schema).Add(float64(size))
}

func (p *Prometheus) RecordDispatch(schema string, handled bool) {
	outcome := "dropped"
	if handled {
		outcome = "handled"
	}
	p.dispatch.WithLabelValues(schema, outcome).Inc()
}

func (p *Prometheus) RecordLatency(op string, d time.Duration) {
	p.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Prometheus) RecordError(op, kind string) {
	p.errors.WithLabelValues(op, kind).Inc()
}
