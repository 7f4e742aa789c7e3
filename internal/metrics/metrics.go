// Package metrics provides the Recorder interface, a noop implementation and
// a Prometheus-backed implementation.
package metrics

import "time"

// Recorder is the interface for recording packer metrics.
type Recorder interface {
	RecordPack(schema string, size int)
	RecordUnpack(schema string, size int)
	RecordDispatch(schema string, handled bool)
	RecordLatency(op string, d time.Duration)
	RecordError(op, kind string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordPack(schema string, size int)         {}
func (Noop) RecordUnpack(schema string, size int)       {}
func (Noop) RecordDispatch(schema string, handled bool) {}
func (Noop) RecordLatency(op string, d time.Duration)   {}
func (Noop) RecordError(op, kind string)                {}
