// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// dispatch.go - routes received packets to the handler registered for their
// schema name.

package wirepack

// Handler receives the schema name and decoded values of a packet.
type Handler func(name string, data []any)

// On registers h for packets of the schema called name, replacing any
// previous handler. name need not be registered yet.
func (p *Packer) On(name string, h Handler) {
	p.hmu.Lock()
	defer p.hmu.Unlock()
	if h == nil {
		delete(p.handlers, name)
		return
	}
	p.handlers[name] = h
}

// Off removes the handler for name, if any.
func (p *Packer) Off(name string) {
	p.hmu.Lock()
	delete(p.handlers, name)
	p.hmu.Unlock()
}

// Receive unpacks buf and invokes its schema's handler synchronously, once.
// Decode failures are returned. A packet whose schema has no handler is
// dropped and counted, and Receive returns nil.
func (p *Packer) Receive(buf []byte) error {
	start := p.cfg.Clock.Now()
	defer func() { p.metrics.RecordLatency("receive", p.cfg.Clock.Now().Sub(start)) }()

	pkt, err := p.Unpack(buf)
	if err != nil {
		return err
	}

	p.hmu.RLock()
	h := p.handlers[pkt.Name]
	p.hmu.RUnlock()

	if h == nil {
		p.stats.Dropped.Add(1)
		p.metrics.RecordDispatch(pkt.Name, false)
		p.logger.Debug("wirepack: no handler, packet dropped", "schema", pkt.Name, "id", pkt.ID)
		return nil
	}
	h(pkt.Name, pkt.Data)
	p.stats.Dispatched.Add(1)
	p.metrics.RecordDispatch(pkt.Name, true)
	return nil
}
