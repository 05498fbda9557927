package mediator

import "sync"

// policy resolves descriptors against a Bindings table. Closed bindings win;
// open bindings are consulted only when no closed one exists, and the closed
// producers built from them are cached per descriptor.
type policy struct {
	bindings Bindings

	// closed caches producers bound from open bindings, keyed by
	// Descriptor.Key. The first stored producer is canonical.
	closed sync.Map // map[string]Producer
}

func newPolicy(b Bindings) *policy {
	return &policy{bindings: b}
}

func (p *policy) resolve(d Descriptor) (Producer, error) {
	// Exact match.
	if producer, ok := p.bindings.ResolveProducer(d); ok {
		return producer, nil
	}

	// Open shape match.
	if !d.Generic() {
		return nil, &HandlerNotFoundError{Descriptor: d}
	}
	key := d.Key()
	if v, ok := p.closed.Load(key); ok {
		return v.(Producer), nil
	}
	open, ok := p.bindings.ResolveOpenProducer(d.Shape)
	if !ok || !open.Satisfied(d.Args) {
		return nil, &HandlerNotFoundError{Descriptor: d}
	}
	producer, err := open.Factory(d)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, &HandlerNotFoundError{Descriptor: d}
	}

	// Concurrent resolutions may each have bound a producer; keep the first.
	v, _ := p.closed.LoadOrStore(key, producer)
	return v.(Producer), nil
}
