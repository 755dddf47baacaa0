// Package alloc provides a pooled-buffer abstraction for growable byte
// buffers used for in-memory request/response bodies.
//
// The default implementation pools buffers with bytebufferpool so repeated
// PUT/GET/List/Delete calls on one client don't churn the GC on every body.
package alloc

import "github.com/valyala/bytebufferpool"

// Allocator hands out and reclaims growable byte buffers. Get must be
// paired with exactly one Put; a nil argument to Put is a no-op.
type Allocator interface {
	Get() *bytebufferpool.ByteBuffer
	Put(*bytebufferpool.ByteBuffer)
}

// pooled is the default process allocator: a shared bytebufferpool.Pool.
type pooled struct {
	pool *bytebufferpool.Pool
}

// Default returns the process-wide pooled allocator.
func Default() Allocator {
	return &pooled{pool: defaultPool}
}

var defaultPool = &bytebufferpool.Pool{}

func (p *pooled) Get() *bytebufferpool.ByteBuffer { return p.pool.Get() }

func (p *pooled) Put(b *bytebufferpool.ByteBuffer) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
