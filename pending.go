// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"context"
	"sync"
)

// Pending is the deferred result of a play request issued before the sound
// finished loading. It resolves to the spawned instance once decode
// completes, or rejects with the load error, never both. A play on an
// already-loaded sound returns an immediately resolved Pending.
type Pending struct {
	mtx  sync.Mutex
	done chan struct{}
	inst *Instance
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func resolvedPending(inst *Instance) *Pending {
	p := newPending()
	p.resolve(inst)
	return p
}

func (p *Pending) resolve(inst *Instance) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	select {
	case <-p.done:
		return // already settled
	default:
	}
	p.inst = inst
	close(p.done)
}

func (p *Pending) reject(err error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	select {
	case <-p.done:
		return
	default:
	}
	p.err = err
	close(p.done)
}

// Done is closed once the request settles.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Instance returns the spawned instance, or nil while unsettled or rejected.
func (p *Pending) Instance() *Instance {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.inst
}

// Err returns the rejection error, or nil while unsettled or resolved.
func (p *Pending) Err() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.err
}

// Await blocks until the request settles or ctx is done.
func (p *Pending) Await(ctx context.Context) (*Instance, error) {
	select {
	case <-p.done:
		return p.Instance(), p.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
