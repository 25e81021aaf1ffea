// SPDX-License-Identifier: EPL-2.0

package mix

import "sync"

// Source mixes its output additively into dst, which holds interleaved
// samples at the given rate and channel count. A silent source leaves dst
// untouched.
type Source interface {
	RenderInto(dst []float32, sampleRate, channels int)
}

// Effect processes one block of interleaved samples in place. Effects are
// opaque to the engine; an effect instance is not assumed to support being
// shared across chains.
type Effect interface {
	Process(buf []float32)
}

// Chain is one asset's signal path: source, ordered effect list, gain stage,
// bus. It is created attached (see Context.NewChain) and detached by Close.
type Chain struct {
	mtx     sync.Mutex
	src     Source
	effects []Effect
	gain    float64
	bus     *Bus
	scratch []float32
	closed  bool
}

// SetEffects atomically replaces the effect list: the previous chain is
// fully dropped and the new one takes effect on the next render block. An
// empty list connects the source straight to the gain stage. The swap is not
// click-free.
func (c *Chain) SetEffects(effects []Effect) {
	list := make([]Effect, len(effects))
	copy(list, effects)

	c.mtx.Lock()
	c.effects = list
	c.mtx.Unlock()
}

// Effects returns the current effect list in order.
func (c *Chain) Effects() []Effect {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	out := make([]Effect, len(c.effects))
	copy(out, c.effects)
	return out
}

// SetGain sets the chain's gain stage, clamped to [0, 1].
func (c *Chain) SetGain(gain float64) {
	if gain < 0 {
		gain = 0
	} else if gain > 1 {
		gain = 1
	}
	c.mtx.Lock()
	c.gain = gain
	c.mtx.Unlock()
}

func (c *Chain) Gain() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.gain
}

func (c *Chain) render(dst []float32, sampleRate, channels int) {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return
	}
	src := c.src
	effects := c.effects
	gain := float32(c.gain)
	if cap(c.scratch) < len(dst) {
		c.scratch = make([]float32, len(dst))
	}
	scratch := c.scratch[:len(dst)]
	c.mtx.Unlock()

	// The source and effects run without the chain lock held so control
	// calls never stall the render path.
	for i := range scratch {
		scratch[i] = 0
	}
	src.RenderInto(scratch, sampleRate, channels)
	for _, e := range effects {
		e.Process(scratch)
	}
	for i := range dst {
		dst[i] += scratch[i] * gain
	}
}

// Close disconnects every stage and detaches the chain from the bus.
// Idempotent.
func (c *Chain) Close() {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return
	}
	c.closed = true
	c.effects = nil
	bus := c.bus
	c.bus = nil
	c.mtx.Unlock()

	if bus != nil {
		bus.detach(c)
	}
}
