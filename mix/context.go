// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"sync"

	"github.com/idank/soundry/codec"
	"github.com/idank/soundry/pcm"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
)

// Context is the process-wide-per-session audio state: master volume, mute
// and pause switches, the decode service and the mixing bus.
type Context struct {
	sampleRate int
	channels   int
	registry   *codec.Registry
	bus        *Bus
	limiter    *Limiter

	mtx    sync.Mutex
	volume float64
	muted  bool
	paused bool
	closed bool
	output *Output

	// renderMtx serializes Render so chains never see two concurrent pulls.
	renderMtx sync.Mutex
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithSampleRate overrides the output sample rate (default 44100).
func WithSampleRate(rate int) ContextOption {
	return func(c *Context) { c.sampleRate = rate }
}

// WithChannels overrides the output channel count (default 2).
func WithChannels(channels int) ContextOption {
	return func(c *Context) { c.channels = channels }
}

// WithRegistry replaces the decoder registry used by Decode.
func WithRegistry(r *codec.Registry) ContextOption {
	return func(c *Context) { c.registry = r }
}

// NewContext creates a playback session with the built-in decoder registry
// and a limiter on the master bus.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		volume:     1,
		bus:        newBus(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = codec.DefaultRegistry()
	}
	c.limiter = NewLimiter(c.sampleRate)
	return c
}

func (c *Context) SampleRate() int { return c.sampleRate }
func (c *Context) Channels() int   { return c.channels }

// Registry returns the decoder registry, allowing custom format registration.
func (c *Context) Registry() *codec.Registry { return c.registry }

// Decode converts encoded bytes into a PCM buffer asynchronously. The
// callback receives either the buffer or the decode error, never both, and
// runs on a background goroutine. A decode in flight cannot be aborted.
func (c *Context) Decode(data []byte, cb func(*pcm.Buffer, error)) {
	c.mtx.Lock()
	closed := c.closed
	c.mtx.Unlock()

	if closed {
		go cb(nil, ErrContextClosed)
		return
	}

	go func() {
		buf, err := c.registry.Decode(data)
		if err != nil {
			cb(nil, err)
			return
		}
		cb(buf, nil)
	}()
}

// NewChain attaches a new signal chain for src to the mixing bus.
func (c *Context) NewChain(src Source) (*Chain, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return nil, ErrContextClosed
	}
	c.mtx.Unlock()

	ch := &Chain{src: src, gain: 1, bus: c.bus}
	c.bus.attach(ch)
	return ch, nil
}

// SetVolume sets the master volume, clamped to [0, 1]. Muting is a separate
// switch: the stored volume survives a mute/unmute cycle.
func (c *Context) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	c.mtx.Lock()
	c.volume = v
	c.mtx.Unlock()
}

func (c *Context) Volume() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.volume
}

// SetMuted forces the output gain to zero without touching the stored volume.
func (c *Context) SetMuted(muted bool) {
	c.mtx.Lock()
	c.muted = muted
	c.mtx.Unlock()
}

func (c *Context) Muted() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.muted
}

// SetPaused suspends the session clock. While paused, Render emits silence
// and no instance advances; instance-level paused flags are not touched.
func (c *Context) SetPaused(paused bool) {
	c.mtx.Lock()
	c.paused = paused
	c.mtx.Unlock()
}

func (c *Context) Paused() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.paused
}

// Render mixes one block of interleaved samples into dst and returns the
// number of samples written (always len(dst)). dst length should be a
// multiple of Channels. This is the session clock: every playing instance
// advances by exactly len(dst)/Channels frames per call.
func (c *Context) Render(dst []float32) int {
	c.renderMtx.Lock()
	defer c.renderMtx.Unlock()

	for i := range dst {
		dst[i] = 0
	}

	c.mtx.Lock()
	closed, paused, muted := c.closed, c.paused, c.muted
	volume := c.volume
	c.mtx.Unlock()

	if closed || paused {
		return len(dst)
	}

	c.bus.render(dst, c.sampleRate, c.channels)

	gain := float32(volume)
	if muted {
		gain = 0
	}
	for i := range dst {
		dst[i] *= gain
	}
	c.limiter.Process(dst)
	return len(dst)
}

// Close releases the session: the output device is stopped and every chain
// is detached. Close is idempotent. Assets referencing a closed context can
// no longer decode or play; callers should destroy them first.
func (c *Context) Close() error {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return nil
	}
	c.closed = true
	out := c.output
	c.output = nil
	c.mtx.Unlock()

	if out != nil {
		out.stop()
	}
	c.bus.detachAll()
	return nil
}
