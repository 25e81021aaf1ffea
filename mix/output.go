// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/oto/v2"
)

// Output drives a Context from the real audio device: an oto player pulls
// encoded blocks from the context's Render clock.
//
// oto allows a single device context per process, so only one session may
// hold an Output at a time. Tests drive Render directly and never need one.
type Output struct {
	otoCtx *oto.Context
	player oto.Player
}

// StartOutput opens the audio device and begins pulling from the context.
// Returns ErrOutputStarted when an output is already running and
// ErrContextClosed on a closed context.
func (c *Context) StartOutput() error {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return ErrContextClosed
	}
	if c.output != nil {
		c.mtx.Unlock()
		return ErrOutputStarted
	}
	c.mtx.Unlock()

	// Bit depth 0 selects 32-bit float little-endian samples.
	otoCtx, ready, err := oto.NewContext(c.sampleRate, c.channels, 0)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	r := &deviceReader{ctx: c}
	player := otoCtx.NewPlayer(r)
	out := &Output{otoCtx: otoCtx, player: player}

	c.mtx.Lock()
	if c.closed || c.output != nil {
		c.mtx.Unlock()
		player.Close()
		if c.closed {
			return ErrContextClosed
		}
		return ErrOutputStarted
	}
	c.output = out
	c.mtx.Unlock()

	player.Play()
	return nil
}

// StopOutput stops pulling from the device. The session itself stays usable.
func (c *Context) StopOutput() {
	c.mtx.Lock()
	out := c.output
	c.output = nil
	c.mtx.Unlock()

	if out != nil {
		out.stop()
	}
}

func (o *Output) stop() {
	if o.player != nil {
		o.player.Close()
	}
}

// deviceReader adapts Context.Render to the io.Reader oto expects,
// encoding float32 little-endian. It never returns EOF: an idle session
// produces silence.
type deviceReader struct {
	ctx *Context
	buf []float32
}

func (r *deviceReader) Read(p []byte) (int, error) {
	samples := len(p) / 4
	if samples == 0 {
		return 0, nil
	}
	if cap(r.buf) < samples {
		r.buf = make([]float32, samples)
	}
	buf := r.buf[:samples]

	r.ctx.Render(buf)

	for i, s := range buf {
		v := math.Float32bits(s)
		p[i*4] = byte(v)
		p[i*4+1] = byte(v >> 8)
		p[i*4+2] = byte(v >> 16)
		p[i*4+3] = byte(v >> 24)
	}
	return samples * 4, nil
}
