// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/idank/soundry/pcm"
)

// State is an instance's lifecycle stage.
type State int

const (
	StateCreated State = iota
	StatePlaying
	StatePaused
	StateCompleted
	StateStopped
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

func (s State) terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateDestroyed
}

// Instance is one in-flight playback of a sound: a time window over the
// decoded buffer with its own position, speed, loop flag, fade envelopes and
// pause state. Instances are owned by the sound that spawned them and become
// invalid once they reach a terminal state; play again by spawning a new one.
type Instance struct {
	mtx sync.Mutex

	id  uuid.UUID
	snd *Sound
	buf *pcm.Buffer

	state State

	startFrame float64 // window bounds in buffer frames
	endFrame   float64
	pos        float64 // current buffer frame, fractional
	speed      float64
	loop       bool
	volume     float64

	fadeOutSec float64
	fadeIn     *gween.Tween
	fadeOut    *gween.Tween

	onComplete func(*Instance)
	onStop     func(*Instance)
	onProgress func(float64)
}

// ID identifies the instance across event callbacks and logs.
func (i *Instance) ID() uuid.UUID { return i.id }

func (i *Instance) State() State {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return i.state
}

func (i *Instance) Loop() bool {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return i.loop
}

func (i *Instance) Speed() float64 {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return i.speed
}

// Position is the current offset within the buffer in seconds.
func (i *Instance) Position() float64 {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	if i.buf == nil || i.buf.SampleRate == 0 {
		return 0
	}
	return i.pos / float64(i.buf.SampleRate)
}

// Progress is the elapsed fraction of the trimmed window in [0, 1]. It is 0
// before any rendering, frozen while paused, and exactly 1 at natural
// completion. A looping instance cycles back to 0 at each wrap.
func (i *Instance) Progress() float64 {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return i.progressLocked()
}

func (i *Instance) progressLocked() float64 {
	window := i.endFrame - i.startFrame
	if window <= 0 {
		return 1
	}
	p := (i.pos - i.startFrame) / window
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SetPaused suspends or resumes progress without resetting the position.
// The context-level pause is a second, independent layer: the instance is
// audibly advancing only when neither layer is paused.
func (i *Instance) SetPaused(paused bool) {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	switch {
	case paused && i.state == StatePlaying:
		i.state = StatePaused
	case !paused && i.state == StatePaused:
		i.state = StatePlaying
	}
}

func (i *Instance) Paused() bool {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return i.state == StatePaused
}

// Stop terminates the instance, fires its stop event exactly once, and
// destroys it. Stopping is distinct from natural completion so callers can
// tell "finished" from "cancelled". No-op in terminal states.
func (i *Instance) Stop() {
	i.mtx.Lock()
	snd := i.snd
	i.mtx.Unlock()

	if snd != nil {
		snd.stopInstance(i)
		return
	}
	if fire := i.markStopped(); fire != nil {
		fire()
	}
}

// markStopped transitions to Stopped and returns the deferred event work, or
// nil when the instance is already terminal.
func (i *Instance) markStopped() func() {
	i.mtx.Lock()
	if i.state.terminal() {
		i.mtx.Unlock()
		return nil
	}
	i.state = StateStopped
	cb := i.onStop
	i.onStop, i.onComplete = nil, nil
	i.mtx.Unlock()

	return func() {
		if cb != nil {
			cb(i)
		}
		i.destroy()
	}
}

// destroy releases the instance's source stage. Always invoked exactly once
// after the Completed or Stopped transition.
func (i *Instance) destroy() {
	i.mtx.Lock()
	if i.state != StateDestroyed {
		i.state = StateDestroyed
		i.fadeIn, i.fadeOut = nil, nil
		i.onProgress = nil
		i.snd = nil
	}
	i.mtx.Unlock()
}

func (i *Instance) begin() {
	i.mtx.Lock()
	if i.state == StateCreated {
		i.state = StatePlaying
	}
	i.mtx.Unlock()
}

// renderBlock mixes one block into dst and advances the position. It returns
// whether the instance completed naturally during this block and the event
// work to run once the owner has dropped its locks.
func (i *Instance) renderBlock(dst []float32, outRate, outCh int) (completed bool, fire func()) {
	i.mtx.Lock()

	if i.state != StatePlaying || i.buf == nil {
		i.mtx.Unlock()
		return false, nil
	}

	bufRate := float64(i.buf.SampleRate)
	frames := len(dst) / outCh
	blockSec := float32(float64(frames) / float64(outRate))

	// Fade envelopes are evaluated once per block; blocks are short enough
	// that the envelope staircase is inaudible.
	env := float32(1)
	if i.fadeIn != nil {
		v, fin := i.fadeIn.Update(blockSec)
		env *= v
		if fin {
			i.fadeIn = nil
		}
	}
	if !i.loop && i.fadeOutSec > 0 && i.fadeOut == nil {
		remaining := (i.endFrame - i.pos) / (i.speed * bufRate)
		if remaining <= i.fadeOutSec {
			i.fadeOut = gween.New(env, 0, float32(remaining), ease.Linear)
		}
	}
	if i.fadeOut != nil {
		v, _ := i.fadeOut.Update(blockSec)
		env = v
	}

	gain := float32(i.volume) * env
	step := i.speed * bufRate / float64(outRate)

	for f := 0; f < frames; f++ {
		if i.pos >= i.endFrame {
			if i.loop {
				i.pos = i.startFrame
			} else {
				i.pos = i.endFrame
				completed = true
				break
			}
		}
		i.writeFrame(dst[f*outCh:(f+1)*outCh], gain)
		i.pos += step
	}
	if !completed && !i.loop && i.pos >= i.endFrame {
		// The window boundary fell exactly on the block edge.
		i.pos = i.endFrame
		completed = true
	}

	var prog func()
	if i.onProgress != nil {
		p := i.progressLocked()
		cb := i.onProgress
		prog = func() { cb(p) }
	}

	if completed {
		i.state = StateCompleted
		cb := i.onComplete
		i.onComplete, i.onStop = nil, nil
		fire = func() {
			if prog != nil {
				prog()
			}
			if cb != nil {
				cb(i)
			}
			i.destroy()
		}
	} else {
		fire = prog
	}
	i.mtx.Unlock()
	return completed, fire
}

// writeFrame interpolates one output frame at the current position and mixes
// it into out, adapting the buffer's channel layout to the context's.
func (i *Instance) writeFrame(out []float32, gain float32) {
	base := int(i.pos)
	frac := float32(i.pos - float64(base))
	bufCh := i.buf.Channels
	outCh := len(out)

	switch {
	case bufCh == outCh:
		for ch := 0; ch < outCh; ch++ {
			out[ch] += i.sampleAt(base, frac, ch) * gain
		}
	case bufCh == 1:
		s := i.sampleAt(base, frac, 0) * gain
		for ch := 0; ch < outCh; ch++ {
			out[ch] += s
		}
	case outCh == 1:
		var sum float32
		for ch := 0; ch < bufCh; ch++ {
			sum += i.sampleAt(base, frac, ch)
		}
		out[0] += sum / float32(bufCh) * gain
	default:
		for ch := 0; ch < outCh; ch++ {
			sc := ch
			if sc >= bufCh {
				sc = bufCh - 1
			}
			out[ch] += i.sampleAt(base, frac, sc) * gain
		}
	}
}

func (i *Instance) sampleAt(base int, frac float32, ch int) float32 {
	b := i.buf
	return pcm.CubicInterpolate(
		b.Sample(base-1, ch),
		b.Sample(base, ch),
		b.Sample(base+1, ch),
		b.Sample(base+2, ch),
		frac,
	)
}
