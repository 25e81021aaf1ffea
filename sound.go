// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/idank/soundry/fetch"
	"github.com/idank/soundry/mix"
	"github.com/idank/soundry/pcm"
)

// Sound is one registered asset: the decoded buffer, its sprite table, its
// effect chain and the set of currently playing instances. A Sound drives
// its own load through the context's decode service and reaps instances as
// they finish. Destroyed sounds are not reusable.
type Sound struct {
	mtx sync.Mutex

	ctx    *mix.Context
	loader fetch.Loader
	logger *slog.Logger
	alias  string

	src            string
	bytes          []byte
	autoPlay       bool
	singleInstance bool
	block          bool

	volume float64
	speed  float64
	loop   bool

	buf       *pcm.Buffer
	loaded    bool
	loading   bool
	destroyed bool
	loadCBs   []func(error)

	sprites map[string]*Sprite
	active  []*Instance
	chain   *mix.Chain

	pending     *Pending
	pendingOpts *PlayOptions
}

// NewSound constructs an asset on the given context. When cfg.Preload is set
// and a source is configured, loading starts immediately.
func NewSound(ctx *mix.Context, cfg Config) (*Sound, error) {
	return newSound(ctx, cfg, "", fetch.Default(), slog.Default())
}

func newSound(ctx *mix.Context, cfg Config, alias string, loader fetch.Loader, logger *slog.Logger) (*Sound, error) {
	s := &Sound{
		ctx:            ctx,
		loader:         loader,
		logger:         logger,
		alias:          alias,
		src:            cfg.Src,
		bytes:          cfg.Bytes,
		autoPlay:       cfg.AutoPlay,
		singleInstance: cfg.SingleInstance,
		block:          cfg.Block,
		loop:           cfg.Loop,
		volume:         1,
		speed:          1,
		sprites:        make(map[string]*Sprite),
	}
	if cfg.Volume != nil {
		s.volume = clamp01(*cfg.Volume)
	}
	if cfg.Speed != nil && *cfg.Speed > 0 {
		s.speed = *cfg.Speed
	}

	for name, spec := range cfg.Sprites {
		if err := s.AddSprite(name, spec.Start, spec.End, spec.Speed); err != nil {
			return nil, err
		}
	}

	chain, err := ctx.NewChain(s)
	if err != nil {
		return nil, err
	}
	chain.SetGain(s.volume)
	s.chain = chain

	if cfg.Preload {
		if err := s.Load(nil); err != nil {
			s.logger.Warn("preload failed", "alias", s.alias, "err", err)
		}
	}
	return s, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Loaded reports whether a decode has completed successfully.
func (s *Sound) Loaded() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.loaded
}

// IsPlayable reports whether the sound holds a decoded buffer ready to play.
func (s *Sound) IsPlayable() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.loaded && s.buf != nil
}

// IsPlaying reports whether any instance is currently active.
func (s *Sound) IsPlaying() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.active) > 0
}

// Instances returns the active instances in spawn order.
func (s *Sound) Instances() []*Instance {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([]*Instance, len(s.active))
	copy(out, s.active)
	return out
}

// Duration is the decoded buffer length in seconds, 0 before load.
func (s *Sound) Duration() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.buf == nil {
		return 0
	}
	return s.buf.Seconds()
}

// Volume returns the asset gain.
func (s *Sound) Volume() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.volume
}

// SetVolume sets the asset gain (the chain's gain stage), clamped to [0, 1].
func (s *Sound) SetVolume(v float64) {
	v = clamp01(v)
	s.mtx.Lock()
	s.volume = v
	chain := s.chain
	s.mtx.Unlock()
	if chain != nil {
		chain.SetGain(v)
	}
}

func (s *Sound) Speed() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.speed
}

// SetSpeed sets the default playback rate for future instances.
func (s *Sound) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	s.mtx.Lock()
	s.speed = speed
	s.mtx.Unlock()
}

func (s *Sound) Loop() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.loop
}

func (s *Sound) SetLoop(loop bool) {
	s.mtx.Lock()
	s.loop = loop
	s.mtx.Unlock()
}

// SetBlock toggles the ignore-repeats policy at runtime.
func (s *Sound) SetBlock(block bool) {
	s.mtx.Lock()
	s.block = block
	s.mtx.Unlock()
}

// SetSingleInstance toggles the stop-and-replace policy at runtime.
func (s *Sound) SetSingleInstance(single bool) {
	s.mtx.Lock()
	s.singleInstance = single
	s.mtx.Unlock()
}

// Chain exposes the sound's effect chain for SetEffects.
func (s *Sound) Chain() *mix.Chain {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.chain
}

// SetEffects rewires the sound's signal path through the given effect list.
func (s *Sound) SetEffects(effects []mix.Effect) {
	s.mtx.Lock()
	chain := s.chain
	s.mtx.Unlock()
	if chain != nil {
		chain.SetEffects(effects)
	}
}

// Load begins one preload: acquire bytes if needed, then decode. The
// callback receives nil on success or the IO/decode error; the sound stays
// unloaded on failure and Load may be called again to retry. Concurrent
// calls share the in-flight attempt. Returns ErrNoSource synchronously when
// neither a locator nor raw bytes are configured; the byte-acquisition
// collaborator is never invoked in that case.
func (s *Sound) Load(cb func(error)) error {
	s.mtx.Lock()
	if s.destroyed {
		s.mtx.Unlock()
		return ErrDestroyed
	}
	if s.loaded {
		s.mtx.Unlock()
		if cb != nil {
			cb(nil)
		}
		return nil
	}
	if s.src == "" && len(s.bytes) == 0 {
		s.mtx.Unlock()
		return ErrNoSource
	}
	if cb != nil {
		s.loadCBs = append(s.loadCBs, cb)
	}
	if s.loading {
		s.mtx.Unlock()
		return nil
	}
	s.loading = true
	src, raw := s.src, s.bytes
	s.mtx.Unlock()

	go s.fetchAndDecode(src, raw)
	return nil
}

func (s *Sound) fetchAndDecode(locator string, raw []byte) {
	data := raw
	if len(data) == 0 {
		var err error
		data, err = s.loader.Load(context.Background(), locator)
		if err != nil {
			s.finishLoad(nil, err)
			return
		}
	}
	s.ctx.Decode(data, func(buf *pcm.Buffer, err error) {
		s.finishLoad(buf, err)
	})
}

// finishLoad runs on a background goroutine once the decode settles. A
// destroyed sound discards the result: a decode in flight cannot be aborted,
// only ignored.
func (s *Sound) finishLoad(buf *pcm.Buffer, err error) {
	s.mtx.Lock()
	if s.destroyed {
		s.mtx.Unlock()
		return
	}
	s.loading = false
	cbs := s.loadCBs
	s.loadCBs = nil

	if err != nil {
		p := s.pending
		s.pending, s.pendingOpts = nil, nil
		s.mtx.Unlock()

		s.logger.Warn("load failed", "alias", s.alias, "err", err)
		if p != nil {
			p.reject(err)
		}
		for _, cb := range cbs {
			cb(err)
		}
		return
	}

	s.buf = buf
	s.loaded = true

	p := s.pending
	opts := s.pendingOpts
	s.pending, s.pendingOpts = nil, nil

	var inst *Instance
	switch {
	case p != nil:
		inst = s.spawnLocked(opts)
	case s.autoPlay:
		s.spawnLocked(nil)
	}
	s.mtx.Unlock()

	if p != nil {
		p.resolve(inst)
	}
	for _, cb := range cbs {
		cb(nil)
	}
}

// Play requests playback.
//
// Loaded sounds spawn an instance synchronously (subject to the
// single-instance and block policies) and return a resolved Pending.
// Unloaded sounds record the request, trigger a load if none is outstanding
// and return a deferred Pending that settles when the load does; repeated
// calls while a load is pending reuse the same deferred with the newest
// options.
func (s *Sound) Play(opts *PlayOptions) (*Pending, error) {
	if opts == nil {
		opts = &PlayOptions{}
	}

	s.mtx.Lock()
	if s.destroyed {
		s.mtx.Unlock()
		s.logger.Warn("play on destroyed sound", "alias", s.alias)
		return nil, ErrDestroyed
	}
	if opts.Sprite != "" {
		if _, ok := s.sprites[opts.Sprite]; !ok {
			s.mtx.Unlock()
			return nil, fmt.Errorf("%w: %q", ErrSpriteNotFound, opts.Sprite)
		}
	}

	if !s.loaded {
		if s.src == "" && len(s.bytes) == 0 {
			s.mtx.Unlock()
			return nil, ErrNoSource
		}
		s.pendingOpts = opts
		if s.pending == nil {
			s.pending = newPending()
		}
		p := s.pending
		needLoad := !s.loading
		s.mtx.Unlock()

		if needLoad {
			if err := s.Load(nil); err != nil {
				p.reject(err)
				return nil, err
			}
		}
		return p, nil
	}

	if s.block && len(s.active) > 0 {
		first := s.active[0]
		s.mtx.Unlock()
		return resolvedPending(first), nil
	}

	var fires []func()
	if s.singleInstance {
		fires = s.stopAllLocked()
	}
	inst := s.spawnLocked(opts)
	s.mtx.Unlock()

	for _, fire := range fires {
		fire()
	}
	return resolvedPending(inst), nil
}

// spawnLocked creates a playing instance from opts. Caller holds s.mtx and
// has validated any sprite reference; the sound must be loaded.
func (s *Sound) spawnLocked(opts *PlayOptions) *Instance {
	if opts == nil {
		opts = &PlayOptions{}
	}

	start, end := opts.Start, opts.End
	speed := s.speed
	if opts.Speed > 0 {
		speed = opts.Speed
	}
	if opts.Sprite != "" {
		if sp, ok := s.sprites[opts.Sprite]; ok {
			start, end = sp.start, sp.end
			if sp.speed > 0 {
				speed = sp.speed
			}
		}
	}

	dur := s.buf.Seconds()
	if start < 0 {
		start = 0
	} else if start > dur {
		start = dur
	}
	if end <= 0 || end > dur {
		end = dur
	}
	if end < start {
		end = dur
	}

	loop := s.loop
	if opts.Loop != nil {
		loop = *opts.Loop
	}
	volume := 1.0
	if opts.Volume != nil {
		volume = clamp01(*opts.Volume)
	}

	rate := float64(s.buf.SampleRate)
	inst := &Instance{
		id:         uuid.New(),
		snd:        s,
		buf:        s.buf,
		state:      StateCreated,
		startFrame: start * rate,
		endFrame:   end * rate,
		pos:        start * rate,
		speed:      speed,
		loop:       loop,
		volume:     volume,
		fadeOutSec: fadeSeconds(opts.FadeOut),
		onComplete: opts.OnComplete,
		onStop:     opts.OnStop,
		onProgress: opts.OnProgress,
	}
	if in := fadeSeconds(opts.FadeIn); in > 0 {
		inst.fadeIn = gween.New(0, 1, float32(in), ease.Linear)
	}

	s.active = append(s.active, inst)
	inst.begin()
	return inst
}

// Stop stops every active instance in reverse spawn order. On a sound with
// no playable buffer it instead cancels the pending autoplay request.
func (s *Sound) Stop() {
	s.mtx.Lock()
	if s.destroyed {
		s.mtx.Unlock()
		return
	}
	if !s.loaded || s.buf == nil {
		p := s.pending
		s.pending, s.pendingOpts = nil, nil
		s.mtx.Unlock()
		if p != nil {
			p.reject(ErrPlayCanceled)
		}
		return
	}
	fires := s.stopAllLocked()
	s.mtx.Unlock()

	for _, fire := range fires {
		fire()
	}
}

// stopAllLocked stops and removes every active instance, newest first, and
// returns their deferred event work. Caller holds s.mtx.
func (s *Sound) stopAllLocked() []func() {
	var fires []func()
	for i := len(s.active) - 1; i >= 0; i-- {
		if fire := s.active[i].markStopped(); fire != nil {
			fires = append(fires, fire)
		}
	}
	s.active = s.active[:0]
	return fires
}

// Pause suspends every active instance, newest first.
func (s *Sound) Pause() {
	s.setAllPaused(true)
}

// Resume resumes every active instance, newest first.
func (s *Sound) Resume() {
	s.setAllPaused(false)
}

func (s *Sound) setAllPaused(paused bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for i := len(s.active) - 1; i >= 0; i-- {
		s.active[i].SetPaused(paused)
	}
}

// stopInstance stops one instance and reaps it from the active set.
func (s *Sound) stopInstance(target *Instance) {
	s.mtx.Lock()
	for i, inst := range s.active {
		if inst == target {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	fire := target.markStopped()
	s.mtx.Unlock()

	if fire != nil {
		fire()
	}
}

// AddSprite registers a named time-window. The window must satisfy
// 0 <= start < end, and end must not exceed the buffer duration when the
// sound is already loaded.
func (s *Sound) AddSprite(name string, start, end, speed float64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.destroyed {
		return ErrDestroyed
	}
	if _, ok := s.sprites[name]; ok {
		return fmt.Errorf("%w: %q", ErrSpriteExists, name)
	}
	if start < 0 || end <= start {
		return fmt.Errorf("%w: %q [%v, %v)", ErrInvalidSprite, name, start, end)
	}
	if s.buf != nil && end > s.buf.Seconds() {
		return fmt.Errorf("%w: %q end %v exceeds duration %v", ErrInvalidSprite, name, end, s.buf.Seconds())
	}
	s.sprites[name] = &Sprite{name: name, start: start, end: end, speed: speed}
	return nil
}

// Sprite looks up a registered sprite by name.
func (s *Sound) Sprite(name string) (*Sprite, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sp, ok := s.sprites[name]
	return sp, ok
}

// RemoveSprite detaches and discards one sprite.
func (s *Sound) RemoveSprite(name string) {
	s.mtx.Lock()
	delete(s.sprites, name)
	s.mtx.Unlock()
}

// RemoveAllSprites discards the whole sprite table.
func (s *Sound) RemoveAllSprites() {
	s.mtx.Lock()
	s.sprites = make(map[string]*Sprite)
	s.mtx.Unlock()
}

// Destroy tears down the sound: every instance is stopped and destroyed,
// the pending play request (if any) is rejected, and the chain is
// disconnected from the bus. Idempotent; the sound is not reusable.
func (s *Sound) Destroy() {
	s.mtx.Lock()
	if s.destroyed {
		s.mtx.Unlock()
		return
	}
	s.destroyed = true
	fires := s.stopAllLocked()
	p := s.pending
	s.pending, s.pendingOpts = nil, nil
	chain := s.chain
	s.chain = nil
	s.buf = nil
	s.loaded = false
	s.mtx.Unlock()

	for _, fire := range fires {
		fire()
	}
	if p != nil {
		p.reject(ErrPlayCanceled)
	}
	if chain != nil {
		chain.Close()
	}
}

// RenderInto implements mix.Source: it mixes every active instance into dst
// and reaps the ones that completed naturally during the block.
func (s *Sound) RenderInto(dst []float32, sampleRate, channels int) {
	s.mtx.Lock()
	if s.destroyed || len(s.active) == 0 {
		s.mtx.Unlock()
		return
	}

	var fires []func()
	remaining := s.active[:0]
	for _, inst := range s.active {
		done, fire := inst.renderBlock(dst, sampleRate, channels)
		if fire != nil {
			fires = append(fires, fire)
		}
		if !done {
			remaining = append(remaining, inst)
		}
	}
	s.active = remaining
	s.mtx.Unlock()

	for _, fire := range fires {
		fire()
	}
}
