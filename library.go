// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/idank/soundry/fetch"
	"github.com/idank/soundry/manifest"
	"github.com/idank/soundry/mix"
)

// Library is the alias-to-asset registry. It owns every sound it registers:
// replacing or removing an alias destroys the prior asset, and RemoveAll
// tears down the whole registry at session end.
type Library struct {
	mtx    sync.Mutex
	ctx    *mix.Context
	loader fetch.Loader
	logger *slog.Logger
	sounds map[string]*Sound
}

// Option configures a Library.
type Option func(*Library)

// WithLoader replaces the byte-acquisition collaborator used by sounds the
// library constructs.
func WithLoader(l fetch.Loader) Option {
	return func(lib *Library) { lib.loader = l }
}

// WithLogger replaces the logger used for usage-error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(lib *Library) { lib.logger = logger }
}

// New creates a library bound to a mixing context.
func New(ctx *mix.Context, opts ...Option) *Library {
	lib := &Library{
		ctx:    ctx,
		loader: fetch.Default(),
		logger: slog.Default(),
		sounds: make(map[string]*Sound),
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Add constructs a sound under alias, replacing and destroying any asset
// previously registered there.
func (l *Library) Add(alias string, cfg Config) *Sound {
	snd, err := newSound(l.ctx, cfg, alias, l.loader, l.logger)
	if err != nil {
		l.logger.Warn("add failed", "alias", alias, "err", err)
		return nil
	}

	l.mtx.Lock()
	old := l.sounds[alias]
	l.sounds[alias] = snd
	l.mtx.Unlock()

	if old != nil {
		old.Destroy()
	}
	return snd
}

// AddMany registers every entry, merging per-item settings over shared, and
// attempts a load for each. each fires per alias once that entry's load
// attempt settles (nil error on success); done fires once after every
// entry's attempt: successes, IO/decode failures and synchronous
// configuration errors alike.
func (l *Library) AddMany(entries map[string]Config, shared Config, each func(alias string, err error), done func()) {
	remaining := len(entries)
	if remaining == 0 {
		if done != nil {
			done()
		}
		return
	}

	var mtx sync.Mutex
	settle := func(alias string, err error) {
		if each != nil {
			each(alias, err)
		}
		mtx.Lock()
		remaining--
		last := remaining == 0
		mtx.Unlock()
		if last && done != nil {
			done()
		}
	}

	for alias, cfg := range entries {
		merged := shared.merge(cfg)
		merged.Preload = false // AddMany drives the load itself
		snd := l.Add(alias, merged)
		if snd == nil {
			settle(alias, fmt.Errorf("add %q: invalid config", alias))
			continue
		}
		if err := snd.Load(func(err error) { settle(alias, err) }); err != nil {
			settle(alias, err)
		}
	}
}

// AddManifest registers every entry of a parsed manifest, via AddMany.
func (l *Library) AddManifest(m *manifest.Manifest, shared Config, each func(alias string, err error), done func()) {
	entries := make(map[string]Config, len(m.Sounds))
	for alias, e := range m.Sounds {
		cfg := Config{
			Src:            e.Src,
			AutoPlay:       e.AutoPlay,
			Preload:        e.Preload,
			SingleInstance: e.SingleInstance,
			Block:          e.Block,
			Loop:           e.Loop,
			Volume:         e.Volume,
			Speed:          e.Speed,
		}
		if len(e.Sprites) > 0 {
			cfg.Sprites = make(map[string]SpriteSpec, len(e.Sprites))
			for name, sp := range e.Sprites {
				cfg.Sprites[name] = SpriteSpec{Start: sp.Start, End: sp.End, Speed: sp.Speed}
			}
		}
		entries[alias] = cfg
	}
	l.AddMany(entries, shared, each, done)
}

// Remove destroys and deregisters one asset.
func (l *Library) Remove(alias string) error {
	l.mtx.Lock()
	snd, ok := l.sounds[alias]
	delete(l.sounds, alias)
	l.mtx.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, alias)
	}
	snd.Destroy()
	return nil
}

// RemoveAll destroys every registered asset and clears the registry.
func (l *Library) RemoveAll() {
	l.mtx.Lock()
	sounds := l.sounds
	l.sounds = make(map[string]*Sound)
	l.mtx.Unlock()

	for _, snd := range sounds {
		snd.Destroy()
	}
}

// Find looks up an asset by alias.
func (l *Library) Find(alias string) (*Sound, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	snd, ok := l.sounds[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, alias)
	}
	return snd, nil
}

// Exists reports whether alias is registered.
func (l *Library) Exists(alias string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	_, ok := l.sounds[alias]
	return ok
}

// Aliases returns every registered alias, unordered.
func (l *Library) Aliases() []string {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	out := make([]string, 0, len(l.sounds))
	for alias := range l.sounds {
		out = append(out, alias)
	}
	return out
}

// Play delegates to the aliased sound's Play.
func (l *Library) Play(alias string, opts *PlayOptions) (*Pending, error) {
	snd, err := l.Find(alias)
	if err != nil {
		return nil, err
	}
	return snd.Play(opts)
}

// Volume returns one asset's gain.
func (l *Library) Volume(alias string) (float64, error) {
	snd, err := l.Find(alias)
	if err != nil {
		return 0, err
	}
	return snd.Volume(), nil
}

// SetVolume sets one asset's gain.
func (l *Library) SetVolume(alias string, v float64) error {
	snd, err := l.Find(alias)
	if err != nil {
		return err
	}
	snd.SetVolume(v)
	return nil
}

// StopAll stops every instance of every registered asset.
func (l *Library) StopAll() {
	for _, snd := range l.snapshot() {
		snd.Stop()
	}
}

// PauseAll pauses every instance of every registered asset.
func (l *Library) PauseAll() {
	for _, snd := range l.snapshot() {
		snd.Pause()
	}
}

// ResumeAll resumes every instance of every registered asset.
func (l *Library) ResumeAll() {
	for _, snd := range l.snapshot() {
		snd.Resume()
	}
}

func (l *Library) snapshot() []*Sound {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	out := make([]*Sound, 0, len(l.sounds))
	for _, snd := range l.sounds {
		out = append(out, snd)
	}
	return out
}

// SetMasterVolume passes through to the context's master gain.
func (l *Library) SetMasterVolume(v float64) { l.ctx.SetVolume(v) }

// MasterVolume returns the context's master gain.
func (l *Library) MasterVolume() float64 { return l.ctx.Volume() }

// SetMuted passes through to the context's mute switch.
func (l *Library) SetMuted(muted bool) { l.ctx.SetMuted(muted) }

// SetPaused passes through to the context's clock pause.
func (l *Library) SetPaused(paused bool) { l.ctx.SetPaused(paused) }
