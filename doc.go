// SPDX-License-Identifier: EPL-2.0

// Package soundry is a sound-asset playback engine: it loads encoded audio,
// decodes it into playable buffers, and manages many concurrent,
// independently-controllable playback instances per asset, routed through a
// per-asset effect chain into a shared mixing context.
//
// # Quick Start
//
//	ctx := mix.NewContext()
//	defer ctx.Close()
//
//	lib := soundry.New(ctx)
//	defer lib.RemoveAll()
//
//	lib.Add("explosion", soundry.Config{Src: "sfx/explosion.ogg", Preload: true})
//	lib.Play("explosion", nil)
//
// Call ctx.StartOutput to route the session to the real audio device; tests
// and offline hosts drive ctx.Render directly instead.
//
// # Assets and Instances
//
// A Sound is a registered asset: a decoded buffer plus playback policy.
// Every Play spawns an Instance: one time-bounded playback with its own
// position, speed, loop flag, pause state and fade envelopes. Instances are
// reaped automatically when they complete or are stopped; a terminal
// instance is destroyed and must be discarded.
//
// Two exclusivity policies are available per asset. SingleInstance stops all
// live instances before spawning a new one (stop-and-replace), while Block
// ignores play requests as long as one instance is active and hands back the
// existing one (one-at-a-time, ignore repeats).
//
// # Load-Then-Play
//
// Play on a not-yet-loaded sound returns a deferred Pending that resolves to
// the spawned instance once decode completes, or rejects on load failure:
//
//	p, err := lib.Play("theme", nil)
//	if err != nil {
//	    return err
//	}
//	inst, err := p.Await(context.Background())
//
// Only one deferred is outstanding per sound; repeated early plays reuse it.
//
// # Sprites
//
// A sprite is a named sub-range of an asset's buffer, declared up front or
// added with AddSprite, and played by name:
//
//	s.AddSprite("hello", 0.0, 2.5, 0)
//	s.Play(&soundry.PlayOptions{Sprite: "hello"})
//
// # Pause Layers
//
// The context pause freezes the session clock for everything at once;
// the instance pause flag suspends a single playback. The two layers are
// independent: an instance is audible only when neither is paused.
//
// # Error Handling
//
// Configuration problems (no source, unknown sprite or alias) surface
// synchronously as sentinel errors. IO and decode failures arrive through
// load callbacks and leave the sound unloaded so the caller may retry.
// Usage errors on destroyed sounds are logged and returned, never panic.
// The engine retries nothing on its own.
package soundry
