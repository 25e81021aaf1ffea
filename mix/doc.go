// SPDX-License-Identifier: EPL-2.0

// Package mix owns the shared audio environment of a playback session.
//
// # Context
//
// A Context is the root of a session: it carries the master volume, mute and
// pause switches, the decode service, and the mixing bus every sound chain
// feeds into. One Context is created per session and explicitly closed to
// release the underlying resources:
//
//	ctx := mix.NewContext()
//	defer ctx.Close()
//
// # Rendering Model
//
// The engine is pull-based. Context.Render mixes one block of interleaved
// float32 samples from every attached chain, applies the master gain and the
// bus limiter, and advances every playing instance by exactly the rendered
// duration. The render call is the session clock: whoever pulls drives time.
// In production the pull comes from the audio device (see Output); in tests
// it comes from calling Render directly, which makes playback fully
// deterministic.
//
// Pausing the context freezes that clock. Render keeps emitting silence but
// no chain is visited, so every instance keeps its position without its own
// paused flag being touched.
//
// # Chains
//
// A Chain is one asset's signal path: source, ordered effect list, gain
// stage, bus. SetEffects swaps the whole effect list atomically; there is no
// per-node connect surface, so the graph is never observed in a half-wired
// state. The swap is a best-effort topology change, not a sample-accurate
// crossfade.
//
// # Decode Service
//
// Context.Decode turns encoded bytes into a pcm.Buffer asynchronously using
// the codec registry. The callback runs on a background goroutine; callers
// serialize their own state. A decode cannot be cancelled once issued, only
// ignored.
package mix
