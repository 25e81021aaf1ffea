// SPDX-License-Identifier: EPL-2.0

package soundry

// SpriteSpec declares a sprite at configuration time: a window in seconds
// plus an optional speed override (0 inherits the sound's speed).
type SpriteSpec struct {
	Start float64
	End   float64
	Speed float64
}

// Config describes a sound asset. Either Src or Bytes must be set before the
// sound can load; hosts that resolve bytes themselves set Bytes and skip the
// byte-acquisition collaborator entirely.
type Config struct {
	// Src is the source locator (path or URL) handed to the loader.
	Src string

	// Bytes holds pre-fetched encoded audio, bypassing Src.
	Bytes []byte

	// AutoPlay starts an instance as soon as the load completes.
	AutoPlay bool

	// Preload begins loading at construction time.
	Preload bool

	// SingleInstance stops all live instances before spawning a new one, so
	// at most one plays at a time.
	SingleInstance bool

	// Block ignores play requests while an instance is active, returning the
	// existing one instead. Distinct from SingleInstance's stop-and-replace.
	Block bool

	// Loop replays instances from their window start until stopped.
	Loop bool

	// Volume is the asset gain in [0, 1]; nil means 1.
	Volume *float64

	// Speed is the playback rate multiplier; nil means 1.
	Speed *float64

	// Sprites declares named sub-ranges, keyed by unique name.
	Sprites map[string]SpriteSpec
}

// merge overlays item settings over shared defaults, the way bulk
// registration combines a shared config with per-entry ones. Zero-valued
// item fields inherit from shared; boolean flags combine with OR.
func (shared Config) merge(item Config) Config {
	out := shared

	if item.Src != "" {
		out.Src = item.Src
	}
	if len(item.Bytes) > 0 {
		out.Bytes = item.Bytes
	}
	out.AutoPlay = out.AutoPlay || item.AutoPlay
	out.Preload = out.Preload || item.Preload
	out.SingleInstance = out.SingleInstance || item.SingleInstance
	out.Block = out.Block || item.Block
	out.Loop = out.Loop || item.Loop
	if item.Volume != nil {
		out.Volume = item.Volume
	}
	if item.Speed != nil {
		out.Speed = item.Speed
	}
	if len(item.Sprites) > 0 {
		out.Sprites = item.Sprites
	}
	return out
}

// PlayOptions controls a single play request. The zero value plays the whole
// buffer at the sound's volume, speed and loop setting.
type PlayOptions struct {
	// Start and End trim playback to [Start, End) seconds within the buffer.
	// End 0 means the buffer end.
	Start float64
	End   float64

	// Sprite plays a named sub-range, overriding Start, End and Speed from
	// the sprite's stored window. Referencing an undefined name is an error.
	Sprite string

	// Speed overrides the sound's playback rate when > 0.
	Speed float64

	// Volume is the instance gain in [0, 1]; nil means full volume.
	Volume *float64

	// Loop overrides the sound's loop flag when non-nil.
	Loop *bool

	// FadeIn and FadeOut are envelope durations. Values under 10 are read as
	// seconds, anything else as milliseconds: a legacy dual-unit convention
	// kept for compatibility. New code should pass seconds (< 10).
	FadeIn  float64
	FadeOut float64

	// OnComplete fires exactly once when the instance reaches its natural
	// end. Looping instances never complete naturally.
	OnComplete func(*Instance)

	// OnStop fires exactly once when the instance is explicitly stopped,
	// distinct from natural completion.
	OnStop func(*Instance)

	// OnProgress reports elapsed fraction of the trimmed window in [0, 1]
	// once per rendered block.
	OnProgress func(progress float64)
}

// fadeUnitThreshold separates seconds from milliseconds in fade durations.
const fadeUnitThreshold = 10

func fadeSeconds(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v < fadeUnitThreshold {
		return v
	}
	return v / 1000
}
