// SPDX-License-Identifier: EPL-2.0

// Package codec decodes encoded audio bytes into pcm.Buffer values.
//
// # Supported Formats
//
//   - WAV (PCM) via github.com/go-audio/wav
//   - MP3 via github.com/hajimehoshi/go-mp3
//   - Ogg Vorbis via github.com/jfreymuth/oggvorbis
//   - AIFF (PCM) via github.com/go-audio/aiff
//
// # Registry
//
// Decoders are registered by format key and matched against the leading
// bytes of the input, so callers never have to name the format:
//
//	reg := codec.DefaultRegistry()
//	buf, err := reg.Decode(data)
//
// Custom formats can be added with Register; detection runs in registration
// order, with the magic-byte check (Sniff) deciding the match.
//
// # Decoding Model
//
// Unlike streaming pipelines, the playback engine keeps whole sounds in
// memory so that many instances can read the same buffer concurrently at
// independent positions. Decode therefore always consumes the full input and
// returns a complete buffer.
package codec
