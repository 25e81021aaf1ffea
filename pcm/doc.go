// SPDX-License-Identifier: EPL-2.0

// Package pcm holds the time-domain audio primitives shared by the rest of
// the engine.
//
// # Buffer
//
// A Buffer is a fully decoded sound: interleaved float32 samples in
// [-1.0, 1.0] together with their sample rate and channel count. Decoders
// produce Buffers; playback instances read from them.
//
//	buf := &pcm.Buffer{Data: samples, SampleRate: 44100, Channels: 2}
//	fmt.Println(buf.Duration())
//
// # Sample Format
//
// Samples are normalized float32:
//   - 0.0 is silence
//   - 1.0 / -1.0 are maximum positive / negative amplitude
//
// The normalized format keeps intermediate processing free of bit-depth
// concerns; conversion to and from 16-bit PCM happens only at the codec and
// device boundaries.
//
// # Interpolation
//
// CubicInterpolate is the Catmull-Rom kernel used by the playback path for
// sample-rate and speed conversion.
package pcm
