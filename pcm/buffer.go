// SPDX-License-Identifier: EPL-2.0

package pcm

import "time"

// Buffer is a fully decoded sound held in memory as interleaved float32
// samples in [-1, 1].
type Buffer struct {
	Data       []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (one sample per channel).
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Seconds returns the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Duration returns the buffer length as a time.Duration.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Sample returns the sample for channel ch at frame index, or 0 when the
// index is out of range. Out-of-range reads happen at the edges of the
// interpolation window and must be silent.
func (b *Buffer) Sample(frame, ch int) float32 {
	if frame < 0 || frame >= b.Frames() {
		return 0
	}
	return b.Data[frame*b.Channels+ch]
}
