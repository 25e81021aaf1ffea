// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides fixtures for exercising the engine without
// real audio files: in-memory WAV byte sequences and synthetic PCM buffers.
package audiotest

import (
	"encoding/binary"
	"math"

	"github.com/idank/soundry/pcm"
)

// WAVBytes builds a complete 16-bit PCM WAV file in memory.
// samples are interleaved across channels.
func WAVBytes(sampleRate, channels int, samples []int16) []byte {
	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample/8)
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize

	out := make([]byte, 44+len(samples)*2)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], riffSize)
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], byteRate)
	binary.LittleEndian.PutUint16(out[32:34], blockAlign)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)

	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[44+i*2:46+i*2], uint16(s))
	}

	return out
}

// SineWAV builds a WAV file holding frames of a sine wave at freq Hz,
// duplicated across channels.
func SineWAV(sampleRate, channels, frames int, freq float64) []byte {
	samples := make([]int16, frames*channels)
	for f := range frames {
		t := float64(f) / float64(sampleRate)
		v := int16(math.Sin(2*math.Pi*freq*t) * 16000)
		for ch := range channels {
			samples[f*channels+ch] = v
		}
	}
	return WAVBytes(sampleRate, channels, samples)
}

// ConstantBuffer returns a decoded buffer filled with value.
func ConstantBuffer(sampleRate, channels, frames int, value float32) *pcm.Buffer {
	data := make([]float32, frames*channels)
	for i := range data {
		data[i] = value
	}
	return &pcm.Buffer{Data: data, SampleRate: sampleRate, Channels: channels}
}

// SineBuffer returns a decoded buffer holding a sine wave at freq Hz.
func SineBuffer(sampleRate, channels, frames int, freq float64) *pcm.Buffer {
	data := make([]float32, frames*channels)
	for f := range frames {
		t := float64(f) / float64(sampleRate)
		v := float32(math.Sin(2 * math.Pi * freq * t))
		for ch := range channels {
			data[f*channels+ch] = v
		}
	}
	return &pcm.Buffer{Data: data, SampleRate: sampleRate, Channels: channels}
}
