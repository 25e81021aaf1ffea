// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/idank/soundry/pcm"
)

// Mp3Decoder decodes MP3 streams using github.com/hajimehoshi/go-mp3.
type Mp3Decoder struct{}

func (Mp3Decoder) Sniff(header []byte) bool {
	if hasMagic(header, id3Magic, 0) {
		return true
	}
	// Raw frame sync: 11 set bits.
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

func (Mp3Decoder) Decode(data []byte) (*pcm.Buffer, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	// go-mp3 emits 16-bit little-endian stereo PCM.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	samples := len(raw) / 2
	out := make([]float32, samples)
	for i := range samples {
		low := uint16(raw[2*i])
		high := uint16(raw[2*i+1])
		out[i] = pcm.Int16ToFloat32(int16(low | high<<8))
	}

	return &pcm.Buffer{
		Data:       out,
		SampleRate: dec.SampleRate(),
		Channels:   2,
	}, nil
}
