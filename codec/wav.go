package codec

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/idank/soundry/pcm"
)

// WavDecoder decodes PCM WAV files using github.com/go-audio/wav.
type WavDecoder struct{}

func (WavDecoder) Sniff(header []byte) bool {
	return hasMagic(header, riffMagic, 0) && hasMagic(header, waveMagic, 8)
}

func (WavDecoder) Decode(data []byte) (*pcm.Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	intBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return intBufferToPCM(intBuf, int(dec.BitDepth))
}

// intBufferToPCM normalizes a go-audio integer buffer into float32 samples.
// Shared by the WAV and AIFF decoders.
func intBufferToPCM(buf *goaudio.IntBuffer, bitDepth int) (*pcm.Buffer, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrNoData
	}

	// go-audio uses int format, normalize based on bit depth
	var maxVal float32
	switch bitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = 32768.0 // Default to 16-bit
	}

	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(v) / maxVal
	}

	return &pcm.Buffer{
		Data:       out,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}, nil
}
