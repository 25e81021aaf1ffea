package codec

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/idank/soundry/pcm"
)

// VorbisDecoder decodes Ogg Vorbis streams using github.com/jfreymuth/oggvorbis.
type VorbisDecoder struct{}

func (VorbisDecoder) Sniff(header []byte) bool {
	return hasMagic(header, oggMagic, 0)
}

func (VorbisDecoder) Decode(data []byte) (*pcm.Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	return &pcm.Buffer{
		Data:       samples,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}
