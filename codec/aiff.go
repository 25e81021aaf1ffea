// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"fmt"

	"github.com/go-audio/aiff"

	"github.com/idank/soundry/pcm"
)

// AiffDecoder decodes PCM AIFF files using github.com/go-audio/aiff.
type AiffDecoder struct{}

func (AiffDecoder) Sniff(header []byte) bool {
	return hasMagic(header, formMagic, 0)
}

func (AiffDecoder) Decode(data []byte) (*pcm.Buffer, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	intBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	return intBufferToPCM(intBuf, int(dec.BitDepth))
}
