package codec

import "errors"

var (
	ErrNoData        = errors.New("no audio data")
	ErrUnknownFormat = errors.New("unknown audio format")
	ErrNotWavFile    = errors.New("not a WAV file")
	ErrNotAiffFile   = errors.New("not an AIFF file")
)
