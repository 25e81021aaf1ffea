// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"sync"

	"github.com/idank/soundry/pcm"
)

// Decoder turns a complete encoded byte sequence into a PCM buffer.
type Decoder interface {
	// Sniff reports whether the leading bytes of an input look like this
	// decoder's format. header holds at least the first 12 bytes when the
	// input is that long.
	Sniff(header []byte) bool

	// Decode consumes the whole input and returns the decoded buffer.
	Decode(data []byte) (*pcm.Buffer, error)
}

type entry struct {
	format string
	dec    Decoder
}

// Registry maps format keys to decoders and detects formats by magic bytes.
// Detection runs in registration order.
type Registry struct {
	entries []entry

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		mtx: &sync.Mutex{},
	}
}

// DefaultRegistry returns a registry pre-populated with the built-in
// decoders: wav, mp3, ogg vorbis and aiff.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", WavDecoder{})
	r.Register("ogg", VorbisDecoder{})
	r.Register("aiff", AiffDecoder{})
	// mp3 last: its frame-sync sniff is the loosest of the four.
	r.Register("mp3", Mp3Decoder{})
	return r
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i := range r.entries {
		if r.entries[i].format == format {
			r.entries[i].dec = d
			return
		}
	}
	r.entries = append(r.entries, entry{format: format, dec: d})
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, e := range r.entries {
		if e.format == format {
			return e.dec, true
		}
	}
	return nil, false
}

// Detect returns the first registered decoder whose Sniff accepts data.
func (r *Registry) Detect(data []byte) (Decoder, string, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	header := data
	if len(header) > 12 {
		header = header[:12]
	}
	for _, e := range r.entries {
		if e.dec.Sniff(header) {
			return e.dec, e.format, true
		}
	}
	return nil, "", false
}

// Decode detects the format of data and decodes it in one step.
// Returns ErrNoData for empty input and ErrUnknownFormat when no registered
// decoder recognizes the bytes.
func (r *Registry) Decode(data []byte) (*pcm.Buffer, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	dec, _, ok := r.Detect(data)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return dec.Decode(data)
}

var (
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
	formMagic = []byte("FORM")
	oggMagic  = []byte("OggS")
	id3Magic  = []byte("ID3")
)

func hasMagic(header []byte, magic []byte, at int) bool {
	if len(header) < at+len(magic) {
		return false
	}
	return bytes.Equal(header[at:at+len(magic)], magic)
}
