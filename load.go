// SPDX-License-Identifier: EPL-2.0

package audspace

import (
	"fmt"
	"os"

	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/formats/aiff"
	"github.com/ik5/audspace/formats/flac"
	"github.com/ik5/audspace/formats/mp3"
	"github.com/ik5/audspace/formats/vorbis"
	"github.com/ik5/audspace/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by the
// file extensions they are usually found under.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})
	return reg
}

// OpenFile decodes path with the decoder registered for its extension.
// The returned Source owns the file and closes it on Close.
func OpenFile(reg *audio.Registry, path string) (audio.Source, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

// LoadFile decodes path fully into a Buffer at sampleRate.
// With mono set, the clip is downmixed first, which is what point-source voices want.
func LoadFile(reg *audio.Registry, path string, sampleRate int, mono bool) (*audio.Buffer, error) {
	src, err := OpenFile(reg, path)
	if err != nil {
		return nil, err
	}

	if mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	buf, err := audio.LoadBuffer(src, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
