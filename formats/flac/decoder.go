// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams through github.com/mewkiz/flac.
package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/formats/internal/intpcm"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

var ErrUnsupportedLayout = errors.New("unsupported FLAC layout")

// frameParser is the part of flac.Stream used here; tests substitute it.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	scale      float32

	pending []float32 // interleaved samples of the current frame not yet handed out
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) fill() error {
	f, err := s.stream.ParseNext()
	if err != nil {
		return err
	}

	n := f.Subframes[0].NSamples
	s.pending = s.pending[:0]
	for i := range n {
		for ch := range s.channels {
			s.pending = append(s.pending, float32(f.Subframes[ch].Samples[i])*s.scale)
		}
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.fill(); err != nil {
				if err == io.EOF {
					s.eof = true
					break
				}
				return written, fmt.Errorf("%w", err)
			}
		}

		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if s.eof && len(s.pending) == 0 {
		return written, io.EOF
	}
	return written, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info.NChannels == 0 || info.SampleRate == 0 {
		stream.Close()
		return nil, ErrUnsupportedLayout
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      1 / intpcm.FullScale(int(info.BitsPerSample)),
	}, nil
}
