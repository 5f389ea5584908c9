// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"io"

	"github.com/ik5/audspace/audio"
)

// StreamSource pulls a continuous audio.Source into the graph, resampling it
// to the context rate when needed. ReadSamples runs on the render path and
// must not block; a short read is played as silence.
type StreamSource struct {
	node

	src      audio.Source
	channels int
	scratch  []float32
	done     bool
	err      error
}

// NewStreamSource pulls src into the graph, resampling it when its rate
// differs from the context.
func NewStreamSource(ctx *Context, src audio.Source) *StreamSource {
	var in audio.Source = src
	if src.SampleRate() != ctx.sampleRate {
		in = audio.NewResampler(src, ctx.sampleRate)
	}

	s := &StreamSource{
		src:      in,
		channels: in.Channels(),
		scratch:  make([]float32, RenderQuantum*in.Channels()),
	}
	s.init(ctx, "stream-source", s)
	return s
}

// Done reports whether the stream reached its end or failed.
func (s *StreamSource) Done() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.done
}

// Err returns the read error that stopped the stream, if any.
func (s *StreamSource) Err() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.err
}

// Close stops pulling. The underlying source stays open; its owner closes it.
func (s *StreamSource) Close() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.done = true
	return nil
}

func (s *StreamSource) process(_, out *bus, _ float64) {
	if s.done || s.channels == 0 {
		out.zero(0)
		return
	}

	out.zero(min(s.channels, 2))

	n, err := s.src.ReadSamples(s.scratch)
	frames := n / s.channels
	for f := range frames {
		for c := range out.channels {
			out.data[c][f] = s.scratch[f*s.channels+c]
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.done = true
	default:
		s.done = true
		s.err = err
	}
}
