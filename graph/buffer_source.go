// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audspace/audio"
)

type playState int

const (
	stateIdle playState = iota
	stateScheduled
	statePlaying
	stateEnded
)

// BufferSource plays an in-memory buffer once, or looped. A BufferSource can
// be started only once; create one per playback.
type BufferSource struct {
	node

	buf     *audio.Buffer
	loop    bool
	state   playState
	startAt float64
	pos     float64 // read position in buffer frames
	ended   []func()
}

// NewBufferSource creates a player for buf. Nothing plays until Start.
func NewBufferSource(ctx *Context, buf *audio.Buffer) *BufferSource {
	s := &BufferSource{buf: buf}
	s.init(ctx, "buffer-source", s)
	return s
}

func (s *BufferSource) SetLoop(loop bool) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.loop = loop
}

func (s *BufferSource) Loop() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.loop
}

// OnEnded registers fn to run once playback ends, either at the end of a
// non-looping buffer or on Stop. It runs outside the render lock.
func (s *BufferSource) OnEnded(fn func()) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.ended = append(s.ended, fn)
}

// Start schedules playback at audio time when. A time in the past starts at
// the next quantum.
func (s *BufferSource) Start(when float64) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.state != stateIdle {
		return ErrAlreadyStarted
	}
	s.state = stateScheduled
	s.startAt = when
	return nil
}

// Stop ends playback now. Stopping twice, or stopping a source that already
// ended, is a no-op.
func (s *BufferSource) Stop() {
	s.ctx.mu.Lock()
	if s.state == stateEnded {
		s.ctx.mu.Unlock()
		return
	}
	s.state = stateEnded
	callbacks := s.ended
	s.ctx.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Playing reports whether the source has started and not yet ended.
func (s *BufferSource) Playing() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.state == stateScheduled || s.state == statePlaying
}

func (s *BufferSource) process(_, out *bus, t float64) {
	if s.buf == nil || s.state == stateIdle || s.state == stateEnded {
		out.zero(0)
		return
	}

	channels := min(s.buf.Channels(), 2)
	out.zero(channels)

	first := 0
	if s.state == stateScheduled {
		rate := float64(s.ctx.sampleRate)
		offset := int(math.Round((s.startAt - t) * rate))
		if offset >= RenderQuantum {
			return
		}
		first = max(offset, 0)
		s.state = statePlaying
	}

	frames := s.buf.Frames()
	step := float64(s.buf.SampleRate()) / float64(s.ctx.sampleRate)
	for i := first; i < RenderQuantum; i++ {
		if s.pos >= float64(frames) {
			if !s.loop || frames == 0 {
				s.finishLocked()
				return
			}
			s.pos -= float64(frames)
		}

		whole := int(s.pos)
		frac := float32(s.pos - float64(whole))
		next := whole + 1
		if next >= frames {
			next = whole
			if s.loop {
				next = 0
			}
		}
		for c := range channels {
			data := s.buf.Channel(c)
			out.data[c][i] = data[whole] + (data[next]-data[whole])*frac
		}
		s.pos += step
	}
}

func (s *BufferSource) finishLocked() {
	s.state = stateEnded
	for _, fn := range s.ended {
		s.ctx.queueCallback(fn)
	}
}
