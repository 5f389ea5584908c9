// SPDX-License-Identifier: EPL-2.0

package source

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/spatial"
)

// LiveStream is a continuous source that may not be usable right away.
type LiveStream interface {
	audio.Source
	Active() bool
}

type Option func(*Source)

// WithLogger sets the logger; log.L() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.log = l }
}

// WithAnalyser configures the activity tap. Invalid values keep the
// analyser defaults.
func WithAnalyser(fftSize int, smoothing float64) Option {
	return func(s *Source) {
		s.fftSize = fftSize
		s.smoothing = smoothing
	}
}

type Source struct {
	ctx *graph.Context
	log *slog.Logger

	fftSize   int
	smoothing float64

	mu          sync.Mutex
	spatializer spatial.Spatializer
	output      *graph.Gain
	analyser    *graph.Analyser
	buffer      *audio.Buffer
	loop        bool
	handles     map[string]*graph.BufferSource
	live        LiveStream
	stream      *graph.StreamSource
	disposed    bool
}

// New wires input through a fresh output gain into sp. input must be a
// non-nil *audio.Buffer or a LiveStream. The Source owns sp from here on;
// it does not own input.
func New(ctx *graph.Context, sp spatial.Spatializer, input any, opts ...Option) (*Source, error) {
	if sp == nil {
		return nil, ErrNoSpatializer
	}

	s := &Source{
		ctx:         ctx,
		log:         log.L(),
		fftSize:     graph.DefaultFFTSize,
		smoothing:   graph.DefaultSmoothing,
		spatializer: sp,
		handles:     make(map[string]*graph.BufferSource),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch in := input.(type) {
	case *audio.Buffer:
		if in == nil {
			return nil, fmt.Errorf("nil buffer: %w", ErrUnsupportedInput)
		}
		s.buffer = in
	case LiveStream:
		s.live = in
	default:
		return nil, fmt.Errorf("%T: %w", input, ErrUnsupportedInput)
	}

	s.output = graph.NewGain(ctx)
	if err := s.output.Connect(sp.Input()); err != nil {
		return nil, fmt.Errorf("connecting spatializer: %w", err)
	}

	s.analyser = graph.NewAnalyser(ctx)
	if err := s.analyser.SetFFTSize(s.fftSize); err != nil {
		s.log.Warn("keeping default analyser size", "fft_size", s.fftSize, "error", err)
	}
	if err := s.analyser.SetSmoothingTimeConstant(s.smoothing); err != nil {
		s.log.Warn("keeping default analyser smoothing", "smoothing", s.smoothing, "error", err)
	}
	if err := s.output.Connect(s.analyser); err != nil {
		s.output.DisconnectAll()
		s.analyser.Close()
		return nil, fmt.Errorf("connecting analyser: %w", err)
	}

	s.Tick()
	return s, nil
}

// Spatializer returns the spatializer the source feeds, or nil once disposed.
func (s *Source) Spatializer() spatial.Spatializer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spatializer
}

// Analyser is the tap the activity detector reads.
func (s *Source) Analyser() *graph.Analyser { return s.analyser }

// Live reports whether the source wraps a live stream.
func (s *Source) Live() bool { return s.live != nil }

// SetGain sets the output gain immediately.
func (s *Source) SetGain(v float64) { s.output.Gain().SetValue(v) }
func (s *Source) Gain() float64     { return s.output.Gain().Value() }

// SetLoop applies to running playbacks and to later ones.
func (s *Source) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = loop
	for _, h := range s.handles {
		h.SetLoop(loop)
	}
}

func (s *Source) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Play starts a new playback of the buffer and returns its handle id.
func (s *Source) Play() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return "", ErrDisposed
	}
	if s.buffer == nil {
		return "", ErrNotPlayable
	}

	h := graph.NewBufferSource(s.ctx, s.buffer)
	h.SetLoop(s.loop)
	if err := h.Connect(s.output); err != nil {
		return "", fmt.Errorf("connecting playback: %w", err)
	}

	id := uuid.NewString()
	h.OnEnded(func() { s.release(id) })
	if err := h.Start(s.ctx.CurrentTime()); err != nil {
		h.DisconnectAll()
		return "", err
	}
	s.handles[id] = h
	return id, nil
}

// Playing returns the number of playbacks still running.
func (s *Source) Playing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// StopHandle ends one playback.
func (s *Source) StopHandle(id string) error {
	s.mu.Lock()
	h, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownHandle)
	}
	h.Stop()
	h.DisconnectAll()
	return nil
}

// Stop ends every playback. It is a no-op for live sources.
func (s *Source) Stop() {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]*graph.BufferSource)
	s.mu.Unlock()

	stopAll(handles)
}

func stopAll(handles map[string]*graph.BufferSource) {
	for _, h := range handles {
		h.Stop()
		h.DisconnectAll()
	}
}

// release drops a playback that ended on its own.
func (s *Source) release(id string) {
	s.mu.Lock()
	h, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()

	if ok {
		h.DisconnectAll()
	}
}

// Tick connects a pending live stream once it becomes active and reports
// whether it did so on this call. After Dispose it does nothing.
func (s *Source) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.live == nil || s.stream != nil || !s.live.Active() {
		return false
	}

	stream := graph.NewStreamSource(s.ctx, s.live)
	if err := stream.Connect(s.output); err != nil {
		s.log.Error("attaching live stream", "error", err)
		return false
	}
	s.stream = stream
	s.log.Debug("live stream attached",
		"sample_rate", s.live.SampleRate(), "channels", s.live.Channels())
	return true
}

// Attached reports whether the live stream is connected.
func (s *Source) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Dispose tears the source down: playbacks first, then the spatializer's
// route to the destination, then the edge into the spatializer. Calling it
// again does nothing.
func (s *Source) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	handles, stream, sp := s.handles, s.stream, s.spatializer
	s.handles, s.stream, s.spatializer = nil, nil, nil
	s.buffer, s.live = nil, nil
	s.mu.Unlock()

	stopAll(handles)
	if stream != nil {
		stream.Close()
		stream.DisconnectAll()
	}

	sp.Dispose()

	if err := s.output.Disconnect(sp.Input()); err != nil {
		s.log.Debug("spatializer input already detached", "error", err)
	}
	s.output.DisconnectAll()
	s.analyser.Close()
}
