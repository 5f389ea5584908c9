// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates deterministic audio for tests.
package audiotest

import (
	"io"
	"math"
	"sync"
)

// MockSource generates audio data for testing.
// It implements audio.Source without importing it to avoid cycles.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel; < 0 means endless
	generated    int
	waveform     func(sample int, channel int) float32
	closed       bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the number of samples per channel to generate, or -1 for an endless stream.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource yields zeros. totalSamples < 0 never ends.
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource yields a full-scale sine at frequency on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource yields value on every sample.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.totalSamples >= 0 && m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := len(dst) / m.channels
	if m.totalSamples >= 0 {
		frames = min(frames, m.totalSamples-m.generated)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.totalSamples >= 0 && m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// LiveSource is an endless generated stream that only starts producing once
// it is activated, like a freshly granted microphone track.
type LiveSource struct {
	*MockSource

	mu     sync.Mutex
	active bool
}

// NewLiveSource wraps src as a live stream that starts inactive.
func NewLiveSource(src *MockSource) *LiveSource {
	return &LiveSource{MockSource: src}
}

func (l *LiveSource) SetActive(active bool) {
	l.mu.Lock()
	l.active = active
	l.mu.Unlock()
}

func (l *LiveSource) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *LiveSource) ReadSamples(dst []float32) (int, error) {
	if !l.Active() {
		return 0, nil
	}
	return l.MockSource.ReadSamples(dst)
}
