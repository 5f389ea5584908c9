// SPDX-License-Identifier: EPL-2.0

// Package activity decides whether a participant is speaking from the
// spectrum of their audio.
//
// Each tick the mean level of the voice-fundamental band is normalised and fed
// to a bounded counter. The counter climbs while the level is high and drains
// while it is low; the participant is active while it sits above
// ActiveThreshold. A change is reported once, on the tick it happens.
package activity

import (
	"math"
	"sync"
)

const (
	MinCounter      = 0
	MaxCounter      = 60
	ActiveThreshold = 5
	LevelThreshold  = 0.5

	BandLow  = 85.0  // Hz
	BandHigh = 255.0 // Hz
)

// SpectrumSource supplies magnitude spectra in decibels. graph.Analyser is
// one.
type SpectrumSource interface {
	FloatFrequencyData(dst []float32) int
	FrequencyBinCount() int
}

// ChangeFunc receives activity transitions.
type ChangeFunc func(id string, active bool)

type Detector struct {
	id         string
	src        SpectrumSource
	sampleRate int

	mu        sync.Mutex
	spectrum  []float32
	counter   int
	active    bool
	lastLevel float64
	onChange  []ChangeFunc
}

// NewDetector reads src, an analyser running at sampleRate. src may be nil
// when levels are fed directly.
func NewDetector(id string, src SpectrumSource, sampleRate int) *Detector {
	return &Detector{id: id, src: src, sampleRate: sampleRate}
}

func (d *Detector) ID() string { return d.id }

// OnChange registers fn for every transition.
func (d *Detector) OnChange(fn ChangeFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = append(d.onChange, fn)
}

func (d *Detector) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *Detector) Counter() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}

// LastLevel is the normalised level of the last tick.
func (d *Detector) LastLevel() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastLevel
}

// Tick analyses the latest spectrum and steps the counter. It reports
// whether the activity state changed.
func (d *Detector) Tick() bool {
	if d.src == nil {
		return false
	}

	bins := d.src.FrequencyBinCount()
	d.mu.Lock()
	if cap(d.spectrum) < bins {
		d.spectrum = make([]float32, bins)
	}
	n := d.src.FloatFrequencyData(d.spectrum[:bins])
	level := Level(d.spectrum[:n], d.sampleRate, 2*bins)
	d.mu.Unlock()

	return d.Feed(level)
}

// Feed steps the counter with an already normalised level.
func (d *Detector) Feed(level float64) bool {
	d.mu.Lock()
	d.lastLevel = level
	if level >= LevelThreshold {
		d.counter = min(d.counter+1, MaxCounter)
	} else {
		d.counter = max(d.counter-1, MinCounter)
	}

	active := d.counter > ActiveThreshold
	if active == d.active {
		d.mu.Unlock()
		return false
	}
	d.active = active
	callbacks := d.onChange
	d.mu.Unlock()

	for _, fn := range callbacks {
		fn(d.id, active)
	}
	return true
}

// Reset clears the counter without raising an event.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counter = MinCounter
	d.active = false
	d.lastLevel = 0
}

// Level normalises the mean decibel magnitude of the voice band of spectrum,
// computed by an FFT of fftSize points at sampleRate.
func Level(spectrum []float32, sampleRate, fftSize int) float64 {
	lo, hi := bandBins(sampleRate, fftSize, len(spectrum))
	if lo > hi {
		return math.Inf(-1)
	}

	var sum float64
	for _, v := range spectrum[lo : hi+1] {
		sum += float64(v)
	}
	mean := sum / float64(hi-lo+1)
	return 1.1 + mean/100
}

// bandBins returns the inclusive bin range whose centre frequencies fall in
// the voice band. When the band is narrower than a bin, the bin nearest its
// middle is used.
func bandBins(sampleRate, fftSize, bins int) (int, int) {
	if sampleRate <= 0 || fftSize <= 0 || bins == 0 {
		return 1, 0
	}

	width := float64(sampleRate) / float64(fftSize)
	lo := int(math.Ceil(BandLow / width))
	hi := min(int(math.Floor(BandHigh/width)), bins-1)
	if lo > hi {
		mid := min(int(math.Round((BandLow+BandHigh)/2/width)), bins-1)
		return mid, mid
	}
	return lo, hi
}
