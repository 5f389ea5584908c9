// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"math/cmplx"

	"github.com/ik5/audspace/utils"
)

const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0

	minFFTSize = 32
	maxFFTSize = 32768
)

// Analyser passes its input through unchanged and keeps the most recent
// FFTSize samples for spectrum queries.
//
// An analyser is rendered every quantum whether or not anything consumes its
// output; Close detaches it from the render loop.
type Analyser struct {
	node

	plan      *fftPlan
	ring      []float32
	ringPos   int
	scratch   []complex128
	smoothed  []float64
	smoothing float64
	minDb     float64
	maxDb     float64
	closed    bool
}

// NewAnalyser creates an analyser with the default FFT size, smoothing and
// decibel range. It is pulled every quantum even with no outputs.
func NewAnalyser(ctx *Context) *Analyser {
	a := &Analyser{
		smoothing: DefaultSmoothing,
		minDb:     DefaultMinDecibels,
		maxDb:     DefaultMaxDecibels,
	}
	a.init(ctx, "analyser", a)
	a.resize(DefaultFFTSize)
	ctx.addTap(&a.node)
	return a
}

func (a *Analyser) resize(n int) {
	a.plan = newFFTPlan(n)
	a.ring = make([]float32, n)
	a.ringPos = 0
	a.scratch = make([]complex128, n)
	a.smoothed = make([]float64, n/2)
}

func (a *Analyser) SetFFTSize(n int) error {
	if !isPowerOfTwo(n) || n < minFFTSize || n > maxFFTSize {
		return ErrInvalidFFTSize
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	if n != a.plan.n {
		a.resize(n)
	}
	return nil
}

func (a *Analyser) FFTSize() int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.plan.n
}

// FrequencyBinCount is half the FFT size.
func (a *Analyser) FrequencyBinCount() int {
	return a.FFTSize() / 2
}

func (a *Analyser) SetSmoothingTimeConstant(tau float64) error {
	if tau < 0 || tau > 1 {
		return ErrInvalidRange
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	a.smoothing = tau
	return nil
}

func (a *Analyser) SmoothingTimeConstant() float64 {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.smoothing
}

// SetDecibelRange sets the range ByteFrequencyData scales into.
func (a *Analyser) SetDecibelRange(minDb, maxDb float64) error {
	if minDb >= maxDb {
		return ErrInvalidRange
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	a.minDb, a.maxDb = minDb, maxDb
	return nil
}

func (a *Analyser) DecibelRange() (float64, float64) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.minDb, a.maxDb
}

// Close stops the analyser from being rendered and drops its edges.
func (a *Analyser) Close() error {
	a.ctx.mu.Lock()
	if a.closed {
		a.ctx.mu.Unlock()
		return nil
	}
	a.closed = true
	a.ctx.mu.Unlock()

	a.ctx.removeTap(&a.node)
	a.DisconnectAll()
	return nil
}

func (a *Analyser) process(in, out *bus, _ float64) {
	out.channels = in.channels
	out.data = in.data

	var mono [RenderQuantum]float32
	in.mono(&mono)

	n := len(a.ring)
	for _, s := range mono {
		a.ring[a.ringPos] = s
		a.ringPos = (a.ringPos + 1) % n
	}
}

// FloatFrequencyData writes the smoothed spectrum in decibels into dst, up to
// FrequencyBinCount values, and returns how many were written. Each call
// advances the smoothing.
func (a *Analyser) FloatFrequencyData(dst []float32) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.analyseLocked()
	n := min(len(dst), len(a.smoothed))
	for k := range n {
		dst[k] = float32(utils.LinearToDecibels(a.smoothed[k]))
	}
	return n
}

// ByteFrequencyData is FloatFrequencyData scaled from the decibel range into
// 0..255.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.analyseLocked()
	n := min(len(dst), len(a.smoothed))
	scale := 255 / (a.maxDb - a.minDb)
	for k := range n {
		db := utils.LinearToDecibels(a.smoothed[k])
		v := math.Floor((db - a.minDb) * scale)
		if math.IsInf(db, -1) {
			v = 0
		}
		dst[k] = byte(utils.Clamp(v, 0, 255))
	}
	return n
}

// FloatTimeDomainData copies the most recent samples, oldest first.
func (a *Analyser) FloatTimeDomainData(dst []float32) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	n := min(len(dst), len(a.ring))
	start := a.ringPos + len(a.ring) - n
	for i := range n {
		dst[i] = a.ring[(start+i)%len(a.ring)]
	}
	return n
}

func (a *Analyser) analyseLocked() {
	size := a.plan.n
	for i := range size {
		s := a.ring[(a.ringPos+i)%size]
		a.scratch[i] = complex(float64(s)*a.plan.window[i], 0)
	}
	a.plan.transform(a.scratch)

	for k := range a.smoothed {
		mag := cmplx.Abs(a.scratch[k]) / float64(size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
	}
}
