// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audspace/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// hist[0] = t-1, hist[1] = t0, hist[2] = t+1, hist[3] = t+2
	hist   [4][]float32
	primed bool
	pad    int // frames duplicated past the end of src
	pos    float64

	frame []float32

	lowpass     bool
	seeded      bool
	filterState []float32
}

var errUnderrun = errors.New("source underrun")

const (
	resamplerLowpassAlpha = 0.5
	resamplerTailFrames   = 2
)

// NewResampler converts src to dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       float64(src.SampleRate()) / float64(dstRate),
		channels:    channels,
		frame:       make([]float32, channels),
		filterState: make([]float32, channels),
	}
	r.lowpass = r.ratio > 1.0

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads exactly one source frame into r.frame.
func (r *Resampler) readFrame() (bool, error) {
	n, err := r.src.ReadSamples(r.frame)
	if n == r.channels {
		if r.lowpass {
			if !r.seeded {
				// avoids a warm-up transient on the first frame
				copy(r.filterState, r.frame)
				r.seeded = true
			}
			for c := range r.channels {
				r.frame[c] = resamplerLowpassAlpha*r.frame[c] + (1-resamplerLowpassAlpha)*r.filterState[c]
				r.filterState[c] = r.frame[c]
			}
		}
		return true, nil
	}
	if err == io.EOF {
		return false, nil
	}
	if err == nil {
		// live sources may have nothing buffered yet
		return false, errUnderrun
	}
	return false, fmt.Errorf("%w", err)
}

// advance shifts the history by one frame. It reports false once the source
// and the tail padding are both exhausted.
func (r *Resampler) advance() (bool, error) {
	ok := false
	if r.pad == 0 {
		var err error
		ok, err = r.readFrame()
		if err != nil {
			return false, err
		}
	}
	if !ok {
		if r.pad >= resamplerTailFrames {
			return false, nil
		}
		r.pad++
		copy(r.frame, r.hist[3])
	}

	first := r.hist[0]
	copy(r.hist[:], r.hist[1:])
	r.hist[3] = first
	copy(r.hist[3], r.frame)

	return true, nil
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.readFrame()
	if err != nil || !ok {
		return false, err
	}
	r.primed = true
	for i := range r.hist {
		copy(r.hist[i], r.frame)
	}

	for range 2 {
		if _, err := r.advance(); err != nil && !errors.Is(err, errUnderrun) {
			return false, err
		}
	}
	return true, nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if errors.Is(err, errUnderrun) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			ok, err := r.advance()
			if errors.Is(err, errUnderrun) {
				r.pos += 1.0
				return written * r.channels, nil
			}
			if err != nil {
				return written * r.channels, err
			}
			if !ok {
				if written == 0 {
					return 0, io.EOF
				}
				return written * r.channels, io.EOF
			}
		}

		alpha := float32(r.pos)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
