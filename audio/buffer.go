// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is fully decoded PCM held in memory, one slice per channel.
// A Buffer is never mutated after LoadBuffer/NewBuffer return it to a caller
// that shares it, so any number of readers may play it at once.
type Buffer struct {
	sampleRate int
	data       [][]float32
}

// NewBuffer wraps planar channel data. All channels must have the same length.
func NewBuffer(sampleRate int, channels ...[]float32) (*Buffer, error) {
	if sampleRate <= 0 || len(channels) == 0 {
		return nil, ErrInvalidBuffer
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return nil, fmt.Errorf("channel lengths differ: %w", ErrChannelMismatch)
		}
	}

	return &Buffer{sampleRate: sampleRate, data: channels}, nil
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return len(b.data) }
func (b *Buffer) Frames() int     { return len(b.data[0]) }

// Channel returns the samples of channel i. The slice must not be modified.
func (b *Buffer) Channel(i int) []float32 { return b.data[i] }

func (b *Buffer) Duration() time.Duration {
	return time.Duration(float64(b.Frames()) / float64(b.sampleRate) * float64(time.Second))
}

// Reader returns a Source streaming the buffer from the start.
func (b *Buffer) Reader(loop bool) *BufferReader {
	return &BufferReader{buf: b, loop: loop}
}

// LoadBuffer drains src into memory, resampling to sampleRate when it differs
// from the source rate. sampleRate <= 0 keeps the source rate. src is closed.
func LoadBuffer(src Source, sampleRate int) (*Buffer, error) {
	defer src.Close()

	var in Source = src
	if sampleRate > 0 && sampleRate != src.SampleRate() {
		in = NewResampler(src, sampleRate)
	}

	channels := in.Channels()
	if channels <= 0 {
		return nil, ErrInvalidBuffer
	}

	data := make([][]float32, channels)
	tmp := make([]float32, 4096-4096%channels)

	for {
		n, err := in.ReadSamples(tmp)
		frames := n / channels
		for f := range frames {
			for c := range channels {
				data[c] = append(data[c], tmp[f*channels+c])
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loading buffer: %w", err)
		}
		if n == 0 {
			// a decoder with nothing to give and no EOF would spin forever
			break
		}
	}

	return NewBuffer(in.SampleRate(), data...)
}

// BufferReader streams a Buffer as interleaved samples.
type BufferReader struct {
	buf  *Buffer
	pos  int
	loop bool
}

func (r *BufferReader) SampleRate() int { return r.buf.sampleRate }
func (r *BufferReader) Channels() int   { return r.buf.Channels() }
func (r *BufferReader) BufSize() int    { return 4096 }
func (r *BufferReader) Close() error    { return nil }

// Position is the next frame to be read.
func (r *BufferReader) Position() int { return r.pos }

// Seek moves the read position to frame, clamped to the buffer.
func (r *BufferReader) Seek(frame int) {
	r.pos = max(0, min(frame, r.buf.Frames()))
}

func (r *BufferReader) ReadSamples(dst []float32) (int, error) {
	channels := r.buf.Channels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := r.buf.Frames()
	if frames == 0 {
		return 0, io.EOF
	}

	want := len(dst) / channels
	written := 0
	for written < want {
		if r.pos >= frames {
			if !r.loop {
				break
			}
			r.pos = 0
		}

		n := min(want-written, frames-r.pos)
		for f := range n {
			for c := range channels {
				dst[(written+f)*channels+c] = r.buf.data[c][r.pos+f]
			}
		}
		written += n
		r.pos += n
	}

	if written == 0 {
		return 0, io.EOF
	}
	if !r.loop && r.pos >= frames {
		return written * channels, io.EOF
	}
	return written * channels, nil
}
