// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"testing"
)

type fakeOgg struct {
	channels int
	data     []float32
}

func (f *fakeOgg) SampleRate() int { return 48000 }
func (f *fakeOgg) Channels() int   { return f.channels }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); err == nil {
		t.Error("Decode() error = nil, want error")
	}
}

func TestSource_WholeFrames(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeOgg{channels: 2, data: []float32{0.1, 0.2, 0.3, 0.4}}}

	// odd destination sizes are trimmed to whole frames
	buf := make([]float32, 3)
	n, err := src.ReadSamples(buf)
	if n != 2 || err != nil {
		t.Fatalf("ReadSamples() = (%d, %v), want (2, nil)", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 2 || buf[1] != 0.4 {
		t.Fatalf("ReadSamples() = (%d, %v) %v", n, err, buf)
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, EOF)", n, err)
	}
}
