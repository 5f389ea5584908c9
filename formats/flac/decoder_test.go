// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"io"
	"testing"

	"github.com/mewkiz/flac/frame"
)

type fakeStream struct {
	frames []*frame.Frame
	closed bool
}

func (f *fakeStream) ParseNext() (*frame.Frame, error) {
	if len(f.frames) == 0 {
		return nil, io.EOF
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	return fr, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func stereoFrame(left, right []int32) *frame.Frame {
	return &frame.Frame{Subframes: []*frame.Subframe{
		{Samples: left, NSamples: len(left)},
		{Samples: right, NSamples: len(right)},
	}}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("fLaC"))); err == nil {
		t.Error("Decode() error = nil, want error for truncated stream")
	}
}

func TestSource_InterleavesAcrossFrames(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{frames: []*frame.Frame{
		stereoFrame([]int32{16384, 0}, []int32{-16384, 8192}),
		stereoFrame([]int32{-32768}, []int32{0}),
	}}
	src := &source{stream: stream, sampleRate: 44100, channels: 2, scale: 1.0 / 32768}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if n != 4 || err != nil {
		t.Fatalf("first read = (%d, %v), want (4, nil)", n, err)
	}
	want := []float32{0.5, -0.5, 0, 0.25}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	n, err = src.ReadSamples(buf)
	if n != 2 || err != io.EOF || buf[0] != -1 {
		t.Errorf("second read = (%d, %v) %v, want (2, EOF) [-1 0]", n, err, buf[:n])
	}

	if err := src.Close(); err != nil || !stream.closed {
		t.Errorf("Close() = %v, closed = %v", err, stream.closed)
	}
}
