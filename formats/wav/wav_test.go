// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audspace/audio"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := WriteWAV16(&out, 48000, 2, []int16{1, -1, 2, -2}); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	b := out.Bytes()
	if len(b) != headerSize+8 {
		t.Fatalf("len = %d, want %d", len(b), headerSize+8)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Error("missing RIFF/WAVE/data markers")
	}

	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(b[4:8]), 36 + 8},
		{"channels", uint32(binary.LittleEndian.Uint16(b[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(b[24:28]), 48000},
		{"byte rate", binary.LittleEndian.Uint32(b[28:32]), 48000 * 4},
		{"block align", uint32(binary.LittleEndian.Uint16(b[32:34])), 4},
		{"data size", binary.LittleEndian.Uint32(b[40:44]), 8},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestWriteWAV16_InvalidChannels(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(io.Discard, 8000, 0, nil); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("error = %v, want ErrInvalidChannels", err)
	}
}

func TestDecoder_ReadsWrittenFile(t *testing.T) {
	t.Parallel()

	var file bytes.Buffer
	if err := WriteFloat32(&file, 16000, 2, []float32{0.5, -0.5, 0.25, -0.25}); err != nil {
		t.Fatalf("WriteFloat32() error = %v", err)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(file.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 2 {
		t.Fatalf("decoded %d Hz x %d ch, want 16000 x 2", src.SampleRate(), src.Channels())
	}

	buf, err := audio.LoadBuffer(src, 0)
	if err != nil {
		t.Fatalf("LoadBuffer() error = %v", err)
	}
	if buf.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", buf.Frames())
	}
	if d := buf.Channel(1)[1] + 0.25; d > 1e-3 || d < -1e-3 {
		t.Errorf("right channel sample = %v, want -0.25", buf.Channel(1)[1])
	}
}

func TestDecoder_NotWav(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("definitely not a riff file at all, sorry")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("error = %v, want ErrNotWavFile", err)
	}
}
