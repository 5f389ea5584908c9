// SPDX-License-Identifier: EPL-2.0

package audspace_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/audspace"
	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/formats/wav"
)

func writeStereo(t *testing.T, path string, rate, frames int) {
	t.Helper()

	samples := make([]float32, 2*frames)
	for i := range frames {
		samples[2*i] = 0.5
		samples[2*i+1] = -0.25
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteFloat32(f, rate, 2, samples); err != nil {
		t.Fatal(err)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	got := audspace.NewRegistry().Formats()
	for _, want := range []string{"aif", "aiff", "flac", "mp3", "oga", "ogg", "wav", "wave"} {
		if !slices.Contains(got, want) {
			t.Errorf("Formats() = %v, missing %q", got, want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	writeStereo(t, path, 24000, 1200)
	reg := audspace.NewRegistry()

	stereo, err := audspace.LoadFile(reg, path, 24000, false)
	if err != nil {
		t.Fatal(err)
	}
	if stereo.Channels() != 2 || stereo.Frames() != 1200 {
		t.Errorf("stereo = %d ch x %d frames", stereo.Channels(), stereo.Frames())
	}

	mono, err := audspace.LoadFile(reg, path, 48000, true)
	if err != nil {
		t.Fatal(err)
	}
	if mono.Channels() != 1 || mono.SampleRate() != 48000 {
		t.Errorf("mono = %d ch at %d Hz", mono.Channels(), mono.SampleRate())
	}
	if n := mono.Frames(); n < 2390 || n > 2410 {
		t.Errorf("resampled frames = %d, want about 2400", n)
	}
	if v := mono.Channel(0)[1000]; v < 0.124 || v > 0.126 {
		t.Errorf("downmixed sample = %v, want 0.125", v)
	}
}

func TestOpenFile_Errors(t *testing.T) {
	t.Parallel()

	reg := audspace.NewRegistry()
	if _, err := audspace.OpenFile(reg, "song.xyz"); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("unknown extension error = %v", err)
	}
	if _, err := audspace.OpenFile(reg, filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func ExampleLoadFile() {
	dir, _ := os.MkdirTemp("", "audspace")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ding.wav")
	f, _ := os.Create(path)
	_ = wav.WriteFloat32(f, 44100, 2, make([]float32, 2*44100))
	f.Close()

	buf, err := audspace.LoadFile(audspace.NewRegistry(), path, 48000, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(buf.Channels(), buf.SampleRate())
	// Output: 1 48000
}
