// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audspace/formats/wav"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/audiotest"
)

func writeTone(t *testing.T, path string, frames int) {
	t.Helper()

	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*220*float64(i)/48000))
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteFloat32(f, 48000, 1, samples); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTone(t, path, 24000)

	out, err := run(t, "--log-level", "error", "info", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"format:      wav", "sample rate: 48000 Hz", "channels:    1", "duration:    500ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "info", filepath.Join(t.TempDir(), "tone.xyz")); err == nil {
		t.Error("info accepted an unknown format")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "bob.wav"), 48000)
	sc := filepath.Join(dir, "call.yaml")
	err := os.WriteFile(sc, []byte(`
duration: 500ms
spatializer: panner-old
participants:
  - id: bob
    file: bob.wav
    keyframes:
      - {at: 0s, position: [-2, 0, -1]}
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "call.wav")
	out, err := run(t, "--log-level", "error", "render", "-s", sc, "-o", output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "rendered 500ms") {
		t.Errorf("render output = %q", out)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if src.Channels() != 2 || src.SampleRate() != 48000 {
		t.Errorf("output is %d Hz x %d", src.SampleRate(), src.Channels())
	}
}

func TestRender_RequiresScenario(t *testing.T) {
	t.Parallel()

	if _, err := run(t, "render"); err == nil {
		t.Error("render ran without --scenario")
	}
}

func TestConfigFlag(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sample_rate: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", path, "info", "x.wav"); err == nil {
		t.Error("invalid config accepted")
	}
	if _, err := run(t, "--log-level", "shout", "info", "x.wav"); err == nil {
		t.Error("invalid log level accepted")
	}
}

func TestGraphReader(t *testing.T) {
	t.Parallel()

	ctx := graph.NewContext(48000)
	src := graph.NewStreamSource(ctx, audiotest.NewConstantSource(48000, 1, -1, 0.5))
	if err := src.Connect(ctx.Destination()); err != nil {
		t.Fatal(err)
	}

	r := &graphReader{ctx: ctx}
	p := make([]byte, 8*100+3)
	n, err := r.Read(p)
	if err != nil || n != 800 {
		t.Fatalf("Read() = %d, %v, want 800 bytes", n, err)
	}
	for i := range 200 {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:])); v != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}
	if n, _ := r.Read(p[:7]); n != 0 {
		t.Errorf("Read() of a partial frame = %d", n)
	}
}
