// SPDX-License-Identifier: EPL-2.0

package source

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/audiotest"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/spatial"
)

const testRate = 48000

type fixture struct {
	ctx      *graph.Context
	listener spatial.Listener
	baseline int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := graph.NewContext(testRate)
	l, err := spatial.NewListener(ctx, spatial.KindNone)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{ctx: ctx, listener: l, baseline: ctx.Connections()}
}

func (f *fixture) spatializer(t *testing.T) spatial.Spatializer {
	t.Helper()

	sp, err := f.listener.NewSpatializer()
	if err != nil {
		t.Fatal(err)
	}
	return sp
}

func (f *fixture) render(frames int) []float32 {
	out := make([]float32, 2*frames)
	f.ctx.Render(out)
	left := make([]float32, frames)
	for i := range left {
		left[i] = out[2*i]
	}
	return left
}

func constantBuffer(t *testing.T, frames int, v float32) *audio.Buffer {
	t.Helper()

	data := make([]float32, frames)
	for i := range data {
		data[i] = v
	}
	buf, err := audio.NewBuffer(testRate, data)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestNew_UnsupportedInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, in := range []any{42, "voice.wav", nil, (*audio.Buffer)(nil), audiotest.NewSilentSource(testRate, 1, 10)} {
		if _, err := New(f.ctx, f.spatializer(t), in); !errors.Is(err, ErrUnsupportedInput) {
			t.Errorf("New(%T) error = %v, want ErrUnsupportedInput", in, err)
		}
	}

	if _, err := New(f.ctx, nil, constantBuffer(t, 1, 0)); !errors.Is(err, ErrNoSpatializer) {
		t.Errorf("New(nil spatializer) error = %v", err)
	}
}

func TestSource_PlayOverlaps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	src, err := New(f.ctx, f.spatializer(t), constantBuffer(t, 4*graph.RenderQuantum, 0.25), WithLogger(log.Discard()))
	if err != nil {
		t.Fatal(err)
	}

	a, err := src.Play()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := src.Play()
	if a == b {
		t.Errorf("Play() reused handle %q", a)
	}
	if src.Playing() != 2 {
		t.Fatalf("Playing() = %d, want 2", src.Playing())
	}

	left := f.render(graph.RenderQuantum)
	if math.Abs(float64(left[10])-0.5) > 1e-6 {
		t.Errorf("two overlapping plays = %v, want 0.5", left[10])
	}

	if err := src.StopHandle(a); err != nil {
		t.Fatal(err)
	}
	if err := src.StopHandle(a); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("second StopHandle() error = %v", err)
	}
	left = f.render(graph.RenderQuantum)
	if math.Abs(float64(left[10])-0.25) > 1e-6 {
		t.Errorf("one remaining play = %v, want 0.25", left[10])
	}
}

func TestSource_PlaybackEndsAndReleases(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	src, err := New(f.ctx, f.spatializer(t), constantBuffer(t, 100, 1))
	if err != nil {
		t.Fatal(err)
	}
	withSource := f.ctx.Connections()

	if _, err := src.Play(); err != nil {
		t.Fatal(err)
	}
	f.render(4 * graph.RenderQuantum)

	if src.Playing() != 0 {
		t.Errorf("Playing() = %d after the buffer ended", src.Playing())
	}
	if got := f.ctx.Connections(); got != withSource {
		t.Errorf("Connections() = %d, want %d once playback is released", got, withSource)
	}
}

func TestSource_LoopAndStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	src, err := New(f.ctx, f.spatializer(t), constantBuffer(t, 50, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	src.SetLoop(true)
	if !src.Loop() {
		t.Fatal("Loop() = false")
	}
	if _, err := src.Play(); err != nil {
		t.Fatal(err)
	}

	left := f.render(4 * graph.RenderQuantum)
	if left[len(left)-1] != 0.5 {
		t.Errorf("looped playback went quiet: %v", left[len(left)-1])
	}

	src.Stop()
	src.Stop()
	if src.Playing() != 0 {
		t.Errorf("Playing() = %d after Stop()", src.Playing())
	}
	for i, v := range f.render(graph.RenderQuantum) {
		if v != 0 {
			t.Fatalf("frame %d = %v after Stop()", i, v)
		}
	}
}

func TestSource_LiveStreamAttachesWhenActive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	live := audiotest.NewLiveSource(audiotest.NewConstantSource(testRate, 1, -1, 0.75))
	src, err := New(f.ctx, f.spatializer(t), live)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Live() {
		t.Error("Live() = false")
	}
	if _, err := src.Play(); !errors.Is(err, ErrNotPlayable) {
		t.Errorf("Play() on a live source error = %v", err)
	}

	for range 3 {
		if src.Tick() {
			t.Fatal("attached while inactive")
		}
	}
	if src.Attached() {
		t.Fatal("Attached() = true while inactive")
	}

	live.SetActive(true)
	if !src.Tick() {
		t.Fatal("Tick() did not attach an active stream")
	}
	if src.Tick() {
		t.Error("second Tick() attached again")
	}

	left := f.render(graph.RenderQuantum)
	if left[0] != 0.75 {
		t.Errorf("live frame = %v, want 0.75", left[0])
	}
}

func TestSource_ActiveStreamAttachesImmediately(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	live := audiotest.NewLiveSource(audiotest.NewConstantSource(testRate, 1, -1, 0.1))
	live.SetActive(true)
	src, err := New(f.ctx, f.spatializer(t), live)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Attached() {
		t.Error("active stream not attached by New")
	}
}

func TestSource_DisposeIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	src, err := New(f.ctx, f.spatializer(t), constantBuffer(t, 1000, 1))
	if err != nil {
		t.Fatal(err)
	}
	src.SetLoop(true)
	src.Play()
	src.Play()
	f.render(graph.RenderQuantum)

	src.Dispose()
	src.Dispose()

	if got := f.ctx.Connections(); got != f.baseline {
		t.Errorf("Connections() = %d after Dispose, want %d", got, f.baseline)
	}
	if src.Spatializer() != nil {
		t.Error("spatializer still referenced")
	}
	if _, err := src.Play(); !errors.Is(err, ErrDisposed) {
		t.Errorf("Play() after Dispose error = %v", err)
	}
	for i, v := range f.render(graph.RenderQuantum) {
		if v != 0 {
			t.Fatalf("frame %d = %v after Dispose", i, v)
		}
	}
}

type edgeCounter interface {
	NumInputs() int
	NumOutputs() int
}

// teardownRecorder snapshots the graph around the spatializer's Dispose.
type teardownRecorder struct {
	spatial.Spatializer
	src *Source

	calls               int
	feeding             int // playbacks still wired into the source output
	inputs, outputs     int
	outputsAfterDispose int
}

func (r *teardownRecorder) Dispose() {
	in := r.Spatializer.Input().(edgeCounter)
	r.calls++
	r.feeding = r.src.output.NumInputs()
	r.inputs, r.outputs = in.NumInputs(), in.NumOutputs()
	r.Spatializer.Dispose()
	r.outputsAfterDispose = in.NumOutputs()
}

func TestSource_DisposeOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := &teardownRecorder{Spatializer: f.spatializer(t)}
	src, err := New(f.ctx, rec, constantBuffer(t, 1000, 1))
	if err != nil {
		t.Fatal(err)
	}
	rec.src = src
	src.SetLoop(true)
	if _, err := src.Play(); err != nil {
		t.Fatal(err)
	}
	f.render(graph.RenderQuantum)

	in := rec.Spatializer.Input().(edgeCounter)
	src.Dispose()
	src.Dispose()

	if rec.calls != 1 {
		t.Fatalf("spatializer disposed %d times, want 1", rec.calls)
	}
	if rec.feeding != 0 {
		t.Errorf("%d playbacks still wired when the spatializer was disposed", rec.feeding)
	}
	// the source still feeds the spatializer while its route is torn down
	if rec.inputs != 1 || rec.outputs != 1 {
		t.Errorf("at spatializer dispose: %d inputs, %d outputs; want 1 and 1", rec.inputs, rec.outputs)
	}
	if rec.outputsAfterDispose != 0 {
		t.Errorf("spatializer route survived its Dispose: %d outputs", rec.outputsAfterDispose)
	}
	if got := in.NumInputs(); got != 0 {
		t.Errorf("spatializer input has %d edges after Source.Dispose", got)
	}
}

func TestSource_DisposeCancelsLivePoll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	live := audiotest.NewLiveSource(audiotest.NewConstantSource(testRate, 1, -1, 1))
	src, err := New(f.ctx, f.spatializer(t), live)
	if err != nil {
		t.Fatal(err)
	}
	src.Dispose()

	live.SetActive(true)
	if src.Tick() {
		t.Error("Tick() attached after Dispose")
	}
	if got := f.ctx.Connections(); got != f.baseline {
		t.Errorf("Connections() = %d, want %d", got, f.baseline)
	}
}

func TestSource_GainAndAnalyser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	live := audiotest.NewLiveSource(audiotest.NewSineSource(testRate, 1, -1, 1000))
	live.SetActive(true)
	src, err := New(f.ctx, f.spatializer(t), live, WithAnalyser(1024, 0))
	if err != nil {
		t.Fatal(err)
	}
	if src.Analyser().FFTSize() != 1024 {
		t.Errorf("FFTSize() = %d, want 1024", src.Analyser().FFTSize())
	}

	f.render(1024)
	spectrum := make([]float32, src.Analyser().FrequencyBinCount())
	src.Analyser().FloatFrequencyData(spectrum)

	peak := 0
	for k := range spectrum {
		if spectrum[k] > spectrum[peak] {
			peak = k
		}
	}
	// 1000 Hz at 46.875 Hz per bin
	if peak < 20 || peak > 22 {
		t.Errorf("spectral peak at bin %d, want about 21", peak)
	}

	src.SetGain(0)
	if src.Gain() != 0 {
		t.Errorf("Gain() = %v", src.Gain())
	}
	f.render(graph.RenderQuantum)
	for i, v := range f.render(graph.RenderQuantum) {
		if v != 0 {
			t.Fatalf("frame %d = %v with zero gain", i, v)
		}
	}
}

func TestNew_ForeignSpatializer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	other := newFixture(t)
	if _, err := New(f.ctx, other.spatializer(t), constantBuffer(t, 1, 0)); !errors.Is(err, graph.ErrContextMismatch) {
		t.Errorf("New() error = %v, want ErrContextMismatch", err)
	}
}
