// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"testing"

	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/internal/audiotest"
)

func ramp(t *testing.T, frames int) *audio.Buffer {
	t.Helper()

	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(i + 1)
	}
	buf, err := audio.NewBuffer(testRate, data)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestBufferSource_PlaysOnceAndEnds(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewBufferSource(ctx, ramp(t, 100))
	_ = src.Connect(ctx.Destination())

	ended := 0
	src.OnEnded(func() { ended++ })
	if err := src.Start(0); err != nil {
		t.Fatal(err)
	}
	if err := src.Start(0); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	left, _ := render(ctx, 2*RenderQuantum)
	for i, v := range left {
		want := float32(0)
		if i < 100 {
			want = float32(i + 1)
		}
		if v != want {
			t.Fatalf("frame %d = %v, want %v", i, v, want)
		}
	}
	if ended != 1 {
		t.Errorf("OnEnded ran %d times, want 1", ended)
	}
	if src.Playing() {
		t.Error("Playing() = true after the buffer ended")
	}

	src.Stop()
	if ended != 1 {
		t.Errorf("Stop() after end re-ran OnEnded")
	}
}

func TestBufferSource_ScheduledStart(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewBufferSource(ctx, ramp(t, 1000))
	_ = src.Connect(ctx.Destination())
	_ = src.Start(float64(RenderQuantum+64) / testRate)

	left, _ := render(ctx, 3*RenderQuantum)
	for i := range RenderQuantum + 64 {
		if left[i] != 0 {
			t.Fatalf("frame %d = %v before start", i, left[i])
		}
	}
	if left[RenderQuantum+64] != 1 || left[RenderQuantum+65] != 2 {
		t.Errorf("playback began with %v, %v", left[RenderQuantum+64], left[RenderQuantum+65])
	}
}

func TestBufferSource_Loop(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewBufferSource(ctx, ramp(t, 100))
	src.SetLoop(true)
	_ = src.Connect(ctx.Destination())
	_ = src.Start(0)

	left, _ := render(ctx, 300)
	for _, i := range []int{0, 99, 100, 250, 299} {
		if want := float32(i%100 + 1); left[i] != want {
			t.Errorf("frame %d = %v, want %v", i, left[i], want)
		}
	}
	if !src.Playing() {
		t.Error("looping source stopped by itself")
	}
}

func TestBufferSource_StopIdempotent(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewBufferSource(ctx, ramp(t, 10000))
	_ = src.Connect(ctx.Destination())
	_ = src.Start(0)

	ended := 0
	src.OnEnded(func() { ended++ })
	render(ctx, RenderQuantum)

	src.Stop()
	src.Stop()
	if ended != 1 {
		t.Errorf("OnEnded ran %d times, want 1", ended)
	}

	left, _ := render(ctx, RenderQuantum)
	if left[0] != 0 {
		t.Errorf("stopped source still playing: %v", left[0])
	}
}

func TestBufferSource_Resamples(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	buf, _ := audio.NewBuffer(testRate/2, []float32{0, 1, 2, 3, 4, 5, 6, 7})
	src := NewBufferSource(ctx, buf)
	_ = src.Connect(ctx.Destination())
	_ = src.Start(0)

	left, _ := render(ctx, 8)
	want := []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5}
	for i := range want {
		if left[i] != want[i] {
			t.Errorf("frame %d = %v, want %v", i, left[i], want[i])
		}
	}
}

func TestStreamSource_EndsAtEOF(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewStreamSource(ctx, audiotest.NewConstantSource(testRate, 2, 200, 0.5))
	_ = src.Connect(ctx.Destination())

	left, right := render(ctx, 3*RenderQuantum)
	if left[199] != 0.5 || right[199] != 0.5 || left[200] != 0 {
		t.Errorf("frames 199/200 = %v/%v, want stream then silence", left[199], left[200])
	}
	if !src.Done() || src.Err() != nil {
		t.Errorf("Done() = %v, Err() = %v", src.Done(), src.Err())
	}
}

func TestStreamSource_Resamples(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	src := NewStreamSource(ctx, audiotest.NewConstantSource(testRate/2, 1, -1, 0.25))
	_ = src.Connect(ctx.Destination())

	left, _ := render(ctx, 4*RenderQuantum)
	for i := 8; i < len(left); i++ {
		if d := left[i] - 0.25; d > 1e-4 || d < -1e-4 {
			t.Fatalf("frame %d = %v, want 0.25", i, left[i])
		}
	}
}

func TestStreamSource_LiveUnderrun(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	live := audiotest.NewLiveSource(audiotest.NewConstantSource(testRate, 1, -1, 0.75))
	src := NewStreamSource(ctx, live)
	_ = src.Connect(ctx.Destination())

	left, _ := render(ctx, RenderQuantum)
	if left[0] != 0 || src.Done() {
		t.Errorf("inactive stream = %v, done %v; want silence and still running", left[0], src.Done())
	}

	live.SetActive(true)
	left, _ = render(ctx, RenderQuantum)
	if left[0] != 0.75 {
		t.Errorf("active stream = %v, want 0.75", left[0])
	}
}
