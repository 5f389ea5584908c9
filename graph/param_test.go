// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"testing"
)

func TestParam_Automation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule func(p *Param)
		at       []float64
		want     []float64
	}{
		{
			name:     "no events holds default",
			schedule: func(*Param) {},
			at:       []float64{0, 1, 10},
			want:     []float64{1, 1, 1},
		},
		{
			name:     "set value at time",
			schedule: func(p *Param) { p.SetValueAtTime(0.25, 1) },
			at:       []float64{0.5, 1, 2},
			want:     []float64{1, 0.25, 0.25},
		},
		{
			name: "linear ramp from previous event",
			schedule: func(p *Param) {
				p.SetValueAtTime(0, 0)
				p.LinearRampToValueAtTime(1, 1)
			},
			at:   []float64{0, 0.5, 0.75, 1, 3},
			want: []float64{0, 0.5, 0.75, 1, 1},
		},
		{
			name:     "ramp with nothing before starts now",
			schedule: func(p *Param) { p.LinearRampToValueAtTime(0, 1) },
			at:       []float64{0.25, 0.5},
			want:     []float64{0.75, 0.5},
		},
		{
			name:     "set target",
			schedule: func(p *Param) { p.SetTargetAtTime(0, 0, 1) },
			at:       []float64{1, 2},
			want:     []float64{math.Exp(-1), math.Exp(-2)},
		},
		{
			name:     "set target with zero time constant jumps",
			schedule: func(p *Param) { p.SetTargetAtTime(3, 0.5, 0) },
			at:       []float64{0.25, 0.5},
			want:     []float64{1, 3},
		},
		{
			name: "events sorted by time",
			schedule: func(p *Param) {
				p.SetValueAtTime(2, 2)
				p.SetValueAtTime(1.5, 1)
			},
			at:   []float64{1.5, 2.5},
			want: []float64{1.5, 2},
		},
		{
			name: "cancel drops later events",
			schedule: func(p *Param) {
				p.SetValueAtTime(5, 1)
				p.SetValueAtTime(7, 2)
				p.CancelScheduledValues(1.5)
			},
			at:   []float64{1, 3},
			want: []float64{5, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewGain(NewContext(testRate)).Gain()
			tt.schedule(p)
			for i, at := range tt.at {
				if got := p.sample(at); math.Abs(got-tt.want[i]) > 1e-9 {
					t.Errorf("sample(%v) = %v, want %v", at, got, tt.want[i])
				}
			}
		})
	}
}

func TestParam_SetValueCancelsSchedule(t *testing.T) {
	t.Parallel()

	p := NewGain(NewContext(testRate)).Gain()
	p.LinearRampToValueAtTime(0, 1)
	p.SetValue(0.4)

	if p.Value() != 0.4 {
		t.Errorf("Value() = %v, want 0.4", p.Value())
	}
	if got := p.sample(0.5); got != 0.4 {
		t.Errorf("sample(0.5) = %v, want ramp cancelled", got)
	}
}

func TestParam_Clamps(t *testing.T) {
	t.Parallel()

	p := NewStereoPanner(NewContext(testRate)).Pan()
	p.SetValue(3)
	if p.Value() != 1 {
		t.Errorf("Value() = %v, want clamped to 1", p.Value())
	}
	p.SetValue(math.NaN())
	if p.Value() != 0 {
		t.Errorf("Value() = %v, want NaN replaced by default", p.Value())
	}
}

func TestGain_RampsAcrossQuantum(t *testing.T) {
	t.Parallel()

	ctx := NewContext(testRate)
	gain := NewGain(ctx)
	_ = constant(ctx, 1).Connect(gain)
	_ = gain.Connect(ctx.Destination())

	render(ctx, RenderQuantum)
	gain.Gain().SetValue(0)
	left, _ := render(ctx, RenderQuantum)

	for i := 1; i < len(left); i++ {
		if left[i] > left[i-1] {
			t.Fatalf("gain rose at frame %d: %v -> %v", i, left[i-1], left[i])
		}
	}
	if left[0] < 0.9 || left[len(left)-1] != 0 {
		t.Errorf("ramp = %v .. %v, want from ~1 down to 0", left[0], left[len(left)-1])
	}
}

func TestStereoPanner_EqualPower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pan         float64
		left, right float64
	}{
		{-1, 1, 0},
		{0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{1, 0, 1},
	}

	for _, tt := range tests {
		ctx := NewContext(testRate)
		p := NewStereoPanner(ctx)
		p.Pan().SetValue(tt.pan)
		_ = constant(ctx, 1).Connect(p)
		_ = p.Connect(ctx.Destination())

		left, right := render(ctx, RenderQuantum)
		if math.Abs(float64(left[64])-tt.left) > 1e-6 || math.Abs(float64(right[64])-tt.right) > 1e-6 {
			t.Errorf("pan %v = (%v, %v), want (%v, %v)", tt.pan, left[64], right[64], tt.left, tt.right)
		}
	}
}

func TestParam_Pending(t *testing.T) {
	t.Parallel()

	ctx := NewContext(48000)
	g := NewGain(ctx)
	p := g.Gain()

	p.SetValueAtTime(0.5, 0)
	p.SetValueAtTime(0.25, 1)
	if got := p.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}
	p.CancelScheduledValues(1)
	if got := p.Pending(); got != 1 {
		t.Errorf("Pending() after cancel = %d, want 1", got)
	}
	_ = g.Connect(ctx.Destination())
	ctx.Render(make([]float32, 2*RenderQuantum))
	if got := p.Pending(); got != 0 || p.Value() != 0.5 {
		t.Errorf("after render Pending() = %d, Value() = %v", got, p.Value())
	}
}
