// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
		tolerance      float32
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 0.001},
		{"end returns y2", 0, 1, 2, 3, 1, 2, 0.001},
		{"linear data stays linear", 1, 2, 3, 4, 0.25, 2.25, 0.001},
		{"flat zero", 0, 0, 0, 0, 0.5, 0, 0.001},
		{"symmetric crossing", -1, -0.5, 0.5, 1, 0.5, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if diff := float32(math.Abs(float64(got - tt.want))); diff > tt.tolerance {
				t.Errorf("CubicInterpolate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16383},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	if got := Int16ToFloat32(-32768); got != -1 {
		t.Errorf("Int16ToFloat32(-32768) = %v, want -1", got)
	}
	if got := Int16ToFloat32(0); got != 0 {
		t.Errorf("Int16ToFloat32(0) = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(5.0, 0, 1); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v", got)
	}
	if got := Clamp(-5, 0, 60); got != 0 {
		t.Errorf("Clamp(-5, 0, 60) = %v", got)
	}
	if got := Clamp(float32(0.25), 0, 1); got != 0.25 {
		t.Errorf("Clamp(0.25, 0, 1) = %v", got)
	}
}

func TestDecibels(t *testing.T) {
	t.Parallel()

	if got := LinearToDecibels(1); got != 0 {
		t.Errorf("LinearToDecibels(1) = %v, want 0", got)
	}
	if got := LinearToDecibels(0.1); math.Abs(got+20) > 1e-9 {
		t.Errorf("LinearToDecibels(0.1) = %v, want -20", got)
	}
	if got := LinearToDecibels(0); !math.IsInf(got, -1) {
		t.Errorf("LinearToDecibels(0) = %v, want -Inf", got)
	}
	if got := DecibelsToLinear(-20); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("DecibelsToLinear(-20) = %v, want 0.1", got)
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var sink float32
	for i := range b.N {
		sink += CubicInterpolate(0.1, 0.4, 0.2, -0.3, float32(i%100)/100)
	}
	_ = sink
}
