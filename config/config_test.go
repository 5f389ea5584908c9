// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audspace/spatial"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	kind, err := cfg.Kind()
	if err != nil || kind != spatial.KindResonance {
		t.Errorf("Default().Kind() = %q, %v, want resonance", kind, err)
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
sample_rate: 44100
spatializer:
  kind: panner-new
audio:
  max_distance: 50
  falloff: linear
analyser:
  fft_size: 1024
offset: [0, -0.5, 0]
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if kind, _ := cfg.Kind(); kind != spatial.KindPannerNew {
		t.Errorf("Kind() = %q", kind)
	}
	if cfg.Audio.MaxDistance != 50 || cfg.Audio.Falloff != spatial.FalloffLinear {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
	if cfg.Audio.MinDistance != 1 || cfg.Audio.TransitionTime != 0.1 {
		t.Errorf("unset audio fields lost their defaults: %+v", cfg.Audio)
	}
	if cfg.Analyser.FFTSize != 1024 || cfg.Analyser.Smoothing != Default().Analyser.Smoothing {
		t.Errorf("Analyser = %+v", cfg.Analyser)
	}
	if cfg.Offset != [3]float64{0, -0.5, 0} {
		t.Errorf("Offset = %v", cfg.Offset)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"sample rate", "sample_rate: 100"},
		{"buffer", "buffer_frames: 0"},
		{"log level", "log_level: chatty"},
		{"kind", "spatializer: {kind: surround}"},
		{"tier", "spatializer: {kind: auto, tier: ultra}"},
		{"distances", "audio: {min_distance: 5, max_distance: 2}"},
		{"fft", "analyser: {fft_size: 1000}"},
		{"smoothing", "analyser: {smoothing: 2}"},
		{"fade", "mute_fade: {fps: 0}"},
		{"master gain", "master_gain_db: 40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() accepted an invalid config")
			}
		})
	}

	if _, err := Parse([]byte("sample_rate: [")); err == nil {
		t.Error("Parse() accepted malformed YAML")
	}
}

func TestConfig_AutoKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier string
		caps Capabilities
		want spatial.Kind
	}{
		{"off", Capabilities{true, true, true}, spatial.KindNone},
		{"low", Capabilities{true, true, true}, spatial.KindVolume},
		{"medium", Capabilities{true, true, true}, spatial.KindPannerNew},
		{"high", Capabilities{true, false, false}, spatial.KindPannerOld},
		{"high", Capabilities{}, spatial.KindVolume},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Spatializer.Tier = tt.tier
		cfg.Spatializer.Capabilities = tt.caps
		if got, err := cfg.Kind(); err != nil || got != tt.want {
			t.Errorf("%s %+v: Kind() = %q, %v, want %q", tt.tier, tt.caps, got, err, tt.want)
		}
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvLogLevel:    "debug",
		EnvSpatializer: "volume",
		EnvSampleRate:  "16000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.Spatializer.Kind != "volume" || cfg.SampleRate != 16000 {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}

	env[EnvSampleRate] = "fast"
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplyEnv() error = %v, want ErrInvalid", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audspace.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
