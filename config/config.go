// SPDX-License-Identifier: EPL-2.0

// Package config loads the engine configuration from YAML, with a few
// environment overrides on top.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/spatial"
)

// Environment overrides.
const (
	EnvLogLevel    = "AUDSPACE_LOG_LEVEL"
	EnvSpatializer = "AUDSPACE_SPATIALIZER"
	EnvSampleRate  = "AUDSPACE_SAMPLE_RATE"
)

// KindAuto selects the spatializer from Tier and Capabilities.
const KindAuto = "auto"

type Config struct {
	SampleRate   int     `yaml:"sample_rate"`
	BufferFrames int     `yaml:"buffer_frames"` // frames per Render call when driving output
	LogLevel     string  `yaml:"log_level"`
	MasterGainDB float64 `yaml:"master_gain_db"`

	Spatializer Spatializer             `yaml:"spatializer"`
	Audio       spatial.AudioProperties `yaml:"audio"`
	Analyser    Analyser                `yaml:"analyser"`
	Offset      [3]float64              `yaml:"offset"` // comfort offset applied to every pose
	MuteFade    Fade                    `yaml:"mute_fade"`
}

type Spatializer struct {
	Kind         string       `yaml:"kind"` // a spatial.Kind or "auto"
	Tier         string       `yaml:"tier"`
	Capabilities Capabilities `yaml:"capabilities"`
}

type Capabilities struct {
	Panner     bool `yaml:"panner"`
	Automation bool `yaml:"automation"`
	Ambisonics bool `yaml:"ambisonics"`
}

type Analyser struct {
	FFTSize   int     `yaml:"fft_size"`
	Smoothing float64 `yaml:"smoothing"`
}

// Fade is the spring that moves a participant's gain on mute changes.
type Fade struct {
	FPS       int     `yaml:"fps"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	caps := spatial.FullCapabilities()
	return Config{
		SampleRate:   48000,
		BufferFrames: 1024,
		LogLevel:     "info",
		Spatializer: Spatializer{
			Kind: KindAuto,
			Tier: spatial.TierHigh.String(),
			Capabilities: Capabilities{
				Panner:     caps.Panner,
				Automation: caps.Automation,
				Ambisonics: caps.Ambisonics,
			},
		},
		Audio: spatial.DefaultAudioProperties(),
		Analyser: Analyser{
			FFTSize:   graph.DefaultFFTSize,
			Smoothing: graph.DefaultSmoothing,
		},
		MuteFade: Fade{FPS: 60, Frequency: 6, Damping: 1},
	}
}

// Load reads path over the defaults, applies the environment and validates.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults, applies the environment and
// validates. Keys missing from data keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvSpatializer); ok && v != "" {
		c.Spatializer.Kind = v
	}
	if v, ok := lookup(EnvSampleRate); ok && v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSampleRate, v, ErrInvalid)
		}
		c.SampleRate = rate
	}
	return nil
}

func (c Config) Validate() error {
	if c.SampleRate < 8000 || c.SampleRate > 384000 {
		return fmt.Errorf("sample rate %d: %w", c.SampleRate, ErrInvalid)
	}
	if c.BufferFrames <= 0 {
		return fmt.Errorf("buffer frames %d: %w", c.BufferFrames, ErrInvalid)
	}
	if math.IsNaN(c.MasterGainDB) || c.MasterGainDB > 24 {
		return fmt.Errorf("master gain %v dB: %w", c.MasterGainDB, ErrInvalid)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Kind(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	if c.Analyser.FFTSize < 32 || c.Analyser.FFTSize > 32768 || c.Analyser.FFTSize&(c.Analyser.FFTSize-1) != 0 {
		return fmt.Errorf("analyser fft size %d: %w", c.Analyser.FFTSize, ErrInvalid)
	}
	if c.Analyser.Smoothing < 0 || c.Analyser.Smoothing > 1 {
		return fmt.Errorf("analyser smoothing %v: %w", c.Analyser.Smoothing, ErrInvalid)
	}
	if c.MuteFade.FPS <= 0 || c.MuteFade.Frequency <= 0 || c.MuteFade.Damping < 0 {
		return fmt.Errorf("mute fade %+v: %w", c.MuteFade, ErrInvalid)
	}
	return nil
}

// Kind resolves the spatializer kind, running SelectKind for "auto".
func (c Config) Kind() (spatial.Kind, error) {
	if !strings.EqualFold(strings.TrimSpace(c.Spatializer.Kind), KindAuto) {
		return spatial.ParseKind(c.Spatializer.Kind)
	}

	tier, err := spatial.ParseTier(c.Spatializer.Tier)
	if err != nil {
		return "", err
	}
	caps := spatial.Capabilities{
		Panner:     c.Spatializer.Capabilities.Panner,
		Automation: c.Spatializer.Capabilities.Automation,
		Ambisonics: c.Spatializer.Capabilities.Ambisonics,
	}
	return spatial.SelectKind(caps, tier), nil
}
