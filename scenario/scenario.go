// SPDX-License-Identifier: EPL-2.0

// Package scenario describes a scripted call in YAML and drives an engine
// through it, either offline or in real time.
//
//	sample_rate: 48000
//	duration: 10s
//	spatializer: panner-new
//	participants:
//	  - id: alice
//	    file: alice.wav
//	    loop: true
//	    keyframes:
//	      - {at: 0s, position: [-2, 0, -1]}
//	      - {at: 4s, position: [2, 0, -1], transition: 3s}
//	    mute:
//	      - {at: 8s, muted: true}
//	  - id: bob
//	    file: bob.ogg
//	    live: {at: 2s, offset: 500ms}
package scenario

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/spatial"
)

const (
	DefaultSampleRate = 48000
	DefaultFPS        = 60
)

type Keyframe struct {
	At         time.Duration `yaml:"at"`
	Position   [3]float64    `yaml:"position"`
	Forward    *[3]float64   `yaml:"forward,omitempty"` // keeps the default facing when unset
	Up         *[3]float64   `yaml:"up,omitempty"`
	Transition time.Duration `yaml:"transition"`
}

// Pose returns the keyframe's target pose.
func (k Keyframe) Pose() pose.Pose {
	p := pose.DefaultPose()
	p.Position = pose.Vec3(k.Position[0], k.Position[1], k.Position[2])
	if k.Forward != nil {
		p.Forward = pose.Vec3(k.Forward[0], k.Forward[1], k.Forward[2]).Normalize()
	}
	if k.Up != nil {
		p.Up = pose.Vec3(k.Up[0], k.Up[1], k.Up[2]).Normalize()
	}
	return p
}

type MuteEvent struct {
	At    time.Duration `yaml:"at"`
	Muted bool          `yaml:"muted"`
}

// Live delivers a participant's clip as a stream that starts flowing at At,
// the way a remote track arrives some time after the participant joins.
type Live struct {
	At     time.Duration `yaml:"at"`
	Offset time.Duration `yaml:"offset"` // position in the clip the stream starts from
}

type Participant struct {
	ID         string                   `yaml:"id"`
	File       string                   `yaml:"file"`
	Loop       bool                     `yaml:"loop"`
	Live       *Live                    `yaml:"live,omitempty"`
	Properties *spatial.AudioProperties `yaml:"properties,omitempty"`
	Keyframes  []Keyframe               `yaml:"keyframes"`
	Mute       []MuteEvent              `yaml:"mute"`
}

// Sound is a one-shot played on the non-spatialized bus.
type Sound struct {
	At   time.Duration `yaml:"at"`
	File string        `yaml:"file"`
}

type Scenario struct {
	SampleRate   int           `yaml:"sample_rate"`
	Duration     time.Duration `yaml:"duration"`
	FPS          int           `yaml:"fps"`
	Spatializer  string        `yaml:"spatializer"` // empty keeps the engine configuration
	Listener     []Keyframe    `yaml:"listener"`
	Participants []Participant `yaml:"participants"`
	Sounds       []Sound       `yaml:"sounds"`

	// Dir resolves relative media paths.
	Dir string `yaml:"-"`
}

// Load reads a scenario file. Media paths resolve against its directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Dir = filepath.Dir(path)
	return sc, nil
}

// Parse decodes and validates a scenario. Participants without an id get a
// random one; keyframes and events are sorted by time.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{SampleRate: DefaultSampleRate, FPS: DefaultFPS}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	for i := range sc.Participants {
		p := &sc.Participants[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		sortByAt(p.Keyframes, func(k Keyframe) time.Duration { return k.At })
		sortByAt(p.Mute, func(m MuteEvent) time.Duration { return m.At })
	}
	sortByAt(sc.Listener, func(k Keyframe) time.Duration { return k.At })
	sortByAt(sc.Sounds, func(s Sound) time.Duration { return s.At })

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func sortByAt[T any](s []T, at func(T) time.Duration) {
	slices.SortStableFunc(s, func(a, b T) int {
		return cmp.Compare(at(a), at(b))
	})
}

func (sc *Scenario) Validate() error {
	switch {
	case sc.SampleRate < 8000:
		return fmt.Errorf("sample rate %d: %w", sc.SampleRate, ErrInvalid)
	case sc.Duration <= 0:
		return fmt.Errorf("duration %v: %w", sc.Duration, ErrInvalid)
	case sc.FPS <= 0 || sc.FPS > 1000:
		return fmt.Errorf("fps %d: %w", sc.FPS, ErrInvalid)
	}
	if sc.Spatializer != "" && sc.Spatializer != "auto" {
		if _, err := spatial.ParseKind(sc.Spatializer); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	seen := make(map[string]bool, len(sc.Participants))
	for _, p := range sc.Participants {
		if seen[p.ID] {
			return fmt.Errorf("duplicate participant %q: %w", p.ID, ErrInvalid)
		}
		seen[p.ID] = true
		if p.File == "" {
			return fmt.Errorf("participant %q has no file: %w", p.ID, ErrInvalid)
		}
		if p.Live != nil && (p.Live.At < 0 || p.Live.Offset < 0) {
			return fmt.Errorf("participant %q live timing: %w", p.ID, ErrInvalid)
		}
		if p.Properties != nil {
			if err := p.Properties.Validate(); err != nil {
				return fmt.Errorf("participant %q: %w", p.ID, err)
			}
		}
	}
	for i, s := range sc.Sounds {
		if s.File == "" {
			return fmt.Errorf("sound %d has no file: %w", i, ErrInvalid)
		}
	}
	return nil
}

// Path resolves a media path from the scenario.
func (sc *Scenario) Path(file string) string {
	if filepath.IsAbs(file) || sc.Dir == "" {
		return file
	}
	return filepath.Join(sc.Dir, file)
}

// Frames is the scenario length in sample frames.
func (sc *Scenario) Frames() int {
	return int(sc.Duration.Seconds() * float64(sc.SampleRate))
}
