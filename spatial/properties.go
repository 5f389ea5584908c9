// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"strings"

	"github.com/ik5/audspace/ambisonic"
	"github.com/ik5/audspace/graph"
)

// FalloffAlgorithm names a distance attenuation curve.
type FalloffAlgorithm string

const (
	FalloffInverse     FalloffAlgorithm = "inverse"
	FalloffLinear      FalloffAlgorithm = "linear"
	FalloffLogarithmic FalloffAlgorithm = "logarithmic"
	FalloffExponential FalloffAlgorithm = "exponential"
)

// ParseFalloff maps a falloff name to its FalloffAlgorithm.
func ParseFalloff(s string) (FalloffAlgorithm, error) {
	switch f := FalloffAlgorithm(strings.ToLower(strings.TrimSpace(s))); f {
	case FalloffInverse, FalloffLinear, FalloffLogarithmic, FalloffExponential:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFalloff)
}

func (f *FalloffAlgorithm) UnmarshalText(text []byte) error {
	v, err := ParseFalloff(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// distanceModel maps f onto the panner's models. The panner has no
// logarithmic curve; inverse stands in for it.
func (f FalloffAlgorithm) distanceModel() graph.DistanceModel {
	switch f {
	case FalloffLinear:
		return graph.DistanceLinear
	case FalloffExponential:
		return graph.DistanceExponential
	default:
		return graph.DistanceInverse
	}
}

func (f FalloffAlgorithm) rolloff() ambisonic.Rolloff {
	switch f {
	case FalloffLinear:
		return ambisonic.RolloffLinear
	case FalloffLogarithmic:
		return ambisonic.RolloffLogarithmic
	case FalloffExponential:
		return ambisonic.RolloffExponential
	default:
		return ambisonic.RolloffInverse
	}
}

// AudioProperties tune how a source fades with distance.
type AudioProperties struct {
	MinDistance    float64          `yaml:"min_distance"`
	MaxDistance    float64          `yaml:"max_distance"`
	Rolloff        float64          `yaml:"rolloff"`
	Falloff        FalloffAlgorithm `yaml:"falloff"`
	TransitionTime float64          `yaml:"transition_time"` // seconds
}

// DefaultAudioProperties returns the properties every spatializer starts with.
func DefaultAudioProperties() AudioProperties {
	return AudioProperties{
		MinDistance:    1,
		MaxDistance:    10000,
		Rolloff:        1,
		Falloff:        FalloffInverse,
		TransitionTime: 0.1,
	}
}

func (p AudioProperties) Validate() error {
	switch {
	case p.MinDistance < 0:
		return fmt.Errorf("min distance %v: %w", p.MinDistance, ErrInvalidProperties)
	case p.MaxDistance < p.MinDistance:
		return fmt.Errorf("max distance %v below min %v: %w", p.MaxDistance, p.MinDistance, ErrInvalidProperties)
	case p.Rolloff < 0:
		return fmt.Errorf("rolloff %v: %w", p.Rolloff, ErrInvalidProperties)
	case p.TransitionTime < 0:
		return fmt.Errorf("transition time %v: %w", p.TransitionTime, ErrInvalidProperties)
	}
	if _, err := ParseFalloff(string(p.Falloff)); err != nil {
		return err
	}
	return nil
}
