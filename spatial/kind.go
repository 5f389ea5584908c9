// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"strings"
)

// Kind selects the spatializer family a Listener builds. One kind is chosen
// per call and applies to every participant.
type Kind string

const (
	KindNone      Kind = "none"
	KindVolume    Kind = "volume"
	KindPannerOld Kind = "panner-old"
	KindPannerNew Kind = "panner-new"
	KindResonance Kind = "resonance"
)

var kinds = []Kind{KindNone, KindVolume, KindPannerOld, KindPannerNew, KindResonance}

// Kinds lists every spatializer kind, lowest fidelity first.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

// ParseKind maps a kind name to its Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Capabilities describe what the audio backend can do.
type Capabilities struct {
	Panner     bool // positional panner nodes
	Automation bool // params accept scheduled automation
	Ambisonics bool // an ambisonic renderer is available
}

// FullCapabilities is what the graph package provides.
func FullCapabilities() Capabilities {
	return Capabilities{Panner: true, Automation: true, Ambisonics: true}
}

// QualityTier is the rendering budget granted to the call.
type QualityTier int

const (
	TierOff QualityTier = iota
	TierLow
	TierMedium
	TierHigh
)

// ParseTier maps a tier name to its QualityTier.
func ParseTier(s string) (QualityTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return TierOff, nil
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	}
	return TierOff, fmt.Errorf("%q: %w", s, ErrUnknownTier)
}

func (t QualityTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "off"
	}
}

// SelectKind picks the most faithful spatializer the backend and tier allow.
func SelectKind(caps Capabilities, tier QualityTier) Kind {
	switch {
	case tier <= TierOff:
		return KindNone
	case tier >= TierHigh && caps.Ambisonics:
		return KindResonance
	case tier >= TierMedium && caps.Panner && caps.Automation:
		return KindPannerNew
	case tier >= TierMedium && caps.Panner:
		return KindPannerOld
	default:
		return KindVolume
	}
}
