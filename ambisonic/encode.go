// SPDX-License-Identifier: EPL-2.0

package ambisonic

import (
	"fmt"
	"math"

	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/utils"
)

// FOA is one first-order ambisonic sample in ACN order with SN3D
// normalisation: W, Y (left), Z (up), X (front).
type FOA [4]float64

// Encode returns the coefficients for a unit signal arriving from dir, given
// in listener space as (front, left, up). A zero direction encodes
// omnidirectionally.
func Encode(front, left, up float64) FOA {
	n := math.Sqrt(front*front + left*left + up*up)
	if n == 0 {
		return FOA{1, 0, 0, 0}
	}
	return FOA{1, left / n, up / n, front / n}
}

// decodeAngle is the off-axis angle of the two virtual cardioid microphones.
const decodeAngle = math.Pi / 3

// DecodeStereo renders the field through two virtual cardioids aimed
// decodeAngle to either side of straight ahead.
func (f FOA) DecodeStereo() (left, right float64) {
	w, y, x := f[0], f[1], f[3]
	front := math.Cos(decodeAngle) * x
	side := math.Sin(decodeAngle) * y
	return 0.5 * (w + front + side), 0.5 * (w + front - side)
}

// toListener expresses the world-space vector v in the listener's
// (front, left, up) frame.
func toListener(listener pose.Pose, v pose.Vector3) (front, left, up float64) {
	f := listener.Forward.Normalize()
	r := f.Cross(listener.Up).Normalize()
	u := r.Cross(f)
	return v.Dot(f), -v.Dot(r), v.Dot(u)
}

// Rolloff selects the distance attenuation curve of a source.
type Rolloff string

const (
	RolloffInverse     Rolloff = "inverse"
	RolloffLinear      Rolloff = "linear"
	RolloffLogarithmic Rolloff = "logarithmic"
	RolloffExponential Rolloff = "exponential"
	RolloffNone        Rolloff = "none"
)

// ParseRolloff maps a rolloff name to its Rolloff.
func ParseRolloff(s string) (Rolloff, error) {
	switch r := Rolloff(s); r {
	case RolloffInverse, RolloffLinear, RolloffLogarithmic, RolloffExponential, RolloffNone:
		return r, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownRolloff)
}

// attenuation is the distance gain of a source at d metres. Every curve is 1
// inside minDist. Linear and logarithmic reach 0 at maxDist; the others hold
// their value beyond it.
func (r Rolloff) attenuation(d, minDist, maxDist float64) float64 {
	if r == RolloffNone {
		return 1
	}
	minDist = max(minDist, 1e-3)
	maxDist = max(maxDist, minDist)
	if d <= minDist {
		return 1
	}

	switch r {
	case RolloffLinear:
		if maxDist == minDist {
			return 0
		}
		return utils.Clamp(1-(d-minDist)/(maxDist-minDist), 0, 1)
	case RolloffLogarithmic:
		if d >= maxDist {
			return 0
		}
		return utils.Clamp(1-math.Log(d/minDist)/math.Log(maxDist/minDist), 0, 1)
	case RolloffExponential:
		ratio := minDist / min(d, maxDist)
		return ratio * ratio
	default:
		return minDist / min(d, maxDist)
	}
}
