// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/ik5/audspace/config"
)

const settleEpsilon = 1e-3

// fader springs a participant's gain toward 0 or 1 when their mute state
// changes, one step per tick.
type fader struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newFader(c config.Fade) fader {
	return fader{
		spring: harmonica.NewSpring(harmonica.FPS(c.FPS), c.Frequency, c.Damping),
		pos:    1,
		target: 1,
	}
}

func (f *fader) setMuted(muted bool) {
	f.target = 1
	if muted {
		f.target = 0
	}
}

func (f *fader) settled() bool {
	return f.pos == f.target && f.vel == 0
}

// step advances the spring and returns the gain to apply, or false when the
// fader is at rest.
func (f *fader) step() (float64, bool) {
	if f.settled() {
		return f.pos, false
	}

	f.pos, f.vel = f.spring.Update(f.pos, f.vel, f.target)
	if math.Abs(f.pos-f.target) < settleEpsilon && math.Abs(f.vel) < settleEpsilon {
		f.pos, f.vel = f.target, 0
	}
	return min(max(f.pos, 0), 1), true
}

// gain is the current output level.
func (f *fader) gain() float64 {
	return min(max(f.pos, 0), 1)
}
