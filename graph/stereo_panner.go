// SPDX-License-Identifier: EPL-2.0

package graph

import "math"

// StereoPanner places its input between the left and right outputs with an
// equal-power law. Pan is -1 (left) to 1 (right).
type StereoPanner struct {
	node
	pan *Param
}

// NewStereoPanner creates a centred panner.
func NewStereoPanner(ctx *Context) *StereoPanner {
	p := &StereoPanner{}
	p.init(ctx, "stereo-panner", p)
	p.pan = newParam(ctx, "pan", 0, -1, 1)
	return p
}

func (p *StereoPanner) Pan() *Param { return p.pan }

func (p *StereoPanner) process(in, out *bus, t float64) {
	pan := p.pan.sample(t)
	out.zero(2)

	switch in.channels {
	case 0:
	case 1:
		gl, gr := equalPower((pan + 1) / 2)
		for i, s := range in.data[0] {
			out.data[0][i] = s * gl
			out.data[1][i] = s * gr
		}
	default:
		// stereo input: the far channel bleeds into the near one
		var x float64
		if pan <= 0 {
			x = pan + 1
		} else {
			x = pan
		}
		gl, gr := equalPower(x)
		for i := range in.data[0] {
			l, r := in.data[0][i], in.data[1][i]
			if pan <= 0 {
				out.data[0][i] = l + r*gl
				out.data[1][i] = r * gr
			} else {
				out.data[0][i] = l * gl
				out.data[1][i] = r + l*gr
			}
		}
	}
}

// equalPower maps x in [0, 1] to left/right gains with gl^2 + gr^2 = 1.
func equalPower(x float64) (float32, float32) {
	a := x * math.Pi / 2
	return float32(math.Cos(a)), float32(math.Sin(a))
}
