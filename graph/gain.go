// SPDX-License-Identifier: EPL-2.0

package graph

import "math"

// Gain scales its input. Gain changes are spread across the quantum so
// automation does not click.
type Gain struct {
	node
	gain *Param
	last float64
	seen bool
}

// NewGain creates a unity gain node.
func NewGain(ctx *Context) *Gain {
	g := &Gain{}
	g.init(ctx, "gain", g)
	g.gain = newParam(ctx, "gain", 1, math.Inf(-1), math.Inf(1))
	return g
}

func (g *Gain) Gain() *Param { return g.gain }

func (g *Gain) process(in, out *bus, t float64) {
	target := g.gain.sample(t)
	if !g.seen {
		g.last = target
		g.seen = true
	}

	out.zero(in.channels)
	from := g.last
	step := (target - from) / RenderQuantum
	for c := range in.channels {
		v := from
		for i, s := range in.data[c] {
			v += step
			out.data[c][i] = s * float32(v)
		}
	}
	g.last = target
}
