// SPDX-License-Identifier: EPL-2.0

package graph

// Destination is the final stereo mix handed to Render's caller.
type Destination struct {
	node
}

func newDestination(ctx *Context) *Destination {
	d := &Destination{}
	d.init(ctx, "destination", d)
	d.inputChannels = 2
	return d
}

func (d *Destination) process(in, out *bus, _ float64) {
	*out = *in
}
