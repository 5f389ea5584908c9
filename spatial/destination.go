// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"

	"github.com/ik5/audspace/graph"
)

// Destination splits the final mix into a bus for positioned participants
// and one for sounds that must not move (UI cues, local monitor). Both feed
// a master gain on the context destination.
type Destination struct {
	spatialized    *graph.Gain
	nonSpatialized *graph.Gain
	master         *graph.Gain
}

// NewDestination wires both buses through a unity master into ctx.
func NewDestination(ctx *graph.Context) (*Destination, error) {
	d := &Destination{
		spatialized:    graph.NewGain(ctx),
		nonSpatialized: graph.NewGain(ctx),
		master:         graph.NewGain(ctx),
	}

	for _, edge := range [][2]graph.Node{
		{d.spatialized, d.master},
		{d.nonSpatialized, d.master},
		{d.master, ctx.Destination()},
	} {
		if err := edge[0].Connect(edge[1]); err != nil {
			d.Dispose()
			return nil, fmt.Errorf("wiring destination: %w", err)
		}
	}
	return d, nil
}

func (d *Destination) Spatialized() graph.Node    { return d.spatialized }
func (d *Destination) NonSpatialized() graph.Node { return d.nonSpatialized }

// SetVolume sets the master volume immediately.
func (d *Destination) SetVolume(v float64) { d.master.Gain().SetValue(v) }
func (d *Destination) Volume() float64     { return d.master.Gain().Value() }

func (d *Destination) Dispose() {
	d.spatialized.DisconnectAll()
	d.nonSpatialized.DisconnectAll()
	d.master.DisconnectAll()
}
