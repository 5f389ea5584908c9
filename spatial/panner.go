// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"

	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
)

// Panner drives an HRTF panner node. The immediate variant writes position
// and orientation as soon as Update is called; the scheduled variant hands
// them to the node's automation at audio time t, gliding over the
// transition time.
type Panner struct {
	base
	node      *graph.Panner
	scheduled bool
}

// NewPanner creates an HRTF panner feeding bus. With scheduled set, Update
// writes automation at the given audio time instead of immediately.
func NewPanner(ctx *graph.Context, bus graph.Node, scheduled bool) (*Panner, error) {
	p := &Panner{node: graph.NewPanner(ctx), scheduled: scheduled}
	p.node.SetPanningModel(graph.PanningHRTF)
	p.applyProperties(DefaultAudioProperties())

	if err := p.node.Connect(bus); err != nil {
		return nil, fmt.Errorf("panner spatializer: %w", err)
	}
	return p, nil
}

func (p *Panner) Input() graph.Node { return p.node }

// Node exposes the underlying panner.
func (p *Panner) Node() *graph.Panner { return p.node }

func (p *Panner) Update(ps pose.Pose, t float64) {
	pos, fwd := ps.Position, ps.Forward
	if !p.scheduled {
		p.node.SetPosition(pos.X, pos.Y, pos.Z)
		p.node.SetOrientation(fwd.X, fwd.Y, fwd.Z)
		return
	}

	tau := p.AudioProperties().TransitionTime / 3
	for _, w := range []struct {
		param *graph.Param
		v     float64
	}{
		{p.node.PositionX, pos.X}, {p.node.PositionY, pos.Y}, {p.node.PositionZ, pos.Z},
		{p.node.OrientationX, fwd.X}, {p.node.OrientationY, fwd.Y}, {p.node.OrientationZ, fwd.Z},
	} {
		w.param.CancelScheduledValues(t)
		w.param.SetTargetAtTime(w.v, t, tau)
	}
}

func (p *Panner) SetAudioProperties(props AudioProperties) {
	p.applyProperties(props)
}

func (p *Panner) applyProperties(props AudioProperties) {
	p.mu.Lock()
	p.props = props
	p.mu.Unlock()

	p.node.SetRefDistance(props.MinDistance)
	p.node.SetMaxDistance(props.MaxDistance)
	p.node.SetRolloffFactor(props.Rolloff)
	p.node.SetDistanceModel(props.Falloff.distanceModel())
}

func (p *Panner) Dispose() {
	if p.dispose() {
		p.node.DisconnectAll()
	}
}
