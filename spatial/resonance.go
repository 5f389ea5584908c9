// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"

	"github.com/ik5/audspace/ambisonic"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/utils"
)

// Resonance places a participant in the listener's ambisonic scene. The
// scene owns distance falloff.
type Resonance struct {
	base
	src *ambisonic.Source
}

// NewResonance adds a source to scene.
func NewResonance(scene *ambisonic.Scene) (*Resonance, error) {
	src, err := scene.NewSource()
	if err != nil {
		return nil, fmt.Errorf("resonance spatializer: %w", err)
	}

	r := &Resonance{src: src}
	r.SetAudioProperties(DefaultAudioProperties())
	return r, nil
}

func (r *Resonance) Input() graph.Node { return r.src.Input() }

// Source exposes the scene source.
func (r *Resonance) Source() *ambisonic.Source { return r.src }

func (r *Resonance) Update(p pose.Pose, _ float64) {
	r.src.SetPosition(p.Position.X, p.Position.Y, p.Position.Z)
	r.src.SetOrientation(p.Forward.X, p.Forward.Y, p.Forward.Z, p.Up.X, p.Up.Y, p.Up.Z)
}

// SetAudioProperties forwards the distances and curve to the scene source.
// Rolloff becomes the source gain 1/rolloff; a zero rolloff leaves it at 1.
func (r *Resonance) SetAudioProperties(props AudioProperties) {
	r.mu.Lock()
	r.props = props
	r.mu.Unlock()

	r.src.SetMinDistance(props.MinDistance)
	r.src.SetMaxDistance(props.MaxDistance)
	r.src.SetRolloff(props.Falloff.rolloff())

	gain := 1.0
	if props.Rolloff > 0 {
		gain = utils.Clamp(1/props.Rolloff, 0, 1e3)
	}
	r.src.SetGain(gain)
}

func (r *Resonance) Dispose() {
	if r.dispose() {
		r.src.Dispose()
	}
}
