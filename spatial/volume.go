// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"

	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/utils"
)

// Volume approximates position with a gain and a stereo pan, for backends
// without positional panners.
type Volume struct {
	base
	listener PoseSource
	gain     *graph.Gain
	panner   *graph.StereoPanner

	volume, pan float64
}

// NewVolume creates a volume spatializer feeding bus. Levels are computed
// against the pose listener reports on each Update.
func NewVolume(ctx *graph.Context, listener PoseSource, bus graph.Node) (*Volume, error) {
	v := &Volume{
		listener: listener,
		gain:     graph.NewGain(ctx),
		panner:   graph.NewStereoPanner(ctx),
		volume:   1,
	}
	v.props = DefaultAudioProperties()

	if err := v.gain.Connect(v.panner); err != nil {
		return nil, fmt.Errorf("volume spatializer: %w", err)
	}
	if err := v.panner.Connect(bus); err != nil {
		v.gain.DisconnectAll()
		return nil, fmt.Errorf("volume spatializer: %w", err)
	}
	return v, nil
}

func (v *Volume) Input() graph.Node { return v.gain }

// Update sets volume and pan immediately from the listener-relative position.
func (v *Volume) Update(p pose.Pose, _ float64) {
	v.mu.Lock()
	v.volume, v.pan = stereoVolume(v.listener.Pose(), p.Position, v.props.MinDistance, v.props.MaxDistance)
	volume, pan := v.volume, v.pan
	v.mu.Unlock()

	v.gain.Gain().SetValue(volume)
	v.panner.Pan().SetValue(pan)
}

// Levels returns the volume and pan computed by the last Update.
func (v *Volume) Levels() (volume, pan float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume, v.pan
}

func (v *Volume) SetAudioProperties(props AudioProperties) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.props = props
}

func (v *Volume) Dispose() {
	if v.dispose() {
		v.panner.DisconnectAll()
		v.gain.DisconnectAll()
	}
}

// stereoVolume projects the listener-to-source distance through
// [minDist, maxDist], inverts and squares it for volume, and pans by the
// share of the offset along the listener's right.
func stereoVolume(listener pose.Pose, source pose.Vector3, minDist, maxDist float64) (volume, pan float64) {
	delta := source.Sub(listener.Position)
	d := delta.Length()

	var frac float64
	switch {
	case maxDist > minDist:
		frac = utils.Clamp((d-minDist)/(maxDist-minDist), 0, 1)
	case d > minDist:
		frac = 1
	}
	volume = (1 - frac) * (1 - frac)

	if d > 0 {
		pan = utils.Clamp(delta.Dot(listener.Right())/d, -1, 1)
	}
	return volume, pan
}
