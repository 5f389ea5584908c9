// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"sync"

	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
)

// Spatializer places one participant's audio in space.
//
// Update pushes a pose into the audio graph. t is the audio clock in
// seconds; variants that write parameters immediately ignore it. Calling
// Update twice with the same pose and time leaves the graph as after the
// first call.
type Spatializer interface {
	// Input is the node the participant's audio connects to.
	Input() graph.Node
	Update(p pose.Pose, t float64)
	SetAudioProperties(props AudioProperties)
	AudioProperties() AudioProperties
	// Dispose disconnects the spatializer from its destination bus. It is
	// safe to call more than once.
	Dispose()
}

// PoseSource reports where the listener currently is.
type PoseSource interface {
	Pose() pose.Pose
}

// base carries what every variant shares.
type base struct {
	mu       sync.Mutex
	props    AudioProperties
	disposed bool
}

func (b *base) AudioProperties() AudioProperties {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props
}

// dispose reports whether this is the first call.
func (b *base) dispose() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return false
	}
	b.disposed = true
	return true
}

// Direct routes audio to the bus unchanged.
type Direct struct {
	base
	input *graph.Gain
}

// NewDirect creates a pass-through spatializer feeding bus.
func NewDirect(ctx *graph.Context, bus graph.Node) (*Direct, error) {
	d := &Direct{input: graph.NewGain(ctx)}
	d.props = DefaultAudioProperties()
	if err := d.input.Connect(bus); err != nil {
		return nil, fmt.Errorf("direct spatializer: %w", err)
	}
	return d, nil
}

func (d *Direct) Input() graph.Node         { return d.input }
func (d *Direct) Update(pose.Pose, float64) {}

func (d *Direct) SetAudioProperties(props AudioProperties) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.props = props
}

func (d *Direct) Dispose() {
	if d.dispose() {
		d.input.DisconnectAll()
	}
}
