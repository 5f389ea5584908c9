// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"sync"

	"github.com/ik5/audspace/ambisonic"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
)

// Listener is the local ear. It owns the destination buses and builds the
// one spatializer kind chosen for the call.
type Listener interface {
	Kind() Kind
	// Update moves the ear. t is the audio clock in seconds.
	Update(p pose.Pose, t float64)
	Pose() pose.Pose
	NewSpatializer() (Spatializer, error)
	Destination() *Destination
	Dispose()
}

// NewListener builds the listener for kind along with its destination.
func NewListener(ctx *graph.Context, kind Kind) (Listener, error) {
	dest, err := NewDestination(ctx)
	if err != nil {
		return nil, err
	}

	pl := &plainListener{ctx: ctx, kind: kind, dest: dest, pose: pose.DefaultPose()}
	switch kind {
	case KindNone, KindVolume:
		return pl, nil
	case KindPannerOld, KindPannerNew:
		return &pannerListener{plainListener: pl}, nil
	case KindResonance:
		scene := ambisonic.NewScene(ctx)
		if err := scene.SetRoom(VirtualRoom()); err != nil {
			dest.Dispose()
			return nil, err
		}
		if err := scene.Output().Connect(dest.Spatialized()); err != nil {
			dest.Dispose()
			return nil, fmt.Errorf("resonance listener: %w", err)
		}
		return &resonanceListener{plainListener: pl, scene: scene}, nil
	}

	dest.Dispose()
	return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
}

// VirtualRoom is the room every ambisonic call shares: 10 x 5 x 10 metres,
// open on all sides, with an absorptive floor.
func VirtualRoom() ambisonic.Room {
	return ambisonic.Room{
		Dimensions: pose.Vec3(10, 5, 10),
		Walls: ambisonic.Walls{
			Left:  ambisonic.Transparent,
			Right: ambisonic.Transparent,
			Front: ambisonic.Transparent,
			Back:  ambisonic.Transparent,
			Up:    ambisonic.Transparent,
			Down:  ambisonic.Grass,
		},
	}
}

type plainListener struct {
	ctx  *graph.Context
	kind Kind
	dest *Destination

	mu       sync.Mutex
	pose     pose.Pose
	disposed bool
}

func (l *plainListener) Kind() Kind                { return l.kind }
func (l *plainListener) Destination() *Destination { return l.dest }

func (l *plainListener) Update(p pose.Pose, _ float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pose = p
}

func (l *plainListener) Pose() pose.Pose {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pose
}

func (l *plainListener) checkLive() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return ErrDisposed
	}
	return nil
}

func (l *plainListener) NewSpatializer() (Spatializer, error) {
	if err := l.checkLive(); err != nil {
		return nil, err
	}
	if l.kind == KindVolume {
		v, err := NewVolume(l.ctx, l, l.dest.Spatialized())
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	d, err := NewDirect(l.ctx, l.dest.Spatialized())
	if err != nil {
		return nil, err
	}
	return d, nil
}

// dispose reports whether this is the first call.
func (l *plainListener) dispose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return false
	}
	l.disposed = true
	return true
}

func (l *plainListener) Dispose() {
	if l.dispose() {
		l.dest.Dispose()
	}
}

// pannerListener mirrors the pose onto the context listener that panner
// nodes read, with the same timing discipline as its spatializers.
type pannerListener struct {
	*plainListener
}

func (l *pannerListener) Update(p pose.Pose, t float64) {
	l.plainListener.Update(p, t)

	gl := l.ctx.Listener()
	if l.kind == KindPannerOld {
		gl.SetPosition(p.Position.X, p.Position.Y, p.Position.Z)
		gl.SetOrientation(p.Forward.X, p.Forward.Y, p.Forward.Z, p.Up.X, p.Up.Y, p.Up.Z)
		return
	}

	for _, w := range []struct {
		param *graph.Param
		v     float64
	}{
		{gl.PositionX, p.Position.X}, {gl.PositionY, p.Position.Y}, {gl.PositionZ, p.Position.Z},
		{gl.ForwardX, p.Forward.X}, {gl.ForwardY, p.Forward.Y}, {gl.ForwardZ, p.Forward.Z},
		{gl.UpX, p.Up.X}, {gl.UpY, p.Up.Y}, {gl.UpZ, p.Up.Z},
	} {
		w.param.CancelScheduledValues(t)
		w.param.SetValueAtTime(w.v, t)
	}
}

func (l *pannerListener) NewSpatializer() (Spatializer, error) {
	if err := l.checkLive(); err != nil {
		return nil, err
	}
	p, err := NewPanner(l.ctx, l.dest.Spatialized(), l.kind == KindPannerNew)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type resonanceListener struct {
	*plainListener
	scene *ambisonic.Scene
}

// Scene exposes the ambisonic scene.
func (l *resonanceListener) Scene() *ambisonic.Scene { return l.scene }

func (l *resonanceListener) Update(p pose.Pose, t float64) {
	l.plainListener.Update(p, t)
	l.scene.SetListenerPose(p)
}

func (l *resonanceListener) NewSpatializer() (Spatializer, error) {
	if err := l.checkLive(); err != nil {
		return nil, err
	}
	r, err := NewResonance(l.scene)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (l *resonanceListener) Dispose() {
	if l.dispose() {
		l.scene.Close()
		l.dest.Dispose()
	}
}
