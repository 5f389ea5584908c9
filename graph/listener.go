// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audspace/pose"
)

// Listener is the context's ear. Panner nodes read it every quantum.
type Listener struct {
	ctx *Context

	PositionX, PositionY, PositionZ *Param
	ForwardX, ForwardY, ForwardZ    *Param
	UpX, UpY, UpZ                   *Param
}

func newListener(ctx *Context) *Listener {
	inf := math.Inf(1)
	p := func(name string, def float64) *Param {
		return newParam(ctx, "listener."+name, def, -inf, inf)
	}

	return &Listener{
		ctx:       ctx,
		PositionX: p("positionX", 0),
		PositionY: p("positionY", 0),
		PositionZ: p("positionZ", 0),
		ForwardX:  p("forwardX", pose.DefaultForward.X),
		ForwardY:  p("forwardY", pose.DefaultForward.Y),
		ForwardZ:  p("forwardZ", pose.DefaultForward.Z),
		UpX:       p("upX", pose.DefaultUp.X),
		UpY:       p("upY", pose.DefaultUp.Y),
		UpZ:       p("upZ", pose.DefaultUp.Z),
	}
}

// SetPosition writes the position immediately.
func (l *Listener) SetPosition(x, y, z float64) {
	l.PositionX.SetValue(x)
	l.PositionY.SetValue(y)
	l.PositionZ.SetValue(z)
}

// SetOrientation writes forward and up immediately.
func (l *Listener) SetOrientation(fx, fy, fz, ux, uy, uz float64) {
	l.ForwardX.SetValue(fx)
	l.ForwardY.SetValue(fy)
	l.ForwardZ.SetValue(fz)
	l.UpX.SetValue(ux)
	l.UpY.SetValue(uy)
	l.UpZ.SetValue(uz)
}

// Pose returns the most recently computed listener pose.
func (l *Listener) Pose() pose.Pose {
	l.ctx.mu.Lock()
	defer l.ctx.mu.Unlock()
	return l.poseLocked()
}

func (l *Listener) poseLocked() pose.Pose {
	return pose.Pose{
		Position: pose.Vec3(l.PositionX.value, l.PositionY.value, l.PositionZ.value),
		Forward:  pose.Vec3(l.ForwardX.value, l.ForwardY.value, l.ForwardZ.value),
		Up:       pose.Vec3(l.UpX.value, l.UpY.value, l.UpZ.value),
	}
}

func (l *Listener) sample(t float64) pose.Pose {
	for _, p := range []*Param{
		l.PositionX, l.PositionY, l.PositionZ,
		l.ForwardX, l.ForwardY, l.ForwardZ,
		l.UpX, l.UpY, l.UpZ,
	} {
		p.sample(t)
	}
	return l.poseLocked()
}
