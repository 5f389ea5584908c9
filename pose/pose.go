// SPDX-License-Identifier: EPL-2.0

package pose

var (
	// DefaultForward is the reference facing: down -z.
	DefaultForward = Vector3{0, 0, -1}
	DefaultUp      = Vector3{0, 1, 0}
)

// Pose is a timestamped position and orientation.
// Forward and Up are unit length and orthogonal, except transiently while blending.
type Pose struct {
	T        float64 // application clock, milliseconds
	Position Vector3
	Forward  Vector3
	Up       Vector3
}

// DefaultPose sits at the origin looking down the reference forward axis.
func DefaultPose() Pose {
	return Pose{Forward: DefaultForward, Up: DefaultUp}
}

// Right is the listener-relative +x axis.
func (p Pose) Right() Vector3 {
	return p.Forward.Cross(p.Up).Normalize()
}

// Equal compares positions and orientations within eps. Timestamps are compared exactly.
func (p Pose) Equal(o Pose, eps float64) bool {
	return p.T == o.T &&
		p.Position.Equal(o.Position, eps) &&
		p.Forward.Equal(o.Forward, eps) &&
		p.Up.Equal(o.Up, eps)
}

// Interpolate blends a towards b at application time t.
// Position is linear in time; Forward and Up are blended and renormalized.
// There is no easing: transitions started at different times stay consistent
// relative to each other.
func Interpolate(a, b Pose, t float64) Pose {
	if t <= a.T {
		return a
	}
	if t >= b.T {
		return b
	}

	// b.T > t > a.T here, so the window is never empty
	p := max(0, min(1, (t-a.T)/(b.T-a.T)))
	return Pose{
		T:        t,
		Position: a.Position.Lerp(b.Position, p),
		Forward:  a.Forward.Nlerp(b.Forward, p),
		Up:       a.Up.Nlerp(b.Up, p),
	}
}
