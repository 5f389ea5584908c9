// SPDX-License-Identifier: EPL-2.0

package pose

import "sync"

// offsetFacingWeight scales forward before the offset shift is added, keeping
// facing stable while the whole pose is comfort-shifted.
const offsetFacingWeight = 2

// Interpolated keeps a pose moving smoothly between keyframes.
//
// start, current and end satisfy start.T <= current.T <= end.T once a target
// has been set. Before that all three are DefaultPose. A standing offset is
// added to every position that enters through SetTarget.
//
// Interpolated is safe for concurrent use; the engine ticks it on the
// application clock while renderers read Current.
type Interpolated struct {
	mu      sync.RWMutex
	start   Pose
	current Pose
	end     Pose
	offset  Vector3
}

// NewInterpolated starts at the default pose. Its first target snaps.
func NewInterpolated() *Interpolated {
	return &Interpolated{
		start:   DefaultPose(),
		current: DefaultPose(),
		end:     DefaultPose(),
	}
}

func (ip *Interpolated) Start() Pose {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return ip.start
}

func (ip *Interpolated) Current() Pose {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return ip.current
}

func (ip *Interpolated) End() Pose {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return ip.end
}

func (ip *Interpolated) Offset() Vector3 {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return ip.offset
}

// SetOffset moves the standing offset. All three poses shift by the change so
// an in-flight transition continues undisturbed. Repeating the same offset is
// a no-op.
func (ip *Interpolated) SetOffset(offset Vector3) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	delta := offset.Sub(ip.offset)
	for _, p := range []*Pose{&ip.start, &ip.current, &ip.end} {
		p.Position = p.Position.Add(delta)
		p.Forward = p.Forward.Scale(offsetFacingWeight).Add(delta).Normalize()
	}
	ip.offset = offset
}

// SetTarget schedules a transition to the given pose, arriving at t+dt.
//
// The transition starts from wherever the pose currently is, not from the
// previous target, so targets arriving faster than transitions complete do
// not pop. dt <= 0, or a first target, snaps instead.
func (ip *Interpolated) SetTarget(position, forward, up Vector3, t, dt float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.setTargetLocked(position, forward, up, t, dt)
}

func (ip *Interpolated) setTargetLocked(position, forward, up Vector3, t, dt float64) {
	ip.end = Pose{
		T:        t + dt,
		Position: position.Add(ip.offset),
		Forward:  forward,
		Up:       up,
	}

	if dt <= 0 || ip.current.T == 0 {
		ip.start = ip.end
		return
	}

	ip.start = ip.current
	ip.start.T = t
}

// SetTargetPosition retargets position only; orientation holds at the last target.
func (ip *Interpolated) SetTargetPosition(position Vector3, t, dt float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.setTargetLocked(position, ip.end.Forward, ip.end.Up, t, dt)
}

// SetTargetOrientation retargets orientation only; position holds at the last target.
func (ip *Interpolated) SetTargetOrientation(forward, up Vector3, t, dt float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	// end.Position already carries the offset
	ip.setTargetLocked(ip.end.Position.Sub(ip.offset), forward, up, t, dt)
}

// Update refreshes Current for application time t and returns it.
func (ip *Interpolated) Update(t float64) Pose {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.current = Interpolate(ip.start, ip.end, t)
	return ip.current
}
