// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"slices"

	"github.com/ik5/audspace/utils"
)

type eventKind int

const (
	eventSetValue eventKind = iota
	eventLinearRamp
	eventSetTarget
)

type automationEvent struct {
	kind  eventKind
	time  float64
	value float64
	tau   float64
}

// Param is an automatable node parameter. It is evaluated once per render
// quantum (k-rate) against the audio clock.
//
// Scheduled events are kept in time order. A linear ramp runs from the end of
// the previous event; a ramp with nothing scheduled before it runs from the
// value and time at which it was scheduled.
type Param struct {
	ctx      *Context
	name     string
	def      float64
	min, max float64

	value float64 // last computed value

	// the segment currently in effect
	anchorTime   float64
	anchorValue  float64
	targetActive bool
	target       automationEvent

	events []automationEvent
}

func newParam(ctx *Context, name string, def, lo, hi float64) *Param {
	return &Param{
		ctx:         ctx,
		name:        name,
		def:         def,
		min:         lo,
		max:         hi,
		value:       def,
		anchorValue: def,
	}
}

func (p *Param) Name() string          { return p.name }
func (p *Param) DefaultValue() float64 { return p.def }

// Value returns the most recently computed value, or the value set
// immediately with SetValue.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.value
}

// SetValue sets the value now and drops every scheduled event.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	v = p.clamp(v)
	p.events = p.events[:0]
	p.targetActive = false
	p.anchorTime = p.ctx.nowLocked()
	p.anchorValue = v
	p.value = v
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.schedule(automationEvent{kind: eventSetValue, time: max(t, 0), value: v})
}

// LinearRampToValueAtTime ramps linearly so that the value reaches v at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.schedule(automationEvent{kind: eventLinearRamp, time: max(t, 0), value: v})
}

// SetTargetAtTime approaches target exponentially from start with time
// constant tau seconds. tau <= 0 jumps to target at start.
func (p *Param) SetTargetAtTime(target, start, tau float64) {
	p.schedule(automationEvent{kind: eventSetTarget, time: max(start, 0), value: target, tau: max(tau, 0)})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.events = slices.DeleteFunc(p.events, func(e automationEvent) bool {
		return e.time >= t
	})
}

// Pending reports how many scheduled events have not started yet.
func (p *Param) Pending() int {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return len(p.events)
}

func (p *Param) schedule(e automationEvent) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	i := slices.IndexFunc(p.events, func(o automationEvent) bool { return o.time > e.time })
	if i < 0 {
		i = len(p.events)
	}

	if e.kind == eventLinearRamp && i == 0 {
		now := p.ctx.nowLocked()
		p.anchorValue = p.curveLocked(now)
		p.anchorTime = now
		p.targetActive = false
	}

	p.events = slices.Insert(p.events, i, e)
}

// sample evaluates the parameter at audio time t. Repeated calls with the
// same t return the same value.
func (p *Param) sample(t float64) float64 {
	for len(p.events) > 0 && p.events[0].time <= t {
		e := p.events[0]
		if e.kind == eventSetTarget {
			p.anchorValue = p.curveLocked(e.time)
			p.anchorTime = e.time
			p.target = e
			p.targetActive = true
		} else {
			p.anchorValue = e.value
			p.anchorTime = e.time
			p.targetActive = false
		}
		p.events = p.events[1:]
	}

	v := p.curveLocked(t)
	if len(p.events) > 0 && p.events[0].kind == eventLinearRamp {
		e := p.events[0]
		frac := (t - p.anchorTime) / (e.time - p.anchorTime)
		v = utils.Lerp(p.anchorValue, e.value, utils.Clamp(frac, 0, 1))
	}

	p.value = p.clamp(v)
	return p.value
}

func (p *Param) curveLocked(t float64) float64 {
	if !p.targetActive {
		return p.anchorValue
	}
	if p.target.tau == 0 || t < p.anchorTime {
		return p.target.value
	}
	return p.target.value + (p.anchorValue-p.target.value)*math.Exp(-(t-p.anchorTime)/p.target.tau)
}

func (p *Param) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.def
	}
	return utils.Clamp(v, p.min, p.max)
}
